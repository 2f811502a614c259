// Package config handles configuration loading for molindex.
//
// # Overview
//
// Configuration is loaded from YAML or TOML files with environment variable
// expansion. Every field has a default, so a missing default file is not an
// error.
//
// # Configuration File
//
// Locations (first match wins):
//
//  1. The -config flag
//  2. Path from MOLINDEX_CONFIG environment variable
//  3. $XDG_CONFIG_HOME/molindex/config.yaml (or ~/.config/molindex/config.yaml)
//
// A path ending in .toml is decoded as TOML.
//
// # Environment Variable Expansion
//
//	devserver:
//	  jwt_secret: "${MOLINDEX_JWT_SECRET}"
//
// # Configuration Sections
//
//	backend:
//	  base_url: "http://localhost:5000"
//	  timeout: "60s"
//	  session_cookie: "session"
//
//	intake:
//	  extension: ".mol"
//	  error_flash: "1s"      # how long the too-many-files indicator stays up
//
//	display:
//	  locale: "en-US"        # number grouping
//	  contact_email: "admin@example.com"
//
//	logging:
//	  level: "info"          # debug, info, warn, error
//	  format: "text"         # text, json
//
//	devserver:
//	  listen_addr: "127.0.0.1:5000"
//	  frontend_url: "http://localhost:5000"
//	  admin_emails: ["admin@example.com"]
//	  contact_email: "admin@example.com"
//	  jwt_secret: "${MOLINDEX_JWT_SECRET}"
//	  database_path: "./molindex.db"
//	  secure_cookies: false
//	  dev_login: true
package config
