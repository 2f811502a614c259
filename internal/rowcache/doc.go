// Package rowcache memoizes descriptor rows by file content, mode and k.
package rowcache
