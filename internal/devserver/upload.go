// ABOUTME: Upload handler that computes descriptors for submitted molfiles
// ABOUTME: Non-admin sessions claim a mode atomically before computing; failed uploads release it

package devserver

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/2389/molindex/internal/analysis"
	"github.com/2389/molindex/internal/auth"
	"github.com/2389/molindex/internal/indices"
	"github.com/2389/molindex/internal/rowcache"
)

// maxUploadMemory bounds the in-memory part of a multipart upload.
const maxUploadMemory = 32 << 20

// InvalidFileCode is returned when no uploaded file produced a result.
const InvalidFileCode = "invalid_file"

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	id := auth.FromContext(r.Context())
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	defer r.MultipartForm.RemoveAll()

	mode := analysis.ModeDegree
	if raw := r.FormValue("mode"); raw != "" {
		mode = analysis.Mode(raw)
	}
	if !mode.Valid() {
		s.sendJSONError(w, http.StatusBadRequest, "Invalid mode")
		return
	}

	k := analysis.DefaultK
	if mode.TakesK() {
		if raw := strings.TrimSpace(r.FormValue("k")); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				s.sendJSONError(w, http.StatusBadRequest, "Invalid k")
				return
			}
			k = parsed
		}
	}

	// The mode is claimed before any work so concurrent uploads cannot both
	// pass the limit. A claim that yields no rows is handed back.
	if !id.IsAdmin {
		claimed, err := s.usage.ClaimMode(r.Context(), id.Email, mode)
		if err != nil {
			s.logger.Error("failed to claim mode", "email", id.Email, "mode", mode, "error", err)
			s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		if !claimed {
			s.metrics.RecordUpload(string(mode), "limit_exceeded")
			s.sendJSON(w, http.StatusForbidden, limitExceeded{
				Error:   "limit_exceeded",
				Message: s.contactMessage(),
			})
			return
		}
	}

	var rows []analysis.Row
	for _, fh := range r.MultipartForm.File["files"] {
		row, ok := s.processFile(fh, mode, k)
		if ok {
			rows = append(rows, row)
		}
	}
	if len(rows) == 0 {
		if !id.IsAdmin {
			if err := s.usage.ReleaseMode(r.Context(), id.Email, mode); err != nil {
				s.logger.Error("failed to release mode", "email", id.Email, "mode", mode, "error", err)
			}
		}
		s.metrics.RecordUpload(string(mode), "invalid")
		s.sendJSONError(w, http.StatusBadRequest, InvalidFileCode)
		return
	}

	s.metrics.RecordUpload(string(mode), "ok")
	s.logger.Info("upload processed",
		"email", id.Email,
		"mode", mode,
		"k", k,
		"rows", len(rows),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(rows); err != nil {
		s.logger.Debug("failed to write response", "error", err)
	}
}

// processFile computes one row. Files with the wrong extension are skipped
// and unreadable molecules are dropped, matching the backend's behavior of
// answering for whatever subset it could process.
func (s *Server) processFile(fh *multipart.FileHeader, mode analysis.Mode, k int) (analysis.Row, bool) {
	name := path.Base(strings.ReplaceAll(fh.Filename, `\`, "/"))
	if !analysis.HasExtension(name, s.extension) {
		s.metrics.RecordFile("skipped")
		return analysis.Row{}, false
	}

	f, err := fh.Open()
	if err != nil {
		s.logger.Warn("failed to open upload part", "file", name, "error", err)
		s.metrics.RecordFile("invalid")
		return analysis.Row{}, false
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		s.logger.Warn("failed to read upload part", "file", name, "error", err)
		s.metrics.RecordFile("invalid")
		return analysis.Row{}, false
	}

	key := rowcache.Key(content, mode, k)
	if row, ok := s.cache.Get(key, indices.FilenameColumn, name); ok {
		s.metrics.RecordFile("cached")
		return row, true
	}

	row, err := indices.ComputeFile(bytes.NewReader(content), name, mode, k)
	if err != nil {
		s.logger.Warn("file rejected",
			"file", name,
			"size", humanize.Bytes(uint64(len(content))),
			"error", err,
		)
		s.metrics.RecordFile("invalid")
		return analysis.Row{}, false
	}
	s.cache.Put(key, row)
	s.metrics.RecordFile("ok")
	return row, true
}
