package web

import (
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/emiliopalmerini/satchel/internal/export"
	"github.com/emiliopalmerini/satchel/internal/ports"
)

func (s *Server) handleAPIExportProfiles(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	limit := 1000
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
		limit = l
	}

	opts := ports.ListProfilesOptions{Limit: limit}
	if slug := r.URL.Query().Get("quiz"); slug != "" {
		opts.QuizSlug = &slug
	}

	records, err := s.svc.ListProfiles(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=profiles.%s", format))
	if err := export.Write(w, format, records); err != nil {
		s.log.Error("export failed", zap.Error(err))
	}
}
