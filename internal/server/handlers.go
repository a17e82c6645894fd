package server

import (
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/chatlens/chatlens/internal/chatlog"
	"github.com/chatlens/chatlens/internal/dashboard"
	"github.com/chatlens/chatlens/internal/parser"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"analyses":  s.store.Len(),
		"stopwords": s.stopwords.State().String(),
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.version)
}

func (s *Server) handleSeriesNames(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"metrics": dashboard.SeriesNames(),
		"grouped": dashboard.GroupedNames(),
	})
}

// readUploadBody returns the export payload from either a raw
// JSON body or a multipart "file" field, plus a display name.
func readUploadBody(r *http.Request, limit int64) ([]byte, string, error) {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		if err := r.ParseMultipartForm(limit); err != nil {
			return nil, "", fmt.Errorf("parsing multipart form: %w", err)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			return nil, "", fmt.Errorf("file field required")
		}
		defer func(f multipart.File) { _ = f.Close() }(file)

		data, err := io.ReadAll(io.LimitReader(file, limit))
		if err != nil {
			return nil, "", fmt.Errorf("reading upload: %w", err)
		}
		return data, header.Filename, nil
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, limit))
	if err != nil {
		return nil, "", fmt.Errorf("reading request body: %w", err)
	}
	return data, "", nil
}

func (s *Server) handleCreateAnalysis(
	w http.ResponseWriter, r *http.Request,
) {
	data, filename, err := readUploadBody(r, s.cfg.MaxUploadBytes)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		name = filename
	}
	if name == "" {
		name = "conversation"
	}

	msgs, err := parser.ParseExport(data)
	if err != nil {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("parsing export: %v", err))
		return
	}

	bundle := s.assembler.BuildBundle(msgs)
	sess := s.store.Add(name, msgs, bundle)
	log.Printf("analysis %s created: %d messages, %d participants",
		sess.ID, len(msgs), bundle.Stats.Participants)

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":    sess.ID,
		"name":  sess.Name,
		"stats": bundle.Stats,
	})
}

func (s *Server) handleListAnalyses(
	w http.ResponseWriter, _ *http.Request,
) {
	sessions := s.store.List()
	out := make([]map[string]any, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, map[string]any{
			"id":         sess.ID,
			"name":       sess.Name,
			"created_at": sess.CreatedAt,
			"messages":   sess.Bundle.Stats.TotalMessages,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"analyses": out})
}

// session resolves the {id} path parameter, writing a 404 and
// returning nil when the analysis does not exist.
func (s *Server) session(
	w http.ResponseWriter, r *http.Request,
) *dashboard.Session {
	id := chi.URLParam(r, "id")
	sess := s.store.Get(id)
	if sess == nil {
		writeError(w, http.StatusNotFound, "analysis not found")
	}
	return sess
}

func (s *Server) handleDeleteAnalysis(
	w http.ResponseWriter, r *http.Request,
) {
	id := chi.URLParam(r, "id")
	if !s.store.Delete(id) {
		writeError(w, http.StatusNotFound, "analysis not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	writeJSON(w, http.StatusOK, sess.Bundle.Stats)
}

func (s *Server) handleGetBundle(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	writeJSON(w, http.StatusOK, sess.Bundle)
}

func (s *Server) handleGetParticipants(
	w http.ResponseWriter, r *http.Request,
) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"participants": sess.Log.Participants(),
		"profiles":     sess.Bundle.Profiles,
	})
}

// parseCriteria reads the interactive filter parameters. Malformed
// values are rejected; a well-formed but inverted range is a
// legitimate query that matches nothing.
func parseCriteria(r *http.Request) (chatlog.Criteria, error) {
	q := r.URL.Query()
	var c chatlog.Criteria

	if v := q.Get("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c, fmt.Errorf("invalid from date: use YYYY-MM-DD")
		}
		c.From = t
	}
	if v := q.Get("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c, fmt.Errorf("invalid to date: use YYYY-MM-DD")
		}
		c.To = t
	}
	// participants=all (or absence) keeps the nil "all" semantics;
	// an explicit list filters by membership.
	if v := q.Get("participants"); v != "" && v != "all" {
		c.Participants = strings.Split(v, ",")
	}
	return c, nil
}

func (s *Server) handleGetSeries(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}

	criteria, err := parseCriteria(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	metric := chi.URLParam(r, "metric")
	series, err := s.assembler.RebuildSeries(metric, sess.Log, criteria)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, series)
}

func (s *Server) handleGetGrouped(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}

	criteria, err := parseCriteria(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	metric := chi.URLParam(r, "metric")
	series, err := s.assembler.RebuildGrouped(metric, sess.Log, criteria)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, series)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}

	data, err := dashboard.Export(sess.Bundle, sess.Log, time.Now().UTC())
	if err != nil {
		log.Printf("export error: %v", err)
		writeError(w, http.StatusInternalServerError,
			"internal server error")
		return
	}

	filename := fmt.Sprintf("chat-analysis-%s.json",
		time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s"`, filename))
	_, _ = w.Write(data)
}
