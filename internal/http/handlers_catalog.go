package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/D-J-Software-Engineers/Notes-Management-System/internal/model"
	"github.com/D-J-Software-Engineers/Notes-Management-System/internal/portal"
)

func (s *Server) handleListSubjects(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	subjects, err := s.catalog.ListSubjects(r.Context(),
		model.Level(query.Get("level")),
		model.Class(query.Get("class")),
		model.Stream(query.Get("stream")))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"subjects": emptyIfNil(subjects), "count": len(subjects)})
}

type subjectRequest struct {
	Name       string `json:"name"`
	Code       string `json:"code,omitempty"`
	Level      string `json:"level"`
	Class      string `json:"class,omitempty"`
	Stream     string `json:"stream,omitempty"`
	Compulsory bool   `json:"isCompulsory,omitempty"`
}

func (req subjectRequest) toInput() portal.SubjectInput {
	return portal.SubjectInput{
		Name:       req.Name,
		Code:       req.Code,
		Level:      model.Level(req.Level),
		Class:      model.Class(req.Class),
		Stream:     model.Stream(req.Stream),
		Compulsory: req.Compulsory,
	}
}

func (s *Server) handleCreateSubject(w http.ResponseWriter, r *http.Request) {
	var req subjectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	subject, err := s.catalog.CreateSubject(r.Context(), req.toInput())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, subject)
}

func (s *Server) handleGetSubject(w http.ResponseWriter, r *http.Request) {
	subject, err := s.catalog.GetSubject(r.Context(), chi.URLParam(r, "subjectID"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, subject)
}

func (s *Server) handleUpdateSubject(w http.ResponseWriter, r *http.Request) {
	var req subjectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	subject, err := s.catalog.UpdateSubject(r.Context(), chi.URLParam(r, "subjectID"), req.toInput())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, subject)
}

func (s *Server) handleDeleteSubject(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.DeleteSubject(r.Context(), chi.URLParam(r, "subjectID")); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "subject deleted"})
}

func (s *Server) handleListCombinations(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"combinations": s.registry.Definitions(),
	})
}

type deriveCombinationRequest struct {
	Subjects []string `json:"subjects"`
}

func (s *Server) handleDeriveCombination(w http.ResponseWriter, r *http.Request) {
	var req deriveCombinationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	code, err := s.registry.DeriveCode(req.Subjects)
	if err != nil {
		respondError(w, err)
		return
	}
	def, err := s.registry.Lookup(code)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, def)
}

func (s *Server) handleListStreams(w http.ResponseWriter, r *http.Request) {
	streams, err := s.catalog.ListClassStreams(r.Context(), model.Class(r.URL.Query().Get("class")))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"streams": emptyIfNil(streams), "count": len(streams)})
}

type classStreamRequest struct {
	Name        string `json:"name"`
	Class       string `json:"class"`
	Description string `json:"description,omitempty"`
}

func (s *Server) handleCreateStream(w http.ResponseWriter, r *http.Request) {
	var req classStreamRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	stream, err := s.catalog.CreateClassStream(r.Context(), portal.ClassStreamInput{
		Name:        req.Name,
		Class:       model.Class(req.Class),
		Description: req.Description,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, stream)
}

func (s *Server) handleGetStream(w http.ResponseWriter, r *http.Request) {
	stream, err := s.catalog.GetClassStream(r.Context(), chi.URLParam(r, "streamID"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stream)
}

func (s *Server) handleUpdateStream(w http.ResponseWriter, r *http.Request) {
	var req classStreamRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	stream, err := s.catalog.UpdateClassStream(r.Context(), chi.URLParam(r, "streamID"), portal.ClassStreamInput{
		Name:        req.Name,
		Class:       model.Class(req.Class),
		Description: req.Description,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stream)
}

func (s *Server) handleDeleteStream(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.DeleteClassStream(r.Context(), chi.URLParam(r, "streamID")); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "stream deleted"})
}

const dashboardStatsKey = "dashboard:stats"

// handleDashboardStats serves the account roll-up, cached in Redis when a
// client is configured. Cache failures fall through to the database.
func (s *Server) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	if s.redis != nil {
		if cached, err := s.redis.Get(r.Context(), dashboardStatsKey).Bytes(); err == nil {
			var stats model.AccountStats
			if err := json.Unmarshal(cached, &stats); err == nil {
				writeJSON(w, http.StatusOK, stats)
				return
			}
		}
	}

	stats, err := s.lifecycle.Stats(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	if s.redis != nil {
		if payload, err := json.Marshal(stats); err == nil {
			if err := s.redis.Set(context.WithoutCancel(r.Context()), dashboardStatsKey, payload, s.cfg.StatsCacheTTL).Err(); err != nil {
				log.Printf("dashboard stats cache write failed: %v", err)
			}
		}
	}

	writeJSON(w, http.StatusOK, stats)
}
