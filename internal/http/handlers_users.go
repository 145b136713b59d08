package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/D-J-Software-Engineers/Notes-Management-System/internal/model"
	"github.com/D-J-Software-Engineers/Notes-Management-System/internal/portal"
)

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := portal.AccountFilter{
		Role:   model.Role(query.Get("role")),
		Level:  model.Level(query.Get("level")),
		Class:  model.Class(query.Get("class")),
		Search: query.Get("search"),
		Limit:  intQuery(query.Get("limit")),
		Offset: intQuery(query.Get("offset")),
	}
	if raw := query.Get("isConfirmed"); raw != "" {
		confirmed := raw == "true"
		filter.Confirmed = &confirmed
	}
	if raw := query.Get("isActive"); raw != "" {
		active := raw == "true"
		filter.Active = &active
	}

	accounts, err := s.lifecycle.List(r.Context(), filter)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"users": emptyIfNil(accounts), "count": len(accounts)})
}

type createUserRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Role        string `json:"role"`
	Level       string `json:"level,omitempty"`
	Class       string `json:"class,omitempty"`
	ClassStream string `json:"classStream,omitempty"`
	Stream      string `json:"stream,omitempty"`
	Combination string `json:"combination,omitempty"`
	Confirmed   bool   `json:"isConfirmed,omitempty"`
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, err := s.lifecycle.Create(r.Context(), portal.CreateInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     model.Role(req.Role),
		Placement: model.Placement{
			Level:       model.Level(req.Level),
			Class:       model.Class(req.Class),
			ClassStream: req.ClassStream,
			Stream:      model.Stream(req.Stream),
			Combination: req.Combination,
		},
		Confirmed: req.Confirmed,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, account)
}

func (s *Server) handlePendingUsers(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.lifecycle.Pending(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"users": emptyIfNil(accounts), "count": len(accounts)})
}

func (s *Server) handleUserStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.lifecycle.Stats(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	account, err := s.lifecycle.Get(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, err := s.lifecycle.UpdateProfile(r.Context(), chi.URLParam(r, "userID"), req.Name, req.Email)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	actor := accountFromContext(r.Context())
	if err := s.lifecycle.Delete(r.Context(), chi.URLParam(r, "userID"), actor); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "user deleted"})
}

func (s *Server) handleApproveUser(w http.ResponseWriter, r *http.Request) {
	account, err := s.lifecycle.Approve(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (s *Server) handleRejectUser(w http.ResponseWriter, r *http.Request) {
	if err := s.lifecycle.Reject(r.Context(), chi.URLParam(r, "userID")); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "registration rejected"})
}

func (s *Server) handleActivateUser(w http.ResponseWriter, r *http.Request) {
	account, err := s.lifecycle.Activate(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (s *Server) handleDeactivateUser(w http.ResponseWriter, r *http.Request) {
	account, err := s.lifecycle.Deactivate(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func intQuery(raw string) int {
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0
	}
	return value
}

func emptyIfNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
