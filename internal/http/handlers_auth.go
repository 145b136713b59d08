package http

import (
	"net/http"

	"github.com/D-J-Software-Engineers/Notes-Management-System/internal/model"
	"github.com/D-J-Software-Engineers/Notes-Management-System/internal/portal"
)

type registerRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Level       string `json:"level"`
	Class       string `json:"class"`
	ClassStream string `json:"classStream,omitempty"`
	Stream      string `json:"stream,omitempty"`
	Combination string `json:"combination,omitempty"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, err := s.lifecycle.Register(r.Context(), portal.RegisterInput{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Level:       model.Level(req.Level),
		Class:       model.Class(req.Class),
		ClassStream: req.ClassStream,
		Stream:      model.Stream(req.Stream),
		Combination: req.Combination,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "registration received, awaiting admin approval",
		"user":    account,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

type loginResponse struct {
	Token string        `json:"token"`
	User  model.Account `json:"user"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}
	requestedRole := model.Role(req.Role)
	if req.Role != "" && !requestedRole.Valid() {
		writeError(w, http.StatusBadRequest, "unknown portal role")
		return
	}

	result, err := s.gate.Login(r.Context(), req.Email, req.Password, requestedRole)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: result.Token, User: result.Account})
}

func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, accountFromContext(r.Context()))
}

type updateProfileRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	account := accountFromContext(r.Context())

	updated, err := s.lifecycle.UpdateProfile(r.Context(), account.ID, req.Name, req.Email)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	account := accountFromContext(r.Context())

	if err := s.lifecycle.ChangePassword(r.Context(), account.ID, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}

// handleLogout exists for client symmetry. Tokens are stateless; the client
// discards its copy and the short TTL bounds the remaining exposure.
func (s *Server) handleLogout(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}
