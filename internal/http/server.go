package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/D-J-Software-Engineers/Notes-Management-System/internal/config"
	"github.com/D-J-Software-Engineers/Notes-Management-System/internal/model"
	"github.com/D-J-Software-Engineers/Notes-Management-System/internal/portal"
)

// Store is everything the HTTP surface needs from persistence.
type Store interface {
	portal.AccountStore
	portal.ContentStore
	portal.StreamStore
	portal.SubjectStore
}

type Server struct {
	cfg       config.Config
	store     Store
	lifecycle *portal.AccountLifecycle
	gate      *portal.AuthorizationGate
	registry  *portal.CombinationRegistry
	content   *portal.ContentCatalog
	catalog   *portal.AcademicCatalog
	redis     *redis.Client
}

// NewServer wires the domain services over the given store. redisClient may
// be nil; the dashboard cache is skipped when it is.
func NewServer(cfg config.Config, store Store, redisClient *redis.Client) (*Server, error) {
	registry, err := portal.NewCombinationRegistry(portal.DefaultCombinations())
	if err != nil {
		return nil, err
	}
	return &Server{
		cfg:       cfg,
		store:     store,
		lifecycle: portal.NewAccountLifecycle(store, registry),
		gate:      portal.NewAuthorizationGate(store, cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTokenTTL),
		registry:  registry,
		content:   portal.NewContentCatalog(store, registry),
		catalog:   portal.NewAcademicCatalog(store, store),
		redis:     redisClient,
	}, nil
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/auth/register", s.handleRegister)
	r.Post("/auth/login", s.handleLogin)
	r.With(s.authMiddleware).Get("/auth/me", s.handleGetMe)
	r.With(s.authMiddleware).Patch("/auth/me", s.handleUpdateMe)
	r.With(s.authMiddleware).Post("/auth/password", s.handleChangePassword)
	r.With(s.authMiddleware).Post("/auth/logout", s.handleLogout)

	r.Route("/users", func(r chi.Router) {
		r.Use(s.authMiddleware, s.requireAdmin)
		r.Get("/", s.handleListUsers)
		r.Post("/", s.handleCreateUser)
		r.Get("/pending", s.handlePendingUsers)
		r.Get("/stats", s.handleUserStats)
		r.Get("/{userID}", s.handleGetUser)
		r.Patch("/{userID}", s.handleUpdateUser)
		r.Delete("/{userID}", s.handleDeleteUser)
		r.Post("/{userID}/approve", s.handleApproveUser)
		r.Post("/{userID}/reject", s.handleRejectUser)
		r.Post("/{userID}/activate", s.handleActivateUser)
		r.Post("/{userID}/deactivate", s.handleDeactivateUser)
	})

	s.mountContent(r, "/notes", model.KindNote)
	s.mountContent(r, "/quizzes", model.KindQuiz)
	s.mountContent(r, "/resources", model.KindResource)

	r.Route("/subjects", func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Get("/", s.handleListSubjects)
		r.Get("/combinations", s.handleListCombinations)
		r.Post("/combinations/derive", s.handleDeriveCombination)
		r.With(s.requireAdmin).Post("/", s.handleCreateSubject)
		r.Get("/{subjectID}", s.handleGetSubject)
		r.With(s.requireAdmin).Patch("/{subjectID}", s.handleUpdateSubject)
		r.With(s.requireAdmin).Delete("/{subjectID}", s.handleDeleteSubject)
	})

	r.Route("/streams", func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Get("/", s.handleListStreams)
		r.With(s.requireAdmin).Post("/", s.handleCreateStream)
		r.Get("/{streamID}", s.handleGetStream)
		r.With(s.requireAdmin).Patch("/{streamID}", s.handleUpdateStream)
		r.With(s.requireAdmin).Delete("/{streamID}", s.handleDeleteStream)
	})

	r.With(s.authMiddleware, s.requireAdmin).Get("/dashboard/stats", s.handleDashboardStats)

	return r
}

func (s *Server) mountContent(r chi.Router, prefix string, kind model.ContentKind) {
	r.Route(prefix, func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Get("/", s.handleListContent(kind))
		r.With(s.requireAdmin).Post("/", s.handleCreateContent(kind))
		r.Get("/{itemID}", s.handleGetContent(kind))
		r.Post("/{itemID}/download", s.handleDownloadContent(kind))
		r.With(s.requireAdmin).Patch("/{itemID}", s.handleUpdateContent(kind))
		r.With(s.requireAdmin).Delete("/{itemID}", s.handleDeleteContent(kind))
	})
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing token")
			return
		}

		account, err := s.gate.Authenticate(r.Context(), token)
		if err != nil {
			respondError(w, err)
			return
		}
		if err := s.gate.RequireLive(account); err != nil {
			respondError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), accountKey{}, account)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		account := accountFromContext(r.Context())
		if err := s.gate.RequireRole(account, model.RoleAdmin); err != nil {
			respondError(w, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type accountKey struct{}

func accountFromContext(ctx context.Context) model.Account {
	account, _ := ctx.Value(accountKey{}).(model.Account)
	return account
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func decodeJSON(r *http.Request, out interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// respondError maps the domain error taxonomy onto HTTP statuses. Anything
// outside the taxonomy is an internal error and its detail stays out of the
// response body.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case portal.IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case portal.IsAuthentication(err):
		writeError(w, http.StatusUnauthorized, err.Error())
	case portal.IsAuthorization(err):
		writeError(w, http.StatusForbidden, err.Error())
	case portal.IsNotFound(err):
		writeError(w, http.StatusNotFound, err.Error())
	case portal.IsConflict(err):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "server error")
	}
}
