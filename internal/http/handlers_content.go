package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/D-J-Software-Engineers/Notes-Management-System/internal/model"
	"github.com/D-J-Software-Engineers/Notes-Management-System/internal/portal"
)

type contentRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Subject     string  `json:"subject"`
	Level       string  `json:"level"`
	Class       string  `json:"class"`
	ClassStream *string `json:"classStream,omitempty"`
	Stream      *string `json:"stream,omitempty"`
	Combination *string `json:"combination,omitempty"`
}

func (req contentRequest) toInput() portal.ContentInput {
	return portal.ContentInput{
		Title:       req.Title,
		Description: req.Description,
		Subject:     req.Subject,
		Level:       model.Level(req.Level),
		Class:       model.Class(req.Class),
		ClassStream: req.ClassStream,
		Stream:      req.Stream,
		Combination: req.Combination,
	}
}

// contentResponse flattens the targeting attributes next to the item fields.
// Null in classStream, stream or combination means the item is not restricted
// on that attribute.
type contentResponse struct {
	model.ContentItem
	Level       string  `json:"level"`
	Class       string  `json:"class"`
	ClassStream *string `json:"classStream"`
	Stream      *string `json:"stream"`
	Combination *string `json:"combination"`
}

func toContentResponse(item model.ContentItem) contentResponse {
	return contentResponse{
		ContentItem: item,
		Level:       string(item.Visibility.Level),
		Class:       string(item.Visibility.Class),
		ClassStream: rulePtr(item.Visibility.ClassStream),
		Stream:      rulePtr(item.Visibility.Stream),
		Combination: rulePtr(item.Visibility.Combination),
	}
}

func toContentResponses(items []model.ContentItem) []contentResponse {
	out := make([]contentResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toContentResponse(item))
	}
	return out
}

func rulePtr(rule model.Rule) *string {
	if value, ok := rule.Value(); ok {
		return &value
	}
	return nil
}

func (s *Server) handleListContent(kind model.ContentKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewer := accountFromContext(r.Context())
		query := r.URL.Query()
		filter := portal.ContentFilter{
			Subject: query.Get("subject"),
			Limit:   intQuery(query.Get("limit")),
			Offset:  intQuery(query.Get("offset")),
		}
		if viewer.Role == model.RoleAdmin {
			filter.Level = model.Level(query.Get("level"))
			filter.Class = model.Class(query.Get("class"))
		}

		items, err := s.content.ListFor(r.Context(), kind, viewer, filter, query.Get("search"))
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"items": toContentResponses(items),
			"count": len(items),
		})
	}
}

func (s *Server) handleCreateContent(kind model.ContentKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req contentRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		uploader := accountFromContext(r.Context())

		item, err := s.content.Create(r.Context(), kind, req.toInput(), uploader.ID)
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toContentResponse(item))
	}
}

func (s *Server) handleGetContent(kind model.ContentKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewer := accountFromContext(r.Context())
		item, err := s.content.Open(r.Context(), kind, chi.URLParam(r, "itemID"), viewer)
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toContentResponse(item))
	}
}

func (s *Server) handleDownloadContent(kind model.ContentKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewer := accountFromContext(r.Context())
		item, err := s.content.Download(r.Context(), kind, chi.URLParam(r, "itemID"), viewer)
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toContentResponse(item))
	}
}

func (s *Server) handleUpdateContent(kind model.ContentKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req contentRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		item, err := s.content.Update(r.Context(), kind, chi.URLParam(r, "itemID"), req.toInput())
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toContentResponse(item))
	}
}

func (s *Server) handleDeleteContent(kind model.ContentKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.content.Delete(r.Context(), kind, chi.URLParam(r, "itemID")); err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "content deleted"})
	}
}
