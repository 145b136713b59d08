package portal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/D-J-Software-Engineers/Notes-Management-System/internal/model"
)

// ContentCatalog owns the notes, quizzes and resources surfaces. All three
// kinds share the same targeting attributes and the same visibility rules;
// the kind only partitions listings.
type ContentCatalog struct {
	store    ContentStore
	registry *CombinationRegistry
}

func NewContentCatalog(store ContentStore, registry *CombinationRegistry) *ContentCatalog {
	return &ContentCatalog{store: store, registry: registry}
}

// ContentInput is an upload or edit payload. Nil pointer fields leave the
// wildcard-capable attributes unrestricted.
type ContentInput struct {
	Title       string
	Description string
	Subject     string
	Level       model.Level
	Class       model.Class
	ClassStream *string
	Stream      *string
	Combination *string
}

func (c *ContentCatalog) buildVisibility(input ContentInput) (model.Visibility, error) {
	if !input.Level.Valid() {
		return model.Visibility{}, &ValidationError{Message: "level must be o-level or a-level"}
	}
	if !input.Class.BelongsTo(input.Level) {
		return model.Visibility{}, &ValidationError{Message: fmt.Sprintf("class %q is not valid for %s", input.Class, input.Level)}
	}

	visibility := model.Visibility{Level: input.Level, Class: input.Class}
	switch input.Level {
	case model.LevelOLevel:
		if input.Stream != nil {
			return model.Visibility{}, &ValidationError{Message: "academic stream targeting is only for a-level content"}
		}
		if input.Combination != nil {
			return model.Visibility{}, &ValidationError{Message: "combination targeting is only for a-level content"}
		}
		if input.ClassStream != nil {
			name := strings.TrimSpace(*input.ClassStream)
			if name == "" {
				return model.Visibility{}, &ValidationError{Message: "class stream cannot be blank"}
			}
			visibility.ClassStream = model.Only(name)
		}
	case model.LevelALevel:
		if input.ClassStream != nil {
			return model.Visibility{}, &ValidationError{Message: "class stream targeting is only for o-level content"}
		}
		if input.Stream != nil {
			stream := model.Stream(strings.ToLower(strings.TrimSpace(*input.Stream)))
			if !stream.Valid() {
				return model.Visibility{}, &ValidationError{Message: "academic stream must be arts or science"}
			}
			visibility.Stream = model.Only(string(stream))
		}
		if input.Combination != nil {
			code := strings.ToUpper(strings.TrimSpace(*input.Combination))
			if !c.registry.Has(code) {
				return model.Visibility{}, &ValidationError{Message: fmt.Sprintf("unknown combination %q", code)}
			}
			visibility.Combination = model.Only(code)
		}
	}
	return visibility, nil
}

// Create publishes a new item. uploadedBy is the admin account id.
func (c *ContentCatalog) Create(ctx context.Context, kind model.ContentKind, input ContentInput, uploadedBy string) (model.ContentItem, error) {
	if !kind.Valid() {
		return model.ContentItem{}, &ValidationError{Message: fmt.Sprintf("invalid content kind %q", kind)}
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return model.ContentItem{}, &ValidationError{Message: "title is required"}
	}
	subject := strings.TrimSpace(input.Subject)
	if subject == "" {
		return model.ContentItem{}, &ValidationError{Message: "subject is required"}
	}
	visibility, err := c.buildVisibility(input)
	if err != nil {
		return model.ContentItem{}, err
	}

	now := time.Now().UTC()
	item := model.ContentItem{
		ID:          uuid.NewString(),
		Kind:        kind,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Subject:     subject,
		Visibility:  visibility,
		UploadedBy:  uploadedBy,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := c.store.CreateContent(ctx, item); err != nil {
		return model.ContentItem{}, err
	}
	return item, nil
}

// Update replaces an item's descriptive fields and targeting.
func (c *ContentCatalog) Update(ctx context.Context, kind model.ContentKind, id string, input ContentInput) (model.ContentItem, error) {
	item, err := c.get(ctx, kind, id)
	if err != nil {
		return model.ContentItem{}, err
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return model.ContentItem{}, &ValidationError{Message: "title is required"}
	}
	subject := strings.TrimSpace(input.Subject)
	if subject == "" {
		return model.ContentItem{}, &ValidationError{Message: "subject is required"}
	}
	visibility, err := c.buildVisibility(input)
	if err != nil {
		return model.ContentItem{}, err
	}

	item.Title = title
	item.Description = strings.TrimSpace(input.Description)
	item.Subject = subject
	item.Visibility = visibility
	item.UpdatedAt = time.Now().UTC()
	if err := c.store.UpdateContent(ctx, item); err != nil {
		return model.ContentItem{}, err
	}
	return item, nil
}

// Delete removes an item outright.
func (c *ContentCatalog) Delete(ctx context.Context, kind model.ContentKind, id string) error {
	item, err := c.get(ctx, kind, id)
	if err != nil {
		return err
	}
	return c.store.DeleteContent(ctx, item.ID)
}

// Open fetches one item for a viewer and counts the view. A student asking
// for an item outside their placement gets not-found rather than forbidden,
// so the response does not confirm the item exists.
func (c *ContentCatalog) Open(ctx context.Context, kind model.ContentKind, id string, viewer model.Account) (model.ContentItem, error) {
	item, err := c.get(ctx, kind, id)
	if err != nil {
		return model.ContentItem{}, err
	}
	if viewer.Role != model.RoleAdmin {
		if !item.Active || !Visible(viewer.Placement, item.Visibility) {
			return model.ContentItem{}, &NotFoundError{Message: "content item not found"}
		}
	}
	if err := c.store.IncrementContentViews(ctx, item.ID); err != nil {
		return model.ContentItem{}, err
	}
	item.Views++
	return item, nil
}

// Download is Open with the download counter instead of the view counter.
func (c *ContentCatalog) Download(ctx context.Context, kind model.ContentKind, id string, viewer model.Account) (model.ContentItem, error) {
	item, err := c.get(ctx, kind, id)
	if err != nil {
		return model.ContentItem{}, err
	}
	if viewer.Role != model.RoleAdmin {
		if !item.Active || !Visible(viewer.Placement, item.Visibility) {
			return model.ContentItem{}, &NotFoundError{Message: "content item not found"}
		}
	}
	if err := c.store.IncrementContentDownloads(ctx, item.ID); err != nil {
		return model.ContentItem{}, err
	}
	item.Downloads++
	return item, nil
}

// ListFor returns what the account may browse. Students get the visibility
// filter applied over their placement; admins see everything matching the
// coarse filter. Search narrows after visibility on both paths.
func (c *ContentCatalog) ListFor(ctx context.Context, kind model.ContentKind, viewer model.Account, filter ContentFilter, search string) ([]model.ContentItem, error) {
	filter.Kind = kind
	if viewer.Role != model.RoleAdmin {
		filter.Level = viewer.Placement.Level
		filter.Class = viewer.Placement.Class
	}
	items, err := c.store.ListContent(ctx, filter)
	if err != nil {
		return nil, err
	}
	if viewer.Role == model.RoleAdmin {
		if strings.TrimSpace(search) == "" {
			return items, nil
		}
		out := make([]model.ContentItem, 0, len(items))
		for _, item := range items {
			if MatchesSearch(item, search) {
				out = append(out, item)
			}
		}
		return out, nil
	}
	return ListVisible(viewer.Placement, items, search), nil
}

func (c *ContentCatalog) get(ctx context.Context, kind model.ContentKind, id string) (model.ContentItem, error) {
	item, err := c.store.GetContentByID(ctx, id)
	if err != nil {
		return model.ContentItem{}, err
	}
	if item.Kind != kind {
		return model.ContentItem{}, &NotFoundError{Message: "content item not found"}
	}
	return item, nil
}
