package portal

import (
	"strings"

	"github.com/D-J-Software-Engineers/Notes-Management-System/internal/model"
)

// Visible decides whether a content item should be shown to a viewer with
// the given placement. All checks are conjunctive and fail closed: a viewer
// record missing a required field sees nothing, while an unset item
// attribute broadcasts to everyone at the matched level/class.
//
// This is a pure function, safe to call concurrently.
func Visible(viewer model.Placement, item model.Visibility) bool {
	if viewer.Level == "" || viewer.Level != item.Level {
		return false
	}
	if viewer.Class == "" || viewer.Class != item.Class {
		return false
	}

	switch item.Level {
	case model.LevelOLevel:
		if !item.ClassStream.Matches(viewer.ClassStream) {
			return false
		}
	case model.LevelALevel:
		if !item.Stream.Matches(string(viewer.Stream)) {
			return false
		}
		if !item.Combination.Matches(viewer.Combination) {
			return false
		}
	}
	return true
}

// FilterVisible returns the items visible to the viewer, preserving order.
// It is a strict narrowing filter: items are binary visible/not-visible,
// with no partial matching or ranking.
func FilterVisible(viewer model.Placement, items []model.ContentItem) []model.ContentItem {
	out := make([]model.ContentItem, 0, len(items))
	for _, item := range items {
		if Visible(viewer, item.Visibility) {
			out = append(out, item)
		}
	}
	return out
}

// MatchesSearch reports whether the item's title or description contains
// the text, case-insensitively. An empty query matches everything.
func MatchesSearch(item model.ContentItem, text string) bool {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return true
	}
	return strings.Contains(strings.ToLower(item.Title), text) ||
		strings.Contains(strings.ToLower(item.Description), text)
}

// ListVisible narrows the candidate set to what the viewer is placed to see,
// then applies the search predicate. Search runs strictly after visibility
// so it can never surface an item the viewer may not see.
func ListVisible(viewer model.Placement, items []model.ContentItem, search string) []model.ContentItem {
	visible := FilterVisible(viewer, items)
	if strings.TrimSpace(search) == "" {
		return visible
	}
	out := visible[:0]
	for _, item := range visible {
		if MatchesSearch(item, search) {
			out = append(out, item)
		}
	}
	return out
}
