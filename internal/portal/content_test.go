package portal_test

import (
	"context"
	"testing"

	"github.com/D-J-Software-Engineers/Notes-Management-System/internal/model"
	"github.com/D-J-Software-Engineers/Notes-Management-System/internal/portal"
	"github.com/D-J-Software-Engineers/Notes-Management-System/internal/repository"
)

func newCatalog(t *testing.T) *portal.ContentCatalog {
	t.Helper()
	return portal.NewContentCatalog(repository.NewMemStore(), newRegistry(t))
}

func strptr(s string) *string { return &s }

func adminViewer() model.Account {
	return model.Account{ID: "admin-1", Role: model.RoleAdmin, Confirmed: true, Active: true}
}

func studentViewer(p model.Placement) model.Account {
	return model.Account{ID: "student-1", Role: model.RoleStudent, Placement: p, Confirmed: true, Active: true}
}

func TestContentCreateValidation(t *testing.T) {
	catalog := newCatalog(t)
	ctx := context.Background()

	base := portal.ContentInput{
		Title:   "Revision Notes",
		Subject: "Mathematics",
		Level:   model.LevelOLevel,
		Class:   model.ClassS2,
	}

	cases := map[string]func(*portal.ContentInput){
		"missing title": func(in *portal.ContentInput) { in.Title = " " },
		"missing subject": func(in *portal.ContentInput) { in.Subject = "" },
		"bad level": func(in *portal.ContentInput) { in.Level = "tertiary" },
		"class outside level": func(in *portal.ContentInput) { in.Class = model.ClassS6 },
		"o-level with stream": func(in *portal.ContentInput) { in.Stream = strptr("science") },
		"o-level with combination": func(in *portal.ContentInput) { in.Combination = strptr("PCM") },
		"blank class stream": func(in *portal.ContentInput) { in.ClassStream = strptr("  ") },
		"a-level with class stream": func(in *portal.ContentInput) {
			in.Level = model.LevelALevel
			in.Class = model.ClassS5
			in.ClassStream = strptr("North")
		},
		"a-level bad stream": func(in *portal.ContentInput) {
			in.Level = model.LevelALevel
			in.Class = model.ClassS5
			in.Stream = strptr("commerce")
		},
		"a-level unknown combination": func(in *portal.ContentInput) {
			in.Level = model.LevelALevel
			in.Class = model.ClassS5
			in.Combination = strptr("XYZ")
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			input := base
			mutate(&input)
			if _, err := catalog.Create(ctx, model.KindNote, input, "admin-1"); !portal.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestContentTargetingNormalized(t *testing.T) {
	catalog := newCatalog(t)

	item, err := catalog.Create(context.Background(), model.KindQuiz, portal.ContentInput{
		Title:       "Mechanics Quiz",
		Subject:     "Physics",
		Level:       model.LevelALevel,
		Class:       model.ClassS5,
		Stream:      strptr(" Science "),
		Combination: strptr("pcm"),
	}, "admin-1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if value, _ := item.Visibility.Stream.Value(); value != "science" {
		t.Fatalf("stream not normalized: %q", value)
	}
	if value, _ := item.Visibility.Combination.Value(); value != "PCM" {
		t.Fatalf("combination not normalized: %q", value)
	}
}

func TestContentOpenCountsViews(t *testing.T) {
	catalog := newCatalog(t)
	ctx := context.Background()

	item, err := catalog.Create(ctx, model.KindNote, portal.ContentInput{
		Title:   "Cells",
		Subject: "Biology",
		Level:   model.LevelOLevel,
		Class:   model.ClassS1,
	}, "admin-1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	viewer := studentViewer(model.Placement{Level: model.LevelOLevel, Class: model.ClassS1})
	opened, err := catalog.Open(ctx, model.KindNote, item.ID, viewer)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if opened.Views != 1 {
		t.Fatalf("expected 1 view, got %d", opened.Views)
	}

	downloaded, err := catalog.Download(ctx, model.KindNote, item.ID, viewer)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if downloaded.Downloads != 1 {
		t.Fatalf("expected 1 download, got %d", downloaded.Downloads)
	}
}

func TestContentHiddenOutsidePlacement(t *testing.T) {
	catalog := newCatalog(t)
	ctx := context.Background()

	item, err := catalog.Create(ctx, model.KindNote, portal.ContentInput{
		Title:       "North Stream Notes",
		Subject:     "English",
		Level:       model.LevelOLevel,
		Class:       model.ClassS2,
		ClassStream: strptr("North"),
	}, "admin-1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	outsider := studentViewer(model.Placement{Level: model.LevelOLevel, Class: model.ClassS2, ClassStream: "South"})
	if _, err := catalog.Open(ctx, model.KindNote, item.ID, outsider); !portal.IsNotFound(err) {
		t.Fatalf("hidden item must read as not found, got %v", err)
	}

	// Admins bypass placement entirely.
	if _, err := catalog.Open(ctx, model.KindNote, item.ID, adminViewer()); err != nil {
		t.Fatalf("admin open: %v", err)
	}
}

func TestContentKindPartition(t *testing.T) {
	catalog := newCatalog(t)
	ctx := context.Background()

	note, err := catalog.Create(ctx, model.KindNote, portal.ContentInput{
		Title:   "Essay Guide",
		Subject: "English",
		Level:   model.LevelOLevel,
		Class:   model.ClassS1,
	}, "admin-1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// A note never answers on the quiz surface.
	if _, err := catalog.Open(ctx, model.KindQuiz, note.ID, adminViewer()); !portal.IsNotFound(err) {
		t.Fatalf("expected not found across kinds, got %v", err)
	}
}

func TestContentListForStudentAndAdmin(t *testing.T) {
	catalog := newCatalog(t)
	ctx := context.Background()

	mk := func(title, classStream string, class model.Class) {
		input := portal.ContentInput{
			Title:   title,
			Subject: "Mathematics",
			Level:   model.LevelOLevel,
			Class:   class,
		}
		if classStream != "" {
			input.ClassStream = strptr(classStream)
		}
		if _, err := catalog.Create(ctx, model.KindNote, input, "admin-1"); err != nil {
			t.Fatalf("create %s: %v", title, err)
		}
	}
	mk("Whole Class Algebra", "", model.ClassS2)
	mk("East Algebra", "East", model.ClassS2)
	mk("West Algebra", "West", model.ClassS2)
	mk("Other Class Algebra", "", model.ClassS3)

	east := studentViewer(model.Placement{Level: model.LevelOLevel, Class: model.ClassS2, ClassStream: "East"})
	items, err := catalog.ListFor(ctx, model.KindNote, east, portal.ContentFilter{}, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("east student expected 2 items, got %d", len(items))
	}

	items, err = catalog.ListFor(ctx, model.KindNote, east, portal.ContentFilter{}, "west")
	if err != nil {
		t.Fatalf("list with search: %v", err)
	}
	if len(items) != 0 {
		t.Fatal("search must not surface items outside the viewer's visibility")
	}

	items, err = catalog.ListFor(ctx, model.KindNote, adminViewer(), portal.ContentFilter{}, "")
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if len(items) != 4 {
		t.Fatalf("admin expected all 4 items, got %d", len(items))
	}
}

func TestContentUpdateRetargets(t *testing.T) {
	catalog := newCatalog(t)
	ctx := context.Background()

	item, err := catalog.Create(ctx, model.KindResource, portal.ContentInput{
		Title:   "Past Papers",
		Subject: "History",
		Level:   model.LevelALevel,
		Class:   model.ClassS6,
	}, "admin-1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := catalog.Update(ctx, model.KindResource, item.ID, portal.ContentInput{
		Title:       "Past Papers 2025",
		Subject:     "History",
		Level:       model.LevelALevel,
		Class:       model.ClassS6,
		Combination: strptr("HEG"),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "Past Papers 2025" {
		t.Fatalf("title not updated: %s", updated.Title)
	}
	if value, _ := updated.Visibility.Combination.Value(); value != "HEG" {
		t.Fatalf("retargeting lost: %q", value)
	}
}

func TestContentDelete(t *testing.T) {
	catalog := newCatalog(t)
	ctx := context.Background()

	item, err := catalog.Create(ctx, model.KindNote, portal.ContentInput{
		Title:   "Old Notes",
		Subject: "Geography",
		Level:   model.LevelOLevel,
		Class:   model.ClassS4,
	}, "admin-1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := catalog.Delete(ctx, model.KindNote, item.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := catalog.Open(ctx, model.KindNote, item.ID, adminViewer()); !portal.IsNotFound(err) {
		t.Fatalf("deleted item must be gone, got %v", err)
	}
}
