package repository

import (
	"context"
	"testing"
	"time"

	"github.com/D-J-Software-Engineers/Notes-Management-System/internal/model"
	"github.com/D-J-Software-Engineers/Notes-Management-System/internal/portal"
)

func seedAccounts(t *testing.T, store *MemStore) {
	t.Helper()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	accounts := []model.Account{
		{ID: "a1", Name: "Admin One", Email: "admin@school.com", Role: model.RoleAdmin, Confirmed: true, Active: true, CreatedAt: base},
		{ID: "s1", Name: "Alice", Email: "alice@school.com", Role: model.RoleStudent, Confirmed: true, Active: true,
			Placement: model.Placement{Level: model.LevelOLevel, Class: model.ClassS2}, CreatedAt: base.Add(time.Hour)},
		{ID: "s2", Name: "Bob", Email: "bob@school.com", Role: model.RoleStudent, Confirmed: false, Active: true,
			Placement: model.Placement{Level: model.LevelALevel, Class: model.ClassS5, Stream: model.StreamScience, Combination: "PCM"},
			CreatedAt: base.Add(2 * time.Hour)},
	}
	for _, account := range accounts {
		if err := store.CreateAccount(context.Background(), account); err != nil {
			t.Fatalf("seed %s: %v", account.ID, err)
		}
	}
}

func TestMemStoreAccountFilters(t *testing.T) {
	store := NewMemStore()
	seedAccounts(t, store)
	ctx := context.Background()

	students, err := store.ListAccounts(ctx, portal.AccountFilter{Role: model.RoleStudent})
	if err != nil {
		t.Fatalf("list students: %v", err)
	}
	if len(students) != 2 {
		t.Fatalf("expected 2 students, got %d", len(students))
	}
	// Newest first.
	if students[0].ID != "s2" {
		t.Fatalf("expected s2 first, got %s", students[0].ID)
	}

	confirmed := true
	got, err := store.ListAccounts(ctx, portal.AccountFilter{Role: model.RoleStudent, Confirmed: &confirmed})
	if err != nil {
		t.Fatalf("list confirmed: %v", err)
	}
	if len(got) != 1 || got[0].ID != "s1" {
		t.Fatalf("expected only s1, got %+v", got)
	}

	got, err = store.ListAccounts(ctx, portal.AccountFilter{Search: "ALICE"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 || got[0].ID != "s1" {
		t.Fatalf("search expected s1, got %+v", got)
	}

	got, err = store.ListAccounts(ctx, portal.AccountFilter{Limit: 1, Offset: 1})
	if err != nil {
		t.Fatalf("paginate: %v", err)
	}
	if len(got) != 1 || got[0].ID != "s1" {
		t.Fatalf("pagination expected s1, got %+v", got)
	}
}

func TestMemStoreDuplicateEmail(t *testing.T) {
	store := NewMemStore()
	seedAccounts(t, store)

	err := store.CreateAccount(context.Background(), model.Account{ID: "x", Email: "alice@school.com"})
	if !portal.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestMemStoreUpdatePreservesPlacement(t *testing.T) {
	store := NewMemStore()
	seedAccounts(t, store)
	ctx := context.Background()

	account, err := store.GetAccountByID(ctx, "s2")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	account.Name = "Robert"
	account.Placement = model.Placement{} // writes never touch placement
	if err := store.UpdateAccount(ctx, account); err != nil {
		t.Fatalf("update: %v", err)
	}

	updated, err := store.GetAccountByID(ctx, "s2")
	if err != nil {
		t.Fatalf("get updated: %v", err)
	}
	if updated.Name != "Robert" {
		t.Fatalf("name not updated: %s", updated.Name)
	}
	if updated.Placement.Combination != "PCM" {
		t.Fatalf("placement lost on update: %+v", updated.Placement)
	}
}

func TestMemStoreSubjectUniqueWithoutClass(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()

	// Catalog-wide subjects carry no class; the second insert must still
	// collide on (name, level) or reseeding would duplicate the catalog.
	if err := store.CreateSubject(ctx, model.Subject{ID: "sub-1", Name: "Physics", Level: model.LevelALevel}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.CreateSubject(ctx, model.Subject{ID: "sub-2", Name: "Physics", Level: model.LevelALevel}); !portal.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	// Same name on the other level is a different subject.
	if err := store.CreateSubject(ctx, model.Subject{ID: "sub-3", Name: "Physics", Level: model.LevelOLevel}); err != nil {
		t.Fatalf("create on other level: %v", err)
	}
}

func TestMemStoreContentCounters(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()

	item := model.ContentItem{ID: "c1", Kind: model.KindNote, Title: "Notes", Active: true,
		Visibility: model.Visibility{Level: model.LevelOLevel, Class: model.ClassS1}}
	if err := store.CreateContent(ctx, item); err != nil {
		t.Fatalf("create: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := store.IncrementContentViews(ctx, "c1"); err != nil {
			t.Fatalf("views: %v", err)
		}
	}
	if err := store.IncrementContentDownloads(ctx, "c1"); err != nil {
		t.Fatalf("downloads: %v", err)
	}

	got, err := store.GetContentByID(ctx, "c1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Views != 3 || got.Downloads != 1 {
		t.Fatalf("counters wrong: views=%d downloads=%d", got.Views, got.Downloads)
	}
}

func TestMemStoreInactiveContentHiddenFromListing(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()

	visibility := model.Visibility{Level: model.LevelOLevel, Class: model.ClassS1}
	if err := store.CreateContent(ctx, model.ContentItem{ID: "on", Kind: model.KindNote, Active: true, Visibility: visibility}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.CreateContent(ctx, model.ContentItem{ID: "off", Kind: model.KindNote, Active: false, Visibility: visibility}); err != nil {
		t.Fatalf("create: %v", err)
	}

	items, err := store.ListContent(ctx, portal.ContentFilter{Kind: model.KindNote})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].ID != "on" {
		t.Fatalf("expected only the active item, got %+v", items)
	}
}
