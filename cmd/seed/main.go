package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/D-J-Software-Engineers/Notes-Management-System/internal/config"
	"github.com/D-J-Software-Engineers/Notes-Management-System/internal/model"
	"github.com/D-J-Software-Engineers/Notes-Management-System/internal/portal"
	"github.com/D-J-Software-Engineers/Notes-Management-System/internal/repository"
)

// Seeds the first admin account and the subject catalog. Safe to run more
// than once; existing records are left alone.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connection failed: %v", err)
	}
	defer pool.Close()

	store := repository.NewStore(pool)
	registry, err := portal.NewCombinationRegistry(portal.DefaultCombinations())
	if err != nil {
		log.Fatalf("combination table invalid: %v", err)
	}

	seedAdmin(ctx, cfg, store, registry)
	seedSubjects(ctx, store)
}

func seedAdmin(ctx context.Context, cfg config.Config, store *repository.Store, registry *portal.CombinationRegistry) {
	if cfg.AdminPassword == "" {
		log.Println("ADMIN_PASSWORD not set, skipping admin seed")
		return
	}

	lifecycle := portal.NewAccountLifecycle(store, registry)
	account, err := lifecycle.Create(ctx, portal.CreateInput{
		Name:     cfg.AdminName,
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
		Role:     model.RoleAdmin,
	})
	if err != nil {
		if portal.IsConflict(err) {
			log.Printf("admin %s already exists", portal.NormalizeEmail(cfg.AdminEmail))
			return
		}
		log.Fatalf("admin seed failed: %v", err)
	}
	log.Printf("created admin %s (%s)", account.Name, account.Email)
}

func seedSubjects(ctx context.Context, store *repository.Store) {
	catalog := portal.NewAcademicCatalog(store, store)

	created := 0
	for _, name := range portal.OLevelSubjects() {
		if seedSubject(ctx, catalog, portal.SubjectInput{Name: name, Level: model.LevelOLevel}) {
			created++
		}
	}

	// A-Level subjects come from the combination table so every combination
	// member is teachable.
	seen := make(map[string]struct{})
	for _, def := range portal.DefaultCombinations() {
		for _, name := range def.Subjects {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			if seedSubject(ctx, catalog, portal.SubjectInput{Name: name, Level: model.LevelALevel}) {
				created++
			}
		}
	}
	log.Printf("subject seed complete, %d created", created)
}

func seedSubject(ctx context.Context, catalog *portal.AcademicCatalog, input portal.SubjectInput) bool {
	_, err := catalog.CreateSubject(ctx, input)
	if err != nil {
		if portal.IsConflict(err) {
			return false
		}
		log.Fatalf("subject seed failed for %s: %v", input.Name, err)
	}
	return true
}
