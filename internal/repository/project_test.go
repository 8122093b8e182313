package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/cleberrangel/houseforge-api/internal/database"
	"github.com/cleberrangel/houseforge-api/internal/estimator"
	"github.com/cleberrangel/houseforge-api/internal/migration"
	"github.com/cleberrangel/houseforge-api/internal/model"
	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	_ "github.com/lib/pq"
)

func setupTestDB(t *testing.T) *sql.DB {
	ctx := context.Background()
	dbConfig := database.Config{
		Host:     getEnvOrDefault("TEST_DB_HOST", "127.0.0.1"),
		Port:     getEnvOrDefault("TEST_DB_PORT", "5432"),
		User:     getEnvOrDefault("TEST_DB_USER", "postgres"),
		Password: getEnvOrDefault("TEST_DB_PASSWORD", "postgres"),
		DBName:   fmt.Sprintf("test_houseforge_%d", time.Now().UnixNano()),
		SSLMode:  "disable",
	}

	// Conecta ao postgres para criar o banco de teste
	adminConfig := dbConfig
	adminConfig.DBName = "postgres"

	adminDB, err := database.Connect(ctx, adminConfig)
	if err != nil {
		t.Skipf("Pulando teste: não foi possível conectar ao PostgreSQL: %v", err)
	}
	defer adminDB.Close()

	if _, err = adminDB.Exec(fmt.Sprintf("CREATE DATABASE %s", dbConfig.DBName)); err != nil {
		t.Fatalf("Erro ao criar banco de teste: %v", err)
	}

	testDB, err := database.Connect(ctx, dbConfig)
	if err != nil {
		t.Fatalf("Erro ao conectar ao banco de teste: %v", err)
	}

	if err := migration.NewMigrator(testDB).Run(ctx); err != nil {
		testDB.Close()
		t.Fatalf("Erro ao executar migrações: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
		adminDB, _ := database.Connect(ctx, adminConfig)
		if adminDB != nil {
			adminDB.Exec(fmt.Sprintf("DROP DATABASE IF EXISTS %s", dbConfig.DBName))
			adminDB.Close()
		}
	})

	return testDB
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func newTestProject(t *testing.T, owner string, in estimator.Input) *model.Project {
	t.Helper()
	res, err := estimator.Estimate(in)
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	in.BudgetTier = string(res.SelectedBudgetTier)
	return &model.Project{
		ID:           uuid.NewString(),
		OwnerID:      owner,
		Title:        "Casa " + owner,
		PropertyType: "residential",
		Status:       model.StatusPlanning,
		Input:        in,
		Estimate:     &res,
		ModelVersion: res.ModelVersion,
		TotalCost:    res.Selected().TotalCost,
		TotalDays:    res.Timeline.TotalDays,
	}
}

func TestProjectRepositoryLifecycle(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	p := newTestProject(t, "alice", estimator.Input{SquareFeet: 2000, Rooms: 4, Floors: 2, Bathrooms: 3, BudgetTier: "low"})
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.CreatedAt.IsZero() {
		t.Errorf("CreatedAt not set")
	}

	got, err := repo.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Estimate.Costs.Low.TotalCost != 3730680 {
		t.Errorf("stored estimate: low total %v", got.Estimate.Costs.Low.TotalCost)
	}
	if got.Estimate.Materials.Foundation.CementBags != 280 || got.Estimate.Timeline.TotalDays != 291 {
		t.Errorf("stored estimate differs from generated one")
	}
	if got.ModelVersion != estimator.ModelVersion || got.Status != model.StatusPlanning {
		t.Errorf("unexpected row: %+v", got)
	}

	if err := repo.UpdateStatus(ctx, p.ID, model.StatusPlanning, model.StatusInProgress); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	// a transição concorrente perde: o status já não é planning
	err = repo.UpdateStatus(ctx, p.ID, model.StatusPlanning, model.StatusCancelled)
	if !errors.Is(err, model.ErrInvalidStatusTransition) {
		t.Errorf("stale transition: got %v", err)
	}

	if err := repo.Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, p.ID); !errors.Is(err, model.ErrProjectNotFound) {
		t.Errorf("GetByID after delete: got %v", err)
	}
	if err := repo.Delete(ctx, p.ID); !errors.Is(err, model.ErrProjectNotFound) {
		t.Errorf("second Delete: got %v", err)
	}
}

// **Feature: house-estimator, Property 7: Owner scoped listing**
// Listing never returns projects of another owner and keeps every stored input
func TestListByOwnerIsolation(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 10
	properties := gopter.NewProperties(parameters)

	properties.Property("projects are listed per owner", prop.ForAll(
		func(owner string, rooms, floors int) bool {
			in := estimator.Input{SquareFeet: 1200, Rooms: rooms, Floors: floors, Bathrooms: 1, BudgetTier: "high"}
			p := newTestProject(t, owner, in)
			if err := repo.Create(ctx, p); err != nil {
				t.Logf("Create: %v", err)
				return false
			}

			list, err := repo.ListByOwner(ctx, owner)
			if err != nil {
				t.Logf("ListByOwner: %v", err)
				return false
			}

			found := false
			for _, item := range list {
				if item.OwnerID != owner {
					return false
				}
				if item.Estimate != nil {
					t.Logf("list must not carry the full estimate")
					return false
				}
				if item.ID == p.ID {
					found = item.Input.Rooms == rooms && item.Input.Floors == floors && item.TotalDays == p.TotalDays
				}
			}
			return found
		},
		gen.RegexMatch(`^[a-z]{3,12}$`),
		gen.IntRange(0, 8),
		gen.IntRange(1, 4),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestUpdateReplacesEstimate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	p := newTestProject(t, "bob", estimator.Input{SquareFeet: 1000, Rooms: 2, Floors: 1, Bathrooms: 1, BudgetTier: "medium"})
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated := newTestProject(t, "bob", estimator.Input{SquareFeet: 2000, Rooms: 4, Floors: 2, Bathrooms: 3, BudgetTier: "low"})
	updated.ID = p.ID
	updated.Title = "Casa ampliada"
	if err := repo.Update(ctx, updated); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := repo.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Title != "Casa ampliada" || got.Input.SquareFeet != 2000 {
		t.Errorf("update not persisted: %+v", got)
	}
	if got.Estimate.Timeline.TotalDays != 291 || got.TotalCost != 3730680 {
		t.Errorf("estimate not replaced: days=%d cost=%v", got.Estimate.Timeline.TotalDays, got.TotalCost)
	}

	missing := newTestProject(t, "bob", updated.Input)
	if err := repo.Update(ctx, missing); !errors.Is(err, model.ErrProjectNotFound) {
		t.Errorf("Update of unknown project: got %v", err)
	}
}

func TestUserCredentials(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	if _, err := repo.Create(ctx, "carol", "hash-1"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.UpdatePassword(ctx, "carol", "hash-2"); err != nil {
		t.Fatalf("UpdatePassword: %v", err)
	}

	creds, err := repo.Credentials(ctx)
	if err != nil {
		t.Fatalf("Credentials: %v", err)
	}
	if creds["carol"] != "hash-2" {
		t.Errorf("credentials: got %v", creds)
	}

	if u, err := repo.GetByUsername(ctx, "nobody"); u != nil || err != nil {
		t.Errorf("unknown user: got %v, %v", u, err)
	}
	if err := repo.Delete(ctx, "nobody"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("Delete unknown user: got %v", err)
	}
}
