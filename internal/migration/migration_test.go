package migration

import (
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/cleberrangel/houseforge-api/internal/middleware"
	"github.com/cleberrangel/houseforge-api/internal/model"
)

func TestMigrationsAreOrderedAndUnique(t *testing.T) {
	ms := sorted(getAllMigrations())
	seen := make(map[int]bool)

	for i, m := range ms {
		if seen[m.Version] {
			t.Errorf("duplicate migration version %d", m.Version)
		}
		seen[m.Version] = true

		if i > 0 && ms[i-1].Version >= m.Version {
			t.Errorf("migrations out of order at %d", m.Version)
		}
		if strings.TrimSpace(m.Up) == "" || strings.TrimSpace(m.Down) == "" {
			t.Errorf("migration %d (%s) must define Up and Down", m.Version, m.Name)
		}
	}
}

func TestPendingSkipsAppliedVersions(t *testing.T) {
	ms := []Migration{{Version: 3}, {Version: 1}, {Version: 2}}

	got := pending(sorted(ms), 1)
	if len(got) != 2 || got[0].Version != 2 || got[1].Version != 3 {
		t.Fatalf("pending after v1: got %+v", got)
	}
	if len(pending(sorted(ms), 3)) != 0 {
		t.Errorf("nothing should be pending at latest version")
	}
}

func TestProjectsTableStoresEstimate(t *testing.T) {
	var projects *Migration
	for _, m := range getAllMigrations() {
		m := m
		if m.Name == "create_projects_table" {
			projects = &m
		}
	}
	if projects == nil {
		t.Fatal("projects migration not found")
	}

	for _, col := range []string{"estimate JSONB", "model_version", "owner_id", "status"} {
		if !strings.Contains(projects.Up, col) {
			t.Errorf("projects table missing %q", col)
		}
	}
}

var (
	createColumn = regexp.MustCompile(`(?m)^\s*(\w+) VARCHAR\((\d+)\)`)
	alterColumn  = regexp.MustCompile(`ALTER COLUMN (\w+) TYPE VARCHAR\((\d+)\)`)
)

// largura final de cada coluna VARCHAR depois de aplicar todas as migrações
func finalVarcharWidths(t *testing.T) map[string]int {
	t.Helper()
	widths := make(map[string]int)
	for _, m := range sorted(getAllMigrations()) {
		for _, re := range []*regexp.Regexp{createColumn, alterColumn} {
			for _, match := range re.FindAllStringSubmatch(m.Up, -1) {
				n, err := strconv.Atoi(match[2])
				if err != nil {
					t.Fatalf("migration %d: width %q: %v", m.Version, match[2], err)
				}
				widths[match[1]] = n
			}
		}
	}
	return widths
}

func TestProjectTextColumnsFitEscapedInput(t *testing.T) {
	widths := finalVarcharWidths(t)

	limits := map[string]int{
		"title":         model.MaxTitleLength,
		"location":      model.MaxLocationLength,
		"property_type": model.MaxPropertyTypeLength,
	}
	for col, limit := range limits {
		width, ok := widths[col]
		if !ok {
			t.Errorf("column %s not found", col)
			continue
		}
		if need := middleware.EscapedLength(limit); width < need {
			t.Errorf("column %s is VARCHAR(%d), escaped input needs %d", col, width, need)
		}
	}
}
