package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/drivemap/drivemap-backend/pkg/migrate"
)

func TestBusinessesMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_businesses.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no businesses migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE EXTENSION IF NOT EXISTS postgis",
		"CREATE TABLE IF NOT EXISTS businesses",
		"location geography(Point, 4326) NOT NULL",
		"is_registered BOOLEAN NOT NULL DEFAULT FALSE",
		"CREATE UNIQUE INDEX IF NOT EXISTS businesses_osm_id_key",
		"DROP TABLE IF EXISTS businesses",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestMigrationsDirValidates(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("migrations dir failed validation: %v", err)
	}
}
