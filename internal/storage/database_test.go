package storage

import (
	"context"
	"testing"

	"traveltodo/internal/config"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	cfg := &config.Config{
		Databases: map[string]config.DatabaseConfig{
			"sqlite3": {
				DSN: ":memory:",
			},
		},
	}
	db, err := Open("sqlite3", cfg)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate db: %v", err)
	}
	return db
}

func TestOpenUnknownDriver(t *testing.T) {
	cfg := &config.Config{Databases: map[string]config.DatabaseConfig{"oracle": {DSN: "x"}}}
	if _, err := Open("oracle", cfg); err == nil {
		t.Fatalf("expected unsupported driver error")
	}
	if _, err := Open("mysql", cfg); err == nil {
		t.Fatalf("expected missing config error")
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	defer db.Close()
	if err := Migrate(db); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}

func TestSeedOnlyOnce(t *testing.T) {
	db := openTestDB(t)
	defer db.Close()
	ctx := context.Background()

	seeded, err := Seed(ctx, db)
	if err != nil {
		t.Fatalf("Seed error: %v", err)
	}
	if !seeded {
		t.Fatalf("expected first seed to insert data")
	}
	var hotels int
	if err := db.QueryRow(`SELECT COUNT(*) FROM hotels`).Scan(&hotels); err != nil {
		t.Fatalf("count hotels: %v", err)
	}
	if hotels != len(seedHotels) {
		t.Fatalf("expected %d hotels, got %d", len(seedHotels), hotels)
	}

	seeded, err = Seed(ctx, db)
	if err != nil {
		t.Fatalf("second Seed error: %v", err)
	}
	if seeded {
		t.Fatalf("second seed should be a no-op")
	}
}

func TestInsertReturnsID(t *testing.T) {
	db := openTestDB(t)
	defer db.Close()

	id, err := db.InsertContext(context.Background(),
		`INSERT INTO destinations (name, country, description, image, is_popular) VALUES (?, ?, ?, ?, ?)`,
		"Monastir", "Tunisie", "", "", false)
	if err != nil {
		t.Fatalf("InsertContext error: %v", err)
	}
	if id <= 0 {
		t.Fatalf("expected positive id, got %d", id)
	}
}

func TestRebind(t *testing.T) {
	q := `SELECT * FROM hotels WHERE stars = ? AND price_per_night <= ?`
	if got := rebind("postgres", q); got != `SELECT * FROM hotels WHERE stars = $1 AND price_per_night <= $2` {
		t.Fatalf("postgres rebind = %q", got)
	}
	if got := rebind("sqlite3", q); got != q {
		t.Fatalf("sqlite query must be unchanged, got %q", got)
	}
}
