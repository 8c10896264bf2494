package fooddb

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/nutricart/backend/internal/domain"
)

//go:embed food_database.json
var defaultDatabase []byte

// DB holds the static reference nutrition tables: per-100g foods and
// known dishes with exact per-serving values. Loaded wholesale once and
// read-only afterwards.
type DB struct {
	foods  []domain.ReferenceFood
	dishes []domain.KnownDish
}

type dbFile struct {
	Foods       []domain.ReferenceFood `json:"foods"`
	KnownDishes []domain.KnownDish     `json:"known_dishes"`
}

// Load reads the reference database from path, or the embedded default
// when path is empty.
func Load(path string) (*DB, error) {
	data := defaultDatabase
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading food database: %w", err)
		}
		data = b
	}

	var file dbFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decoding food database: %w", err)
	}
	return &DB{foods: file.Foods, dishes: file.KnownDishes}, nil
}

// Foods returns the per-100g reference table.
func (d *DB) Foods() []domain.ReferenceFood { return d.foods }

// KnownDishes returns the known-dish table.
func (d *DB) KnownDishes() []domain.KnownDish { return d.dishes }
