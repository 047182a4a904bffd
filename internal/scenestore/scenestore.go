// Package scenestore persists scene documents (§4.9's JSON scene
// state) to Postgres via gorm, the teacher's ORM of choice for
// anything beyond the wire/bus hot path.
package scenestore

import (
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Row is one saved scene document, keyed by a user-chosen slot name.
type Row struct {
	ID        uint   `gorm:"primarykey"`
	Slot      string `gorm:"uniqueIndex"`
	Document  string `gorm:"type:text"`
	UpdatedAt time.Time
}

// Store wraps a gorm DB handle scoped to Row's table (gorm's default
// name for it, rows).
type Store struct {
	db *gorm.DB
}

// Open connects to a Postgres DSN and migrates the Row table.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&Row{}); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Save upserts a scene document under slot.
func (s *Store) Save(slot, document string) error {
	row := Row{Slot: slot, Document: document, UpdatedAt: time.Now()}
	return s.db.Where(Row{Slot: slot}).
		Assign(Row{Document: document, UpdatedAt: row.UpdatedAt}).
		FirstOrCreate(&row).Error
}

// Load fetches the document saved under slot.
func (s *Store) Load(slot string) (string, error) {
	var row Row
	if err := s.db.Where("slot = ?", slot).First(&row).Error; err != nil {
		return "", err
	}
	return row.Document, nil
}

// List returns every saved slot name.
func (s *Store) List() ([]string, error) {
	var rows []Row
	if err := s.db.Select("slot").Find(&rows).Error; err != nil {
		return nil, err
	}
	slots := make([]string, len(rows))
	for i, r := range rows {
		slots[i] = r.Slot
	}
	return slots, nil
}

// Delete removes a saved slot.
func (s *Store) Delete(slot string) error {
	return s.db.Where("slot = ?", slot).Delete(&Row{}).Error
}
