// Package progress provides database operations for reading-progress
// records reported by KOReader devices.
package progress

import (
	"errors"

	"gorm.io/gorm"

	"github.com/opdshelf/opdshelf/internal/entities"
)

// ErrNotFound is returned by Fetch when no progress has been stored for
// the document.
var ErrNotFound = errors.New("progress record not found")

// Repository handles all progress record database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new progress repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Upsert stores the reported position for (user, document), replacing any
// earlier report.
func (r *Repository) Upsert(record *entities.ProgressRecord) error {
	var existing entities.ProgressRecord
	result := r.db.Where("user = ? AND document = ?", record.User, record.Document).First(&existing)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return r.db.Create(record).Error
	}
	if result.Error != nil {
		return result.Error
	}

	return r.db.Model(&entities.ProgressRecord{}).
		Where("user = ? AND document = ?", record.User, record.Document).
		Updates(map[string]any{
			"percentage": record.Percentage,
			"progress":   record.Progress,
			"device":     record.Device,
			"device_id":  record.DeviceID,
			"timestamp":  record.Timestamp,
		}).Error
}

// Fetch returns the stored position for (user, document).
func (r *Repository) Fetch(user, document string) (*entities.ProgressRecord, error) {
	var record entities.ProgressRecord
	err := r.db.Where("user = ? AND document = ?", user, document).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// FetchAll returns every stored position for a user, oldest report first.
func (r *Repository) FetchAll(user string) ([]entities.ProgressRecord, error) {
	var records []entities.ProgressRecord
	err := r.db.Where("user = ?", user).Order("timestamp ASC").Find(&records).Error
	return records, err
}
