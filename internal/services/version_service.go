package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/devopsteamsdb/teamtasks/internal/models"
)

// VersionService exposes the store's most recent modification timestamp,
// used by clients for cache invalidation.
type VersionService struct {
	db *gorm.DB
}

// NewVersionService constructs a VersionService instance.
func NewVersionService(db *gorm.DB) (*VersionService, error) {
	if db == nil {
		return nil, errors.New("version service: db is required")
	}
	return &VersionService{db: db}, nil
}

// LatestModification returns the newest updated_at across all tables. An
// empty store reports the zero time.
func (s *VersionService) LatestModification(ctx context.Context) (time.Time, error) {
	ctx = ensureContext(ctx)

	tables := []any{
		&models.Team{},
		&models.TeamMember{},
		&models.Task{},
		&models.SpecialDay{},
	}

	// Reading the newest row's column directly keeps the driver's time
	// conversion intact; an aggregate expression loses the declared type
	// on sqlite and comes back as a bare string.
	var latest time.Time
	for _, table := range tables {
		var stamp *time.Time
		err := s.db.WithContext(ctx).Model(table).
			Select("updated_at").
			Order("updated_at DESC").
			Limit(1).
			Scan(&stamp).Error
		if err != nil {
			return time.Time{}, fmt.Errorf("version service: latest updated_at: %w", err)
		}
		if stamp != nil && stamp.After(latest) {
			latest = *stamp
		}
	}

	return latest, nil
}
