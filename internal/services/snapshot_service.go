package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/devopsteamsdb/teamtasks/internal/models"
	apperrors "github.com/devopsteamsdb/teamtasks/pkg/errors"
)

// SnapshotScopeAll selects every table for export or restore.
const SnapshotScopeAll = "all"

// Snapshot table names, as they appear in document payloads.
const (
	TableTeam       = "team"
	TableTeamMember = "team_member"
	TableTask       = "task"
	TableSpecialDay = "special_day"
)

// snapshotInsertOrder lists tables parent-to-child so re-inserted rows always
// find their owners. snapshotWipeOrder is the reverse: children go first.
var (
	snapshotInsertOrder = []string{TableTeam, TableTeamMember, TableTask, TableSpecialDay}
	snapshotWipeOrder   = []string{TableTask, TableSpecialDay, TableTeamMember, TableTeam}
)

var snapshotRequiredFields = map[string][]string{
	TableTeam:       {"code", "display_name"},
	TableTeamMember: {"code", "display_name", "team_id"},
	TableTask:       {"project", "title", "status"},
	TableSpecialDay: {"date", "name"},
}

// Snapshot error taxonomy. Validation failures leave the store untouched;
// ErrRestoreFailed reports a transaction that has already been rolled back.
var (
	ErrUnknownScope      = apperrors.New("UNKNOWN_SCOPE", "Unknown snapshot scope", http.StatusBadRequest)
	ErrScopeMismatch     = apperrors.New("SCOPE_MISMATCH", "Snapshot scope does not match the requested scope", http.StatusBadRequest)
	ErrMalformedDocument = apperrors.New("MALFORMED_DOCUMENT", "Snapshot document is malformed", http.StatusBadRequest)
	ErrMissingField      = apperrors.New("MISSING_FIELD", "Snapshot record is missing a required field", http.StatusBadRequest)
	ErrRestoreFailed     = apperrors.New("TRANSACTION_FAILURE", "Snapshot restore failed and was rolled back", http.StatusInternalServerError)
)

// SnapshotDocument is the versioned export envelope. For scope "all" Data is
// a map of table name to row list; for a single table it is the row list.
type SnapshotDocument struct {
	Scope       string    `json:"scope"`
	Count       int       `json:"count"`
	GeneratedAt time.Time `json:"generated_at"`
	Data        any       `json:"data"`
}

// SnapshotService moves whole tables in and out of the store.
type SnapshotService struct {
	db *gorm.DB
}

// NewSnapshotService constructs a SnapshotService instance.
func NewSnapshotService(db *gorm.DB) (*SnapshotService, error) {
	if db == nil {
		return nil, errors.New("snapshot service: db is required")
	}
	return &SnapshotService{db: db}, nil
}

// IsSnapshotTable reports whether name is a known snapshot table.
func IsSnapshotTable(name string) bool {
	_, ok := snapshotRequiredFields[name]
	return ok
}

// Export serialises one table or the whole store. Read-only: archived tasks
// and every field are included verbatim, with no filtering.
func (s *SnapshotService) Export(ctx context.Context, scope string) (*SnapshotDocument, error) {
	ctx = ensureContext(ctx)

	doc := &SnapshotDocument{
		Scope:       scope,
		GeneratedAt: time.Now().UTC(),
	}

	if scope == SnapshotScopeAll {
		data := make(map[string]any, len(snapshotInsertOrder))
		for _, table := range snapshotInsertOrder {
			rows, count, err := s.exportTable(ctx, table)
			if err != nil {
				return nil, err
			}
			data[table] = rows
			doc.Count += count
		}
		doc.Data = data
		return doc, nil
	}

	if !IsSnapshotTable(scope) {
		return nil, ErrUnknownScope.WithMessage(fmt.Sprintf("unknown snapshot scope %q", scope))
	}

	rows, count, err := s.exportTable(ctx, scope)
	if err != nil {
		return nil, err
	}
	doc.Data = rows
	doc.Count = count
	return doc, nil
}

func (s *SnapshotService) exportTable(ctx context.Context, table string) (any, int, error) {
	query := s.db.WithContext(ctx).Order("id")

	switch table {
	case TableTeam:
		var rows []models.Team
		if err := query.Find(&rows).Error; err != nil {
			return nil, 0, fmt.Errorf("snapshot service: export %s: %w", table, err)
		}
		return rows, len(rows), nil
	case TableTeamMember:
		var rows []models.TeamMember
		if err := query.Find(&rows).Error; err != nil {
			return nil, 0, fmt.Errorf("snapshot service: export %s: %w", table, err)
		}
		return rows, len(rows), nil
	case TableTask:
		var rows []models.Task
		if err := query.Find(&rows).Error; err != nil {
			return nil, 0, fmt.Errorf("snapshot service: export %s: %w", table, err)
		}
		return rows, len(rows), nil
	case TableSpecialDay:
		var rows []models.SpecialDay
		if err := query.Find(&rows).Error; err != nil {
			return nil, 0, fmt.Errorf("snapshot service: export %s: %w", table, err)
		}
		return rows, len(rows), nil
	default:
		return nil, 0, ErrUnknownScope.WithMessage(fmt.Sprintf("unknown snapshot table %q", table))
	}
}
