package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/devopsteamsdb/teamtasks/internal/models"
)

// Restore applies an uploaded snapshot document.
//
// Scope "all" is a full restore: one all-or-nothing transaction wipes the
// tables child-to-parent, then re-inserts every row parent-to-child so
// restored rows keep the ids recorded in the snapshot. Any failure rolls the
// whole transaction back, wipes included.
//
// A single-table scope is additive: rows are upserted by id, never wiped.
//
// Returns rows processed per table; on failure the error names the table
// that caused the abort.
func (s *SnapshotService) Restore(ctx context.Context, raw []byte, scope string) (map[string]int, error) {
	ctx = ensureContext(ctx)

	parsed, err := s.Validate(raw, scope)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(parsed.Tables))
	if parsed.Scope == SnapshotScopeAll {
		for _, table := range snapshotInsertOrder {
			counts[table] = 0
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if parsed.Scope == SnapshotScopeAll {
			for _, table := range snapshotWipeOrder {
				if err := wipeTable(tx, table); err != nil {
					return ErrRestoreFailed.
						WithMessage(fmt.Sprintf("wipe failed for table %s", table)).
						WithInternal(err)
				}
			}
		}

		for _, table := range snapshotInsertOrder {
			rows, ok := parsed.Tables[table]
			if !ok {
				continue
			}
			n, err := restoreRows(tx, table, rows)
			if err != nil {
				return ErrRestoreFailed.
					WithMessage(fmt.Sprintf("restore failed at table %s", table)).
					WithInternal(err)
			}
			counts[table] = n
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return counts, nil
}

func wipeTable(tx *gorm.DB, table string) error {
	switch table {
	case TableTask:
		return tx.Where("1 = 1").Delete(&models.Task{}).Error
	case TableSpecialDay:
		return tx.Where("1 = 1").Delete(&models.SpecialDay{}).Error
	case TableTeamMember:
		return tx.Where("1 = 1").Delete(&models.TeamMember{}).Error
	case TableTeam:
		return tx.Where("1 = 1").Delete(&models.Team{}).Error
	default:
		return fmt.Errorf("unknown table %q", table)
	}
}

func restoreRows(tx *gorm.DB, table string, rows []map[string]any) (int, error) {
	for i, rec := range rows {
		var err error
		switch table {
		case TableTeam:
			err = upsertRow(tx, teamFromRecord(rec))
		case TableTeamMember:
			err = upsertRow(tx, memberFromRecord(rec))
		case TableTask:
			err = upsertRow(tx, taskFromRecord(rec))
		case TableSpecialDay:
			err = restoreSpecialDay(tx, rec)
		default:
			err = fmt.Errorf("unknown table %q", table)
		}
		if err != nil {
			return i, fmt.Errorf("row %d: %w", i, err)
		}
	}

	return len(rows), nil
}

// upsertRow inserts the row, or overwrites every field of the existing row
// with the same id, preserving identity.
func upsertRow(tx *gorm.DB, model any) error {
	return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(model).Error
}

func teamFromRecord(rec map[string]any) *models.Team {
	return &models.Team{
		BaseModel:   baseFromRecord(rec),
		Code:        normalizeCode(stringField(rec, "code")),
		DisplayName: stringField(rec, "display_name"),
	}
}

func memberFromRecord(rec map[string]any) *models.TeamMember {
	return &models.TeamMember{
		BaseModel:   baseFromRecord(rec),
		TeamID:      stringField(rec, "team_id"),
		Code:        normalizeCode(stringField(rec, "code")),
		DisplayName: stringField(rec, "display_name"),
		AvatarPath:  stringField(rec, "avatar_path"),
	}
}

func taskFromRecord(rec map[string]any) *models.Task {
	return &models.Task{
		BaseModel:      baseFromRecord(rec),
		Project:        stringField(rec, "project"),
		Title:          stringField(rec, "title"),
		Members:        memberCodesFromRecord(rec["members"]),
		Status:         models.ParseTaskStatus(stringField(rec, "status")),
		Priority:       models.ParseTaskPriority(stringField(rec, "priority")),
		Notes:          stringField(rec, "notes"),
		TeamID:         stringPtrField(rec, "team_id"),
		StartDate:      dateFieldOrNil(rec, "start_date"),
		EndDate:        dateFieldOrNil(rec, "end_date"),
		EstimatedHours: floatPtrField(rec, "estimated_hours"),
		IsArchived:     boolField(rec, "is_archived"),
	}
}

// restoreSpecialDay upserts a special day. The date is mandatory, so an
// unparseable date is not nulled the way optional task dates are: the raw
// value is written through unchanged instead.
func restoreSpecialDay(tx *gorm.DB, rec map[string]any) error {
	rawDate := stringField(rec, "date")
	date, parseErr := models.ParseDate(rawDate)

	if parseErr == nil {
		day := &models.SpecialDay{
			BaseModel: baseFromRecord(rec),
			Date:      date,
			Name:      stringField(rec, "name"),
			Type:      models.ParseSpecialDayType(stringField(rec, "type")),
			Color:     stringPtrField(rec, "color"),
		}
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(day).Error
	}

	base := baseFromRecord(rec)
	if base.ID == "" {
		base.ID = uuid.NewString()
	}
	now := time.Now()
	if base.CreatedAt.IsZero() {
		base.CreatedAt = now
	}
	if base.UpdatedAt.IsZero() {
		base.UpdatedAt = now
	}

	values := map[string]any{
		"id":         base.ID,
		"created_at": base.CreatedAt,
		"updated_at": base.UpdatedAt,
		"date":       rawDate,
		"name":       stringField(rec, "name"),
		"type":       string(models.ParseSpecialDayType(stringField(rec, "type"))),
	}
	if color := stringPtrField(rec, "color"); color != nil {
		values["color"] = *color
	}

	// Map-based write: model hooks and the Date scanner would reject the raw
	// value we are deliberately preserving.
	if err := tx.Exec("DELETE FROM special_days WHERE id = ?", base.ID).Error; err != nil {
		return err
	}
	return tx.Table("special_days").Create(values).Error
}

func baseFromRecord(rec map[string]any) models.BaseModel {
	return models.BaseModel{
		ID:        stringField(rec, "id"),
		CreatedAt: timeField(rec, "created_at"),
		UpdatedAt: timeField(rec, "updated_at"),
	}
}

// memberCodesFromRecord accepts both document forms: a JSON list of codes or
// the store's comma-joined string.
func memberCodesFromRecord(value any) models.MemberList {
	switch v := value.(type) {
	case []any:
		codes := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				codes = append(codes, s)
			}
		}
		return models.NormalizeMemberCodes(codes)
	case string:
		var list models.MemberList
		_ = list.Scan(v)
		return models.NormalizeMemberCodes(list)
	default:
		return nil
	}
}

func stringField(rec map[string]any, key string) string {
	if value, ok := rec[key].(string); ok {
		return value
	}
	return ""
}

func stringPtrField(rec map[string]any, key string) *string {
	if value, ok := rec[key].(string); ok && value != "" {
		return &value
	}
	return nil
}

func floatPtrField(rec map[string]any, key string) *float64 {
	if value, ok := rec[key].(float64); ok {
		return &value
	}
	return nil
}

func boolField(rec map[string]any, key string) bool {
	if value, ok := rec[key].(bool); ok {
		return value
	}
	return false
}

// dateFieldOrNil parses an optional ISO-8601 date; anything unparseable is
// treated as absent rather than aborting the restore.
func dateFieldOrNil(rec map[string]any, key string) *models.Date {
	raw, ok := rec[key].(string)
	if !ok || raw == "" {
		return nil
	}
	date, err := models.ParseDate(raw)
	if err != nil {
		return nil
	}
	return &date
}

func timeField(rec map[string]any, key string) time.Time {
	raw, ok := rec[key].(string)
	if !ok {
		return time.Time{}
	}
	stamp, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return stamp
}
