package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/devopsteamsdb/teamtasks/internal/database/testutil"
	"github.com/devopsteamsdb/teamtasks/internal/models"
	apperrors "github.com/devopsteamsdb/teamtasks/pkg/errors"
)

type snapshotFixture struct {
	team   models.Team
	member models.TeamMember
	task   models.Task
	day    models.SpecialDay
}

func seedSnapshotFixture(t *testing.T, db *gorm.DB) snapshotFixture {
	t.Helper()

	team := models.Team{Code: "devops", DisplayName: "DevOps Team"}
	require.NoError(t, db.Create(&team).Error)

	member := models.TeamMember{TeamID: team.ID, Code: "elad", DisplayName: "Elad"}
	require.NoError(t, db.Create(&member).Error)

	start := models.NewDate(2025, time.May, 4)
	end := models.NewDate(2025, time.May, 9)
	hours := 12.5
	task := models.Task{
		Project:        "infra",
		Title:          "Upgrade build runners",
		Members:        models.MemberList{"elad"},
		Status:         models.TaskStatusInProgress,
		Priority:       models.TaskPriorityHigh,
		Notes:          "rolling upgrade",
		TeamID:         &team.ID,
		StartDate:      &start,
		EndDate:        &end,
		EstimatedHours: &hours,
	}
	require.NoError(t, db.Create(&task).Error)

	day := models.SpecialDay{
		Date: models.NewDate(2025, time.April, 13),
		Name: "Passover",
		Type: models.SpecialDayHoliday,
	}
	require.NoError(t, db.Create(&day).Error)

	return snapshotFixture{team: team, member: member, task: task, day: day}
}

func errorCode(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	return apperrors.FromError(err).Code
}

func TestSnapshotExportAllShape(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	seedSnapshotFixture(t, db)

	svc, err := NewSnapshotService(db)
	require.NoError(t, err)

	doc, err := svc.Export(context.Background(), SnapshotScopeAll)
	require.NoError(t, err)
	require.Equal(t, SnapshotScopeAll, doc.Scope)
	require.Equal(t, 4, doc.Count)
	require.False(t, doc.GeneratedAt.IsZero())

	data, ok := doc.Data.(map[string]any)
	require.True(t, ok)
	for _, table := range []string{TableTeam, TableTeamMember, TableTask, TableSpecialDay} {
		require.Contains(t, data, table)
	}
}

func TestSnapshotExportSingleTable(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	fixture := seedSnapshotFixture(t, db)

	svc, err := NewSnapshotService(db)
	require.NoError(t, err)

	doc, err := svc.Export(context.Background(), TableTask)
	require.NoError(t, err)
	require.Equal(t, TableTask, doc.Scope)
	require.Equal(t, 1, doc.Count)

	tasks, ok := doc.Data.([]models.Task)
	require.True(t, ok)
	require.Len(t, tasks, 1)
	require.Equal(t, fixture.task.ID, tasks[0].ID)

	_, err = svc.Export(context.Background(), "nonsense")
	require.Equal(t, "UNKNOWN_SCOPE", errorCode(t, err))
}

func TestSnapshotRoundTrip(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	fixture := seedSnapshotFixture(t, db)

	svc, err := NewSnapshotService(db)
	require.NoError(t, err)

	doc, err := svc.Export(context.Background(), SnapshotScopeAll)
	require.NoError(t, err)
	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	// A full restore wipes first, so restoring into the same store is the
	// empty-store round trip.
	counts, err := svc.Restore(context.Background(), raw, SnapshotScopeAll)
	require.NoError(t, err)
	require.Equal(t, map[string]int{
		TableTeam:       1,
		TableTeamMember: 1,
		TableTask:       1,
		TableSpecialDay: 1,
	}, counts)

	var team models.Team
	require.NoError(t, db.First(&team, "id = ?", fixture.team.ID).Error)
	require.Equal(t, "devops", team.Code)
	require.Equal(t, "DevOps Team", team.DisplayName)

	var member models.TeamMember
	require.NoError(t, db.First(&member, "id = ?", fixture.member.ID).Error)
	require.Equal(t, fixture.team.ID, member.TeamID)
	require.Equal(t, "elad", member.Code)
	require.Equal(t, models.DefaultAvatarPath, member.AvatarPath)

	var task models.Task
	require.NoError(t, db.First(&task, "id = ?", fixture.task.ID).Error)
	require.Equal(t, "Upgrade build runners", task.Title)
	require.Equal(t, models.MemberList{"elad"}, task.Members)
	require.Equal(t, models.TaskStatusInProgress, task.Status)
	require.NotNil(t, task.TeamID)
	require.Equal(t, fixture.team.ID, *task.TeamID)
	require.NotNil(t, task.StartDate)
	require.Equal(t, "2025-05-04", task.StartDate.String())
	require.NotNil(t, task.EndDate)
	require.Equal(t, "2025-05-09", task.EndDate.String())
	require.NotNil(t, task.EstimatedHours)
	require.Equal(t, 12.5, *task.EstimatedHours)

	var day models.SpecialDay
	require.NoError(t, db.First(&day, "id = ?", fixture.day.ID).Error)
	require.Equal(t, "Passover", day.Name)
	require.Equal(t, "2025-04-13", day.Date.String())
}

func TestSingleTableRestoreIsAdditiveAndIdempotent(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	fixture := seedSnapshotFixture(t, db)

	svc, err := NewSnapshotService(db)
	require.NoError(t, err)

	doc, err := svc.Export(context.Background(), TableTask)
	require.NoError(t, err)
	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	// A task created after the export must survive the restore untouched.
	extra := models.Task{Project: "infra", Title: "Rotate certificates"}
	require.NoError(t, db.Create(&extra).Error)

	for i := 0; i < 2; i++ {
		counts, err := svc.Restore(context.Background(), raw, TableTask)
		require.NoError(t, err)
		require.Equal(t, map[string]int{TableTask: 1}, counts)
	}

	var count int64
	require.NoError(t, db.Model(&models.Task{}).Count(&count).Error)
	require.EqualValues(t, 2, count)

	var restored models.Task
	require.NoError(t, db.First(&restored, "id = ?", fixture.task.ID).Error)
	require.Equal(t, "Upgrade build runners", restored.Title)

	var untouched models.Task
	require.NoError(t, db.First(&untouched, "id = ?", extra.ID).Error)
	require.Equal(t, "Rotate certificates", untouched.Title)
}

func TestRestoreScopeMismatchLeavesStoreUnchanged(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	seedSnapshotFixture(t, db)

	svc, err := NewSnapshotService(db)
	require.NoError(t, err)

	fullDoc, err := svc.Export(context.Background(), SnapshotScopeAll)
	require.NoError(t, err)
	fullRaw, err := json.Marshal(fullDoc)
	require.NoError(t, err)

	var tasksBefore, teamsBefore int64
	require.NoError(t, db.Model(&models.Task{}).Count(&tasksBefore).Error)
	require.NoError(t, db.Model(&models.Team{}).Count(&teamsBefore).Error)

	_, err = svc.Restore(context.Background(), fullRaw, TableTask)
	require.Equal(t, "SCOPE_MISMATCH", errorCode(t, err))

	taskDoc, err := svc.Export(context.Background(), TableTask)
	require.NoError(t, err)
	taskRaw, err := json.Marshal(taskDoc)
	require.NoError(t, err)

	_, err = svc.Restore(context.Background(), taskRaw, SnapshotScopeAll)
	require.Equal(t, "SCOPE_MISMATCH", errorCode(t, err))

	var tasksAfter, teamsAfter int64
	require.NoError(t, db.Model(&models.Task{}).Count(&tasksAfter).Error)
	require.NoError(t, db.Model(&models.Team{}).Count(&teamsAfter).Error)
	require.Equal(t, tasksBefore, tasksAfter)
	require.Equal(t, teamsBefore, teamsAfter)
}

func TestValidateRejectsBadDocuments(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	svc, err := NewSnapshotService(db)
	require.NoError(t, err)

	cases := []struct {
		name     string
		raw      string
		scope    string
		wantCode string
	}{
		{"not json", `{{`, SnapshotScopeAll, "MALFORMED_DOCUMENT"},
		{"unknown scope", `{}`, "users", "UNKNOWN_SCOPE"},
		{"missing data", `{"scope":"all"}`, SnapshotScopeAll, "MALFORMED_DOCUMENT"},
		{"null data", `{"scope":"all","data":null}`, SnapshotScopeAll, "MALFORMED_DOCUMENT"},
		{"list payload for all", `{"scope":"all","data":[]}`, SnapshotScopeAll, "MALFORMED_DOCUMENT"},
		{"map payload for single table", `{"scope":"task","data":{}}`, TableTask, "MALFORMED_DOCUMENT"},
		{"table scope against all document", `{"scope":"all","data":{}}`, TableTeam, "SCOPE_MISMATCH"},
		{"wrong single table", `{"scope":"team","data":[]}`, TableTask, "SCOPE_MISMATCH"},
		{
			"missing required field",
			`{"scope":"task","data":[{"project":"infra","title":"x"}]}`,
			TableTask,
			"MISSING_FIELD",
		},
		{
			"missing member team id",
			`{"scope":"team_member","data":[{"code":"elad","display_name":"Elad"}]}`,
			TableTeamMember,
			"MISSING_FIELD",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Validate([]byte(tc.raw), tc.scope)
			require.Equal(t, tc.wantCode, errorCode(t, err))
		})
	}
}

func TestValidateIgnoresUnknownFields(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	svc, err := NewSnapshotService(db)
	require.NoError(t, err)

	raw := `{"scope":"team","data":[{"code":"qa","display_name":"QA","legacy_name":"quality"}]}`
	parsed, err := svc.Validate([]byte(raw), TableTeam)
	require.NoError(t, err)
	require.Len(t, parsed.Tables[TableTeam], 1)
}

func TestRestoreNullsUnparseableOptionalDates(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	svc, err := NewSnapshotService(db)
	require.NoError(t, err)

	raw := `{"scope":"task","data":[{
		"id":"task-1",
		"project":"infra",
		"title":"Patch hosts",
		"status":"in_progress",
		"start_date":"someday",
		"end_date":"2025-05-10"
	}]}`

	counts, err := svc.Restore(context.Background(), []byte(raw), TableTask)
	require.NoError(t, err)
	require.Equal(t, map[string]int{TableTask: 1}, counts)

	var task models.Task
	require.NoError(t, db.First(&task, "id = ?", "task-1").Error)
	require.Nil(t, task.StartDate)
	require.NotNil(t, task.EndDate)
	require.Equal(t, "2025-05-10", task.EndDate.String())
}

func TestRestoreAcceptsDelimitedMemberString(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	svc, err := NewSnapshotService(db)
	require.NoError(t, err)

	raw := `{"scope":"task","data":[{
		"id":"task-2",
		"project":"infra",
		"title":"Rotate keys",
		"status":"not_started",
		"members":"Elad,guy,elad"
	}]}`

	_, err = svc.Restore(context.Background(), []byte(raw), TableTask)
	require.NoError(t, err)

	var task models.Task
	require.NoError(t, db.First(&task, "id = ?", "task-2").Error)
	require.Equal(t, models.MemberList{"elad", "guy"}, task.Members)
}

func TestRestoreSpecialDayKeepsRawUnparseableDate(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	svc, err := NewSnapshotService(db)
	require.NoError(t, err)

	raw := `{"scope":"special_day","data":[{"id":"sd-1","date":"TBD","name":"Mystery day"}]}`
	counts, err := svc.Restore(context.Background(), []byte(raw), TableSpecialDay)
	require.NoError(t, err)
	require.Equal(t, map[string]int{TableSpecialDay: 1}, counts)

	var storedDate string
	require.NoError(t, db.Table("special_days").
		Where("id = ?", "sd-1").
		Select("date").
		Scan(&storedDate).Error)
	require.Equal(t, "TBD", storedDate)
}

func TestFullRestoreRollsBackOnFailure(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	fixture := seedSnapshotFixture(t, db)

	svc, err := NewSnapshotService(db)
	require.NoError(t, err)

	// The member references a team id the document never inserts, so the
	// foreign key check fails after the wipes already ran.
	raw := `{"scope":"all","data":{
		"team":[{"id":"t-1","code":"alpha","display_name":"Alpha"}],
		"team_member":[{"id":"m-1","team_id":"ghost","code":"x","display_name":"X"}]
	}}`

	_, err = svc.Restore(context.Background(), []byte(raw), SnapshotScopeAll)
	require.Equal(t, "TRANSACTION_FAILURE", errorCode(t, err))

	var team models.Team
	require.NoError(t, db.First(&team, "id = ?", fixture.team.ID).Error)
	require.Equal(t, "devops", team.Code)

	var alphaCount int64
	require.NoError(t, db.Model(&models.Team{}).Where("code = ?", "alpha").Count(&alphaCount).Error)
	require.Zero(t, alphaCount)

	var taskCount int64
	require.NoError(t, db.Model(&models.Task{}).Count(&taskCount).Error)
	require.EqualValues(t, 1, taskCount)
}

func TestFullRestoreWipesTablesAbsentFromDocument(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	seedSnapshotFixture(t, db)

	svc, err := NewSnapshotService(db)
	require.NoError(t, err)

	raw := `{"scope":"all","data":{"team":[{"id":"t-9","code":"qa","display_name":"QA"}]}}`
	counts, err := svc.Restore(context.Background(), []byte(raw), SnapshotScopeAll)
	require.NoError(t, err)
	require.Equal(t, map[string]int{
		TableTeam:       1,
		TableTeamMember: 0,
		TableTask:       0,
		TableSpecialDay: 0,
	}, counts)

	var taskCount, memberCount, dayCount int64
	require.NoError(t, db.Model(&models.Task{}).Count(&taskCount).Error)
	require.NoError(t, db.Model(&models.TeamMember{}).Count(&memberCount).Error)
	require.NoError(t, db.Model(&models.SpecialDay{}).Count(&dayCount).Error)
	require.Zero(t, taskCount)
	require.Zero(t, memberCount)
	require.Zero(t, dayCount)

	var teams []models.Team
	require.NoError(t, db.Find(&teams).Error)
	require.Len(t, teams, 1)
	require.Equal(t, "qa", teams[0].Code)
}
