package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/devopsteamsdb/teamtasks/internal/models"
)

func TestSnapshotEndpointsRoundTrip(t *testing.T) {
	r, db := newTestRouter(t)

	rec := doRequest(t, r, http.MethodPost, "/api/teams", map[string]string{
		"code": "devops", "display_name": "DevOps",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, r, http.MethodGet, "/api/export/team", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	disposition := rec.Header().Get("Content-Disposition")
	require.True(t, strings.HasPrefix(disposition, `attachment; filename="snapshot_team_`), disposition)
	require.True(t, strings.HasSuffix(disposition, `.json"`), disposition)

	// The exported document is the data field of the response envelope;
	// it posts back to the restore endpoint verbatim.
	var doc map[string]any
	decodeData(t, rec, &doc)
	require.Equal(t, "team", doc["scope"])

	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	rec = doRequest(t, r, http.MethodPost, "/api/restore/team", raw)
	require.Equal(t, http.StatusOK, rec.Code)

	var result struct {
		Restored map[string]int `json:"restored"`
		Total    int            `json:"total"`
	}
	decodeData(t, rec, &result)
	require.Equal(t, 1, result.Total)
	require.Equal(t, 1, result.Restored["team"])

	var count int64
	require.NoError(t, db.Model(&models.Team{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestSnapshotEndpointsRejectBadInput(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doRequest(t, r, http.MethodGet, "/api/export/users", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "UNKNOWN_SCOPE", decodeErrorCode(t, rec))

	rec = doRequest(t, r, http.MethodPost, "/api/restore/all", []byte("{broken"))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "MALFORMED_DOCUMENT", decodeErrorCode(t, rec))

	rec = doRequest(t, r, http.MethodPost, "/api/restore/team", []byte(`{"scope":"task","data":[]}`))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "SCOPE_MISMATCH", decodeErrorCode(t, rec))
}
