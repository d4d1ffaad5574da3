package server

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestReadAPIFlow(t *testing.T) {
	router, _, _ := newTestServer(t)

	_, env := doUpload(t, router, map[string]string{
		"officer_id": "unit_12", "call_id": "CALL_A", "text_update": "first call opened",
	})
	require.True(t, env.Success)
	_, env = doUpload(t, router, map[string]string{
		"officer_id": "unit_12", "call_id": "CALL_B", "text_update": "second call opened",
	})
	require.True(t, env.Success)
	_, env = doUpload(t, router, map[string]string{
		"officer_id": "unit_7", "call_id": "CALL_A", "text_update": "same id, other unit",
	})
	require.True(t, env.Success)
	t.Log("seeded three calls")

	rec := doGet(t, router, "/api/officers")
	require.Equal(t, http.StatusOK, rec.Code)
	var officers struct {
		Officers []struct {
			ID        string    `json:"id"`
			CallCount int       `json:"call_count"`
			LastSeen  time.Time `json:"last_seen"`
		} `json:"officers"`
	}
	decodeJSON(t, rec.Body.Bytes(), &officers)
	require.Len(t, officers.Officers, 2)
	require.Equal(t, "unit_12", officers.Officers[0].ID)
	require.Equal(t, 2, officers.Officers[0].CallCount)
	require.Equal(t, "unit_7", officers.Officers[1].ID)
	require.Equal(t, 1, officers.Officers[1].CallCount)
	require.False(t, officers.Officers[0].LastSeen.IsZero())

	rec = doGet(t, router, "/api/officers/unit_12/calls")
	require.Equal(t, http.StatusOK, rec.Code)
	var calls struct {
		OfficerID string `json:"officer_id"`
		Calls     []struct {
			ID string `json:"id"`
		} `json:"calls"`
	}
	decodeJSON(t, rec.Body.Bytes(), &calls)
	require.Equal(t, "unit_12", calls.OfficerID)
	require.Len(t, calls.Calls, 2)
	require.Equal(t, "CALL_B", calls.Calls[0].ID, "most recently active first")
	t.Log("officer and call listings verified")

	// poll the updates cursor
	var updates struct {
		Updates []struct {
			ID   int64  `json:"id"`
			Body string `json:"body"`
		} `json:"updates"`
		LastID int64 `json:"last_id"`
	}
	rec = doGet(t, router, "/api/officers/unit_12/calls/CALL_A/updates")
	require.Equal(t, http.StatusOK, rec.Code)
	decodeJSON(t, rec.Body.Bytes(), &updates)
	require.Len(t, updates.Updates, 1)
	require.Equal(t, "first call opened", updates.Updates[0].Body)
	cursor := updates.LastID

	rec = doGet(t, router, fmt.Sprintf("/api/officers/unit_12/calls/CALL_A/updates?after=%d", cursor))
	decodeJSON(t, rec.Body.Bytes(), &updates)
	require.Empty(t, updates.Updates)
	require.Equal(t, cursor, updates.LastID, "cursor holds position when nothing is new")

	_, env = doUpload(t, router, map[string]string{
		"officer_id": "unit_12", "call_id": "CALL_A", "text_update": "suspect in custody",
	})
	require.True(t, env.Success)

	rec = doGet(t, router, fmt.Sprintf("/api/officers/unit_12/calls/CALL_A/updates?after=%d", cursor))
	decodeJSON(t, rec.Body.Bytes(), &updates)
	require.Len(t, updates.Updates, 1)
	require.Equal(t, "suspect in custody", updates.Updates[0].Body)
	require.Greater(t, updates.LastID, cursor)
	t.Log("update polling verified")
}

func TestReadAPIImages(t *testing.T) {
	router, _, _ := newTestServer(t)

	_, env := doUpload(t, router,
		map[string]string{"officer_id": "unit_12", "call_id": "C-9"},
		testFile{name: "plate.png", data: "plate-bytes"},
	)
	require.True(t, env.Success, "seed upload failed: %s", env.Error)

	rec := doGet(t, router, "/api/officers/unit_12/calls/C-9/images")
	require.Equal(t, http.StatusOK, rec.Code)
	var images struct {
		Images []struct {
			FileName     string `json:"file_name"`
			OriginalName string `json:"original_name"`
			SizeBytes    int64  `json:"size_bytes"`
		} `json:"images"`
	}
	decodeJSON(t, rec.Body.Bytes(), &images)
	require.Len(t, images.Images, 1)
	require.Equal(t, "plate.png", images.Images[0].OriginalName)
	require.Equal(t, int64(len("plate-bytes")), images.Images[0].SizeBytes)

	rec = doGet(t, router, "/api/officers/unit_12/calls/C-9/images/"+images.Images[0].FileName)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "plate-bytes", rec.Body.String())

	rec = doGet(t, router, "/api/officers/unit_12/calls/C-9/images/not-there.png")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReadAPIUnknowns(t *testing.T) {
	router, _, _ := newTestServer(t)

	rec := doGet(t, router, "/api/officers/ghost/calls")
	require.Equal(t, http.StatusOK, rec.Code)
	var calls struct {
		Calls []any `json:"calls"`
	}
	decodeJSON(t, rec.Body.Bytes(), &calls)
	require.Empty(t, calls.Calls)

	rec = doGet(t, router, "/api/officers/ghost/calls/C-1/updates")
	require.Equal(t, http.StatusNotFound, rec.Code)

	_, env := doUpload(t, router, map[string]string{
		"officer_id": "unit_1", "call_id": "C-1", "text_update": "x",
	})
	require.True(t, env.Success)
	rec = doGet(t, router, "/api/officers/unit_1/calls/C-1/updates?after=banana")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
