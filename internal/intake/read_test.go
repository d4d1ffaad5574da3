package intake

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func readServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/officers", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"officers":[
			{"id":"unit_1","call_count":2,"last_seen":"2025-08-12T14:23:55Z"},
			{"id":"unit_2","call_count":1,"last_seen":"2025-08-12T15:00:00Z"}]}`))
	})
	mux.HandleFunc("/api/officers/unit_1/calls", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"officer_id":"unit_1","calls":[
			{"id":"CALL_20250812_142355","created_at":"2025-08-12T14:23:55Z","updated_at":"2025-08-12T14:30:00Z"}]}`))
	})
	mux.HandleFunc("/api/officers/unit_1/calls/CALL_20250812_142355/updates", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "7", r.URL.Query().Get("after"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"call_id":"CALL_20250812_142355","last_id":9,"updates":[
			{"id":8,"body":"suspect fled north","created_at":"2025-08-12T14:25:00Z"},
			{"id":9,"body":"perimeter set","created_at":"2025-08-12T14:26:00Z"}]}`))
	})
	mux.HandleFunc("/api/officers/unit_1/calls/CALL_MISSING/updates", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"call not found"}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClientOfficersAndCalls(t *testing.T) {
	t.Parallel()

	srv := readServer(t)
	c := NewClient(srv.URL, 5*time.Second)

	officers, err := c.Officers(context.Background())
	require.NoError(t, err)
	require.Len(t, officers, 2)
	require.Equal(t, "unit_1", officers[0].ID)
	require.Equal(t, 2, officers[0].CallCount)

	calls, err := c.Calls(context.Background(), "unit_1")
	require.NoError(t, err)
	require.Len(t, calls, 1)
	require.Equal(t, "CALL_20250812_142355", calls[0].ID)
}

func TestClientUpdatesCursor(t *testing.T) {
	t.Parallel()

	srv := readServer(t)
	c := NewClient(srv.URL, 5*time.Second)

	ups, last, err := c.Updates(context.Background(), "unit_1", "CALL_20250812_142355", 7)
	require.NoError(t, err)
	require.EqualValues(t, 9, last)
	require.Len(t, ups, 2)
	require.Equal(t, "suspect fled north", ups[0].Body)
	require.EqualValues(t, 8, ups[0].ID)
}

func TestClientReadErrorSurfacesServerReason(t *testing.T) {
	t.Parallel()

	srv := readServer(t)
	c := NewClient(srv.URL, 5*time.Second)

	_, _, err := c.Updates(context.Background(), "unit_1", "CALL_MISSING", 0)
	require.ErrorContains(t, err, "call not found")
}
