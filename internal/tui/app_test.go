package tui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/jask/fieldpost/internal/config"
	"github.com/jask/fieldpost/internal/intake"
	"github.com/jask/fieldpost/internal/service"
	"github.com/jask/fieldpost/internal/staging"
)

func testApp(t *testing.T, endpoint string) *App {
	t.Helper()

	cfg := config.Config{}
	cfg.Roster.Officers = []string{"unit_1", "unit_2"}
	cfg.Client.PhotoDir = t.TempDir()

	set := staging.NewSet()
	client := intake.NewClient(endpoint, 5*time.Second)
	sub := &service.Submitter{Client: client}
	return New(context.Background(), cfg, set, sub, client)
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestFocusCycle(t *testing.T) {
	t.Parallel()

	a := testApp(t, "http://127.0.0.1:0")
	require.Equal(t, focusRecipient, a.focus)
	for _, want := range []focusField{focusCall, focusText, focusStaged, focusRecipient} {
		_, _ = a.Update(keyPress("tab"))
		require.Equal(t, want, a.focus)
	}
}

func TestRecipientCyclesRoster(t *testing.T) {
	t.Parallel()

	a := testApp(t, "http://127.0.0.1:0")
	require.Equal(t, "unit_1", a.recipient())
	_, _ = a.Update(keyPress("j"))
	require.Equal(t, "unit_2", a.recipient())
	_, _ = a.Update(keyPress("j"))
	require.Equal(t, "unit_1", a.recipient())
	_, _ = a.Update(keyPress("k"))
	require.Equal(t, "unit_2", a.recipient())
}

func TestStageFileAdmission(t *testing.T) {
	t.Parallel()

	a := testApp(t, "http://127.0.0.1:0")
	_, _ = a.Update(fileLoadedMsg{file: staging.File{Name: "scene.jpg", MIME: "image/jpeg", Data: []byte{1}}})
	require.Equal(t, 1, a.staging.Len())
	require.False(t, a.statusErr)

	_, _ = a.Update(fileLoadedMsg{file: staging.File{Name: "notes.txt", MIME: "text/plain", Data: []byte{2}}})
	require.Equal(t, 1, a.staging.Len())
	require.True(t, a.statusErr)
	require.Contains(t, a.status, "notes.txt")
}

func TestRemoveStagedAtCursor(t *testing.T) {
	t.Parallel()

	a := testApp(t, "http://127.0.0.1:0")
	for _, name := range []string{"a.png", "b.png", "c.png"} {
		_, _ = a.Update(fileLoadedMsg{file: staging.File{Name: name, MIME: "image/png"}})
	}

	// focus the staged list, move to the middle entry, remove it
	a.focus = focusStaged
	_, _ = a.Update(keyPress("j"))
	_, _ = a.Update(keyPress("x"))

	require.Equal(t, 2, a.staging.Len())
	list := a.staging.List()
	require.Equal(t, "a.png", list[0].Name)
	require.Equal(t, "c.png", list[1].Name)

	// cursor stays in range as the list shrinks
	_, _ = a.Update(keyPress("x"))
	_, _ = a.Update(keyPress("x"))
	require.Equal(t, 0, a.staging.Len())
	require.Equal(t, 0, a.stagedCursor)
}

func TestCallPickerPinsNewCallFirst(t *testing.T) {
	t.Parallel()

	a := testApp(t, "http://127.0.0.1:0")
	_, _ = a.Update(callsLoadedMsg{"CALL_20250812_142355", "CALL_20250813_090000"})

	require.Equal(t, modalCallPicker, a.modal)
	require.Equal(t, intake.NewCallSentinel, a.callChoices[0])
	require.Len(t, a.callChoices, 3)

	_, _ = a.Update(keyPress("j"))
	_, _ = a.Update(keyPress("enter"))
	require.Equal(t, modalNone, a.modal)
	require.Equal(t, "CALL_20250812_142355", a.callTarget)
}

func TestSubmitSuccessReconcilesForm(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"call_id":"CALL_20250825_101500","message":"Update received"}`))
	}))
	t.Cleanup(srv.Close)

	a := testApp(t, srv.URL)
	a.callTarget = intake.NewCallSentinel
	a.text = "suspect fled north"
	_, _ = a.Update(fileLoadedMsg{file: staging.File{Name: "scene.jpg", MIME: "image/jpeg", Data: []byte{1}}})

	_, cmd := a.Update(keyPress("ctrl+s"))
	require.NotNil(t, cmd)
	require.True(t, a.submitting)

	_, _ = a.Update(cmd())
	require.False(t, a.submitting)
	require.Equal(t, 0, a.staging.Len())
	require.Empty(t, a.text)
	require.Equal(t, "CALL_20250825_101500", a.callTarget)
	require.Contains(t, a.status, "CALL_20250825_101500")
	require.False(t, a.statusErr)
}

func TestSubmitFailureKeepsStagedState(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success":false,"error":"full queue"}`))
	}))
	t.Cleanup(srv.Close)

	a := testApp(t, srv.URL)
	a.callTarget = "CALL_20250812_142355"
	a.text = "still on scene"
	_, _ = a.Update(fileLoadedMsg{file: staging.File{Name: "scene.jpg", MIME: "image/jpeg", Data: []byte{1}}})

	_, cmd := a.Update(keyPress("ctrl+s"))
	_, _ = a.Update(cmd())

	require.Equal(t, 1, a.staging.Len())
	require.Equal(t, "still on scene", a.text)
	require.True(t, a.statusErr)
	require.Contains(t, a.status, "full queue")
}

func TestSubmitWhileInFlightIsRejected(t *testing.T) {
	t.Parallel()

	a := testApp(t, "http://127.0.0.1:0")
	a.callTarget = intake.NewCallSentinel
	a.text = "on scene"

	_, first := a.Update(keyPress("ctrl+s"))
	require.NotNil(t, first)
	require.True(t, a.submitting)

	_, second := a.Update(keyPress("ctrl+s"))
	require.Nil(t, second)
	require.True(t, a.statusErr)
	require.Contains(t, a.status, "already in flight")
}

func TestValidationErrorSurfacesBeforeNetwork(t *testing.T) {
	t.Parallel()

	// no handler: any request would fail the test transport with a refused
	// connection, but validation must answer before that happens
	a := testApp(t, "http://127.0.0.1:0")
	a.roster = nil

	_, cmd := a.Update(keyPress("ctrl+s"))
	require.NotNil(t, cmd)
	_, _ = a.Update(cmd())
	require.True(t, a.statusErr)
	require.Contains(t, a.status, "select a recipient")
}

// The Bubble Tea runtime executes commands on their own goroutines while the
// update loop keeps handling key events. Staging a photo while a submission
// is on the wire must be safe (run with -race): the command only carries the
// snapshot taken in submitCmd, so the late photo neither races the request
// nor rides along with it.
func TestStagingStaysLiveWhileSubmitInFlight(t *testing.T) {
	t.Parallel()

	entered := make(chan struct{})
	release := make(chan struct{})
	var filesSent atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
		require.NoError(t, r.ParseMultipartForm(32<<20))
		filesSent.Store(int64(len(r.MultipartForm.File["image_files"])))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"message":"Data processed. Saved 1 image(s)."}`))
	}))
	t.Cleanup(srv.Close)

	a := testApp(t, srv.URL)
	a.callTarget = "CALL_20250812_142355"
	_, _ = a.Update(fileLoadedMsg{file: staging.File{Name: "scene.jpg", MIME: "image/jpeg", Data: []byte{1}}})

	_, cmd := a.Update(keyPress("ctrl+s"))
	require.NotNil(t, cmd)
	msgCh := make(chan tea.Msg, 1)
	go func() { msgCh <- cmd() }()

	<-entered
	// the update loop stays responsive: stage another photo mid-flight
	_, _ = a.Update(fileLoadedMsg{file: staging.File{Name: "late.png", MIME: "image/png", Data: []byte{2}}})
	require.Equal(t, 2, a.staging.Len())

	close(release)
	_, _ = a.Update(<-msgCh)

	require.Equal(t, int64(1), filesSent.Load(), "only the pre-flight snapshot travels")
	require.False(t, a.submitting)
	require.Equal(t, 0, a.staging.Len(), "confirmed success clears the set on the update loop")
}

func TestTextEntryAndView(t *testing.T) {
	t.Parallel()

	a := testApp(t, "http://127.0.0.1:0")
	a.focus = focusText
	for _, r := range "code 4" {
		if r == ' ' {
			_, _ = a.Update(tea.KeyMsg{Type: tea.KeySpace})
			continue
		}
		_, _ = a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	require.Equal(t, "code 4", a.text)

	_, _ = a.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	require.Equal(t, "code ", a.text)

	view := a.View()
	require.Contains(t, view, "Recipient")
	require.Contains(t, view, "Staged photos")
}
