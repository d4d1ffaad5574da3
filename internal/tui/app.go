package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/fieldpost/internal/config"
	"github.com/jask/fieldpost/internal/intake"
	"github.com/jask/fieldpost/internal/service"
	"github.com/jask/fieldpost/internal/staging"
)

// App is the field client: a single form (recipient, call target, update
// text) plus the staged-photo list, with modals for picking a call and
// attaching photos. All staging mutations happen here, on the update loop;
// the only suspension point is the submit command.
type App struct {
	ctx       context.Context
	cfg       config.Config
	staging   *staging.Set
	submitter *service.Submitter
	client    *intake.Client
	keys      keyMap

	roster          []string
	recipientCursor int
	callTarget      string
	text            string
	stagedCursor    int
	focus           focusField

	modal       modalState
	callChoices []string
	callCursor  int
	fileList    list.Model

	status     string
	statusErr  bool
	submitting bool
	width      int
	height     int
}

type focusField string

const (
	focusRecipient focusField = "recipient"
	focusCall      focusField = "call"
	focusText      focusField = "text"
	focusStaged    focusField = "staged"
)

var focusOrder = []focusField{focusRecipient, focusCall, focusText, focusStaged}

type modalState string

const (
	modalNone       modalState = ""
	modalCallPicker modalState = "callPicker"
	modalFilePicker modalState = "filePicker"
)

func New(ctx context.Context, cfg config.Config, set *staging.Set, submitter *service.Submitter, client *intake.Client) *App {
	return &App{
		ctx:       ctx,
		cfg:       cfg,
		staging:   set,
		submitter: submitter,
		client:    client,
		keys:      newKeyMap(),
		roster:    cfg.Roster.Officers,
		focus:     focusRecipient,
		fileList:  newFileList(),
	}
}

func (a *App) Init() tea.Cmd {
	return nil
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		h := m.Height - 6
		if h < 5 {
			h = 5
		}
		a.fileList.SetSize(min(m.Width-4, 60), h)
	case tea.KeyMsg:
		if a.modal != modalNone {
			return a.handleModalKey(m)
		}
		if a.focus == focusText {
			return a.handleTextKey(m)
		}
		return a.handleFormKey(m)
	case callsLoadedMsg:
		a.callChoices = append([]string{intake.NewCallSentinel}, m...)
		if a.callCursor >= len(a.callChoices) {
			a.callCursor = 0
		}
		a.modal = modalCallPicker
	case filesListedMsg:
		a.fileList.SetItems(m.items)
		a.modal = modalFilePicker
	case fileLoadedMsg:
		a.stageFile(m.file)
	case submitDoneMsg:
		a.submitting = false
		if m.err != nil {
			a.setError(m.err.Error())
			return a, nil
		}
		// confirmed: clear the set here, on the update loop, never from
		// inside the command goroutine
		a.staging.Clear()
		a.text = ""
		a.stagedCursor = 0
		a.callTarget = m.out.CallID
		note := m.out.Message
		if note == "" {
			note = "update received"
		}
		a.setOK(fmt.Sprintf("%s — %s (%d image(s))", note, m.out.CallID, m.out.Images))
	case statusMsg:
		a.setOK(string(m))
	case errMsg:
		a.setError(m.Error())
	}
	return a, nil
}

func (a *App) handleFormKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(m, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(m, a.keys.Submit):
		return a, a.submitCmd()
	case key.Matches(m, a.keys.NextField):
		a.cycleFocus(1)
	case key.Matches(m, a.keys.PrevField):
		a.cycleFocus(-1)
	case key.Matches(m, a.keys.AddFiles):
		return a, a.scanPhotosCmd()
	case key.Matches(m, a.keys.Remove):
		a.removeStaged()
	case key.Matches(m, a.keys.Up):
		a.moveCursor(-1)
	case key.Matches(m, a.keys.Down):
		a.moveCursor(1)
	case key.Matches(m, a.keys.Confirm):
		if a.focus == focusCall {
			return a, a.loadCallsCmd()
		}
		a.cycleFocus(1)
	}
	return a, nil
}

func (a *App) handleTextKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(m, a.keys.Submit):
		return a, a.submitCmd()
	case key.Matches(m, a.keys.NextField):
		a.cycleFocus(1)
		return a, nil
	case key.Matches(m, a.keys.PrevField):
		a.cycleFocus(-1)
		return a, nil
	}
	switch m.Type {
	case tea.KeyCtrlC:
		return a, tea.Quit
	case tea.KeyEsc:
		a.focus = focusRecipient
	case tea.KeyBackspace, tea.KeyCtrlH:
		if len(a.text) > 0 {
			a.text = a.text[:len(a.text)-1]
		}
	case tea.KeySpace:
		a.text += " "
	case tea.KeyRunes:
		a.text += string(m.Runes)
	}
	return a, nil
}

func (a *App) handleModalKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.modal {
	case modalCallPicker:
		switch {
		case key.Matches(m, a.keys.Dismiss):
			a.modal = modalNone
		case key.Matches(m, a.keys.Up):
			if a.callCursor > 0 {
				a.callCursor--
			}
		case key.Matches(m, a.keys.Down):
			if a.callCursor < len(a.callChoices)-1 {
				a.callCursor++
			}
		case key.Matches(m, a.keys.Confirm):
			if len(a.callChoices) > 0 {
				a.callTarget = a.callChoices[a.callCursor]
			}
			a.modal = modalNone
		}
		return a, nil
	case modalFilePicker:
		switch {
		case key.Matches(m, a.keys.Dismiss):
			a.modal = modalNone
			return a, nil
		case key.Matches(m, a.keys.Confirm):
			item, ok := a.fileList.SelectedItem().(fileItem)
			if !ok {
				return a, nil
			}
			return a, a.loadFileCmd(item.path)
		}
		var cmd tea.Cmd
		a.fileList, cmd = a.fileList.Update(m)
		return a, cmd
	}
	return a, nil
}

func (a *App) cycleFocus(dir int) {
	for i, f := range focusOrder {
		if f == a.focus {
			a.focus = focusOrder[(i+dir+len(focusOrder))%len(focusOrder)]
			return
		}
	}
	a.focus = focusRecipient
}

func (a *App) moveCursor(dir int) {
	switch a.focus {
	case focusRecipient:
		if n := len(a.roster); n > 0 {
			a.recipientCursor = (a.recipientCursor + dir + n) % n
		}
	case focusStaged:
		next := a.stagedCursor + dir
		if next >= 0 && next < a.staging.Len() {
			a.stagedCursor = next
		}
	}
}

func (a *App) removeStaged() {
	if !a.staging.RemoveAt(a.stagedCursor) {
		return
	}
	if a.stagedCursor >= a.staging.Len() && a.stagedCursor > 0 {
		a.stagedCursor--
	}
	a.setOK(fmt.Sprintf("%d photo(s) staged", a.staging.Len()))
}

// stageFile runs admission on the update loop so the set is only ever
// touched here. Non-images are declined by the set; the status line says so
// instead of failing loudly.
func (a *App) stageFile(f staging.File) {
	if a.staging.Add(f) {
		a.setOK(fmt.Sprintf("staged %s (%d total)", f.Name, a.staging.Len()))
		return
	}
	a.setError(fmt.Sprintf("skipped %s: not an image (%s)", f.Name, f.MIME))
}

func (a *App) recipient() string {
	if len(a.roster) == 0 {
		return ""
	}
	return a.roster[a.recipientCursor]
}

func (a *App) setOK(s string)    { a.status, a.statusErr = s, false }
func (a *App) setError(s string) { a.status, a.statusErr = s, true }

// commands

func (a *App) loadCallsCmd() tea.Cmd {
	officer := a.recipient()
	if officer == "" {
		return func() tea.Msg { return errMsg{service.ErrNoRecipient} }
	}
	a.setOK("loading calls...")
	return func() tea.Msg {
		calls, err := a.client.Calls(a.ctx, officer)
		if err != nil {
			return errMsg{err}
		}
		ids := make([]string, 0, len(calls))
		for _, c := range calls {
			ids = append(ids, c.ID)
		}
		return callsLoadedMsg(ids)
	}
}

func (a *App) scanPhotosCmd() tea.Cmd {
	dir := a.cfg.Client.PhotoDir
	return func() tea.Msg {
		items, err := scanPhotoDir(dir)
		if err != nil {
			return errMsg{err}
		}
		return filesListedMsg{items: items}
	}
}

func (a *App) loadFileCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := staging.LoadFile(path)
		if err != nil {
			return errMsg{err}
		}
		return fileLoadedMsg{file: f}
	}
}

// submitCmd snapshots the whole form on the update loop — including the
// staged set, via List() — before suspending. The command goroutine works
// only on the snapshot, so the set stays safely mutable while the request
// is on the wire.
func (a *App) submitCmd() tea.Cmd {
	if a.submitting {
		a.setError(service.ErrSubmitInFlight.Error())
		return nil
	}
	officer, call, text := a.recipient(), a.callTarget, a.text
	images := a.staging.List()
	a.submitting = true
	a.setOK("submitting...")
	return func() tea.Msg {
		out, err := a.submitter.Submit(a.ctx, officer, call, text, images)
		return submitDoneMsg{out: out, err: err}
	}
}

// messages

type callsLoadedMsg []string

type filesListedMsg struct {
	items []list.Item
}

type fileLoadedMsg struct {
	file staging.File
}

type submitDoneMsg struct {
	out service.Outcome
	err error
}

type statusMsg string

type errMsg struct{ error }

// rendering

func (a *App) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("FIELDPOST — dispatch update"))
	b.WriteString("\n\n")

	b.WriteString(a.renderField(focusRecipient, "Recipient", a.renderRecipient()))
	b.WriteString(a.renderField(focusCall, "Call", a.renderCallTarget()))
	b.WriteString(a.renderField(focusText, "Update", a.renderText()))
	b.WriteString("\n")
	b.WriteString(a.renderStaged())

	b.WriteString("\n")
	b.WriteString(renderLegend(a.keys.ShortHelp()))
	if a.status != "" {
		b.WriteString("\n")
		style := statusOKStyle
		switch {
		case a.statusErr:
			style = statusErrStyle
		case a.submitting:
			style = statusBusyStyle
		}
		b.WriteString(style.Render(a.status))
	}

	if a.modal != modalNone {
		b.WriteString("\n\n")
		b.WriteString(a.renderModal())
	}
	return b.String()
}

func (a *App) renderField(f focusField, label, value string) string {
	style := labelStyle
	marker := "  "
	if a.focus == f && a.modal == modalNone {
		style = focusLabelStyle
		marker = "▶ "
	}
	return fmt.Sprintf("%s%s  %s\n", marker, style.Render(fmt.Sprintf("%-10s", label)), value)
}

func (a *App) renderRecipient() string {
	if len(a.roster) == 0 {
		return statusErrStyle.Render("(no officers configured)")
	}
	return valueStyle.Render(fmt.Sprintf("◀ %s ▶", a.roster[a.recipientCursor])) +
		dimStyle.Render(fmt.Sprintf("  %d of %d", a.recipientCursor+1, len(a.roster)))
}

func (a *App) renderCallTarget() string {
	switch a.callTarget {
	case "":
		return dimStyle.Render("(enter to choose)")
	case intake.NewCallSentinel:
		return valueStyle.Render("new call") + dimStyle.Render("  server assigns the id")
	default:
		return valueStyle.Render(a.callTarget)
	}
}

func (a *App) renderText() string {
	cursor := ""
	if a.focus == focusText && a.modal == modalNone {
		cursor = "█"
	}
	if a.text == "" && cursor == "" {
		return dimStyle.Render("(empty)")
	}
	return valueStyle.Render(a.text) + cursor
}

func (a *App) renderStaged() string {
	files := a.staging.List()
	header := labelStyle.Render(fmt.Sprintf("Staged photos (%d, %s)", len(files), humanSize(a.staging.TotalSize())))
	if a.focus == focusStaged && a.modal == modalNone {
		header = focusLabelStyle.Render(fmt.Sprintf("Staged photos (%d, %s)", len(files), humanSize(a.staging.TotalSize())))
	}
	out := "  " + header + "\n"
	if len(files) == 0 {
		return out + dimStyle.Render("    none — press a to attach") + "\n"
	}
	for i, f := range files {
		marker := "    "
		style := valueStyle
		if a.focus == focusStaged && i == a.stagedCursor {
			marker = "  ▶ "
			style = focusLabelStyle
		}
		out += marker + style.Render(fmt.Sprintf("%-32s %-12s %8s", f.Name, f.MIME, humanSize(int64(len(f.Data))))) + "\n"
	}
	return out
}

func (a *App) renderModal() string {
	switch a.modal {
	case modalCallPicker:
		var b strings.Builder
		b.WriteString(titleStyle.Render("Select call"))
		b.WriteString("\n")
		for i, id := range a.callChoices {
			label := id
			if id == intake.NewCallSentinel {
				label = "new call (server assigns the id)"
			}
			marker := "  "
			style := valueStyle
			if i == a.callCursor {
				marker = "▶ "
				style = focusLabelStyle
			}
			b.WriteString(marker + style.Render(label) + "\n")
		}
		b.WriteString(renderLegend([]key.Binding{a.keys.Up, a.keys.Down, a.keys.Confirm, a.keys.Dismiss}))
		return modalStyle.Render(b.String())
	case modalFilePicker:
		return modalStyle.Render(a.fileList.View() + "\n" +
			renderLegend([]key.Binding{a.keys.Confirm, a.keys.Dismiss}))
	}
	return ""
}

func renderLegend(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, fmt.Sprintf("[%s] %s", h.Key, h.Desc))
	}
	return legendStyle.Render(strings.Join(parts, "  "))
}
