package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
)

// fileItem is one entry in the photo-pick modal. Nothing is filtered here:
// any file can be picked, and the staging set decides admission.
type fileItem struct {
	name string
	path string
	size int64
}

func (f fileItem) Title() string       { return f.name }
func (f fileItem) Description() string { return "" }
func (f fileItem) FilterValue() string { return f.name }

type fileItemDelegate struct{}

func (d fileItemDelegate) Height() int  { return 1 }
func (d fileItemDelegate) Spacing() int { return 0 }
func (d fileItemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd {
	return nil
}

func (d fileItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	entry, ok := item.(fileItem)
	if !ok {
		return
	}
	prefix := "  "
	style := valueStyle
	if index == m.Index() {
		prefix = "▶ "
		style = focusLabelStyle
	}
	fmt.Fprint(w, style.Render(fmt.Sprintf("%s%-32s %8s", prefix, entry.name, humanSize(entry.size))))
}

func newFileList() list.Model {
	lm := list.New([]list.Item{}, fileItemDelegate{}, 48, 12)
	lm.Title = "Attach photo"
	lm.Styles.Title = titleStyle
	lm.Styles.NoItems = lipgloss.NewStyle().Foreground(colorOverlay1)
	lm.SetShowStatusBar(false)
	lm.SetFilteringEnabled(false)
	lm.SetShowHelp(false)
	lm.DisableQuitKeybindings()
	return lm
}

// scanPhotoDir lists the regular files in dir, name-sorted, as list items.
func scanPhotoDir(dir string) ([]list.Item, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}
	var items []list.Item
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		items = append(items, fileItem{
			name: e.Name(),
			path: filepath.Join(dir, e.Name()),
			size: info.Size(),
		})
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].(fileItem).name < items[j].(fileItem).name
	})
	return items, nil
}

func humanSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
