package ui

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"staffgroups/internal/debug"
	"staffgroups/internal/groups"
	"staffgroups/internal/hierarchy"

	tea "github.com/charmbracelet/bubbletea"
)

const refreshTimeout = 10 * time.Second

func refreshDataCmd(store groups.Store, targetModTime time.Time) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()

		all, err := store.List(ctx)
		if err != nil {
			return refreshCompleteMsg{err: err}
		}
		return refreshCompleteMsg{
			groups:    all,
			forest:    hierarchy.BuildForestSafe(groups.Nodes(all)),
			dbModTime: targetModTime,
		}
	}
}

func (m *App) checkDBForChanges() tea.Cmd {
	if m.refreshInFlight || m.dbPath == "" {
		return nil
	}

	modTime, err := m.latestDBModTime()
	if err != nil {
		m.lastError = fmt.Sprintf("refresh check failed: %v", err)
		m.lastRefreshStats = "refresh error"
		return nil // Try again next tick
	}

	if !modTime.After(m.lastDBModTime) {
		return nil
	}

	return m.startRefresh(modTime)
}

func (m *App) startRefresh(targetModTime time.Time) tea.Cmd {
	if m.refreshInFlight {
		return nil
	}
	m.refreshInFlight = true
	return tea.Batch(m.spinner.Tick, refreshDataCmd(m.store, targetModTime))
}

func (m *App) forceRefresh() tea.Cmd {
	var modTime time.Time
	if m.dbPath != "" {
		if latest, err := m.latestDBModTime(); err == nil {
			modTime = latest
		}
	}
	return m.startRefresh(modTime)
}

func (m *App) latestDBModTime() (time.Time, error) {
	if strings.TrimSpace(m.dbPath) == "" {
		return time.Time{}, fmt.Errorf("database path is empty")
	}
	return latestModTimeForDB(m.dbPath)
}

// latestModTimeForDB returns the newest modification time across the
// database file and its WAL companions.
func latestModTimeForDB(dbPath string) (time.Time, error) {
	info, err := os.Stat(dbPath)
	if err != nil {
		return time.Time{}, err
	}
	latest := info.ModTime()
	for _, path := range []string{dbPath + "-wal", dbPath + "-shm"} {
		if modTime, err := optionalModTime(path); err != nil {
			return time.Time{}, err
		} else if modTime.After(latest) {
			latest = modTime
		}
	}
	return latest, nil
}

func optionalModTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return time.Time{}, nil
		}
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

// applyRefresh swaps in freshly loaded data, keeping the cursor on the same
// group and preserving collapsed state for groups that still exist.
func (m *App) applyRefresh(all []groups.Group, forest hierarchy.Forest, newModTime time.Time) {
	currentID := ""
	if len(m.rows) > 0 {
		currentID = m.rows[m.cursor].Node.ID
	}
	before := len(m.groups)

	m.groups = all
	m.byID = groups.Index(all)
	m.forest = forest
	m.members = make(map[string][]string)
	for id := range m.collapsed {
		if _, ok := m.byID[id]; !ok {
			delete(m.collapsed, id)
		}
	}
	if m.moveSourceID != "" {
		if _, ok := m.byID[m.moveSourceID]; !ok {
			m.moveSourceID = ""
		}
	}
	if !newModTime.IsZero() {
		m.lastDBModTime = newModTime
	}
	m.recalcVisibleRows()
	if m.revealAfterRefresh != "" {
		m.revealID(m.revealAfterRefresh)
		m.revealAfterRefresh = ""
	} else if currentID != "" {
		m.restoreCursorToID(currentID)
	}

	m.lastRefreshStats = formatRefreshDelta(before, len(all))
	m.lastError = ""
	debug.Log("refresh applied", "groups", len(all), "cycles", len(forest.Cycles), "dangling", len(forest.Dangling))
	m.updateViewportContent()
}

func formatRefreshDelta(before, after int) string {
	switch {
	case after > before:
		return fmt.Sprintf("+%d groups", after-before)
	case after < before:
		return fmt.Sprintf("-%d groups", before-after)
	default:
		return "up to date"
	}
}
