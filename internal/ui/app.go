package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"staffgroups/internal/groups"
	"staffgroups/internal/hierarchy"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	minViewportWidth       = 20
	minViewportHeight      = 5
	minTreeWidth           = 18
	minListHeight          = 5
	defaultRefreshInterval = 3 * time.Second
	toastDuration          = 2 * time.Second
)

// FocusArea identifies which pane receives navigation keys.
type FocusArea int

const (
	FocusTree FocusArea = iota
	FocusDetails
)

// Config configures the UI application.
type Config struct {
	Store           groups.Store
	DBPath          string
	RefreshInterval time.Duration
	AutoRefresh     bool
	MaxDepth        int
	MarkdownStyle   string
	Version         string
	// Actor is recorded as the creator of groups added from the UI.
	Actor string
}

// App implements the Bubble Tea model for browsing and rearranging groups.
type App struct {
	store     groups.Store
	validator hierarchy.Validator
	keys      KeyMap

	groups    []groups.Group
	byID      map[string]groups.Group
	forest    hierarchy.Forest
	rows      []hierarchy.Row
	collapsed map[string]bool
	cursor    int

	// moveSourceID is set while the user picks a new parent for a group.
	moveSourceID string
	// revealAfterRefresh is expanded into view once the next refresh lands.
	revealAfterRefresh string

	// At most one overlay is open at a time.
	groupForm     *GroupFormOverlay
	deleteOverlay *DeleteOverlay
	memberOverlay *MemberOverlay
	actor         string

	viewport      viewport.Model
	spinner       spinner.Model
	ShowDetails   bool
	showHelp      bool
	focus         FocusArea
	ready         bool
	members       map[string][]string
	membersErr    string
	markdownStyle string

	width            int
	height           int
	refreshInterval  time.Duration
	autoRefresh      bool
	dbPath           string
	lastDBModTime    time.Time
	refreshInFlight  bool
	lastRefreshStats string
	lastError        string
	toast            string
	toastStart       time.Time
	version          string
}

// NewApp loads the current groups and returns a ready-to-run model.
func NewApp(cfg Config) (*App, error) {
	if cfg.Store == nil {
		return nil, errors.New("ui: a group store is required")
	}
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = defaultRefreshInterval
	}

	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()
	all, err := cfg.Store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load groups: %w", err)
	}

	autoRefresh := cfg.AutoRefresh
	var modTime time.Time
	var refreshStats string
	if cfg.DBPath == "" {
		autoRefresh = false
	} else if latest, err := latestModTimeForDB(cfg.DBPath); err != nil {
		autoRefresh = false
		refreshStats = fmt.Sprintf("refresh unavailable: %v", err)
	} else {
		modTime = latest
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styleMarker

	app := &App{
		store:            cfg.Store,
		validator:        hierarchy.Validator{MaxDepth: cfg.MaxDepth},
		keys:             DefaultKeyMap(),
		collapsed:        make(map[string]bool),
		members:          make(map[string][]string),
		spinner:          sp,
		focus:            FocusTree,
		markdownStyle:    cfg.MarkdownStyle,
		refreshInterval:  cfg.RefreshInterval,
		autoRefresh:      autoRefresh,
		dbPath:           cfg.DBPath,
		lastDBModTime:    modTime,
		lastRefreshStats: refreshStats,
		version:          cfg.Version,
		actor:            cfg.Actor,
	}
	app.setGroups(all)
	return app, nil
}

func (m *App) Init() tea.Cmd {
	if m.autoRefresh && m.refreshInterval > 0 {
		return scheduleTick(m.refreshInterval)
	}
	return nil
}

// setGroups replaces the loaded data and rebuilds the safe forest.
func (m *App) setGroups(all []groups.Group) {
	m.groups = all
	m.byID = groups.Index(all)
	m.forest = hierarchy.BuildForestSafe(groups.Nodes(all))
	m.recalcVisibleRows()
}

func (m *App) recalcVisibleRows() {
	m.rows = hierarchy.Flatten(m.forest.Tree, func(id string) bool { return !m.collapsed[id] })
	m.clampCursor()
}

func (m *App) clampCursor() {
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// currentGroup returns the group under the cursor.
func (m *App) currentGroup() (groups.Group, bool) {
	if len(m.rows) == 0 {
		return groups.Group{}, false
	}
	g, ok := m.byID[m.rows[m.cursor].Node.ID]
	return g, ok
}

func (m *App) restoreCursorToID(id string) {
	for i, row := range m.rows {
		if row.Node.ID == id {
			m.cursor = i
			return
		}
	}
	m.clampCursor()
}

// revealID expands every ancestor of id so that its row becomes visible.
func (m *App) revealID(id string) {
	for _, ancestor := range hierarchy.Ancestors(groups.Nodes(m.groups), id) {
		delete(m.collapsed, ancestor)
	}
	m.recalcVisibleRows()
	m.restoreCursorToID(id)
}

func (m *App) setToast(text string) tea.Cmd {
	m.toast = text
	m.toastStart = time.Now()
	return scheduleToastTick()
}

func clampDimension(value, minValue, maxValue int) int {
	if maxValue < minValue {
		maxValue = minValue
	}
	if value < minValue {
		return minValue
	}
	if value > maxValue {
		return maxValue
	}
	return value
}
