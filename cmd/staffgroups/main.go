package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"staffgroups/internal/config"
	"staffgroups/internal/debug"
	appErrors "staffgroups/internal/errors"
	"staffgroups/internal/groups"
	"staffgroups/internal/hierarchy"
	"staffgroups/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
)

const commandTimeout = 30 * time.Second

func main() {
	if err := config.Initialize(); err != nil {
		fmt.Printf("Error initializing config: %v\n", err)
		os.Exit(1)
	}

	autoRefreshSecondsDefault := config.GetInt(config.KeyAutoRefreshSeconds)
	if autoRefreshSecondsDefault < 0 {
		autoRefreshSecondsDefault = 0
	}

	versionFlag := flag.Bool("version", false, "Print version information and exit")
	debugFlag := flag.Bool("debug", false, "Write a debug log to ~/.staffgroups/debug.log")
	flags := runtimeFlags{
		autoRefreshSeconds: flag.Int("auto-refresh-seconds", autoRefreshSecondsDefault, "Auto-refresh interval in seconds (0 disables auto refresh)"),
		dbPath:             flag.String("db-path", config.GetString(config.KeyDatabasePath), "Path to the groups database file"),
		maxDepth:           flag.Int("max-depth", config.GetInt(config.KeyMaxDepth), "Deepest level searched when checking a move for loops"),
		outputFormat:       flag.String("output-format", config.GetString(config.KeyOutputFormat), "Output format for --print (text, json)"),
		jsonOutput:         flag.Bool("json", false, "Shorthand for --output-format=json"),
		importFile:         flag.String("import", "", "Import groups from a YAML or JSON export before anything else"),
		print:              flag.Bool("print", false, "Print the group tree and exit"),
		checkMove:          flag.String("check-move", "", "Check whether ID:PARENT is a safe move (empty PARENT means top level)"),
		deleteID:           flag.String("delete", "", "Delete the group with this ID after confirmation; its subgroups move up a level"),
		assumeYes:          flag.Bool("yes", false, "Skip the confirmation prompt for --delete"),
	}
	flag.Parse()

	if *versionFlag {
		printVersion(os.Stdout)
		os.Exit(0)
	}

	if err := debug.Init(*debugFlag); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: debug logging unavailable: %v\n", err)
	}
	defer debug.Close()

	visited := map[string]struct{}{}
	flag.CommandLine.Visit(func(f *flag.Flag) {
		visited[f.Name] = struct{}{}
	})

	runtime, err := computeRuntimeOptions(flags, visited)
	if err == nil {
		err = run(runtime, os.Stdout, openStore, launchTUI)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		debug.Close()
		os.Exit(1)
	}
}

type runtimeFlags struct {
	autoRefreshSeconds *int
	dbPath             *string
	maxDepth           *int
	outputFormat       *string
	jsonOutput         *bool
	importFile         *string
	print              *bool
	checkMove          *string
	deleteID           *string
	assumeYes          *bool
}

type runtimeOptions struct {
	refreshInterval time.Duration
	autoRefresh     bool
	dbPath          string
	maxDepth        int
	outputFormat    string
	importFile      string
	print           bool
	checkMove       string
	deleteID        string
	assumeYes       bool
}

func computeRuntimeOptions(flags runtimeFlags, visited map[string]struct{}) (runtimeOptions, error) {
	seconds := sanitizeAutoRefreshSeconds(config.GetInt(config.KeyAutoRefreshSeconds))
	if flagWasExplicitlySet("auto-refresh-seconds", visited) {
		seconds = sanitizeAutoRefreshSeconds(*flags.autoRefreshSeconds)
	}

	dbPath := strings.TrimSpace(config.GetString(config.KeyDatabasePath))
	if flagWasExplicitlySet("db-path", visited) {
		dbPath = strings.TrimSpace(*flags.dbPath)
	}

	maxDepth := config.GetInt(config.KeyMaxDepth)
	if flagWasExplicitlySet("max-depth", visited) {
		maxDepth = *flags.maxDepth
	}
	if maxDepth <= 0 {
		maxDepth = hierarchy.MaxTreeDepth
	}

	outputFormat := strings.ToLower(strings.TrimSpace(config.GetString(config.KeyOutputFormat)))
	if flagWasExplicitlySet("output-format", visited) {
		outputFormat = strings.ToLower(strings.TrimSpace(*flags.outputFormat))
	}
	if flagWasExplicitlySet("json", visited) && *flags.jsonOutput {
		outputFormat = "json"
	}
	if outputFormat == "" {
		outputFormat = "text"
	}
	if outputFormat != "text" && outputFormat != "json" {
		return runtimeOptions{}, appErrors.New(appErrors.CodeConfigurationError,
			fmt.Sprintf("unsupported output format %q (want text or json)", outputFormat), nil)
	}

	opts := runtimeOptions{
		refreshInterval: time.Duration(seconds) * time.Second,
		autoRefresh:     seconds > 0,
		dbPath:          dbPath,
		maxDepth:        maxDepth,
		outputFormat:    outputFormat,
	}
	if flagWasExplicitlySet("import", visited) {
		opts.importFile = strings.TrimSpace(*flags.importFile)
	}
	if flagWasExplicitlySet("print", visited) {
		opts.print = *flags.print
	}
	if flagWasExplicitlySet("check-move", visited) {
		opts.checkMove = strings.TrimSpace(*flags.checkMove)
	}
	if flagWasExplicitlySet("delete", visited) {
		opts.deleteID = strings.TrimSpace(*flags.deleteID)
	}
	if flagWasExplicitlySet("yes", visited) {
		opts.assumeYes = *flags.assumeYes
	}
	return opts, nil
}

func flagWasExplicitlySet(name string, visited map[string]struct{}) bool {
	_, ok := visited[name]
	return ok
}

func sanitizeAutoRefreshSeconds(seconds int) int {
	if seconds < 0 {
		return 0
	}
	return seconds
}

type storeOpener func(ctx context.Context, path string, opts ...groups.SQLiteOption) (groups.Store, error)

type tuiLauncher func(cfg ui.Config) error

func openStore(ctx context.Context, path string, opts ...groups.SQLiteOption) (groups.Store, error) {
	//nolint:gosec // G301: Database directory needs standard permissions
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, appErrors.New(appErrors.CodeConfigurationError, fmt.Sprintf("create database directory: %v", err), err)
	}
	return groups.OpenSQLite(ctx, path, opts...)
}

// run executes the one-shot commands selected by the flags, or starts the TUI
// when none were given.
func run(rt runtimeOptions, w io.Writer, open storeOpener, tui tuiLauncher) error {
	dbPath := rt.dbPath
	if dbPath == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("determine working directory: %w", err)
		}
		resolved, err := config.ResolveDatabasePath(wd)
		if err != nil {
			return err
		}
		dbPath = resolved
	}
	debug.Log("using database", "path", dbPath, "max_depth", rt.maxDepth)

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	validator := hierarchy.Validator{MaxDepth: rt.maxDepth}
	store, err := open(ctx, dbPath, groups.WithValidator(validator))
	if err != nil {
		return err
	}
	defer func() {
		_ = store.Close()
	}()

	if rt.importFile != "" {
		records, err := groups.LoadFile(rt.importFile)
		if err != nil {
			return err
		}
		n, err := store.Import(ctx, records)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(w, "Imported %d groups from %s\n", n, rt.importFile)
	}

	if rt.deleteID != "" {
		return deleteGroup(ctx, w, store, rt.deleteID, rt.assumeYes)
	}

	if rt.checkMove != "" {
		return checkMove(ctx, w, store, validator, rt.checkMove)
	}

	if rt.print {
		forest, err := loadForest(ctx, store)
		if err != nil {
			return err
		}
		if rt.outputFormat == "json" {
			return printForestJSON(w, forest)
		}
		printForestText(w, forest)
		printForestSummary(w, Version, forest)
		return nil
	}

	if rt.importFile != "" {
		return nil
	}

	if err := tui(ui.Config{
		Store:           store,
		DBPath:          dbPath,
		RefreshInterval: rt.refreshInterval,
		AutoRefresh:     rt.autoRefresh,
		MaxDepth:        rt.maxDepth,
		Version:         Version,
		Actor:           os.Getenv("USER"),
	}); err != nil {
		return err
	}

	// The TUI may have run for a long time; use a fresh deadline.
	summaryCtx, summaryCancel := context.WithTimeout(context.Background(), commandTimeout)
	defer summaryCancel()
	forest, err := loadForest(summaryCtx, store)
	if err != nil {
		return err
	}
	printForestSummary(w, Version, forest)
	return nil
}

func loadForest(ctx context.Context, store groups.Store) (hierarchy.Forest, error) {
	all, err := store.List(ctx)
	if err != nil {
		return hierarchy.Forest{}, err
	}
	return hierarchy.BuildForestSafe(groups.Nodes(all)), nil
}

// checkMove reports whether the move named by arg ("ID:PARENT") is safe.
// An unsafe move is returned as a cyclic_move error.
func checkMove(ctx context.Context, w io.Writer, store groups.Store, validator hierarchy.Validator, arg string) error {
	movingID, parentID, ok := strings.Cut(arg, ":")
	movingID, parentID = strings.TrimSpace(movingID), strings.TrimSpace(parentID)
	if !ok || movingID == "" {
		return appErrors.New(appErrors.CodeInvalidMove, fmt.Sprintf("check-move wants ID:PARENT, got %q", arg), nil)
	}
	all, err := store.List(ctx)
	if err != nil {
		return err
	}
	byID := groups.Index(all)
	if _, ok := byID[movingID]; !ok {
		return appErrors.New(appErrors.CodeNotFound, fmt.Sprintf("group %s not found", movingID), nil)
	}
	target := "top level"
	if parentID != "" {
		if _, ok := byID[parentID]; !ok {
			return appErrors.New(appErrors.CodeNotFound, fmt.Sprintf("group %s not found", parentID), nil)
		}
		target = parentID
	}
	if validator.WouldCreateCycle(groups.Nodes(all), movingID, parentID) {
		return appErrors.New(appErrors.CodeCyclicMove,
			fmt.Sprintf("moving %s under %s would make it its own ancestor", movingID, target), nil)
	}
	_, _ = fmt.Fprintf(w, "Moving %s under %s is safe\n", movingID, target)
	return nil
}

func launchTUI(cfg ui.Config) error {
	return runProgram(cfg, ui.NewApp, func(app *ui.App) programRunner {
		return tea.NewProgram(app, tea.WithAltScreen())
	})
}

type programRunner interface {
	Run() (tea.Model, error)
}

type programFactory func(*ui.App) programRunner

func runProgram(cfg ui.Config, builder func(ui.Config) (*ui.App, error), factory programFactory) error {
	app, err := builder(cfg)
	if err != nil {
		return fmt.Errorf("initialize UI: %w", err)
	}
	if factory == nil {
		return fmt.Errorf("program factory is nil")
	}
	prog := factory(app)
	if prog == nil {
		return fmt.Errorf("program is nil")
	}
	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("run UI: %w", err)
	}
	return nil
}
