package groups

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"staffgroups/internal/domain"
	appErrors "staffgroups/internal/errors"
	"staffgroups/internal/hierarchy"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func openTestStore(t *testing.T, opts ...SQLiteOption) Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "groups.db")
	opts = append([]SQLiteOption{WithClock(func() time.Time { return fixedNow })}, opts...)
	store, err := OpenSQLite(context.Background(), dbPath, opts...)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func mustCreate(t *testing.T, store Store, id, name, parent string) Group {
	t.Helper()
	g, err := store.Create(context.Background(), domain.GroupDraft{ID: id, Name: name, ParentID: parent}, "tester")
	if err != nil {
		t.Fatalf("Create %s: %v", id, err)
	}
	return g
}

func placements(t *testing.T, store Store) map[string]Group {
	t.Helper()
	all, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	return Index(all)
}

func TestOpenSQLiteRequiresPath(t *testing.T) {
	if _, err := OpenSQLite(context.Background(), "  "); !appErrors.IsCode(err, appErrors.CodeConfigurationError) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestBuildSQLiteDSN(t *testing.T) {
	got := buildSQLiteDSN("/tmp/groups.db")
	want := "/tmp/groups.db?_pragma=busy_timeout%285000%29&_pragma=journal_mode%28WAL%29&_txlock=immediate"
	if got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestCreateAssignsOrderAndTimestamps(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	root := mustCreate(t, store, "", "Engineering", "")
	if root.ID == "" {
		t.Fatalf("expected generated id")
	}
	if root.Order != 0 || root.CreatedBy != "tester" {
		t.Fatalf("unexpected root: %+v", root)
	}
	if root.CreatedAt != "2025-03-01T12:00:00Z" || root.UpdatedAt != root.CreatedAt {
		t.Fatalf("unexpected timestamps: %+v", root)
	}

	first := mustCreate(t, store, "be", "Backend", root.ID)
	second := mustCreate(t, store, "fe", "Frontend", root.ID)
	if first.Order != 0 || second.Order != 1 {
		t.Fatalf("expected sibling orders 0,1, got %d,%d", first.Order, second.Order)
	}

	got, err := store.Get(ctx, "fe")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != second {
		t.Fatalf("expected %+v, got %+v", second, got)
	}
}

func TestCreateRejectsBadDrafts(t *testing.T) {
	store := openTestStore(t)
	mustCreate(t, store, "a", "Alpha", "")

	tests := []struct {
		name  string
		draft domain.GroupDraft
	}{
		{name: "short name", draft: domain.GroupDraft{Name: "x"}},
		{name: "missing parent", draft: domain.GroupDraft{Name: "Beta", ParentID: "ghost"}},
		{name: "duplicate id", draft: domain.GroupDraft{ID: "a", Name: "Again"}},
		{name: "self parent", draft: domain.GroupDraft{ID: "s", Name: "Self", ParentID: "s"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := store.Create(context.Background(), tc.draft, "tester")
			if !appErrors.IsCode(err, appErrors.CodeInvalidGroupData) {
				t.Fatalf("expected invalid group data, got %v", err)
			}
		})
	}
}

func TestGetMissingGroup(t *testing.T) {
	store := openTestStore(t)
	_, err := store.Get(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) || !appErrors.IsCode(err, appErrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdate(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	mustCreate(t, store, "a", "Alpha", "")

	if err := store.Update(ctx, "a", "  Alpha Team ", "Owns alpha"); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, _ := store.Get(ctx, "a")
	if got.Name != "Alpha Team" || got.Description != "Owns alpha" {
		t.Fatalf("unexpected group after update: %+v", got)
	}
	if err := store.Update(ctx, "missing", "Name", ""); !appErrors.IsCode(err, appErrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := store.Update(ctx, "a", "", ""); !appErrors.IsCode(err, appErrors.CodeInvalidGroupData) {
		t.Fatalf("expected invalid group data, got %v", err)
	}
}

func TestMoveAppendsAndRenumbers(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	mustCreate(t, store, "r", "Root", "")
	mustCreate(t, store, "a", "Alpha", "r")
	mustCreate(t, store, "b", "Bravo", "r")
	mustCreate(t, store, "c", "Charlie", "r")
	mustCreate(t, store, "x", "Xray", "")
	mustCreate(t, store, "y", "Yankee", "x")

	if err := store.Move(ctx, "a", "x"); err != nil {
		t.Fatalf("Move: %v", err)
	}
	got := placements(t, store)
	if got["a"].ParentID != "x" || got["a"].Order != 1 {
		t.Fatalf("expected a appended under x, got %+v", got["a"])
	}
	if got["b"].Order != 0 || got["c"].Order != 1 {
		t.Fatalf("expected old siblings renumbered, got b=%d c=%d", got["b"].Order, got["c"].Order)
	}

	if err := store.Move(ctx, "y", ""); err != nil {
		t.Fatalf("Move to root: %v", err)
	}
	if got := placements(t, store)["y"]; got.ParentID != "" || got.Order != 2 {
		t.Fatalf("expected y as third root, got %+v", got)
	}
}

func TestMoveRejectsCycleAndLeavesDataUntouched(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	mustCreate(t, store, "r", "Root", "")
	mustCreate(t, store, "a", "Alpha", "r")
	mustCreate(t, store, "a1", "Alpha One", "a")

	before := placements(t, store)
	err := store.Move(ctx, "r", "a1")
	if !appErrors.IsCode(err, appErrors.CodeCyclicMove) {
		t.Fatalf("expected cyclic move, got %v", err)
	}
	if err := store.Move(ctx, "a", "a"); !appErrors.IsCode(err, appErrors.CodeCyclicMove) {
		t.Fatalf("expected self move to be cyclic, got %v", err)
	}
	if err := store.Move(ctx, "a", "ghost"); !appErrors.IsCode(err, appErrors.CodeInvalidMove) {
		t.Fatalf("expected invalid move, got %v", err)
	}
	after := placements(t, store)
	for id, g := range before {
		if after[id] != g {
			t.Fatalf("group %s changed: %+v -> %+v", id, g, after[id])
		}
	}
}

func TestMoveHonoursDepthBound(t *testing.T) {
	store := openTestStore(t, WithValidator(hierarchy.Validator{MaxDepth: 2}))
	ctx := context.Background()
	parent := ""
	for _, id := range []string{"g0", "g1", "g2", "g3"} {
		mustCreate(t, store, id, "Group "+id, parent)
		parent = id
	}

	// g3 sits three hops below g0, beyond the bound of 2, so the walk from
	// g0 gives up before seeing it and the move is allowed.
	if err := store.Move(ctx, "g0", "g3"); err != nil {
		t.Fatalf("expected move past the depth bound to be accepted, got %v", err)
	}
}

func TestReorderAndShift(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	mustCreate(t, store, "a", "Alpha", "")
	mustCreate(t, store, "b", "Bravo", "")
	mustCreate(t, store, "c", "Charlie", "")
	mustCreate(t, store, "c1", "Charlie One", "c")

	if err := store.Reorder(ctx, "c", "a"); err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	got := placements(t, store)
	if got["c"].Order != 0 || got["a"].Order != 1 || got["b"].Order != 2 {
		t.Fatalf("unexpected order after reorder: c=%d a=%d b=%d", got["c"].Order, got["a"].Order, got["b"].Order)
	}
	if err := store.Reorder(ctx, "c1", "a"); !appErrors.IsCode(err, appErrors.CodeInvalidMove) {
		t.Fatalf("expected non-siblings to be rejected, got %v", err)
	}

	if err := store.Shift(ctx, "c", 5); err != nil {
		t.Fatalf("Shift: %v", err)
	}
	got = placements(t, store)
	if got["a"].Order != 0 || got["b"].Order != 1 || got["c"].Order != 2 {
		t.Fatalf("unexpected order after shift: a=%d b=%d c=%d", got["a"].Order, got["b"].Order, got["c"].Order)
	}
	if err := store.Shift(ctx, "ghost", 1); !appErrors.IsCode(err, appErrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteRehomesChildren(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	mustCreate(t, store, "r", "Root", "")
	mustCreate(t, store, "keep", "Keep", "r")
	mustCreate(t, store, "gone", "Gone", "r")
	mustCreate(t, store, "k1", "Kid One", "gone")
	mustCreate(t, store, "k2", "Kid Two", "gone")
	if err := store.SetMembership(ctx, "staff-1", "gone", true); err != nil {
		t.Fatalf("SetMembership: %v", err)
	}

	if err := store.Delete(ctx, "gone"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	got := placements(t, store)
	if _, ok := got["gone"]; ok {
		t.Fatalf("expected gone to be deleted")
	}
	if got["k1"].ParentID != "r" || got["k1"].Order != 1 || got["k2"].ParentID != "r" || got["k2"].Order != 2 {
		t.Fatalf("expected children re-homed after keep, got k1=%+v k2=%+v", got["k1"], got["k2"])
	}
	members, err := store.Members(ctx, "gone")
	if err != nil {
		t.Fatalf("Members: %v", err)
	}
	if len(members) != 0 {
		t.Fatalf("expected memberships removed, got %v", members)
	}
	if err := store.Delete(ctx, "gone"); !appErrors.IsCode(err, appErrors.CodeNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestDeleteInsideCycleMakesChildRoot(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	if _, err := store.Import(ctx, []Group{
		{ID: "a", Name: "Alpha", ParentID: "b"},
		{ID: "b", Name: "Bravo", ParentID: "a"},
	}); err != nil {
		t.Fatalf("Import: %v", err)
	}
	if err := store.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got := placements(t, store)["b"]; got.ParentID != "" {
		t.Fatalf("expected b to become a root, got parent %q", got.ParentID)
	}
}

func TestImportWritesRawRecords(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	n, err := store.Import(ctx, []Group{
		{ID: "a", Name: "Alpha", ParentID: "c"},
		{ID: "b", Name: "Bravo", ParentID: "a"},
		{ID: "c", Name: "Charlie", ParentID: "b"},
		{ID: "d", ParentID: "missing"},
		{ID: "  "},
	})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if n != 4 {
		t.Fatalf("expected 4 records written, got %d", n)
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if got := Index(all)["d"]; got.Name != "Untitled" || got.CreatedAt == "" {
		t.Fatalf("expected defaults filled for d, got %+v", got)
	}

	forest := hierarchy.BuildForestSafe(Nodes(all))
	if len(forest.Cycles) != 3 {
		t.Fatalf("expected a, b, c reported as a cycle, got %v", forest.Cycles)
	}
	if len(forest.Dangling) != 1 || forest.Dangling[0] != "d" {
		t.Fatalf("expected d dangling, got %v", forest.Dangling)
	}

	if _, err := store.Import(ctx, []Group{{ID: "d", Name: "Delta"}}); err != nil {
		t.Fatalf("re-import: %v", err)
	}
	if got := placements(t, store)["d"]; got.Name != "Delta" || got.ParentID != "" {
		t.Fatalf("expected upsert to replace d, got %+v", got)
	}
}

func TestMembershipRemovalCoversSubtree(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	mustCreate(t, store, "r", "Root", "")
	mustCreate(t, store, "a", "Alpha", "r")
	mustCreate(t, store, "a1", "Alpha One", "a")
	mustCreate(t, store, "b", "Bravo", "r")

	for _, g := range []string{"r", "a", "a1", "b"} {
		if err := store.SetMembership(ctx, "staff-1", g, true); err != nil {
			t.Fatalf("SetMembership %s: %v", g, err)
		}
	}
	// Adding twice is a no-op.
	if err := store.SetMembership(ctx, "staff-1", "a", true); err != nil {
		t.Fatalf("SetMembership repeat: %v", err)
	}

	if err := store.SetMembership(ctx, "staff-1", "a", false); err != nil {
		t.Fatalf("remove membership: %v", err)
	}
	for g, want := range map[string]int{"r": 1, "a": 0, "a1": 0, "b": 1} {
		members, err := store.Members(ctx, g)
		if err != nil {
			t.Fatalf("Members %s: %v", g, err)
		}
		if len(members) != want {
			t.Fatalf("group %s: expected %d members, got %v", g, want, members)
		}
	}

	if err := store.SetMembership(ctx, "staff-1", "ghost", true); !appErrors.IsCode(err, appErrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := store.SetMembership(ctx, " ", "r", true); !appErrors.IsCode(err, appErrors.CodeInvalidGroupData) {
		t.Fatalf("expected invalid group data, got %v", err)
	}
}
