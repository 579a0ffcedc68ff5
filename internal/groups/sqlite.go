package groups

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"staffgroups/internal/debug"
	"staffgroups/internal/domain"
	appErrors "staffgroups/internal/errors"
	"staffgroups/internal/hierarchy"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver, WAL-friendly
)

const schema = `
CREATE TABLE IF NOT EXISTS staff_groups (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	parent_id   TEXT,
	sort_order  INTEGER NOT NULL DEFAULT 0,
	created_by  TEXT NOT NULL DEFAULT '',
	created_at  TEXT NOT NULL,
	updated_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_staff_groups_parent ON staff_groups (parent_id);

CREATE TABLE IF NOT EXISTS staff_group_members (
	staff_id TEXT NOT NULL,
	group_id TEXT NOT NULL,
	PRIMARY KEY (staff_id, group_id)
);
`

const selectGroups = `SELECT id, name, description, COALESCE(parent_id, ''), sort_order,
	created_by, created_at, updated_at FROM staff_groups`

// dbtx is satisfied by both *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// sqliteStore keeps staff groups in a local SQLite database. Writes that
// depend on the current hierarchy run in IMMEDIATE transactions, so the
// check and the write see the same data.
type sqliteStore struct {
	db        *sql.DB
	validator hierarchy.Validator
	now       func() time.Time
}

// SQLiteOption configures OpenSQLite.
type SQLiteOption func(*sqliteStore)

// WithValidator sets the depth bound used to check moves.
func WithValidator(v hierarchy.Validator) SQLiteOption {
	return func(s *sqliteStore) {
		s.validator = v
	}
}

// WithClock overrides the timestamp source. Used by tests.
func WithClock(now func() time.Time) SQLiteOption {
	return func(s *sqliteStore) {
		s.now = now
	}
}

// OpenSQLite opens (creating if needed) the database at dbPath and applies
// the schema.
func OpenSQLite(ctx context.Context, dbPath string, opts ...SQLiteOption) (Store, error) {
	trimmed := strings.TrimSpace(dbPath)
	if trimmed == "" {
		return nil, appErrors.New(appErrors.CodeConfigurationError, "database path is required", nil)
	}

	db, err := sql.Open("sqlite", buildSQLiteDSN(trimmed))
	if err != nil {
		return nil, storeError("open sqlite db", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, storeError("ping sqlite db", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, storeError("apply schema", err)
	}

	s := &sqliteStore{
		db:        db,
		validator: hierarchy.DefaultValidator(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	debug.Log("opened group store", "path", trimmed)
	return s, nil
}

// buildSQLiteDSN creates a read-write WAL DSN whose transactions take the
// write lock up front.
func buildSQLiteDSN(dbPath string) string {
	q := url.Values{}
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "journal_mode(WAL)")
	q.Set("_txlock", "immediate")
	return dbPath + "?" + q.Encode()
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}

func (s *sqliteStore) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

func (s *sqliteStore) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storeError("begin transaction", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return storeError("commit transaction", err)
	}
	return nil
}

func (s *sqliteStore) List(ctx context.Context) ([]Group, error) {
	return listGroups(ctx, s.db)
}

func listGroups(ctx context.Context, q dbtx) ([]Group, error) {
	rows, err := q.QueryContext(ctx, selectGroups+` ORDER BY sort_order, created_at, id`)
	if err != nil {
		return nil, storeError("query groups", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var out []Group
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, storeError("scan group", err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("iterate groups", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGroup(row scanner) (Group, error) {
	var g Group
	err := row.Scan(
		&g.ID,
		&g.Name,
		&g.Description,
		&g.ParentID,
		&g.Order,
		&g.CreatedBy,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	return g, err
}

func (s *sqliteStore) Get(ctx context.Context, id string) (Group, error) {
	row := s.db.QueryRowContext(ctx, selectGroups+` WHERE id = ?`, strings.TrimSpace(id))
	g, err := scanGroup(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Group{}, notFoundError(id)
	}
	if err != nil {
		return Group{}, storeError("get group", err)
	}
	return g, nil
}

func (s *sqliteStore) Create(ctx context.Context, draft domain.GroupDraft, createdBy string) (Group, error) {
	draft = draft.Normalize()
	if err := draft.Validate(); err != nil {
		return Group{}, err
	}

	var created Group
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		all, err := listGroups(ctx, tx)
		if err != nil {
			return err
		}
		existing := Index(all)
		if draft.ParentID != "" {
			if _, ok := existing[draft.ParentID]; !ok {
				return invalidGroupError(fmt.Sprintf("parent group %s does not exist", draft.ParentID))
			}
		}
		id := draft.ID
		if id == "" {
			id = uuid.NewString()
		} else if _, taken := existing[id]; taken {
			return invalidGroupError(fmt.Sprintf("group id %s already exists", id))
		}

		now := s.timestamp()
		created = Group{
			ID:          id,
			Name:        draft.Name,
			Description: draft.Description,
			ParentID:    draft.ParentID,
			Order:       hierarchy.NextOrder(Nodes(all), draft.ParentID),
			CreatedBy:   strings.TrimSpace(createdBy),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		return insertGroup(ctx, tx, created)
	})
	if err != nil {
		return Group{}, err
	}
	debug.Log("created group", "id", created.ID, "parent", created.ParentID, "order", created.Order)
	return created, nil
}

func insertGroup(ctx context.Context, q dbtx, g Group) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO staff_groups (id, name, description, parent_id, sort_order, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			parent_id = excluded.parent_id,
			sort_order = excluded.sort_order,
			created_by = excluded.created_by,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at`,
		g.ID, g.Name, g.Description, nullableParent(g.ParentID), g.Order, g.CreatedBy, g.CreatedAt, g.UpdatedAt,
	)
	if err != nil {
		return storeError("write group", err)
	}
	return nil
}

func nullableParent(parentID string) sql.NullString {
	return sql.NullString{String: parentID, Valid: parentID != ""}
}

func (s *sqliteStore) Update(ctx context.Context, id, name, description string) error {
	draft := domain.GroupDraft{ID: id, Name: name, Description: description}.Normalize()
	if err := draft.Validate(); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE staff_groups SET name = ?, description = ?, updated_at = ? WHERE id = ?`,
		draft.Name, draft.Description, s.timestamp(), draft.ID,
	)
	if err != nil {
		return storeError("update group", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return notFoundError(draft.ID)
	}
	return nil
}

func (s *sqliteStore) Move(ctx context.Context, id, newParentID string) error {
	id, newParentID = strings.TrimSpace(id), strings.TrimSpace(newParentID)
	return s.withTx(ctx, func(tx *sql.Tx) error {
		all, err := listGroups(ctx, tx)
		if err != nil {
			return err
		}
		plan, err := s.validator.PlanMove(Nodes(all), id, newParentID)
		if err != nil {
			return err
		}
		debug.Log("move planned", "group", id, "parent", newParentID, "writes", len(plan))
		return s.applyPlan(ctx, tx, plan)
	})
}

func (s *sqliteStore) Reorder(ctx context.Context, draggedID, targetID string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		all, err := listGroups(ctx, tx)
		if err != nil {
			return err
		}
		plan, err := hierarchy.PlanReorder(Nodes(all), strings.TrimSpace(draggedID), strings.TrimSpace(targetID))
		if err != nil {
			return err
		}
		return s.applyPlan(ctx, tx, plan)
	})
}

func (s *sqliteStore) Shift(ctx context.Context, id string, delta int) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		all, err := listGroups(ctx, tx)
		if err != nil {
			return err
		}
		plan, err := hierarchy.PlanShift(Nodes(all), strings.TrimSpace(id), delta)
		if err != nil {
			return err
		}
		return s.applyPlan(ctx, tx, plan)
	})
}

func (s *sqliteStore) applyPlan(ctx context.Context, tx *sql.Tx, plan []hierarchy.Placement) error {
	now := s.timestamp()
	for _, p := range plan {
		_, err := tx.ExecContext(ctx,
			`UPDATE staff_groups SET parent_id = ?, sort_order = ?, updated_at = ? WHERE id = ?`,
			nullableParent(p.ParentID), p.Order, now, p.ID,
		)
		if err != nil {
			return storeError(fmt.Sprintf("place group %s", p.ID), err)
		}
	}
	return nil
}

// Delete removes a group and its memberships. Direct children move up to the
// deleted group's parent, after its existing children, so nothing is left
// pointing at a missing parent.
func (s *sqliteStore) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	return s.withTx(ctx, func(tx *sql.Tx) error {
		all, err := listGroups(ctx, tx)
		if err != nil {
			return err
		}
		target, ok := Index(all)[id]
		if !ok {
			return notFoundError(id)
		}

		var rest []Group
		var children []Group
		for _, g := range all {
			if g.ID == id {
				continue
			}
			rest = append(rest, g)
			if g.ParentID == id {
				children = append(children, g)
			}
		}
		sort.SliceStable(children, func(i, j int) bool { return children[i].Order < children[j].Order })

		nodes := Nodes(rest)
		base := hierarchy.NextOrder(nodes, target.ParentID)
		plan := make([]hierarchy.Placement, 0, len(children))
		for i, child := range children {
			parent := target.ParentID
			if s.validator.WouldCreateCycle(nodes, child.ID, parent) {
				parent = ""
			}
			plan = append(plan, hierarchy.Placement{ID: child.ID, ParentID: parent, Order: base + i})
		}
		if err := s.applyPlan(ctx, tx, plan); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM staff_group_members WHERE group_id = ?`, id); err != nil {
			return storeError("remove memberships", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM staff_groups WHERE id = ?`, id); err != nil {
			return storeError("delete group", err)
		}
		debug.Log("deleted group", "id", id, "rehomed", len(plan))
		return nil
	})
}

// Import upserts groups as given, without hierarchy checks. Records with a
// blank id are skipped; a blank name becomes "Untitled".
func (s *sqliteStore) Import(ctx context.Context, groups []Group) (int, error) {
	written := 0
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		now := s.timestamp()
		for _, g := range groups {
			g.ID = strings.TrimSpace(g.ID)
			if g.ID == "" {
				continue
			}
			g.ParentID = strings.TrimSpace(g.ParentID)
			if strings.TrimSpace(g.Name) == "" {
				g.Name = "Untitled"
			}
			if g.CreatedAt == "" {
				g.CreatedAt = now
			}
			if g.UpdatedAt == "" {
				g.UpdatedAt = g.CreatedAt
			}
			if err := insertGroup(ctx, tx, g); err != nil {
				return err
			}
			written++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	debug.Log("imported groups", "count", written)
	return written, nil
}

func (s *sqliteStore) Members(ctx context.Context, groupID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT staff_id FROM staff_group_members WHERE group_id = ? ORDER BY staff_id`,
		strings.TrimSpace(groupID),
	)
	if err != nil {
		return nil, storeError("query members", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var out []string
	for rows.Next() {
		var staffID string
		if err := rows.Scan(&staffID); err != nil {
			return nil, storeError("scan member", err)
		}
		out = append(out, staffID)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("iterate members", err)
	}
	return out, nil
}

// SetMembership adds staffID to groupID, or removes it from groupID and every
// group below it.
func (s *sqliteStore) SetMembership(ctx context.Context, staffID, groupID string, member bool) error {
	staffID, groupID = strings.TrimSpace(staffID), strings.TrimSpace(groupID)
	if staffID == "" {
		return invalidGroupError("staff id is required")
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		all, err := listGroups(ctx, tx)
		if err != nil {
			return err
		}
		if _, ok := Index(all)[groupID]; !ok {
			return notFoundError(groupID)
		}
		if member {
			_, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO staff_group_members (staff_id, group_id) VALUES (?, ?)`,
				staffID, groupID,
			)
			if err != nil {
				return storeError("add member", err)
			}
			return nil
		}

		ids := hierarchy.Subtree(Nodes(all), groupID)
		args := make([]any, 0, len(ids)+1)
		args = append(args, staffID)
		for _, id := range ids {
			args = append(args, id)
		}
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
		_, err = tx.ExecContext(ctx,
			`DELETE FROM staff_group_members WHERE staff_id = ? AND group_id IN (`+placeholders+`)`,
			args...,
		)
		if err != nil {
			return storeError("remove member", err)
		}
		return nil
	})
}
