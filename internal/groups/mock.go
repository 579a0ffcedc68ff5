package groups

import (
	"context"
	"errors"
	"sync"

	"staffgroups/internal/domain"
)

// ErrMockNotImplemented is returned when a MockStore method lacks an override.
var ErrMockNotImplemented = errors.New("groups.MockStore: method not implemented")

// MockStore is a test double for the Store interface.
type MockStore struct {
	ListFn          func(context.Context) ([]Group, error)
	GetFn           func(context.Context, string) (Group, error)
	CreateFn        func(context.Context, domain.GroupDraft, string) (Group, error)
	UpdateFn        func(context.Context, string, string, string) error
	MoveFn          func(context.Context, string, string) error
	ReorderFn       func(context.Context, string, string) error
	ShiftFn         func(context.Context, string, int) error
	DeleteFn        func(context.Context, string) error
	ImportFn        func(context.Context, []Group) (int, error)
	MembersFn       func(context.Context, string) ([]string, error)
	SetMembershipFn func(context.Context, string, string, bool) error

	mu                 sync.Mutex
	ListCallCount      int
	GetCallCount       int
	CreateCallCount    int
	UpdateCallCount    int
	MoveCallCount      int
	ReorderCallCount   int
	ShiftCallCount     int
	DeleteCallCount    int
	ImportCallCount    int
	MembersCallCount   int
	SetMembershipCount int
	MoveCallArgs       [][]string // [id, newParentID]
	ReorderCallArgs    [][]string // [draggedID, targetID]
	ShiftCallArgs      []ShiftCallArg
	DeleteCallArgs     []string
	CreateCallArgs     []domain.GroupDraft
	UpdateCallArgs     [][]string // [id, name, description]
	MembershipCallArgs []MembershipCallArg
}

// MembershipCallArg captures arguments passed to SetMembership.
type MembershipCallArg struct {
	StaffID string
	GroupID string
	Member  bool
}

// ShiftCallArg captures arguments passed to Shift.
type ShiftCallArg struct {
	ID    string
	Delta int
}

// NewMockStore returns a MockStore with all overrides unset.
func NewMockStore() *MockStore {
	return &MockStore{}
}

func (m *MockStore) List(ctx context.Context) ([]Group, error) {
	m.mu.Lock()
	m.ListCallCount++
	fn := m.ListFn
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx)
	}
	return nil, ErrMockNotImplemented
}

func (m *MockStore) Get(ctx context.Context, id string) (Group, error) {
	m.mu.Lock()
	m.GetCallCount++
	fn := m.GetFn
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, id)
	}
	return Group{}, ErrMockNotImplemented
}

func (m *MockStore) Create(ctx context.Context, draft domain.GroupDraft, createdBy string) (Group, error) {
	m.mu.Lock()
	m.CreateCallCount++
	m.CreateCallArgs = append(m.CreateCallArgs, draft)
	fn := m.CreateFn
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, draft, createdBy)
	}
	return Group{}, ErrMockNotImplemented
}

func (m *MockStore) Update(ctx context.Context, id, name, description string) error {
	m.mu.Lock()
	m.UpdateCallCount++
	m.UpdateCallArgs = append(m.UpdateCallArgs, []string{id, name, description})
	fn := m.UpdateFn
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, id, name, description)
	}
	return ErrMockNotImplemented
}

func (m *MockStore) Move(ctx context.Context, id, newParentID string) error {
	m.mu.Lock()
	m.MoveCallCount++
	m.MoveCallArgs = append(m.MoveCallArgs, []string{id, newParentID})
	fn := m.MoveFn
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, id, newParentID)
	}
	return ErrMockNotImplemented
}

func (m *MockStore) Reorder(ctx context.Context, draggedID, targetID string) error {
	m.mu.Lock()
	m.ReorderCallCount++
	m.ReorderCallArgs = append(m.ReorderCallArgs, []string{draggedID, targetID})
	fn := m.ReorderFn
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, draggedID, targetID)
	}
	return ErrMockNotImplemented
}

func (m *MockStore) Shift(ctx context.Context, id string, delta int) error {
	m.mu.Lock()
	m.ShiftCallCount++
	m.ShiftCallArgs = append(m.ShiftCallArgs, ShiftCallArg{ID: id, Delta: delta})
	fn := m.ShiftFn
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, id, delta)
	}
	return ErrMockNotImplemented
}

func (m *MockStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	m.DeleteCallCount++
	m.DeleteCallArgs = append(m.DeleteCallArgs, id)
	fn := m.DeleteFn
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, id)
	}
	return ErrMockNotImplemented
}

func (m *MockStore) Import(ctx context.Context, groups []Group) (int, error) {
	m.mu.Lock()
	m.ImportCallCount++
	fn := m.ImportFn
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, groups)
	}
	return 0, ErrMockNotImplemented
}

func (m *MockStore) Members(ctx context.Context, groupID string) ([]string, error) {
	m.mu.Lock()
	m.MembersCallCount++
	fn := m.MembersFn
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, groupID)
	}
	return nil, ErrMockNotImplemented
}

func (m *MockStore) SetMembership(ctx context.Context, staffID, groupID string, member bool) error {
	m.mu.Lock()
	m.SetMembershipCount++
	m.MembershipCallArgs = append(m.MembershipCallArgs, MembershipCallArg{StaffID: staffID, GroupID: groupID, Member: member})
	fn := m.SetMembershipFn
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, staffID, groupID, member)
	}
	return ErrMockNotImplemented
}

func (m *MockStore) Close() error {
	return nil
}

// Snapshot helpers for tests.

// MoveCalls returns a copy of the recorded Move arguments.
func (m *MockStore) MoveCalls() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]string, len(m.MoveCallArgs))
	copy(out, m.MoveCallArgs)
	return out
}
