package groups

import (
	"context"

	"staffgroups/internal/domain"
)

// Store defines the operations the application needs from group storage.
type Store interface {
	List(ctx context.Context) ([]Group, error)
	Get(ctx context.Context, id string) (Group, error)
	Create(ctx context.Context, draft domain.GroupDraft, createdBy string) (Group, error)
	Update(ctx context.Context, id, name, description string) error
	Move(ctx context.Context, id, newParentID string) error
	Reorder(ctx context.Context, draggedID, targetID string) error
	Shift(ctx context.Context, id string, delta int) error
	Delete(ctx context.Context, id string) error
	Import(ctx context.Context, groups []Group) (int, error)
	Members(ctx context.Context, groupID string) ([]string, error)
	SetMembership(ctx context.Context, staffID, groupID string, member bool) error
	Close() error
}
