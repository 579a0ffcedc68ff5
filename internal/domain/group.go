package domain

import (
	"strings"
	"unicode/utf8"
)

const (
	// MinNameLength is the shortest group name accepted.
	MinNameLength = 2
	// MaxDescriptionLength caps the free-text description.
	MaxDescriptionLength = 500
)

// GroupDraft carries user-editable group fields before they are written.
//
// Business rules enforced:
//   - Name is required and at least MinNameLength characters after trimming.
//   - Description is optional and at most MaxDescriptionLength characters.
//   - A group cannot name itself as its parent.
type GroupDraft struct {
	ID          string
	Name        string
	Description string
	ParentID    string
}

// Normalize trims whitespace from every field.
func (d GroupDraft) Normalize() GroupDraft {
	return GroupDraft{
		ID:          strings.TrimSpace(d.ID),
		Name:        strings.TrimSpace(d.Name),
		Description: strings.TrimSpace(d.Description),
		ParentID:    strings.TrimSpace(d.ParentID),
	}
}

// Validate checks the draft against the group rules. Drafts are normalized
// first, so surrounding whitespace never fails validation on its own.
func (d GroupDraft) Validate() error {
	n := d.Normalize()
	if err := ValidateName(n.Name); err != nil {
		return err
	}
	if utf8.RuneCountInString(n.Description) > MaxDescriptionLength {
		return invalidGroupError("description must be at most 500 characters")
	}
	if n.ID != "" && n.ParentID == n.ID {
		return invalidGroupError("a group cannot be its own parent")
	}
	return nil
}

// ValidateName applies the name rules on their own, for rename flows.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return invalidGroupError("group name is required")
	}
	if utf8.RuneCountInString(trimmed) < MinNameLength {
		return invalidGroupError("group name is too short")
	}
	return nil
}
