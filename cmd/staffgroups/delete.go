package main

import (
	"context"
	"fmt"
	"io"
	"os"

	appErrors "staffgroups/internal/errors"
	"staffgroups/internal/groups"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// deletePrompt asks the operator to confirm deleting g, which has the given
// number of direct children.
type deletePrompt func(g groups.Group, children int) (bool, error)

// confirmDelete is swapped out in tests.
var confirmDelete deletePrompt = promptDelete

// deleteGroup removes id after confirmation. assumeYes skips the prompt.
func deleteGroup(ctx context.Context, w io.Writer, store groups.Store, id string, assumeYes bool) error {
	target, err := store.Get(ctx, id)
	if err != nil {
		return err
	}
	all, err := store.List(ctx)
	if err != nil {
		return err
	}
	children := 0
	for _, g := range all {
		if g.ParentID == target.ID && g.ID != target.ID {
			children++
		}
	}

	if !assumeYes {
		ok, err := confirmDelete(target, children)
		if err != nil {
			return err
		}
		if !ok {
			_, _ = fmt.Fprintln(w, "Delete cancelled")
			return nil
		}
	}

	if err := store.Delete(ctx, target.ID); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "Deleted %s [%s]", target.Name, target.ID)
	if children > 0 {
		_, _ = fmt.Fprintf(w, "; %d subgroups moved up", children)
	}
	_, _ = fmt.Fprintln(w)
	return nil
}

// promptDelete uses huh for an interactive confirmation. Without a terminal
// on stdin it refuses, so scripts must pass --yes.
func promptDelete(g groups.Group, children int) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, appErrors.New(appErrors.CodeConfigurationError,
			fmt.Sprintf("refusing to delete %s without --yes: stdin is not a terminal", g.ID), nil)
	}

	description := "Its memberships are removed."
	if children > 0 {
		description = fmt.Sprintf("Its memberships are removed and %d subgroups move up a level.", children)
	}
	var confirmed bool
	form := huh.NewConfirm().
		Title(fmt.Sprintf("Delete %s?", g.Name)).
		Description(description).
		Affirmative("Delete").
		Negative("Cancel").
		Value(&confirmed)

	if err := form.Run(); err != nil {
		return false, nil
	}
	return confirmed, nil
}
