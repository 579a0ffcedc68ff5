package groups

import (
	"errors"
	"fmt"

	appErrors "staffgroups/internal/errors"
)

// ErrNotFound indicates the requested group does not exist.
var ErrNotFound = errors.New("groups: group not found")

func notFoundError(id string) error {
	return appErrors.New(appErrors.CodeNotFound, fmt.Sprintf("group %s not found", id), ErrNotFound)
}

func storeError(action string, err error) error {
	return appErrors.New(appErrors.CodeStoreFailed, fmt.Sprintf("%s: %v", action, err), err)
}

func invalidGroupError(reason string) error {
	return appErrors.New(appErrors.CodeInvalidGroupData, reason, nil)
}

func importError(reason string, err error) error {
	return appErrors.New(appErrors.CodeImportFailed, reason, err)
}
