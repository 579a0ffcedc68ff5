package hierarchy

import (
	"fmt"

	appErrors "staffgroups/internal/errors"
)

func unknownNodeError(id string) error {
	return appErrors.New(appErrors.CodeNotFound, fmt.Sprintf("group %s not found", id), nil)
}

func invalidMoveError(format string, args ...any) error {
	return appErrors.New(appErrors.CodeInvalidMove, fmt.Sprintf(format, args...), nil)
}

func cyclicMoveError(movingID, newParentID string) error {
	return appErrors.New(appErrors.CodeCyclicMove, fmt.Sprintf("moving %s under %s would create a cycle", movingID, newParentID), nil)
}
