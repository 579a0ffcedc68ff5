package domain

import (
	appErrors "staffgroups/internal/errors"
)

func invalidGroupError(reason string) error {
	return appErrors.New(appErrors.CodeInvalidGroupData, reason, nil)
}
