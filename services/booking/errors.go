package booking

import (
	"errors"
	"fmt"

	"havenly/database"
	"havenly/utils"
)

// TransitionError reports a status change the lifecycle does not allow.
func TransitionError(action, status string) error {
	return utils.NewBadRequest(fmt.Sprintf("cannot %s a booking that is %s", action, status))
}

func notFound(err error, msg string) error {
	if errors.Is(err, database.ErrNotFound) {
		return utils.NewNotFound(msg)
	}
	return utils.NewInternal(msg, err)
}
