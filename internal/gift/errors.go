package gift

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRecurringGoal is returned when a recurring task is created
	// without a usable goal (positive total days and a valid start day).
	ErrInvalidRecurringGoal = errors.New("gift: recurring task requires a goal with totalDays > 0 and a valid startDate")

	// ErrUnknownRecurringGoal is returned when a task is linked to an id that
	// is not a recurring master task.
	ErrUnknownRecurringGoal = errors.New("gift: linked recurring goal does not exist")

	// ErrInvalidDayKey is returned for malformed YYYY-MM-DD values.
	ErrInvalidDayKey = errors.New("gift: invalid day key")

	// ErrInvalidTaskType is returned for task types other than single and
	// recurring.
	ErrInvalidTaskType = errors.New("gift: invalid task type")

	// ErrInvalidStatus is returned when UpdateTask receives a status other
	// than pending or rest. Completion goes through MarkTaskDone.
	ErrInvalidStatus = errors.New("gift: invalid task status for update")
)

// StorageError reports a persistence failure after the store has retried.
// The engine keeps the in-memory mutation when it returns one.
type StorageError struct {
	Op  string
	Err error
}

// Error names the failed operation and its cause.
func (e *StorageError) Error() string {
	return fmt.Sprintf("gift: storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsStorageError reports whether err wraps a *StorageError.
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
