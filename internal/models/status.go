package models

import "fmt"

// The API speaks the hyphenated form while the database stores the
// underscored one. Only the in-progress member differs; every other status
// maps to itself. Both directions reject values outside the enum so a bad
// caller never slips an unmapped status into the database or a response.

const statusInProgressStored = "in_progress"

// StatusToInternal maps an external status value to its storage form.
func StatusToInternal(external string) (string, error) {
	switch TaskStatus(external) {
	case StatusInProgress:
		return statusInProgressStored, nil
	case StatusTodo, StatusDone, StatusCanceled:
		return external, nil
	}
	return "", fmt.Errorf("unknown task status %q", external)
}

// StatusToExternal maps a stored status value back to its external form.
func StatusToExternal(internal string) (string, error) {
	switch internal {
	case statusInProgressStored:
		return string(StatusInProgress), nil
	case string(StatusTodo), string(StatusDone), string(StatusCanceled):
		return internal, nil
	}
	return "", fmt.Errorf("unknown stored task status %q", internal)
}

// Internal returns the storage form of s. It assumes s is a valid external
// status; use StatusToInternal when the value comes from outside.
func (s TaskStatus) Internal() TaskStatus {
	if s == StatusInProgress {
		return TaskStatus(statusInProgressStored)
	}
	return s
}

// External returns the API form of s, undoing Internal.
func (s TaskStatus) External() TaskStatus {
	if s == TaskStatus(statusInProgressStored) {
		return StatusInProgress
	}
	return s
}
