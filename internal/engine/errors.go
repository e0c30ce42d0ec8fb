package engine

import (
	"errors"
	"fmt"
)

// RuntimeError reports a rejected transition.
//
// A rejected event leaves the view state untouched. The error carries
// enough structure for the harness and CLI to assert on the reason.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// Event is the name of the rejected event.
	Event string

	// Details contains additional context.
	Details map[string]string
}

// RuntimeErrorCode categorizes rejected transitions.
type RuntimeErrorCode string

const (
	// ErrCodeUnknownCategory indicates the category id is neither a real
	// category nor the favorites view.
	ErrCodeUnknownCategory RuntimeErrorCode = "UNKNOWN_CATEGORY"

	// ErrCodeUnknownTechnique indicates the technique id is not in the catalog.
	ErrCodeUnknownTechnique RuntimeErrorCode = "UNKNOWN_TECHNIQUE"

	// ErrCodeNoActiveTechnique indicates a detail-view event with no detail open.
	ErrCodeNoActiveTechnique RuntimeErrorCode = "NO_ACTIVE_TECHNIQUE"

	// ErrCodeNoQuizSession indicates a quiz event with no quiz open.
	ErrCodeNoQuizSession RuntimeErrorCode = "NO_QUIZ_SESSION"

	// ErrCodeQuizAlreadyAnswered indicates a second answer to one question.
	ErrCodeQuizAlreadyAnswered RuntimeErrorCode = "QUIZ_ALREADY_ANSWERED"

	// ErrCodeQuizNotAnswered indicates advancing before answering.
	ErrCodeQuizNotAnswered RuntimeErrorCode = "QUIZ_NOT_ANSWERED"

	// ErrCodeInvalidOption indicates an answer that is not one of the options.
	ErrCodeInvalidOption RuntimeErrorCode = "INVALID_OPTION"

	// ErrCodeQuizUnavailable indicates the quiz feature is disabled.
	ErrCodeQuizUnavailable RuntimeErrorCode = "QUIZ_UNAVAILABLE"

	// ErrCodeUnknownEvent indicates an event type the controller does not handle.
	ErrCodeUnknownEvent RuntimeErrorCode = "UNKNOWN_EVENT"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	if e.Event != "" {
		return fmt.Sprintf("%s: %s (event=%s)", e.Code, e.Message, e.Event)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsRuntimeCode reports whether err is a RuntimeError with the given code.
// Uses errors.As to handle wrapped errors.
func IsRuntimeCode(err error, code RuntimeErrorCode) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}

// CodeOf returns the RuntimeErrorCode of err, or "" if err is not a RuntimeError.
func CodeOf(err error) RuntimeErrorCode {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code
	}
	return ""
}

func newRuntimeError(code RuntimeErrorCode, ev Event, format string, args ...any) *RuntimeError {
	return &RuntimeError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Event:   ev.Type.String(),
	}
}

func unknownCategoryError(ev Event) *RuntimeError {
	re := newRuntimeError(ErrCodeUnknownCategory, ev, "category %q not found", ev.CategoryID)
	re.Details = map[string]string{"category_id": ev.CategoryID}
	return re
}

func unknownTechniqueError(ev Event) *RuntimeError {
	re := newRuntimeError(ErrCodeUnknownTechnique, ev, "technique %q not found", ev.TechniqueID)
	re.Details = map[string]string{"technique_id": string(ev.TechniqueID)}
	return re
}
