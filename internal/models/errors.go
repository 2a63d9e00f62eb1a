package models

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError reports one or more malformed submission fields. No
// scoring is attempted and no state changes when it is returned.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Errors, "; "))
}

// ErrProofRequired means the quest mandates proof and none was attached.
// The submission is rejected before scoring and the quest stays active —
// no evaluation attempt was made, so the quest is not burned.
var ErrProofRequired = errors.New("proof required but not provided")

// ErrConcurrentTransition means the quest was already in a terminal state
// when a transition was attempted. No state changes; safe to retry-detect.
var ErrConcurrentTransition = errors.New("quest already in a terminal state")

// ErrQuestNotFound is returned for unknown quest IDs.
var ErrQuestNotFound = errors.New("quest not found")

// GenerationFailure wraps an upstream plan-generation error. Callers fall
// back to a template plan instead of surfacing it to the user.
type GenerationFailure struct {
	Err error
}

func (e *GenerationFailure) Error() string {
	return fmt.Sprintf("plan generation failed: %v", e.Err)
}

func (e *GenerationFailure) Unwrap() error { return e.Err }
