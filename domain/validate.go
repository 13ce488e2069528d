package domain

import (
	"fmt"
	"strings"
)

const (
	MaxTitleLen       = 200
	MaxDescriptionLen = 1000
	MaxTagLen         = 20
	MaxCommentLen     = 500
)

// Validate checks the field constraints of a task. The transport layer may
// reject malformed payloads earlier, but the constraint definitions live
// here so every write path enforces the same rules.
func (t *Task) Validate() error {
	if t == nil {
		return ErrInvalidPayload
	}
	if strings.TrimSpace(t.Title) == "" {
		return NewError(ErrCodeInvalid, "title is required")
	}
	if len(t.Title) > MaxTitleLen {
		return NewError(ErrCodeInvalid, fmt.Sprintf("title exceeds %d characters", MaxTitleLen))
	}
	if len(t.Description) > MaxDescriptionLen {
		return NewError(ErrCodeInvalid, fmt.Sprintf("description exceeds %d characters", MaxDescriptionLen))
	}
	if !t.Priority.Valid() {
		return NewError(ErrCodeInvalid, fmt.Sprintf("unknown priority %q", t.Priority))
	}
	if !t.Status.Valid() {
		return NewError(ErrCodeInvalid, fmt.Sprintf("unknown status %q", t.Status))
	}
	if t.DueDate.IsZero() {
		return NewError(ErrCodeInvalid, "due date is required")
	}
	for _, tag := range t.Tags {
		if len(tag) > MaxTagLen {
			return NewError(ErrCodeInvalid, fmt.Sprintf("tag %q exceeds %d characters", tag, MaxTagLen))
		}
	}
	if t.EstimatedHours < 0 || t.ActualHours < 0 {
		return NewError(ErrCodeInvalid, "hours must be non-negative")
	}
	return nil
}

// ValidateCommentContent checks the content bound for a new comment. Richer
// content policy (whitespace, markup) is left to the request validation in
// front of the core.
func ValidateCommentContent(content string) error {
	if content == "" {
		return NewError(ErrCodeInvalid, "comment content is required")
	}
	if len(content) > MaxCommentLen {
		return NewError(ErrCodeInvalid, fmt.Sprintf("comment exceeds %d characters", MaxCommentLen))
	}
	return nil
}
