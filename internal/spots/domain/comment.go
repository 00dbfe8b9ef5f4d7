package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxCommentLength caps comment bodies in runes.
const MaxCommentLength = 2000

// Comment is a free-text remark on a spot, deletable only by its owner.
type Comment struct {
	ID        string
	UserID    string
	Text      string
	CreatedAt time.Time
}

// NewComment trims and validates the body and assigns a fresh synthetic id
// and server-side timestamp.
func NewComment(userID, text string) (Comment, error) {
	if userID == "" {
		return Comment{}, NewValidationError("userId", "user id is required")
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Comment{}, NewValidationError("comment", "comment must not be empty")
	}
	if utf8.RuneCountInString(trimmed) > MaxCommentLength {
		return Comment{}, NewValidationErrorf("comment", "comment must be at most %d characters", MaxCommentLength)
	}
	return Comment{
		ID:        uuid.NewString(),
		UserID:    userID,
		Text:      trimmed,
		CreatedAt: time.Now().UTC(),
	}, nil
}
