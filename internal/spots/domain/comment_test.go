package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewComment(t *testing.T) {
	comment, err := NewComment("user-1", "  great natural light  ")
	require.NoError(t, err)

	assert.NotEmpty(t, comment.ID)
	assert.Equal(t, "user-1", comment.UserID)
	assert.Equal(t, "great natural light", comment.Text)
	assert.False(t, comment.CreatedAt.IsZero())
}

func TestNewCommentAssignsUniqueIDs(t *testing.T) {
	first, err := NewComment("user-1", "first")
	require.NoError(t, err)
	second, err := NewComment("user-1", "second")
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}

func TestNewCommentValidation(t *testing.T) {
	tests := []struct {
		name      string
		userID    string
		text      string
		wantField string
	}{
		{"missing user id", "", "hello", "userId"},
		{"empty text", "user-1", "", "comment"},
		{"whitespace only", "user-1", "   \n\t ", "comment"},
		{"too long", "user-1", strings.Repeat("a", MaxCommentLength+1), "comment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewComment(tt.userID, tt.text)
			require.Error(t, err)

			var validationErr *ValidationError
			require.True(t, errors.As(err, &validationErr))
			assert.Equal(t, tt.wantField, validationErr.Field)
		})
	}
}

func TestNewCommentLengthCountsRunes(t *testing.T) {
	// Multi-byte runes up to the cap are fine.
	text := strings.Repeat("あ", MaxCommentLength)
	comment, err := NewComment("user-1", text)
	require.NoError(t, err)
	assert.Equal(t, text, comment.Text)
}
