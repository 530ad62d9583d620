package domain

import (
	"strings"
	"testing"

	"github.com/sebuszqo/BookmarkManager/internal/bookmarks/errors"
	"github.com/stretchr/testify/assert"
)

func TestCategoryValidate(t *testing.T) {
	valid := Category{Name: "Development", Icon: "💻"}
	assert.NoError(t, valid.Validate())

	empty := Category{Name: ""}
	assert.True(t, errors.IsValidationError(empty.Validate()))

	longName := Category{Name: strings.Repeat("x", 51)}
	assert.True(t, errors.IsValidationError(longName.Validate()))

	// Limits count runes, not bytes.
	emojiName := Category{Name: strings.Repeat("📁", 50)}
	assert.NoError(t, emojiName.Validate())

	longIcon := Category{Name: "Development", Icon: strings.Repeat("📁", 11)}
	assert.True(t, errors.IsValidationError(longIcon.Validate()))
}

func TestBookmarkValidate(t *testing.T) {
	valid := Bookmark{Title: "GitHub", URL: "https://github.com"}
	assert.NoError(t, valid.Validate())

	noTitle := Bookmark{URL: "https://github.com"}
	assert.True(t, errors.IsValidationError(noTitle.Validate()))

	noURL := Bookmark{Title: "GitHub"}
	assert.True(t, errors.IsValidationError(noURL.Validate()))

	longTitle := Bookmark{Title: strings.Repeat("x", 101), URL: "https://github.com"}
	assert.True(t, errors.IsValidationError(longTitle.Validate()))

	longURL := Bookmark{Title: "GitHub", URL: "https://github.com/" + strings.Repeat("x", 500)}
	assert.True(t, errors.IsValidationError(longURL.Validate()))

	longDescription := Bookmark{Title: "GitHub", URL: "https://github.com", Description: strings.Repeat("x", 501)}
	assert.True(t, errors.IsValidationError(longDescription.Validate()))
}
