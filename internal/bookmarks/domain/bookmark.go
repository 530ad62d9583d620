package domain

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sebuszqo/BookmarkManager/internal/bookmarks/errors"
)

const (
	maxBookmarkTitleLength       = 100
	maxBookmarkURLLength         = 500
	maxBookmarkDescriptionLength = 500
)

type Bookmark struct {
	ID          uuid.UUID
	UserID      string // user UUID
	Title       string
	URL         string
	Description string
	Favicon     string
	CategoryID  *uuid.UUID
	SortOrder   int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BookmarkPage describes one page of a user's bookmark listing. The filters
// are optional: a nil CategoryID means "all categories" and an empty Keyword
// means "no keyword filter".
type BookmarkPage struct {
	UserID     string
	CategoryID *uuid.UUID
	Keyword    string
	Limit      int
	Offset     int
}

type BookmarkRepository interface {
	Save(ctx context.Context, bookmark *Bookmark) error
	Update(ctx context.Context, bookmark *Bookmark) (int64, error)
	Delete(ctx context.Context, bookmarkID uuid.UUID) error
	DeleteByIDsAndUserID(ctx context.Context, bookmarkIDs []uuid.UUID, userID string) (int64, error)
	DeleteAllByUserID(ctx context.Context, userID string) (int64, error)
	FindByIDAndUserID(ctx context.Context, bookmarkID uuid.UUID, userID string) (*Bookmark, error)
	FindByUserID(ctx context.Context, userID string) ([]Bookmark, error)
	FindByUserIDAndCategoryID(ctx context.Context, userID string, categoryID uuid.UUID) ([]Bookmark, error)
	FindPage(ctx context.Context, page BookmarkPage) ([]Bookmark, int64, error)
	FindWithoutFavicon(ctx context.Context, limit int) ([]Bookmark, error)
	ExistsByURLAndUserID(ctx context.Context, url, userID string) (bool, error)
	MaxSortOrderByUserID(ctx context.Context, userID string) (int, error)
	CountByUserID(ctx context.Context, userID string) (int64, error)
	CountByCategoryID(ctx context.Context, categoryID uuid.UUID) (int64, error)
	ClearCategoryID(ctx context.Context, categoryID uuid.UUID) error
}

func (b *Bookmark) Validate() error {
	if b.Title == "" {
		return errors.NewValidationError("Title must not be empty")
	}
	if utf8.RuneCountInString(b.Title) > maxBookmarkTitleLength {
		return errors.NewFieldLengthError("Title", maxBookmarkTitleLength)
	}
	if b.URL == "" {
		return errors.NewValidationError("Url must not be empty")
	}
	if utf8.RuneCountInString(b.URL) > maxBookmarkURLLength {
		return errors.NewFieldLengthError("Url", maxBookmarkURLLength)
	}
	if utf8.RuneCountInString(b.Description) > maxBookmarkDescriptionLength {
		return errors.NewFieldLengthError("Description", maxBookmarkDescriptionLength)
	}
	return nil
}
