package domain

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sebuszqo/BookmarkManager/internal/bookmarks/errors"
)

const (
	maxCategoryNameLength = 50
	maxCategoryIconLength = 10

	DefaultCategoryIcon = "📁"
)

type Category struct {
	ID        uuid.UUID
	UserID    string // user UUID
	Name      string
	Icon      string
	SortOrder int
	CreatedAt time.Time
	UpdatedAt time.Time
}

type CategoryRepository interface {
	Save(ctx context.Context, category *Category) error
	Update(ctx context.Context, category *Category) (int64, error)
	Delete(ctx context.Context, categoryID uuid.UUID) error
	DeleteAllByUserID(ctx context.Context, userID string) (int64, error)
	FindByIDAndUserID(ctx context.Context, categoryID uuid.UUID, userID string) (*Category, error)
	FindByUserID(ctx context.Context, userID string) ([]Category, error)
	FindByNameAndUserID(ctx context.Context, name, userID string) (*Category, error)
	ExistsByNameAndUserID(ctx context.Context, name, userID string) (bool, error)
	ExistsByNameAndUserIDAndIDNot(ctx context.Context, name, userID string, categoryID uuid.UUID) (bool, error)
	MaxSortOrderByUserID(ctx context.Context, userID string) (int, error)
}

func (c *Category) Validate() error {
	if c.Name == "" {
		return errors.NewValidationError("Name must not be empty")
	}
	if utf8.RuneCountInString(c.Name) > maxCategoryNameLength {
		return errors.NewFieldLengthError("Name", maxCategoryNameLength)
	}
	if utf8.RuneCountInString(c.Icon) > maxCategoryIconLength {
		return errors.NewFieldLengthError("Icon", maxCategoryIconLength)
	}
	return nil
}
