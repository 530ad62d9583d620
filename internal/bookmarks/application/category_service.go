package application

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sebuszqo/BookmarkManager/internal/bookmarks/domain"
)

var (
	ErrCategoryNotFound       = errors.New("category not found")
	ErrTargetCategoryNotFound = errors.New("target category not found")
	ErrCategoryNameTaken      = errors.New("category with this name already exists")
)

type CategoryResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Icon          string    `json:"icon"`
	BookmarkCount int64     `json:"bookmarkCount"`
	SortOrder     int       `json:"sortOrder"`
	CreatedAt     time.Time `json:"createdAt"`
}

type CategoryService interface {
	GetCategories(ctx context.Context, userID string) ([]CategoryResponse, error)
	CreateCategory(ctx context.Context, userID, name, icon string) (*CategoryResponse, error)
	UpdateCategory(ctx context.Context, userID string, categoryID uuid.UUID, name string, icon *string) (*CategoryResponse, error)
	DeleteCategory(ctx context.Context, userID string, categoryID uuid.UUID, moveBookmarksTo *uuid.UUID) error
	ReorderCategories(ctx context.Context, userID string, categoryIDs []uuid.UUID) error
	DeleteAllCategories(ctx context.Context, userID string) (int64, error)
}

type categoryService struct {
	categoryRepo domain.CategoryRepository
	bookmarkRepo domain.BookmarkRepository
}

func NewCategoryService(categoryRepo domain.CategoryRepository, bookmarkRepo domain.BookmarkRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo, bookmarkRepo: bookmarkRepo}
}

func (s *categoryService) GetCategories(ctx context.Context, userID string) ([]CategoryResponse, error) {
	categories, err := s.categoryRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]CategoryResponse, 0, len(categories))
	for _, category := range categories {
		response, err := s.toCategoryResponse(ctx, &category)
		if err != nil {
			return nil, err
		}
		responses = append(responses, *response)
	}
	return responses, nil
}

func (s *categoryService) CreateCategory(ctx context.Context, userID, name, icon string) (*CategoryResponse, error) {
	if icon == "" {
		icon = domain.DefaultCategoryIcon
	}
	category := &domain.Category{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		Icon:      icon,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := category.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.categoryRepo.ExistsByNameAndUserID(ctx, name, userID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrCategoryNameTaken
	}

	// Computed fresh on every insert so that the scope's order stays gapless
	// at the top even after external deletions.
	maxSortOrder, err := s.categoryRepo.MaxSortOrderByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	category.SortOrder = maxSortOrder + 1

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	return s.toCategoryResponse(ctx, category)
}

func (s *categoryService) UpdateCategory(ctx context.Context, userID string, categoryID uuid.UUID, name string, icon *string) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByIDAndUserID(ctx, categoryID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	exists, err := s.categoryRepo.ExistsByNameAndUserIDAndIDNot(ctx, name, userID, categoryID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrCategoryNameTaken
	}

	category.Name = name
	if icon != nil {
		category.Icon = *icon
	}
	if err := category.Validate(); err != nil {
		return nil, err
	}

	affected, err := s.categoryRepo.Update(ctx, category)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrCategoryNotFound
	}
	return s.toCategoryResponse(ctx, category)
}

// DeleteCategory reassigns or detaches the member bookmarks before the
// category row disappears, so no bookmark ever points at a deleted category.
func (s *categoryService) DeleteCategory(ctx context.Context, userID string, categoryID uuid.UUID, moveBookmarksTo *uuid.UUID) error {
	category, err := s.categoryRepo.FindByIDAndUserID(ctx, categoryID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCategoryNotFound
		}
		return err
	}

	if moveBookmarksTo != nil {
		if _, err := s.categoryRepo.FindByIDAndUserID(ctx, *moveBookmarksTo, userID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrTargetCategoryNotFound
			}
			return err
		}
		bookmarks, err := s.bookmarkRepo.FindByUserIDAndCategoryID(ctx, userID, categoryID)
		if err != nil {
			return err
		}
		for _, bookmark := range bookmarks {
			bookmark.CategoryID = moveBookmarksTo
			if _, err := s.bookmarkRepo.Update(ctx, &bookmark); err != nil {
				return err
			}
		}
	} else {
		if err := s.bookmarkRepo.ClearCategoryID(ctx, categoryID); err != nil {
			return err
		}
	}

	return s.categoryRepo.Delete(ctx, category.ID)
}

// ReorderCategories rewrites each listed category's sort order to its
// zero-based position. The list does not have to cover the whole scope;
// unlisted categories keep their previous sort order. A duplicated id ends
// up at its last listed position.
func (s *categoryService) ReorderCategories(ctx context.Context, userID string, categoryIDs []uuid.UUID) error {
	for i, categoryID := range categoryIDs {
		category, err := s.categoryRepo.FindByIDAndUserID(ctx, categoryID, userID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrCategoryNotFound
			}
			return err
		}
		category.SortOrder = i
		if _, err := s.categoryRepo.Update(ctx, category); err != nil {
			return err
		}
	}
	return nil
}

func (s *categoryService) DeleteAllCategories(ctx context.Context, userID string) (int64, error) {
	return s.categoryRepo.DeleteAllByUserID(ctx, userID)
}

func (s *categoryService) toCategoryResponse(ctx context.Context, category *domain.Category) (*CategoryResponse, error) {
	bookmarkCount, err := s.bookmarkRepo.CountByCategoryID(ctx, category.ID)
	if err != nil {
		return nil, err
	}
	return &CategoryResponse{
		ID:            category.ID,
		Name:          category.Name,
		Icon:          category.Icon,
		BookmarkCount: bookmarkCount,
		SortOrder:     category.SortOrder,
		CreatedAt:     category.CreatedAt,
	}, nil
}
