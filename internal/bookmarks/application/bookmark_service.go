package application

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sebuszqo/BookmarkManager/internal/bookmarks/domain"
)

var ErrBookmarkNotFound = errors.New("bookmark not found")

const (
	defaultPageSize     = 20
	maxPageSize         = 100
	faviconRefreshBatch = 200
)

type BookmarkInput struct {
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	Description string     `json:"description"`
	CategoryID  *uuid.UUID `json:"categoryId"`
}

type BookmarkResponse struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	URL          string     `json:"url"`
	Description  string     `json:"description"`
	Favicon      string     `json:"favicon,omitempty"`
	CategoryID   *uuid.UUID `json:"categoryId"`
	CategoryName string     `json:"categoryName,omitempty"`
	SortOrder    int        `json:"sortOrder"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

type PageResponse struct {
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Size  int                `json:"size"`
	List  []BookmarkResponse `json:"list"`
}

type BookmarkService interface {
	GetBookmarks(ctx context.Context, userID string, page, size int, categoryID *uuid.UUID, keyword string) (*PageResponse, error)
	GetBookmark(ctx context.Context, userID string, bookmarkID uuid.UUID) (*BookmarkResponse, error)
	GetAllBookmarks(ctx context.Context, userID string) ([]BookmarkResponse, error)
	CreateBookmark(ctx context.Context, userID string, input BookmarkInput) (*BookmarkResponse, error)
	UpdateBookmark(ctx context.Context, userID string, bookmarkID uuid.UUID, input BookmarkInput) (*BookmarkResponse, error)
	DeleteBookmark(ctx context.Context, userID string, bookmarkID uuid.UUID) error
	BatchDeleteBookmarks(ctx context.Context, userID string, bookmarkIDs []uuid.UUID) (int64, error)
	ReorderBookmarks(ctx context.Context, userID string, bookmarkIDs []uuid.UUID) error
	MoveBookmark(ctx context.Context, userID string, bookmarkID uuid.UUID, targetCategoryID *uuid.UUID) (*BookmarkResponse, error)
	DeleteAllBookmarks(ctx context.Context, userID string) (int64, error)
	RefreshMissingFavicons(ctx context.Context) (int, error)
}

type bookmarkService struct {
	bookmarkRepo domain.BookmarkRepository
	categoryRepo domain.CategoryRepository
}

func NewBookmarkService(bookmarkRepo domain.BookmarkRepository, categoryRepo domain.CategoryRepository) BookmarkService {
	return &bookmarkService{bookmarkRepo: bookmarkRepo, categoryRepo: categoryRepo}
}

func (s *bookmarkService) GetBookmarks(ctx context.Context, userID string, page, size int, categoryID *uuid.UUID, keyword string) (*PageResponse, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	bookmarks, total, err := s.bookmarkRepo.FindPage(ctx, domain.BookmarkPage{
		UserID:     userID,
		CategoryID: categoryID,
		Keyword:    keyword,
		Limit:      size,
		Offset:     (page - 1) * size,
	})
	if err != nil {
		return nil, err
	}

	list := make([]BookmarkResponse, 0, len(bookmarks))
	for _, bookmark := range bookmarks {
		response, err := s.toBookmarkResponse(ctx, &bookmark)
		if err != nil {
			return nil, err
		}
		list = append(list, *response)
	}
	return &PageResponse{Total: total, Page: page, Size: size, List: list}, nil
}

func (s *bookmarkService) GetBookmark(ctx context.Context, userID string, bookmarkID uuid.UUID) (*BookmarkResponse, error) {
	bookmark, err := s.bookmarkRepo.FindByIDAndUserID(ctx, bookmarkID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookmarkNotFound
		}
		return nil, err
	}
	return s.toBookmarkResponse(ctx, bookmark)
}

func (s *bookmarkService) GetAllBookmarks(ctx context.Context, userID string) ([]BookmarkResponse, error) {
	bookmarks, err := s.bookmarkRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	responses := make([]BookmarkResponse, 0, len(bookmarks))
	for _, bookmark := range bookmarks {
		response, err := s.toBookmarkResponse(ctx, &bookmark)
		if err != nil {
			return nil, err
		}
		responses = append(responses, *response)
	}
	return responses, nil
}

func (s *bookmarkService) CreateBookmark(ctx context.Context, userID string, input BookmarkInput) (*BookmarkResponse, error) {
	bookmark := &domain.Bookmark{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       input.Title,
		URL:         input.URL,
		Description: input.Description,
		CategoryID:  input.CategoryID,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := bookmark.Validate(); err != nil {
		return nil, err
	}

	if err := s.resolveCategory(ctx, userID, input.CategoryID, ErrCategoryNotFound); err != nil {
		return nil, err
	}

	maxSortOrder, err := s.bookmarkRepo.MaxSortOrderByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	bookmark.SortOrder = maxSortOrder + 1
	bookmark.Favicon = domain.FaviconURL(input.URL)

	if err := s.bookmarkRepo.Save(ctx, bookmark); err != nil {
		return nil, err
	}
	return s.toBookmarkResponse(ctx, bookmark)
}

func (s *bookmarkService) UpdateBookmark(ctx context.Context, userID string, bookmarkID uuid.UUID, input BookmarkInput) (*BookmarkResponse, error) {
	bookmark, err := s.bookmarkRepo.FindByIDAndUserID(ctx, bookmarkID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookmarkNotFound
		}
		return nil, err
	}

	if err := s.resolveCategory(ctx, userID, input.CategoryID, ErrCategoryNotFound); err != nil {
		return nil, err
	}

	if bookmark.URL != input.URL {
		bookmark.Favicon = domain.FaviconURL(input.URL)
	}
	bookmark.Title = input.Title
	bookmark.URL = input.URL
	bookmark.Description = input.Description
	bookmark.CategoryID = input.CategoryID
	if err := bookmark.Validate(); err != nil {
		return nil, err
	}

	affected, err := s.bookmarkRepo.Update(ctx, bookmark)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrBookmarkNotFound
	}
	return s.toBookmarkResponse(ctx, bookmark)
}

func (s *bookmarkService) DeleteBookmark(ctx context.Context, userID string, bookmarkID uuid.UUID) error {
	bookmark, err := s.bookmarkRepo.FindByIDAndUserID(ctx, bookmarkID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrBookmarkNotFound
		}
		return err
	}
	return s.bookmarkRepo.Delete(ctx, bookmark.ID)
}

func (s *bookmarkService) BatchDeleteBookmarks(ctx context.Context, userID string, bookmarkIDs []uuid.UUID) (int64, error) {
	return s.bookmarkRepo.DeleteByIDsAndUserID(ctx, bookmarkIDs, userID)
}

// ReorderBookmarks rewrites each listed bookmark's sort order to its
// zero-based position; unlisted bookmarks keep their previous order and a
// duplicated id takes its last listed position.
func (s *bookmarkService) ReorderBookmarks(ctx context.Context, userID string, bookmarkIDs []uuid.UUID) error {
	for i, bookmarkID := range bookmarkIDs {
		bookmark, err := s.bookmarkRepo.FindByIDAndUserID(ctx, bookmarkID, userID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrBookmarkNotFound
			}
			return err
		}
		bookmark.SortOrder = i
		if _, err := s.bookmarkRepo.Update(ctx, bookmark); err != nil {
			return err
		}
	}
	return nil
}

func (s *bookmarkService) MoveBookmark(ctx context.Context, userID string, bookmarkID uuid.UUID, targetCategoryID *uuid.UUID) (*BookmarkResponse, error) {
	bookmark, err := s.bookmarkRepo.FindByIDAndUserID(ctx, bookmarkID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookmarkNotFound
		}
		return nil, err
	}

	if err := s.resolveCategory(ctx, userID, targetCategoryID, ErrTargetCategoryNotFound); err != nil {
		return nil, err
	}

	bookmark.CategoryID = targetCategoryID
	affected, err := s.bookmarkRepo.Update(ctx, bookmark)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrBookmarkNotFound
	}
	return s.toBookmarkResponse(ctx, bookmark)
}

func (s *bookmarkService) DeleteAllBookmarks(ctx context.Context, userID string) (int64, error) {
	return s.bookmarkRepo.DeleteAllByUserID(ctx, userID)
}

// RefreshMissingFavicons recomputes favicons for bookmarks that have none,
// typically records imported before favicon support existed. Run from the
// scheduler; favicons stay empty for URLs that still do not parse.
func (s *bookmarkService) RefreshMissingFavicons(ctx context.Context) (int, error) {
	bookmarks, err := s.bookmarkRepo.FindWithoutFavicon(ctx, faviconRefreshBatch)
	if err != nil {
		return 0, err
	}

	refreshed := 0
	for _, bookmark := range bookmarks {
		favicon := domain.FaviconURL(bookmark.URL)
		if favicon == "" {
			continue
		}
		bookmark.Favicon = favicon
		if _, err := s.bookmarkRepo.Update(ctx, &bookmark); err != nil {
			return refreshed, err
		}
		refreshed++
	}
	return refreshed, nil
}

// resolveCategory authorizes a caller-supplied category reference before it
// is written to a bookmark. A missing or foreign category is notFoundErr,
// never a generic validation failure.
func (s *bookmarkService) resolveCategory(ctx context.Context, userID string, categoryID *uuid.UUID, notFoundErr error) error {
	if categoryID == nil {
		return nil
	}
	if _, err := s.categoryRepo.FindByIDAndUserID(ctx, *categoryID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return notFoundErr
		}
		return err
	}
	return nil
}

func (s *bookmarkService) toBookmarkResponse(ctx context.Context, bookmark *domain.Bookmark) (*BookmarkResponse, error) {
	var categoryName string
	if bookmark.CategoryID != nil {
		category, err := s.categoryRepo.FindByIDAndUserID(ctx, *bookmark.CategoryID, bookmark.UserID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		if category != nil {
			categoryName = category.Name
		}
	}

	return &BookmarkResponse{
		ID:           bookmark.ID,
		Title:        bookmark.Title,
		URL:          bookmark.URL,
		Description:  bookmark.Description,
		Favicon:      bookmark.Favicon,
		CategoryID:   bookmark.CategoryID,
		CategoryName: categoryName,
		SortOrder:    bookmark.SortOrder,
		CreatedAt:    bookmark.CreatedAt,
		UpdatedAt:    bookmark.UpdatedAt,
	}, nil
}
