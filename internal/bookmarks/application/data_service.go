package application

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sebuszqo/BookmarkManager/internal/bookmarks/domain"
)

// ImportedCategory and ImportedBookmark carry ids from whatever system
// produced the document. The ids are opaque foreign tokens: they are kept as
// raw JSON so that both string ids (our own exports) and numeric ids
// (exports of the predecessor system) round-trip through the remap table.
type ImportedCategory struct {
	ID   json.RawMessage `json:"id"`
	Name string          `json:"name"`
	Icon string          `json:"icon"`
}

type ImportedBookmark struct {
	ID          json.RawMessage `json:"id"`
	Title       string          `json:"title"`
	URL         string          `json:"url"`
	Description string          `json:"description"`
	CategoryID  json.RawMessage `json:"categoryId"`
}

type ImportDocument struct {
	Categories []ImportedCategory `json:"categories"`
	Bookmarks  []ImportedBookmark `json:"bookmarks"`
}

type ImportResult struct {
	ImportedCategories int `json:"importedCategories"`
	ImportedBookmarks  int `json:"importedBookmarks"`
}

type ExportDocument struct {
	ExportTime time.Time          `json:"exportTime"`
	Categories []CategoryResponse `json:"categories"`
	Bookmarks  []BookmarkResponse `json:"bookmarks"`
}

type ClearResult struct {
	DeletedBookmarks  int64 `json:"deletedBookmarks"`
	DeletedCategories int64 `json:"deletedCategories"`
}

type DataService interface {
	Import(ctx context.Context, userID string, doc ImportDocument) (*ImportResult, error)
	Export(ctx context.Context, userID string) (*ExportDocument, error)
	ClearAll(ctx context.Context, userID string) (*ClearResult, error)
	PurgeUserData(ctx context.Context, userID string) error
}

type dataService struct {
	bookmarkRepo    domain.BookmarkRepository
	categoryRepo    domain.CategoryRepository
	bookmarkService BookmarkService
	categoryService CategoryService
}

func NewDataService(bookmarkRepo domain.BookmarkRepository, categoryRepo domain.CategoryRepository,
	bookmarkService BookmarkService, categoryService CategoryService) DataService {
	return &dataService{
		bookmarkRepo:    bookmarkRepo,
		categoryRepo:    categoryRepo,
		bookmarkService: bookmarkService,
		categoryService: categoryService,
	}
}

// Import merges an externally supplied document into the user's existing
// data. Categories deduplicate by name, bookmarks by URL, so re-importing
// the same document is a no-op. Foreign category ids are remapped to local
// ids through a table that lives only for the duration of this call.
func (s *dataService) Import(ctx context.Context, userID string, doc ImportDocument) (*ImportResult, error) {
	result := &ImportResult{}
	categoryIDMapping := make(map[string]uuid.UUID)

	maxSortOrder, err := s.categoryRepo.MaxSortOrderByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, imported := range doc.Categories {
		if imported.Name == "" {
			continue
		}
		foreignID := foreignKey(imported.ID)

		existing, err := s.categoryRepo.FindByNameAndUserID(ctx, imported.Name, userID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		if existing != nil {
			if foreignID != "" {
				categoryIDMapping[foreignID] = existing.ID
			}
			continue
		}

		icon := imported.Icon
		if icon == "" {
			icon = domain.DefaultCategoryIcon
		}
		maxSortOrder++
		category := &domain.Category{
			ID:        uuid.New(),
			UserID:    userID,
			Name:      imported.Name,
			Icon:      icon,
			SortOrder: maxSortOrder,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if err := s.categoryRepo.Save(ctx, category); err != nil {
			return nil, err
		}
		if foreignID != "" {
			categoryIDMapping[foreignID] = category.ID
		}
		result.ImportedCategories++
	}

	maxBookmarkSortOrder, err := s.bookmarkRepo.MaxSortOrderByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, imported := range doc.Bookmarks {
		if imported.URL == "" {
			continue
		}

		exists, err := s.bookmarkRepo.ExistsByURLAndUserID(ctx, imported.URL, userID)
		if err != nil {
			return nil, err
		}
		if exists {
			continue
		}

		categoryID, err := s.resolveImportedCategory(ctx, userID, imported.CategoryID, categoryIDMapping)
		if err != nil {
			return nil, err
		}

		maxBookmarkSortOrder++
		bookmark := &domain.Bookmark{
			ID:          uuid.New(),
			UserID:      userID,
			Title:       imported.Title,
			URL:         imported.URL,
			Description: imported.Description,
			Favicon:     domain.FaviconURL(imported.URL),
			CategoryID:  categoryID,
			SortOrder:   maxBookmarkSortOrder,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		}
		if err := s.bookmarkRepo.Save(ctx, bookmark); err != nil {
			return nil, err
		}
		result.ImportedBookmarks++
	}

	return result, nil
}

// resolveImportedCategory resolves a bookmark descriptor's foreign category
// reference: first through the remap table, then by treating the foreign id
// as an already-local id owned by the user (covers partial imports that
// reference categories outside the batch). An unresolvable reference leaves
// the bookmark uncategorized instead of failing the import.
func (s *dataService) resolveImportedCategory(ctx context.Context, userID string, rawID json.RawMessage, mapping map[string]uuid.UUID) (*uuid.UUID, error) {
	foreignID := foreignKey(rawID)
	if foreignID == "" {
		return nil, nil
	}

	if localID, ok := mapping[foreignID]; ok {
		return &localID, nil
	}

	directID, err := uuid.Parse(foreignID)
	if err != nil {
		return nil, nil
	}
	if _, err := s.categoryRepo.FindByIDAndUserID(ctx, directID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &directID, nil
}

func (s *dataService) Export(ctx context.Context, userID string) (*ExportDocument, error) {
	bookmarks, err := s.bookmarkService.GetAllBookmarks(ctx, userID)
	if err != nil {
		return nil, err
	}
	categories, err := s.categoryService.GetCategories(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ExportDocument{
		ExportTime: time.Now(),
		Categories: categories,
		Bookmarks:  bookmarks,
	}, nil
}

// ClearAll removes all of the user's bookmarks and then categories, in that
// order, so no bookmark is ever left pointing at a deleted category.
func (s *dataService) ClearAll(ctx context.Context, userID string) (*ClearResult, error) {
	deletedBookmarks, err := s.bookmarkRepo.DeleteAllByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	deletedCategories, err := s.categoryRepo.DeleteAllByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ClearResult{DeletedBookmarks: deletedBookmarks, DeletedCategories: deletedCategories}, nil
}

func (s *dataService) PurgeUserData(ctx context.Context, userID string) error {
	_, err := s.ClearAll(ctx, userID)
	return err
}

// foreignKey normalizes an opaque foreign id into a map key. String ids lose
// their quotes, numeric ids keep their textual form, absent ids ("" or JSON
// null) become the empty string.
func foreignKey(raw json.RawMessage) string {
	token := strings.TrimSpace(string(raw))
	if token == "" || token == "null" {
		return ""
	}
	if len(token) >= 2 && token[0] == '"' && token[len(token)-1] == '"' {
		var unquoted string
		if err := json.Unmarshal(raw, &unquoted); err == nil {
			return unquoted
		}
	}
	return token
}
