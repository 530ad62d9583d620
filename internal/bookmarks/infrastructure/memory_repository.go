package infrastructure

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sebuszqo/BookmarkManager/internal/bookmarks/domain"
)

// InMemoryCategoryRepository and InMemoryBookmarkRepository implement the
// domain repository interfaces on top of plain maps. They back the
// application-layer tests, which keeps the services testable without a
// database. Missing rows are reported as sql.ErrNoRows so the services see
// the same error shape as with the postgres repositories.

type InMemoryCategoryRepository struct {
	mu         sync.RWMutex
	Categories map[uuid.UUID]domain.Category
}

func NewInMemoryCategoryRepository() *InMemoryCategoryRepository {
	return &InMemoryCategoryRepository{Categories: make(map[uuid.UUID]domain.Category)}
}

func (r *InMemoryCategoryRepository) Save(_ context.Context, category *domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Categories[category.ID] = *category
	return nil
}

func (r *InMemoryCategoryRepository) Update(_ context.Context, category *domain.Category) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.Categories[category.ID]
	if !ok || existing.UserID != category.UserID {
		return 0, nil
	}
	updated := *category
	updated.UpdatedAt = time.Now()
	r.Categories[category.ID] = updated
	return 1, nil
}

func (r *InMemoryCategoryRepository) Delete(_ context.Context, categoryID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.Categories, categoryID)
	return nil
}

func (r *InMemoryCategoryRepository) DeleteAllByUserID(_ context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	for id, category := range r.Categories {
		if category.UserID == userID {
			delete(r.Categories, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *InMemoryCategoryRepository) FindByIDAndUserID(_ context.Context, categoryID uuid.UUID, userID string) (*domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	category, ok := r.Categories[categoryID]
	if !ok || category.UserID != userID {
		return nil, sql.ErrNoRows
	}
	return &category, nil
}

func (r *InMemoryCategoryRepository) FindByUserID(_ context.Context, userID string) ([]domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var categories []domain.Category
	for _, category := range r.Categories {
		if category.UserID == userID {
			categories = append(categories, category)
		}
	}
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].SortOrder != categories[j].SortOrder {
			return categories[i].SortOrder < categories[j].SortOrder
		}
		return categories[i].ID.String() < categories[j].ID.String()
	})
	return categories, nil
}

func (r *InMemoryCategoryRepository) FindByNameAndUserID(_ context.Context, name, userID string) (*domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, category := range r.Categories {
		if category.UserID == userID && category.Name == name {
			category := category
			return &category, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *InMemoryCategoryRepository) ExistsByNameAndUserID(_ context.Context, name, userID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, category := range r.Categories {
		if category.UserID == userID && category.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (r *InMemoryCategoryRepository) ExistsByNameAndUserIDAndIDNot(_ context.Context, name, userID string, categoryID uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, category := range r.Categories {
		if category.UserID == userID && category.Name == name && category.ID != categoryID {
			return true, nil
		}
	}
	return false, nil
}

func (r *InMemoryCategoryRepository) MaxSortOrderByUserID(_ context.Context, userID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	maxSortOrder := 0
	for _, category := range r.Categories {
		if category.UserID == userID && category.SortOrder > maxSortOrder {
			maxSortOrder = category.SortOrder
		}
	}
	return maxSortOrder, nil
}

type InMemoryBookmarkRepository struct {
	mu        sync.RWMutex
	Bookmarks map[uuid.UUID]domain.Bookmark
}

func NewInMemoryBookmarkRepository() *InMemoryBookmarkRepository {
	return &InMemoryBookmarkRepository{Bookmarks: make(map[uuid.UUID]domain.Bookmark)}
}

func (r *InMemoryBookmarkRepository) Save(_ context.Context, bookmark *domain.Bookmark) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Bookmarks[bookmark.ID] = *bookmark
	return nil
}

func (r *InMemoryBookmarkRepository) Update(_ context.Context, bookmark *domain.Bookmark) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.Bookmarks[bookmark.ID]
	if !ok || existing.UserID != bookmark.UserID {
		return 0, nil
	}
	updated := *bookmark
	updated.UpdatedAt = time.Now()
	r.Bookmarks[bookmark.ID] = updated
	return 1, nil
}

func (r *InMemoryBookmarkRepository) Delete(_ context.Context, bookmarkID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.Bookmarks, bookmarkID)
	return nil
}

func (r *InMemoryBookmarkRepository) DeleteByIDsAndUserID(_ context.Context, bookmarkIDs []uuid.UUID, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	for _, id := range bookmarkIDs {
		if bookmark, ok := r.Bookmarks[id]; ok && bookmark.UserID == userID {
			delete(r.Bookmarks, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *InMemoryBookmarkRepository) DeleteAllByUserID(_ context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	for id, bookmark := range r.Bookmarks {
		if bookmark.UserID == userID {
			delete(r.Bookmarks, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *InMemoryBookmarkRepository) FindByIDAndUserID(_ context.Context, bookmarkID uuid.UUID, userID string) (*domain.Bookmark, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	bookmark, ok := r.Bookmarks[bookmarkID]
	if !ok || bookmark.UserID != userID {
		return nil, sql.ErrNoRows
	}
	return &bookmark, nil
}

func (r *InMemoryBookmarkRepository) FindByUserID(_ context.Context, userID string) ([]domain.Bookmark, error) {
	return r.filter(func(b domain.Bookmark) bool { return b.UserID == userID }), nil
}

func (r *InMemoryBookmarkRepository) FindByUserIDAndCategoryID(_ context.Context, userID string, categoryID uuid.UUID) ([]domain.Bookmark, error) {
	return r.filter(func(b domain.Bookmark) bool {
		return b.UserID == userID && b.CategoryID != nil && *b.CategoryID == categoryID
	}), nil
}

func (r *InMemoryBookmarkRepository) FindPage(_ context.Context, page domain.BookmarkPage) ([]domain.Bookmark, int64, error) {
	matching := r.filter(func(b domain.Bookmark) bool {
		if b.UserID != page.UserID {
			return false
		}
		if page.CategoryID != nil && (b.CategoryID == nil || *b.CategoryID != *page.CategoryID) {
			return false
		}
		if page.Keyword != "" {
			keyword := strings.ToLower(page.Keyword)
			if !strings.Contains(strings.ToLower(b.Title), keyword) &&
				!strings.Contains(strings.ToLower(b.Description), keyword) {
				return false
			}
		}
		return true
	})

	total := int64(len(matching))
	if page.Offset >= len(matching) {
		return nil, total, nil
	}
	end := page.Offset + page.Limit
	if end > len(matching) {
		end = len(matching)
	}
	return matching[page.Offset:end], total, nil
}

func (r *InMemoryBookmarkRepository) FindWithoutFavicon(_ context.Context, limit int) ([]domain.Bookmark, error) {
	matching := r.filter(func(b domain.Bookmark) bool { return b.Favicon == "" })
	if len(matching) > limit {
		matching = matching[:limit]
	}
	return matching, nil
}

func (r *InMemoryBookmarkRepository) ExistsByURLAndUserID(_ context.Context, url, userID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, bookmark := range r.Bookmarks {
		if bookmark.UserID == userID && bookmark.URL == url {
			return true, nil
		}
	}
	return false, nil
}

func (r *InMemoryBookmarkRepository) MaxSortOrderByUserID(_ context.Context, userID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	maxSortOrder := 0
	for _, bookmark := range r.Bookmarks {
		if bookmark.UserID == userID && bookmark.SortOrder > maxSortOrder {
			maxSortOrder = bookmark.SortOrder
		}
	}
	return maxSortOrder, nil
}

func (r *InMemoryBookmarkRepository) CountByUserID(_ context.Context, userID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var count int64
	for _, bookmark := range r.Bookmarks {
		if bookmark.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (r *InMemoryBookmarkRepository) CountByCategoryID(_ context.Context, categoryID uuid.UUID) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var count int64
	for _, bookmark := range r.Bookmarks {
		if bookmark.CategoryID != nil && *bookmark.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}

func (r *InMemoryBookmarkRepository) ClearCategoryID(_ context.Context, categoryID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, bookmark := range r.Bookmarks {
		if bookmark.CategoryID != nil && *bookmark.CategoryID == categoryID {
			bookmark.CategoryID = nil
			bookmark.UpdatedAt = time.Now()
			r.Bookmarks[id] = bookmark
		}
	}
	return nil
}

func (r *InMemoryBookmarkRepository) filter(keep func(domain.Bookmark) bool) []domain.Bookmark {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var bookmarks []domain.Bookmark
	for _, bookmark := range r.Bookmarks {
		if keep(bookmark) {
			bookmarks = append(bookmarks, bookmark)
		}
	}
	sort.Slice(bookmarks, func(i, j int) bool {
		if bookmarks[i].SortOrder != bookmarks[j].SortOrder {
			return bookmarks[i].SortOrder < bookmarks[j].SortOrder
		}
		return bookmarks[i].ID.String() < bookmarks[j].ID.String()
	})
	return bookmarks
}
