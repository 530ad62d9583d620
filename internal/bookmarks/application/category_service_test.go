package application

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/sebuszqo/BookmarkManager/internal/bookmarks/domain"
	"github.com/sebuszqo/BookmarkManager/internal/bookmarks/infrastructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUserID = "c2a7f8e1-0000-4000-8000-000000000001"

func newCategoryServiceForTest() (CategoryService, *infrastructure.InMemoryCategoryRepository, *infrastructure.InMemoryBookmarkRepository) {
	categoryRepo := infrastructure.NewInMemoryCategoryRepository()
	bookmarkRepo := infrastructure.NewInMemoryBookmarkRepository()
	return NewCategoryService(categoryRepo, bookmarkRepo), categoryRepo, bookmarkRepo
}

func TestCreateCategory_AssignsIncreasingSortOrder(t *testing.T) {
	service, _, _ := newCategoryServiceForTest()
	ctx := context.Background()

	first, err := service.CreateCategory(ctx, testUserID, "Development", "💻")
	require.NoError(t, err)
	second, err := service.CreateCategory(ctx, testUserID, "Tools", "🔧")
	require.NoError(t, err)
	third, err := service.CreateCategory(ctx, testUserID, "Learning", "")
	require.NoError(t, err)

	assert.Equal(t, 1, first.SortOrder)
	assert.Equal(t, 2, second.SortOrder)
	assert.Equal(t, 3, third.SortOrder)
}

func TestCreateCategory_DefaultIconWhenEmpty(t *testing.T) {
	service, _, _ := newCategoryServiceForTest()

	category, err := service.CreateCategory(context.Background(), testUserID, "Reading", "")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCategoryIcon, category.Icon)
}

func TestCreateCategory_NameTakenInSameScope(t *testing.T) {
	service, _, _ := newCategoryServiceForTest()
	ctx := context.Background()

	_, err := service.CreateCategory(ctx, testUserID, "Development", "💻")
	require.NoError(t, err)

	_, err = service.CreateCategory(ctx, testUserID, "Development", "📚")
	assert.ErrorIs(t, err, ErrCategoryNameTaken)
}

func TestCreateCategory_SameNameDifferentUsers(t *testing.T) {
	service, _, _ := newCategoryServiceForTest()
	ctx := context.Background()

	_, err := service.CreateCategory(ctx, testUserID, "Development", "💻")
	require.NoError(t, err)

	other, err := service.CreateCategory(ctx, "another-user", "Development", "💻")
	require.NoError(t, err)
	assert.Equal(t, 1, other.SortOrder)
}

func TestCreateCategory_ReusesSortOrderAfterDeletion(t *testing.T) {
	service, _, _ := newCategoryServiceForTest()
	ctx := context.Background()

	first, err := service.CreateCategory(ctx, testUserID, "Development", "💻")
	require.NoError(t, err)
	second, err := service.CreateCategory(ctx, testUserID, "Tools", "🔧")
	require.NoError(t, err)

	require.NoError(t, service.DeleteCategory(ctx, testUserID, second.ID, nil))

	// The max sort order is computed fresh, so the freed slot is taken again.
	third, err := service.CreateCategory(ctx, testUserID, "Learning", "📚")
	require.NoError(t, err)
	assert.Equal(t, first.SortOrder+1, third.SortOrder)
}

func TestUpdateCategory_NotFoundForForeignCategory(t *testing.T) {
	service, _, _ := newCategoryServiceForTest()
	ctx := context.Background()

	category, err := service.CreateCategory(ctx, "another-user", "Development", "💻")
	require.NoError(t, err)

	_, err = service.UpdateCategory(ctx, testUserID, category.ID, "Renamed", nil)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestUpdateCategory_KeepsIconWhenNotProvided(t *testing.T) {
	service, _, _ := newCategoryServiceForTest()
	ctx := context.Background()

	category, err := service.CreateCategory(ctx, testUserID, "Development", "💻")
	require.NoError(t, err)

	updated, err := service.UpdateCategory(ctx, testUserID, category.ID, "Dev", nil)
	require.NoError(t, err)
	assert.Equal(t, "Dev", updated.Name)
	assert.Equal(t, "💻", updated.Icon)

	newIcon := "📚"
	updated, err = service.UpdateCategory(ctx, testUserID, category.ID, "Dev", &newIcon)
	require.NoError(t, err)
	assert.Equal(t, "📚", updated.Icon)
}

func TestUpdateCategory_NameTakenByOtherCategory(t *testing.T) {
	service, _, _ := newCategoryServiceForTest()
	ctx := context.Background()

	_, err := service.CreateCategory(ctx, testUserID, "Development", "💻")
	require.NoError(t, err)
	tools, err := service.CreateCategory(ctx, testUserID, "Tools", "🔧")
	require.NoError(t, err)

	_, err = service.UpdateCategory(ctx, testUserID, tools.ID, "Development", nil)
	assert.ErrorIs(t, err, ErrCategoryNameTaken)

	// Renaming a category to its own name is not a conflict.
	updated, err := service.UpdateCategory(ctx, testUserID, tools.ID, "Tools", nil)
	require.NoError(t, err)
	assert.Equal(t, "Tools", updated.Name)
}

func TestReorderCategories_AssignsZeroBasedPositions(t *testing.T) {
	service, categoryRepo, _ := newCategoryServiceForTest()
	ctx := context.Background()

	first, _ := service.CreateCategory(ctx, testUserID, "Development", "💻")
	second, _ := service.CreateCategory(ctx, testUserID, "Tools", "🔧")
	third, _ := service.CreateCategory(ctx, testUserID, "Learning", "📚")

	err := service.ReorderCategories(ctx, testUserID, []uuid.UUID{third.ID, first.ID, second.ID})
	require.NoError(t, err)

	assert.Equal(t, 0, categoryRepo.Categories[third.ID].SortOrder)
	assert.Equal(t, 1, categoryRepo.Categories[first.ID].SortOrder)
	assert.Equal(t, 2, categoryRepo.Categories[second.ID].SortOrder)

	categories, err := service.GetCategories(ctx, testUserID)
	require.NoError(t, err)
	require.Len(t, categories, 3)
	assert.Equal(t, "Learning", categories[0].Name)
	assert.Equal(t, "Development", categories[1].Name)
	assert.Equal(t, "Tools", categories[2].Name)
}

func TestReorderCategories_UnknownIDStopsWithNotFound(t *testing.T) {
	service, categoryRepo, _ := newCategoryServiceForTest()
	ctx := context.Background()

	first, _ := service.CreateCategory(ctx, testUserID, "Development", "💻")
	second, _ := service.CreateCategory(ctx, testUserID, "Tools", "🔧")

	err := service.ReorderCategories(ctx, testUserID, []uuid.UUID{first.ID, uuid.New(), second.ID})
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	// Positions before the failing id are already written.
	assert.Equal(t, 0, categoryRepo.Categories[first.ID].SortOrder)
	assert.Equal(t, 2, categoryRepo.Categories[second.ID].SortOrder)
}

func TestReorderCategories_DuplicateIDTakesLastPosition(t *testing.T) {
	service, categoryRepo, _ := newCategoryServiceForTest()
	ctx := context.Background()

	first, _ := service.CreateCategory(ctx, testUserID, "Development", "💻")
	second, _ := service.CreateCategory(ctx, testUserID, "Tools", "🔧")

	err := service.ReorderCategories(ctx, testUserID, []uuid.UUID{first.ID, second.ID, first.ID})
	require.NoError(t, err)

	assert.Equal(t, 2, categoryRepo.Categories[first.ID].SortOrder)
	assert.Equal(t, 1, categoryRepo.Categories[second.ID].SortOrder)
}

func TestDeleteCategory_MovesBookmarksToTarget(t *testing.T) {
	service, _, bookmarkRepo := newCategoryServiceForTest()
	ctx := context.Background()

	source, _ := service.CreateCategory(ctx, testUserID, "Development", "💻")
	target, _ := service.CreateCategory(ctx, testUserID, "Tools", "🔧")

	sourceID := source.ID
	bookmark := &domain.Bookmark{
		ID:         uuid.New(),
		UserID:     testUserID,
		Title:      "GitHub",
		URL:        "https://github.com",
		CategoryID: &sourceID,
		SortOrder:  7,
	}
	require.NoError(t, bookmarkRepo.Save(ctx, bookmark))

	err := service.DeleteCategory(ctx, testUserID, source.ID, &target.ID)
	require.NoError(t, err)

	moved := bookmarkRepo.Bookmarks[bookmark.ID]
	require.NotNil(t, moved.CategoryID)
	assert.Equal(t, target.ID, *moved.CategoryID)
	// Moving between categories does not reposition the bookmark.
	assert.Equal(t, 7, moved.SortOrder)

	categories, err := service.GetCategories(ctx, testUserID)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "Tools", categories[0].Name)
}

func TestDeleteCategory_DetachesBookmarksWithoutTarget(t *testing.T) {
	service, _, bookmarkRepo := newCategoryServiceForTest()
	ctx := context.Background()

	category, _ := service.CreateCategory(ctx, testUserID, "Development", "💻")

	categoryID := category.ID
	bookmark := &domain.Bookmark{
		ID:         uuid.New(),
		UserID:     testUserID,
		Title:      "GitHub",
		URL:        "https://github.com",
		CategoryID: &categoryID,
		SortOrder:  1,
	}
	require.NoError(t, bookmarkRepo.Save(ctx, bookmark))

	err := service.DeleteCategory(ctx, testUserID, category.ID, nil)
	require.NoError(t, err)

	detached := bookmarkRepo.Bookmarks[bookmark.ID]
	assert.Nil(t, detached.CategoryID)
}

func TestDeleteCategory_MissingTargetFailsBeforeAnyWrite(t *testing.T) {
	service, categoryRepo, bookmarkRepo := newCategoryServiceForTest()
	ctx := context.Background()

	category, _ := service.CreateCategory(ctx, testUserID, "Development", "💻")

	categoryID := category.ID
	bookmark := &domain.Bookmark{
		ID:         uuid.New(),
		UserID:     testUserID,
		Title:      "GitHub",
		URL:        "https://github.com",
		CategoryID: &categoryID,
	}
	require.NoError(t, bookmarkRepo.Save(ctx, bookmark))

	missing := uuid.New()
	err := service.DeleteCategory(ctx, testUserID, category.ID, &missing)
	assert.ErrorIs(t, err, ErrTargetCategoryNotFound)

	_, stillThere := categoryRepo.Categories[category.ID]
	assert.True(t, stillThere)
	kept := bookmarkRepo.Bookmarks[bookmark.ID]
	require.NotNil(t, kept.CategoryID)
	assert.Equal(t, category.ID, *kept.CategoryID)
}

func TestDeleteCategory_TargetOwnedByAnotherUser(t *testing.T) {
	service, _, _ := newCategoryServiceForTest()
	ctx := context.Background()

	category, _ := service.CreateCategory(ctx, testUserID, "Development", "💻")
	foreign, _ := service.CreateCategory(ctx, "another-user", "Tools", "🔧")

	err := service.DeleteCategory(ctx, testUserID, category.ID, &foreign.ID)
	assert.ErrorIs(t, err, ErrTargetCategoryNotFound)
}

func TestGetCategories_IncludesBookmarkCount(t *testing.T) {
	service, _, bookmarkRepo := newCategoryServiceForTest()
	ctx := context.Background()

	category, _ := service.CreateCategory(ctx, testUserID, "Development", "💻")

	categoryID := category.ID
	for i := 0; i < 3; i++ {
		require.NoError(t, bookmarkRepo.Save(ctx, &domain.Bookmark{
			ID:         uuid.New(),
			UserID:     testUserID,
			Title:      "Bookmark",
			URL:        "https://example.com",
			CategoryID: &categoryID,
			SortOrder:  i + 1,
		}))
	}

	categories, err := service.GetCategories(ctx, testUserID)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, int64(3), categories[0].BookmarkCount)
}
