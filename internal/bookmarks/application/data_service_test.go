package application

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/sebuszqo/BookmarkManager/internal/bookmarks/infrastructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDataServiceForTest() (DataService, CategoryService, BookmarkService) {
	categoryRepo := infrastructure.NewInMemoryCategoryRepository()
	bookmarkRepo := infrastructure.NewInMemoryBookmarkRepository()
	categoryService := NewCategoryService(categoryRepo, bookmarkRepo)
	bookmarkService := NewBookmarkService(bookmarkRepo, categoryRepo)
	return NewDataService(bookmarkRepo, categoryRepo, bookmarkService, categoryService), categoryService, bookmarkService
}

func rawID(value string) json.RawMessage {
	encoded, _ := json.Marshal(value)
	return encoded
}

func TestImport_CreatesCategoriesAndBookmarks(t *testing.T) {
	service, categoryService, bookmarkService := newDataServiceForTest()
	ctx := context.Background()

	doc := ImportDocument{
		Categories: []ImportedCategory{
			{ID: json.RawMessage(`1`), Name: "Development", Icon: "💻"},
			{ID: json.RawMessage(`2`), Name: "Tools"},
		},
		Bookmarks: []ImportedBookmark{
			{Title: "GitHub", URL: "https://github.com", CategoryID: json.RawMessage(`1`)},
			{Title: "Google", URL: "https://www.google.com", CategoryID: json.RawMessage(`2`)},
			{Title: "Plain", URL: "https://plain.example.com"},
		},
	}

	result, err := service.Import(ctx, testUserID, doc)
	require.NoError(t, err)
	assert.Equal(t, 2, result.ImportedCategories)
	assert.Equal(t, 3, result.ImportedBookmarks)

	categories, err := categoryService.GetCategories(ctx, testUserID)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Development", categories[0].Name)
	assert.Equal(t, int64(1), categories[0].BookmarkCount)

	bookmarks, err := bookmarkService.GetAllBookmarks(ctx, testUserID)
	require.NoError(t, err)
	require.Len(t, bookmarks, 3)
	assert.Equal(t, "GitHub", bookmarks[0].Title)
	assert.Equal(t, "Development", bookmarks[0].CategoryName)
	assert.NotEmpty(t, bookmarks[0].Favicon)
	assert.Nil(t, bookmarks[2].CategoryID)
}

func TestImport_SecondRunIsNoOp(t *testing.T) {
	service, _, _ := newDataServiceForTest()
	ctx := context.Background()

	doc := ImportDocument{
		Categories: []ImportedCategory{{ID: json.RawMessage(`1`), Name: "Development", Icon: "💻"}},
		Bookmarks:  []ImportedBookmark{{Title: "GitHub", URL: "https://github.com", CategoryID: json.RawMessage(`1`)}},
	}

	first, err := service.Import(ctx, testUserID, doc)
	require.NoError(t, err)
	assert.Equal(t, 1, first.ImportedCategories)
	assert.Equal(t, 1, first.ImportedBookmarks)

	second, err := service.Import(ctx, testUserID, doc)
	require.NoError(t, err)
	assert.Equal(t, 0, second.ImportedCategories)
	assert.Equal(t, 0, second.ImportedBookmarks)
}

func TestImport_DuplicateCategoryNameMapsToExisting(t *testing.T) {
	service, categoryService, bookmarkService := newDataServiceForTest()
	ctx := context.Background()

	existing, err := categoryService.CreateCategory(ctx, testUserID, "Development", "💻")
	require.NoError(t, err)

	doc := ImportDocument{
		Categories: []ImportedCategory{{ID: json.RawMessage(`42`), Name: "Development", Icon: "📚"}},
		Bookmarks:  []ImportedBookmark{{Title: "GitHub", URL: "https://github.com", CategoryID: json.RawMessage(`42`)}},
	}

	result, err := service.Import(ctx, testUserID, doc)
	require.NoError(t, err)
	assert.Equal(t, 0, result.ImportedCategories)
	assert.Equal(t, 1, result.ImportedBookmarks)

	bookmarks, err := bookmarkService.GetAllBookmarks(ctx, testUserID)
	require.NoError(t, err)
	require.Len(t, bookmarks, 1)
	require.NotNil(t, bookmarks[0].CategoryID)
	assert.Equal(t, existing.ID, *bookmarks[0].CategoryID)
}

func TestImport_SkipsDuplicateURLsAndBlankEntries(t *testing.T) {
	service, _, bookmarkService := newDataServiceForTest()
	ctx := context.Background()

	_, err := bookmarkService.CreateBookmark(ctx, testUserID, BookmarkInput{Title: "GitHub", URL: "https://github.com"})
	require.NoError(t, err)

	doc := ImportDocument{
		Categories: []ImportedCategory{{Name: ""}},
		Bookmarks: []ImportedBookmark{
			{Title: "GitHub again", URL: "https://github.com"},
			{Title: "No URL", URL: ""},
			{Title: "Fresh", URL: "https://fresh.example.com"},
		},
	}

	result, err := service.Import(ctx, testUserID, doc)
	require.NoError(t, err)
	assert.Equal(t, 0, result.ImportedCategories)
	assert.Equal(t, 1, result.ImportedBookmarks)
}

func TestImport_DirectLocalCategoryIDFallback(t *testing.T) {
	service, categoryService, bookmarkService := newDataServiceForTest()
	ctx := context.Background()

	// A category that exists locally but is not part of the import batch.
	local, err := categoryService.CreateCategory(ctx, testUserID, "Development", "💻")
	require.NoError(t, err)

	doc := ImportDocument{
		Bookmarks: []ImportedBookmark{
			{Title: "GitHub", URL: "https://github.com", CategoryID: rawID(local.ID.String())},
		},
	}

	result, err := service.Import(ctx, testUserID, doc)
	require.NoError(t, err)
	assert.Equal(t, 1, result.ImportedBookmarks)

	bookmarks, err := bookmarkService.GetAllBookmarks(ctx, testUserID)
	require.NoError(t, err)
	require.Len(t, bookmarks, 1)
	require.NotNil(t, bookmarks[0].CategoryID)
	assert.Equal(t, local.ID, *bookmarks[0].CategoryID)
}

func TestImport_ForeignOwnedCategoryIDLeftUncategorized(t *testing.T) {
	service, categoryService, bookmarkService := newDataServiceForTest()
	ctx := context.Background()

	foreign, err := categoryService.CreateCategory(ctx, "another-user", "Development", "💻")
	require.NoError(t, err)

	doc := ImportDocument{
		Bookmarks: []ImportedBookmark{
			{Title: "GitHub", URL: "https://github.com", CategoryID: rawID(foreign.ID.String())},
			{Title: "Google", URL: "https://www.google.com", CategoryID: json.RawMessage(`"no-such-id"`)},
			{Title: "Null", URL: "https://null.example.com", CategoryID: json.RawMessage(`null`)},
		},
	}

	result, err := service.Import(ctx, testUserID, doc)
	require.NoError(t, err)
	assert.Equal(t, 3, result.ImportedBookmarks)

	bookmarks, err := bookmarkService.GetAllBookmarks(ctx, testUserID)
	require.NoError(t, err)
	require.Len(t, bookmarks, 3)
	for _, bookmark := range bookmarks {
		assert.Nil(t, bookmark.CategoryID)
	}
}

func TestImport_AppendsAfterExistingSortOrders(t *testing.T) {
	service, _, bookmarkService := newDataServiceForTest()
	ctx := context.Background()

	_, err := bookmarkService.CreateBookmark(ctx, testUserID, BookmarkInput{Title: "Existing", URL: "https://existing.example.com"})
	require.NoError(t, err)

	doc := ImportDocument{
		Bookmarks: []ImportedBookmark{
			{Title: "First import", URL: "https://first.example.com"},
			{Title: "Second import", URL: "https://second.example.com"},
		},
	}

	_, err = service.Import(ctx, testUserID, doc)
	require.NoError(t, err)

	bookmarks, err := bookmarkService.GetAllBookmarks(ctx, testUserID)
	require.NoError(t, err)
	require.Len(t, bookmarks, 3)
	assert.Equal(t, 1, bookmarks[0].SortOrder)
	assert.Equal(t, 2, bookmarks[1].SortOrder)
	assert.Equal(t, 3, bookmarks[2].SortOrder)
}

func TestExportImport_RoundTripIsStable(t *testing.T) {
	service, categoryService, bookmarkService := newDataServiceForTest()
	ctx := context.Background()

	category, err := categoryService.CreateCategory(ctx, testUserID, "Development", "💻")
	require.NoError(t, err)
	_, err = bookmarkService.CreateBookmark(ctx, testUserID, BookmarkInput{Title: "GitHub", URL: "https://github.com", CategoryID: &category.ID})
	require.NoError(t, err)

	exported, err := service.Export(ctx, testUserID)
	require.NoError(t, err)
	require.Len(t, exported.Categories, 1)
	require.Len(t, exported.Bookmarks, 1)

	// Round trip through JSON the way a client would send it back.
	encoded, err := json.Marshal(exported)
	require.NoError(t, err)
	var doc ImportDocument
	require.NoError(t, json.Unmarshal(encoded, &doc))

	result, err := service.Import(ctx, testUserID, doc)
	require.NoError(t, err)
	assert.Equal(t, 0, result.ImportedCategories)
	assert.Equal(t, 0, result.ImportedBookmarks)
}

func TestClearAll_RemovesBookmarksThenCategories(t *testing.T) {
	service, categoryService, bookmarkService := newDataServiceForTest()
	ctx := context.Background()

	category, err := categoryService.CreateCategory(ctx, testUserID, "Development", "💻")
	require.NoError(t, err)
	_, err = bookmarkService.CreateBookmark(ctx, testUserID, BookmarkInput{Title: "GitHub", URL: "https://github.com", CategoryID: &category.ID})
	require.NoError(t, err)
	_, err = bookmarkService.CreateBookmark(ctx, testUserID, BookmarkInput{Title: "Google", URL: "https://www.google.com"})
	require.NoError(t, err)

	// Another user's data must survive the clear.
	_, err = bookmarkService.CreateBookmark(ctx, "another-user", BookmarkInput{Title: "Keep", URL: "https://keep.example.com"})
	require.NoError(t, err)

	result, err := service.ClearAll(ctx, testUserID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.DeletedBookmarks)
	assert.Equal(t, int64(1), result.DeletedCategories)

	bookmarks, err := bookmarkService.GetAllBookmarks(ctx, testUserID)
	require.NoError(t, err)
	assert.Empty(t, bookmarks)

	kept, err := bookmarkService.GetAllBookmarks(ctx, "another-user")
	require.NoError(t, err)
	assert.Len(t, kept, 1)
}

func TestForeignKeyNormalization(t *testing.T) {
	assert.Equal(t, "", foreignKey(nil))
	assert.Equal(t, "", foreignKey(json.RawMessage(`null`)))
	assert.Equal(t, "42", foreignKey(json.RawMessage(`42`)))
	assert.Equal(t, "42", foreignKey(json.RawMessage(`"42"`)))
	id := uuid.New()
	assert.Equal(t, id.String(), foreignKey(rawID(id.String())))
}
