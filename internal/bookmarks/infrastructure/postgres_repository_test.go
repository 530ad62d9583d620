package infrastructure

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/sebuszqo/BookmarkManager/internal/bookmarks/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	pgTestUserID  = "7f3f9f6a-0000-4000-8000-000000000001"
	pgOtherUserID = "7f3f9f6a-0000-4000-8000-000000000002"
)

func startPostgres(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithInitScripts(filepath.Join("..", "..", "..", "db", "schema.sql")),
		postgres.WithDatabase("bookmarks"),
		postgres.WithUsername("bookmarks"),
		postgres.WithPassword("bookmarks"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	connString, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("pgx", connString)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Ping())

	return db
}

func insertTestUser(t *testing.T, db *sql.DB, userID, email, login string) {
	t.Helper()
	_, err := db.Exec(
		`INSERT INTO users (id, email, login, password_hash, hash_token) VALUES ($1, $2, $3, '', '')`,
		userID, email, login)
	require.NoError(t, err)
}

func newTestCategory(userID, name string, sortOrder int) *domain.Category {
	now := time.Now()
	return &domain.Category{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		Icon:      "📁",
		SortOrder: sortOrder,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func newTestBookmark(userID, title, url string, categoryID *uuid.UUID, sortOrder int) *domain.Bookmark {
	now := time.Now()
	return &domain.Bookmark{
		ID:         uuid.New(),
		UserID:     userID,
		Title:      title,
		URL:        url,
		Favicon:    domain.FaviconURL(url),
		CategoryID: categoryID,
		SortOrder:  sortOrder,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestPostgresRepositories(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	db := startPostgres(t)
	insertTestUser(t, db, pgTestUserID, "owner@example.com", "owner")
	insertTestUser(t, db, pgOtherUserID, "other@example.com", "other")

	categoryRepo := NewCategoryRepository(db)
	bookmarkRepo := NewBookmarkRepository(db)
	ctx := context.Background()

	t.Run("category save and find", func(t *testing.T) {
		category := newTestCategory(pgTestUserID, "Development", 1)
		require.NoError(t, categoryRepo.Save(ctx, category))

		found, err := categoryRepo.FindByIDAndUserID(ctx, category.ID, pgTestUserID)
		require.NoError(t, err)
		assert.Equal(t, "Development", found.Name)
		assert.Equal(t, "📁", found.Icon)
		assert.Equal(t, 1, found.SortOrder)

		_, err = categoryRepo.FindByIDAndUserID(ctx, category.ID, pgOtherUserID)
		assert.ErrorIs(t, err, sql.ErrNoRows)

		byName, err := categoryRepo.FindByNameAndUserID(ctx, "Development", pgTestUserID)
		require.NoError(t, err)
		assert.Equal(t, category.ID, byName.ID)
	})

	t.Run("category existence and max sort order", func(t *testing.T) {
		exists, err := categoryRepo.ExistsByNameAndUserID(ctx, "Development", pgTestUserID)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = categoryRepo.ExistsByNameAndUserID(ctx, "Development", pgOtherUserID)
		require.NoError(t, err)
		assert.False(t, exists)

		category, err := categoryRepo.FindByNameAndUserID(ctx, "Development", pgTestUserID)
		require.NoError(t, err)

		taken, err := categoryRepo.ExistsByNameAndUserIDAndIDNot(ctx, "Development", pgTestUserID, category.ID)
		require.NoError(t, err)
		assert.False(t, taken)

		maxSortOrder, err := categoryRepo.MaxSortOrderByUserID(ctx, pgTestUserID)
		require.NoError(t, err)
		assert.Equal(t, 1, maxSortOrder)

		maxSortOrder, err = categoryRepo.MaxSortOrderByUserID(ctx, pgOtherUserID)
		require.NoError(t, err)
		assert.Equal(t, 0, maxSortOrder)
	})

	t.Run("category update is scoped to owner", func(t *testing.T) {
		category, err := categoryRepo.FindByNameAndUserID(ctx, "Development", pgTestUserID)
		require.NoError(t, err)

		category.Name = "Dev"
		category.SortOrder = 3
		affected, err := categoryRepo.Update(ctx, category)
		require.NoError(t, err)
		assert.Equal(t, int64(1), affected)

		category.UserID = pgOtherUserID
		affected, err = categoryRepo.Update(ctx, category)
		require.NoError(t, err)
		assert.Equal(t, int64(0), affected)
	})

	t.Run("bookmark save find and update", func(t *testing.T) {
		category, err := categoryRepo.FindByNameAndUserID(ctx, "Dev", pgTestUserID)
		require.NoError(t, err)

		bookmark := newTestBookmark(pgTestUserID, "GitHub", "https://github.com", &category.ID, 1)
		require.NoError(t, bookmarkRepo.Save(ctx, bookmark))

		uncategorized := newTestBookmark(pgTestUserID, "Loose", "https://loose.example.com", nil, 2)
		require.NoError(t, bookmarkRepo.Save(ctx, uncategorized))

		found, err := bookmarkRepo.FindByIDAndUserID(ctx, bookmark.ID, pgTestUserID)
		require.NoError(t, err)
		require.NotNil(t, found.CategoryID)
		assert.Equal(t, category.ID, *found.CategoryID)
		assert.Equal(t, "https://www.google.com/s2/favicons?domain=github.com&sz=64", found.Favicon)

		found, err = bookmarkRepo.FindByIDAndUserID(ctx, uncategorized.ID, pgTestUserID)
		require.NoError(t, err)
		assert.Nil(t, found.CategoryID)

		found.CategoryID = &category.ID
		found.Title = "No longer loose"
		affected, err := bookmarkRepo.Update(ctx, found)
		require.NoError(t, err)
		assert.Equal(t, int64(1), affected)

		exists, err := bookmarkRepo.ExistsByURLAndUserID(ctx, "https://github.com", pgTestUserID)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = bookmarkRepo.ExistsByURLAndUserID(ctx, "https://github.com", pgOtherUserID)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("page query with keyword and category filters", func(t *testing.T) {
		category, err := categoryRepo.FindByNameAndUserID(ctx, "Dev", pgTestUserID)
		require.NoError(t, err)

		bookmarks, total, err := bookmarkRepo.FindPage(ctx, domain.BookmarkPage{
			UserID: pgTestUserID, Limit: 10, Offset: 0,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, bookmarks, 2)

		bookmarks, total, err = bookmarkRepo.FindPage(ctx, domain.BookmarkPage{
			UserID: pgTestUserID, CategoryID: &category.ID, Limit: 10, Offset: 0,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, bookmarks, 2)

		bookmarks, total, err = bookmarkRepo.FindPage(ctx, domain.BookmarkPage{
			UserID: pgTestUserID, Keyword: "github", Limit: 10, Offset: 0,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, bookmarks, 1)
		assert.Equal(t, "GitHub", bookmarks[0].Title)

		bookmarks, total, err = bookmarkRepo.FindPage(ctx, domain.BookmarkPage{
			UserID: pgTestUserID, Limit: 1, Offset: 1,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, bookmarks, 1)
	})

	t.Run("favicon backfill candidates", func(t *testing.T) {
		missing := newTestBookmark(pgTestUserID, "No favicon", "https://plain.example.com", nil, 3)
		missing.Favicon = ""
		require.NoError(t, bookmarkRepo.Save(ctx, missing))

		candidates, err := bookmarkRepo.FindWithoutFavicon(ctx, 10)
		require.NoError(t, err)
		require.Len(t, candidates, 1)
		assert.Equal(t, missing.ID, candidates[0].ID)

		missing.Favicon = domain.FaviconURL(missing.URL)
		_, err = bookmarkRepo.Update(ctx, missing)
		require.NoError(t, err)

		candidates, err = bookmarkRepo.FindWithoutFavicon(ctx, 10)
		require.NoError(t, err)
		assert.Empty(t, candidates)
	})

	t.Run("clear category detaches bookmarks", func(t *testing.T) {
		category, err := categoryRepo.FindByNameAndUserID(ctx, "Dev", pgTestUserID)
		require.NoError(t, err)

		count, err := bookmarkRepo.CountByCategoryID(ctx, category.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		require.NoError(t, bookmarkRepo.ClearCategoryID(ctx, category.ID))

		count, err = bookmarkRepo.CountByCategoryID(ctx, category.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})

	t.Run("batch delete only touches the owner's rows", func(t *testing.T) {
		foreign := newTestBookmark(pgOtherUserID, "Foreign", "https://foreign.example.com", nil, 1)
		require.NoError(t, bookmarkRepo.Save(ctx, foreign))

		mine, err := bookmarkRepo.FindByUserID(ctx, pgTestUserID)
		require.NoError(t, err)
		require.NotEmpty(t, mine)

		ids := []uuid.UUID{mine[0].ID, foreign.ID, uuid.New()}
		deleted, err := bookmarkRepo.DeleteByIDsAndUserID(ctx, ids, pgTestUserID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), deleted)

		deleted, err = bookmarkRepo.DeleteByIDsAndUserID(ctx, nil, pgTestUserID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), deleted)

		stillThere, err := bookmarkRepo.FindByIDAndUserID(ctx, foreign.ID, pgOtherUserID)
		require.NoError(t, err)
		assert.Equal(t, "Foreign", stillThere.Title)
	})

	t.Run("purge removes bookmarks then categories", func(t *testing.T) {
		deletedBookmarks, err := bookmarkRepo.DeleteAllByUserID(ctx, pgTestUserID)
		require.NoError(t, err)
		assert.Greater(t, deletedBookmarks, int64(0))

		deletedCategories, err := categoryRepo.DeleteAllByUserID(ctx, pgTestUserID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), deletedCategories)

		remaining, err := categoryRepo.FindByUserID(ctx, pgTestUserID)
		require.NoError(t, err)
		assert.Empty(t, remaining)
	})
}
