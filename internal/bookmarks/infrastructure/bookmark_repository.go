package infrastructure

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sebuszqo/BookmarkManager/internal/bookmarks/domain"
)

type BookmarkRepository struct {
	db *sql.DB
}

func NewBookmarkRepository(db *sql.DB) *BookmarkRepository {
	return &BookmarkRepository{db: db}
}

func scanBookmark(row interface{ Scan(dest ...any) error }, bookmark *domain.Bookmark) error {
	var categoryID uuid.NullUUID
	err := row.Scan(&bookmark.ID, &bookmark.UserID, &bookmark.Title, &bookmark.URL,
		&bookmark.Description, &bookmark.Favicon, &categoryID,
		&bookmark.SortOrder, &bookmark.CreatedAt, &bookmark.UpdatedAt)
	if err != nil {
		return err
	}
	if categoryID.Valid {
		bookmark.CategoryID = &categoryID.UUID
	}
	return nil
}

func nullableCategoryID(bookmark *domain.Bookmark) uuid.NullUUID {
	if bookmark.CategoryID == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *bookmark.CategoryID, Valid: true}
}

const bookmarkColumns = `id, user_id, title, url, description, favicon, category_id, sort_order, created_at, updated_at`

func (r *BookmarkRepository) Save(ctx context.Context, bookmark *domain.Bookmark) error {
	query := `INSERT INTO bookmarks (` + bookmarkColumns + `)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.ExecContext(ctx, query, bookmark.ID, bookmark.UserID, bookmark.Title,
		bookmark.URL, bookmark.Description, bookmark.Favicon, nullableCategoryID(bookmark),
		bookmark.SortOrder, bookmark.CreatedAt, bookmark.UpdatedAt)
	return err
}

func (r *BookmarkRepository) Update(ctx context.Context, bookmark *domain.Bookmark) (int64, error) {
	query := `
        UPDATE bookmarks
        SET title = $1, url = $2, description = $3, favicon = $4, category_id = $5,
            sort_order = $6, updated_at = $7
        WHERE id = $8 AND user_id = $9
    `
	result, err := r.db.ExecContext(ctx, query, bookmark.Title, bookmark.URL, bookmark.Description,
		bookmark.Favicon, nullableCategoryID(bookmark), bookmark.SortOrder, time.Now(),
		bookmark.ID, bookmark.UserID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *BookmarkRepository) Delete(ctx context.Context, bookmarkID uuid.UUID) error {
	query := `DELETE FROM bookmarks WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, bookmarkID)
	return err
}

func (r *BookmarkRepository) DeleteByIDsAndUserID(ctx context.Context, bookmarkIDs []uuid.UUID, userID string) (int64, error) {
	if len(bookmarkIDs) == 0 {
		return 0, nil
	}

	placeholders := make([]string, 0, len(bookmarkIDs))
	args := []interface{}{userID}
	for i, id := range bookmarkIDs {
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+2))
		args = append(args, id)
	}

	query := fmt.Sprintf(`DELETE FROM bookmarks WHERE user_id = $1 AND id IN (%s)`,
		strings.Join(placeholders, ", "))
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *BookmarkRepository) DeleteAllByUserID(ctx context.Context, userID string) (int64, error) {
	query := `DELETE FROM bookmarks WHERE user_id = $1`
	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *BookmarkRepository) FindByIDAndUserID(ctx context.Context, bookmarkID uuid.UUID, userID string) (*domain.Bookmark, error) {
	query := `SELECT ` + bookmarkColumns + ` FROM bookmarks WHERE id = $1 AND user_id = $2`

	var bookmark domain.Bookmark
	if err := scanBookmark(r.db.QueryRowContext(ctx, query, bookmarkID, userID), &bookmark); err != nil {
		return nil, err
	}
	return &bookmark, nil
}

func (r *BookmarkRepository) FindByUserID(ctx context.Context, userID string) ([]domain.Bookmark, error) {
	query := `SELECT ` + bookmarkColumns + ` FROM bookmarks WHERE user_id = $1
              ORDER BY sort_order ASC, id ASC`
	return r.queryBookmarks(ctx, query, userID)
}

func (r *BookmarkRepository) FindByUserIDAndCategoryID(ctx context.Context, userID string, categoryID uuid.UUID) ([]domain.Bookmark, error) {
	query := `SELECT ` + bookmarkColumns + ` FROM bookmarks WHERE user_id = $1 AND category_id = $2
              ORDER BY sort_order ASC, id ASC`
	return r.queryBookmarks(ctx, query, userID, categoryID)
}

func (r *BookmarkRepository) FindPage(ctx context.Context, page domain.BookmarkPage) ([]domain.Bookmark, int64, error) {
	where := []string{"user_id = $1"}
	args := []interface{}{page.UserID}

	if page.CategoryID != nil {
		args = append(args, *page.CategoryID)
		where = append(where, fmt.Sprintf("category_id = $%d", len(args)))
	}
	if page.Keyword != "" {
		args = append(args, "%"+page.Keyword+"%")
		where = append(where, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}
	condition := strings.Join(where, " AND ")

	var total int64
	countQuery := `SELECT COUNT(1) FROM bookmarks WHERE ` + condition
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, page.Limit, page.Offset)
	query := fmt.Sprintf(`SELECT `+bookmarkColumns+` FROM bookmarks WHERE %s
              ORDER BY sort_order ASC, id ASC LIMIT $%d OFFSET $%d`,
		condition, len(args)-1, len(args))

	bookmarks, err := r.queryBookmarks(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return bookmarks, total, nil
}

func (r *BookmarkRepository) FindWithoutFavicon(ctx context.Context, limit int) ([]domain.Bookmark, error) {
	query := `SELECT ` + bookmarkColumns + ` FROM bookmarks WHERE favicon = ''
              ORDER BY created_at ASC LIMIT $1`
	return r.queryBookmarks(ctx, query, limit)
}

func (r *BookmarkRepository) ExistsByURLAndUserID(ctx context.Context, url, userID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM bookmarks WHERE url = $1 AND user_id = $2)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, url, userID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *BookmarkRepository) MaxSortOrderByUserID(ctx context.Context, userID string) (int, error) {
	query := `SELECT COALESCE(MAX(sort_order), 0) FROM bookmarks WHERE user_id = $1`

	var maxSortOrder int
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&maxSortOrder)
	if err != nil {
		return 0, err
	}
	return maxSortOrder, nil
}

func (r *BookmarkRepository) CountByUserID(ctx context.Context, userID string) (int64, error) {
	query := `SELECT COUNT(1) FROM bookmarks WHERE user_id = $1`

	var count int64
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&count)
	return count, err
}

func (r *BookmarkRepository) CountByCategoryID(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(1) FROM bookmarks WHERE category_id = $1`

	var count int64
	err := r.db.QueryRowContext(ctx, query, categoryID).Scan(&count)
	return count, err
}

func (r *BookmarkRepository) ClearCategoryID(ctx context.Context, categoryID uuid.UUID) error {
	query := `UPDATE bookmarks SET category_id = NULL, updated_at = $1 WHERE category_id = $2`
	_, err := r.db.ExecContext(ctx, query, time.Now(), categoryID)
	return err
}

func (r *BookmarkRepository) queryBookmarks(ctx context.Context, query string, args ...interface{}) ([]domain.Bookmark, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookmarks []domain.Bookmark
	for rows.Next() {
		var bookmark domain.Bookmark
		if err := scanBookmark(rows, &bookmark); err != nil {
			return nil, err
		}
		bookmarks = append(bookmarks, bookmark)
	}
	return bookmarks, rows.Err()
}
