package infrastructure

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/sebuszqo/BookmarkManager/internal/bookmarks/domain"
)

type CategoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Save(ctx context.Context, category *domain.Category) error {
	query := `INSERT INTO categories (id, user_id, name, icon, sort_order, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query, category.ID, category.UserID, category.Name,
		category.Icon, category.SortOrder, category.CreatedAt, category.UpdatedAt)
	return err
}

func (r *CategoryRepository) Update(ctx context.Context, category *domain.Category) (int64, error) {
	query := `
        UPDATE categories
        SET name = $1, icon = $2, sort_order = $3, updated_at = $4
        WHERE id = $5 AND user_id = $6
    `
	result, err := r.db.ExecContext(ctx, query, category.Name, category.Icon,
		category.SortOrder, time.Now(), category.ID, category.UserID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *CategoryRepository) Delete(ctx context.Context, categoryID uuid.UUID) error {
	query := `DELETE FROM categories WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, categoryID)
	return err
}

func (r *CategoryRepository) DeleteAllByUserID(ctx context.Context, userID string) (int64, error) {
	query := `DELETE FROM categories WHERE user_id = $1`
	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *CategoryRepository) FindByIDAndUserID(ctx context.Context, categoryID uuid.UUID, userID string) (*domain.Category, error) {
	query := `SELECT id, user_id, name, icon, sort_order, created_at, updated_at
              FROM categories WHERE id = $1 AND user_id = $2`

	var category domain.Category
	err := r.db.QueryRowContext(ctx, query, categoryID, userID).Scan(
		&category.ID, &category.UserID, &category.Name, &category.Icon,
		&category.SortOrder, &category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepository) FindByUserID(ctx context.Context, userID string) ([]domain.Category, error) {
	query := `SELECT id, user_id, name, icon, sort_order, created_at, updated_at
              FROM categories WHERE user_id = $1
              ORDER BY sort_order ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(&category.ID, &category.UserID, &category.Name, &category.Icon,
			&category.SortOrder, &category.CreatedAt, &category.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) FindByNameAndUserID(ctx context.Context, name, userID string) (*domain.Category, error) {
	query := `SELECT id, user_id, name, icon, sort_order, created_at, updated_at
              FROM categories WHERE name = $1 AND user_id = $2`

	var category domain.Category
	err := r.db.QueryRowContext(ctx, query, name, userID).Scan(
		&category.ID, &category.UserID, &category.Name, &category.Icon,
		&category.SortOrder, &category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepository) ExistsByNameAndUserID(ctx context.Context, name, userID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM categories WHERE name = $1 AND user_id = $2)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, name, userID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *CategoryRepository) ExistsByNameAndUserIDAndIDNot(ctx context.Context, name, userID string, categoryID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM categories WHERE name = $1 AND user_id = $2 AND id <> $3)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, name, userID, categoryID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *CategoryRepository) MaxSortOrderByUserID(ctx context.Context, userID string) (int, error) {
	query := `SELECT COALESCE(MAX(sort_order), 0) FROM categories WHERE user_id = $1`

	var maxSortOrder int
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&maxSortOrder)
	if err != nil {
		return 0, err
	}
	return maxSortOrder, nil
}
