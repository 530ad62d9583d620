package interfaces

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sebuszqo/BookmarkManager/internal/bookmarks/application"
)

type MockCategoryService struct {
	categories []application.CategoryResponse
	category   *application.CategoryResponse
	err        error
	shouldFail bool

	lastName   string
	lastIcon   string
	lastTarget *uuid.UUID
	lastOrder  []uuid.UUID
}

func (m *MockCategoryService) fail() error {
	if m.err != nil {
		return m.err
	}
	if m.shouldFail {
		return errors.New("service error")
	}
	return nil
}

func (m *MockCategoryService) GetCategories(ctx context.Context, userID string) ([]application.CategoryResponse, error) {
	if err := m.fail(); err != nil {
		return nil, err
	}
	return m.categories, nil
}

func (m *MockCategoryService) CreateCategory(ctx context.Context, userID, name, icon string) (*application.CategoryResponse, error) {
	m.lastName = name
	m.lastIcon = icon
	if err := m.fail(); err != nil {
		return nil, err
	}
	return m.category, nil
}

func (m *MockCategoryService) UpdateCategory(ctx context.Context, userID string, categoryID uuid.UUID, name string, icon *string) (*application.CategoryResponse, error) {
	m.lastName = name
	if err := m.fail(); err != nil {
		return nil, err
	}
	return m.category, nil
}

func (m *MockCategoryService) DeleteCategory(ctx context.Context, userID string, categoryID uuid.UUID, moveBookmarksTo *uuid.UUID) error {
	m.lastTarget = moveBookmarksTo
	return m.fail()
}

func (m *MockCategoryService) ReorderCategories(ctx context.Context, userID string, categoryIDs []uuid.UUID) error {
	m.lastOrder = categoryIDs
	return m.fail()
}
