package interfaces

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sebuszqo/BookmarkManager/internal/bookmarks/application"
)

type MockBookmarkService struct {
	page       *application.PageResponse
	bookmark   *application.BookmarkResponse
	deleted    int64
	err        error
	shouldFail bool

	lastPage       int
	lastSize       int
	lastKeyword    string
	lastCategoryID *uuid.UUID
	lastInput      application.BookmarkInput
	lastIDs        []uuid.UUID
}

func (m *MockBookmarkService) fail() error {
	if m.err != nil {
		return m.err
	}
	if m.shouldFail {
		return errors.New("service error")
	}
	return nil
}

func (m *MockBookmarkService) GetBookmarks(ctx context.Context, userID string, page, size int, categoryID *uuid.UUID, keyword string) (*application.PageResponse, error) {
	m.lastPage = page
	m.lastSize = size
	m.lastKeyword = keyword
	m.lastCategoryID = categoryID
	if err := m.fail(); err != nil {
		return nil, err
	}
	return m.page, nil
}

func (m *MockBookmarkService) GetBookmark(ctx context.Context, userID string, bookmarkID uuid.UUID) (*application.BookmarkResponse, error) {
	if err := m.fail(); err != nil {
		return nil, err
	}
	return m.bookmark, nil
}

func (m *MockBookmarkService) CreateBookmark(ctx context.Context, userID string, input application.BookmarkInput) (*application.BookmarkResponse, error) {
	m.lastInput = input
	if err := m.fail(); err != nil {
		return nil, err
	}
	return m.bookmark, nil
}

func (m *MockBookmarkService) UpdateBookmark(ctx context.Context, userID string, bookmarkID uuid.UUID, input application.BookmarkInput) (*application.BookmarkResponse, error) {
	m.lastInput = input
	if err := m.fail(); err != nil {
		return nil, err
	}
	return m.bookmark, nil
}

func (m *MockBookmarkService) DeleteBookmark(ctx context.Context, userID string, bookmarkID uuid.UUID) error {
	return m.fail()
}

func (m *MockBookmarkService) BatchDeleteBookmarks(ctx context.Context, userID string, bookmarkIDs []uuid.UUID) (int64, error) {
	m.lastIDs = bookmarkIDs
	if err := m.fail(); err != nil {
		return 0, err
	}
	return m.deleted, nil
}

func (m *MockBookmarkService) ReorderBookmarks(ctx context.Context, userID string, bookmarkIDs []uuid.UUID) error {
	m.lastIDs = bookmarkIDs
	return m.fail()
}

func (m *MockBookmarkService) MoveBookmark(ctx context.Context, userID string, bookmarkID uuid.UUID, targetCategoryID *uuid.UUID) (*application.BookmarkResponse, error) {
	m.lastCategoryID = targetCategoryID
	if err := m.fail(); err != nil {
		return nil, err
	}
	return m.bookmark, nil
}
