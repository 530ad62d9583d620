package interfaces

import (
	"context"
	"errors"

	"github.com/sebuszqo/BookmarkManager/internal/bookmarks/application"
)

type MockDataService struct {
	importResult *application.ImportResult
	exportDoc    *application.ExportDocument
	clearResult  *application.ClearResult
	shouldFail   bool

	lastDocument application.ImportDocument
}

func (m *MockDataService) Import(ctx context.Context, userID string, doc application.ImportDocument) (*application.ImportResult, error) {
	m.lastDocument = doc
	if m.shouldFail {
		return nil, errors.New("service error")
	}
	return m.importResult, nil
}

func (m *MockDataService) Export(ctx context.Context, userID string) (*application.ExportDocument, error) {
	if m.shouldFail {
		return nil, errors.New("service error")
	}
	return m.exportDoc, nil
}

func (m *MockDataService) ClearAll(ctx context.Context, userID string) (*application.ClearResult, error) {
	if m.shouldFail {
		return nil, errors.New("service error")
	}
	return m.clearResult, nil
}

type MockStatisticsService struct {
	statistics *application.StatisticsResponse
	shouldFail bool
}

func (m *MockStatisticsService) GetStatistics(ctx context.Context, userID string) (*application.StatisticsResponse, error) {
	if m.shouldFail {
		return nil, errors.New("service error")
	}
	return m.statistics, nil
}
