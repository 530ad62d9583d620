package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sebuszqo/BookmarkManager/internal/bookmarks/domain"
)

const uncategorizedLabel = "Uncategorized"

type CategoryStat struct {
	CategoryID   *uuid.UUID `json:"categoryId"`
	CategoryName string     `json:"categoryName"`
	Count        int64      `json:"count"`
}

type StatisticsResponse struct {
	TotalBookmarks  int            `json:"totalBookmarks"`
	TotalCategories int            `json:"totalCategories"`
	TodayAdded      int64          `json:"todayAdded"`
	CategoryStats   []CategoryStat `json:"categoryStats"`
}

type StatisticsService interface {
	GetStatistics(ctx context.Context, userID string) (*StatisticsResponse, error)
}

type statisticsService struct {
	bookmarkRepo domain.BookmarkRepository
	categoryRepo domain.CategoryRepository
}

func NewStatisticsService(bookmarkRepo domain.BookmarkRepository, categoryRepo domain.CategoryRepository) StatisticsService {
	return &statisticsService{bookmarkRepo: bookmarkRepo, categoryRepo: categoryRepo}
}

// GetStatistics is a pure read-side projection over the user's bookmarks and
// categories; it maintains no state of its own.
func (s *statisticsService) GetStatistics(ctx context.Context, userID string) (*StatisticsResponse, error) {
	bookmarks, err := s.bookmarkRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	categories, err := s.categoryRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var todayAdded int64
	countsByCategory := make(map[uuid.UUID]int64)
	var uncategorized int64
	for _, bookmark := range bookmarks {
		if !bookmark.CreatedAt.Before(todayStart) {
			todayAdded++
		}
		if bookmark.CategoryID != nil {
			countsByCategory[*bookmark.CategoryID]++
		} else {
			uncategorized++
		}
	}

	stats := make([]CategoryStat, 0, len(categories)+1)
	for _, category := range categories {
		category := category
		stats = append(stats, CategoryStat{
			CategoryID:   &category.ID,
			CategoryName: category.Name,
			Count:        countsByCategory[category.ID],
		})
	}
	if uncategorized > 0 {
		stats = append(stats, CategoryStat{CategoryName: uncategorizedLabel, Count: uncategorized})
	}

	return &StatisticsResponse{
		TotalBookmarks:  len(bookmarks),
		TotalCategories: len(categories),
		TodayAdded:      todayAdded,
		CategoryStats:   stats,
	}, nil
}
