package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sebuszqo/BookmarkManager/internal/bookmarks/domain"
)

type SeederService interface {
	SeedDefaultData(ctx context.Context, userID string) error
}

type seederService struct {
	bookmarkRepo domain.BookmarkRepository
	categoryRepo domain.CategoryRepository
}

func NewSeederService(bookmarkRepo domain.BookmarkRepository, categoryRepo domain.CategoryRepository) SeederService {
	return &seederService{bookmarkRepo: bookmarkRepo, categoryRepo: categoryRepo}
}

type seedBookmark struct {
	Title       string
	URL         string
	Description string
}

type seedCategory struct {
	Name      string
	Icon      string
	Bookmarks []seedBookmark
}

var defaultSeed = []seedCategory{
	{
		Name: "Development", Icon: "💻",
		Bookmarks: []seedBookmark{
			{Title: "GitHub", URL: "https://github.com", Description: "Code hosting and collaboration"},
			{Title: "Stack Overflow", URL: "https://stackoverflow.com", Description: "Programming Q&A community"},
			{Title: "MDN Web Docs", URL: "https://developer.mozilla.org", Description: "Web development reference"},
		},
	},
	{
		Name: "Tools", Icon: "🔧",
		Bookmarks: []seedBookmark{
			{Title: "Google", URL: "https://www.google.com", Description: "Web search"},
			{Title: "DeepL", URL: "https://www.deepl.com", Description: "Online translator"},
		},
	},
	{
		Name: "Learning", Icon: "📚",
		Bookmarks: []seedBookmark{
			{Title: "freeCodeCamp", URL: "https://www.freecodecamp.org", Description: "Learn to code for free"},
			{Title: "YouTube", URL: "https://www.youtube.com", Description: "Video tutorials and talks"},
		},
	},
	{
		Name: "Entertainment", Icon: "🎮",
		Bookmarks: []seedBookmark{
			{Title: "Reddit", URL: "https://www.reddit.com", Description: "Communities and discussions"},
		},
	},
}

// SeedDefaultData creates the starter categories and bookmarks for a fresh
// account, so the first login does not greet the user with an empty screen.
func (s *seederService) SeedDefaultData(ctx context.Context, userID string) error {
	for categoryOrder, seed := range defaultSeed {
		category := &domain.Category{
			ID:        uuid.New(),
			UserID:    userID,
			Name:      seed.Name,
			Icon:      seed.Icon,
			SortOrder: categoryOrder + 1,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if err := s.categoryRepo.Save(ctx, category); err != nil {
			return err
		}

		for bookmarkOrder, seedBm := range seed.Bookmarks {
			categoryID := category.ID
			bookmark := &domain.Bookmark{
				ID:          uuid.New(),
				UserID:      userID,
				Title:       seedBm.Title,
				URL:         seedBm.URL,
				Description: seedBm.Description,
				Favicon:     domain.FaviconURL(seedBm.URL),
				CategoryID:  &categoryID,
				SortOrder:   bookmarkOrder + 1,
				CreatedAt:   time.Now(),
				UpdatedAt:   time.Now(),
			}
			if err := s.bookmarkRepo.Save(ctx, bookmark); err != nil {
				return err
			}
		}
	}
	return nil
}
