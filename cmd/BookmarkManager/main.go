package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	database "github.com/sebuszqo/BookmarkManager/db"
	"github.com/sebuszqo/BookmarkManager/internal/auth"
	"github.com/sebuszqo/BookmarkManager/internal/bookmarks/application"
	"github.com/sebuszqo/BookmarkManager/internal/bookmarks/infrastructure"
	"github.com/sebuszqo/BookmarkManager/internal/bookmarks/interfaces"
	"github.com/sebuszqo/BookmarkManager/internal/user"
)

type Response struct {
	Message string `json:"message"`
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("Started %s %s", r.Method, r.URL.Path)

		next.ServeHTTP(w, r)

		log.Printf("Completed %s in %v", r.URL.Path, time.Since(start))
	})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"status":  "error",
		"message": message,
		"code":    status,
	})
}

type Server struct {
	router            *http.ServeMux
	authHandler       *auth.Handler
	userHandler       *user.Handler
	authService       auth.Service
	categoryHandler   *interfaces.CategoryHandler
	bookmarkHandler   *interfaces.BookmarkHandler
	dataHandler       *interfaces.DataHandler
	statisticsHandler *interfaces.StatisticsHandler
}

func NewServer(
	authHandler *auth.Handler,
	authService auth.Service,
	userHandler *user.Handler,
	categoryHandler *interfaces.CategoryHandler,
	bookmarkHandler *interfaces.BookmarkHandler,
	dataHandler *interfaces.DataHandler,
	statisticsHandler *interfaces.StatisticsHandler,
) *Server {
	return &Server{
		authHandler:       authHandler,
		userHandler:       userHandler,
		authService:       authService,
		categoryHandler:   categoryHandler,
		bookmarkHandler:   bookmarkHandler,
		dataHandler:       dataHandler,
		statisticsHandler: statisticsHandler,
		router:            http.NewServeMux(),
	}
}

func notFoundHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	json.NewEncoder(w).Encode(Response{Message: "Path not found"})
}

func checkConfiguration() error {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, continuing with system environment variables")
	}

	if os.Getenv("JWT_SECRET") == "" {
		return errors.New("no JWT_SECRET Provided")
	}
	return nil
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ready",
	})
}

func (s *Server) RegisterRoutes() {
	withAuth := s.authService.JWTAccessTokenMiddleware()

	// Public routes
	publicRoutes := http.NewServeMux()
	publicRoutes.Handle("POST /api/register", http.HandlerFunc(s.userHandler.HandleRegister))
	publicRoutes.Handle("POST /api/auth/login", http.HandlerFunc(s.authHandler.HandleLogin))
	publicRoutes.Handle("POST /api/auth/logout", http.HandlerFunc(s.authHandler.HandleLogout))
	publicRoutes.Handle("POST /api/auth/2fa/verify", http.HandlerFunc(s.authHandler.HandleVerifyTwoFactor))
	publicRoutes.Handle("GET /api/ready", http.HandlerFunc(s.handleReady))

	// Protected routes (using JWT Access Token Middleware)
	protectedRoutes := http.NewServeMux()

	// profile and account
	protectedRoutes.Handle("GET /api/protected/profile", withAuth(http.HandlerFunc(s.userHandler.HandleGetUserProfile)))
	protectedRoutes.Handle("PUT /api/protected/profile", withAuth(http.HandlerFunc(s.userHandler.HandleUpdateProfile)))
	protectedRoutes.Handle("POST /api/protected/change-password", withAuth(http.HandlerFunc(s.userHandler.HandleChangePassword)))
	protectedRoutes.Handle("GET /api/protected/settings", withAuth(http.HandlerFunc(s.userHandler.HandleGetSettings)))
	protectedRoutes.Handle("PUT /api/protected/settings", withAuth(http.HandlerFunc(s.userHandler.HandleUpdateSettings)))
	protectedRoutes.Handle("DELETE /api/protected/account", withAuth(http.HandlerFunc(s.userHandler.HandleDeleteAccount)))

	// two-factor auth
	protectedRoutes.Handle("POST /api/protected/2fa/register", withAuth(http.HandlerFunc(s.authHandler.HandleRegisterTwoFactor)))
	protectedRoutes.Handle("POST /api/protected/2fa/verify-registration", withAuth(http.HandlerFunc(s.authHandler.HandleVerifyTwoFactorCode)))
	protectedRoutes.Handle("DELETE /api/protected/2fa/disable", withAuth(http.HandlerFunc(s.authHandler.HandleDisableTwoFactor)))

	// CATEGORIES API
	// Literal segments win over {categoryID} wildcards, so reorder is safe here.
	protectedRoutes.Handle("GET /api/protected/categories", withAuth(http.HandlerFunc(s.categoryHandler.GetCategories)))
	protectedRoutes.Handle("POST /api/protected/categories", withAuth(http.HandlerFunc(s.categoryHandler.CreateCategory)))
	protectedRoutes.Handle("PUT /api/protected/categories/reorder", withAuth(http.HandlerFunc(s.categoryHandler.ReorderCategories)))
	protectedRoutes.Handle("PUT /api/protected/categories/{categoryID}", withAuth(http.HandlerFunc(s.categoryHandler.UpdateCategory)))
	protectedRoutes.Handle("DELETE /api/protected/categories/{categoryID}", withAuth(http.HandlerFunc(s.categoryHandler.DeleteCategory)))

	// BOOKMARKS API
	protectedRoutes.Handle("GET /api/protected/bookmarks", withAuth(http.HandlerFunc(s.bookmarkHandler.GetBookmarks)))
	protectedRoutes.Handle("POST /api/protected/bookmarks", withAuth(http.HandlerFunc(s.bookmarkHandler.CreateBookmark)))
	protectedRoutes.Handle("PUT /api/protected/bookmarks/reorder", withAuth(http.HandlerFunc(s.bookmarkHandler.ReorderBookmarks)))
	protectedRoutes.Handle("POST /api/protected/bookmarks/batch-delete", withAuth(http.HandlerFunc(s.bookmarkHandler.BatchDeleteBookmarks)))
	protectedRoutes.Handle("GET /api/protected/bookmarks/{bookmarkID}", withAuth(http.HandlerFunc(s.bookmarkHandler.GetBookmark)))
	protectedRoutes.Handle("PUT /api/protected/bookmarks/{bookmarkID}", withAuth(http.HandlerFunc(s.bookmarkHandler.UpdateBookmark)))
	protectedRoutes.Handle("DELETE /api/protected/bookmarks/{bookmarkID}", withAuth(http.HandlerFunc(s.bookmarkHandler.DeleteBookmark)))
	protectedRoutes.Handle("PUT /api/protected/bookmarks/{bookmarkID}/move", withAuth(http.HandlerFunc(s.bookmarkHandler.MoveBookmark)))

	// DATA API
	protectedRoutes.Handle("GET /api/protected/data/export", withAuth(http.HandlerFunc(s.dataHandler.ExportData)))
	protectedRoutes.Handle("POST /api/protected/data/import", withAuth(http.HandlerFunc(s.dataHandler.ImportData)))
	protectedRoutes.Handle("DELETE /api/protected/data", withAuth(http.HandlerFunc(s.dataHandler.ClearData)))

	// STATISTICS API
	protectedRoutes.Handle("GET /api/protected/statistics", withAuth(http.HandlerFunc(s.statisticsHandler.GetStatistics)))

	// Refresh token routes
	refreshTokenRoutes := http.NewServeMux()
	refreshTokenRoutes.Handle("PUT /api/refresh/token", s.authService.JWTRefreshTokenMiddleware()(http.HandlerFunc(s.authHandler.RefreshAccessToken)))

	// Main router
	mainRouter := http.NewServeMux()

	mainRouter.Handle("/api/", publicRoutes)
	mainRouter.Handle("/api/protected/", protectedRoutes)
	mainRouter.Handle("/api/refresh/", refreshTokenRoutes)
	mainRouter.Handle("/", http.HandlerFunc(notFoundHandler))

	s.router = mainRouter
}

func main() {
	if err := checkConfiguration(); err != nil {
		log.Fatalf("Missing configuration, update to start server")
	}

	dbService, err := database.NewDBService()
	if err != nil {
		log.Fatalf("Could not initialize database: %v", err)
	}
	defer dbService.Close()

	categoryRepo := infrastructure.NewCategoryRepository(dbService.DB)
	bookmarkRepo := infrastructure.NewBookmarkRepository(dbService.DB)

	categoryService := application.NewCategoryService(categoryRepo, bookmarkRepo)
	bookmarkService := application.NewBookmarkService(bookmarkRepo, categoryRepo)
	dataService := application.NewDataService(bookmarkRepo, categoryRepo, bookmarkService, categoryService)
	statisticsService := application.NewStatisticsService(bookmarkRepo, categoryRepo)
	seederService := application.NewSeederService(bookmarkRepo, categoryRepo)

	authRepo := auth.NewUserRepository(dbService.DB)
	userRepo := user.NewUserRepository(dbService.DB)

	sessionManager := auth.NewSessionManager()
	sessionManager.StartSessionTokenCleanup(10 * time.Minute)
	jwtManager := auth.NewJWTManager()
	authenticator := &auth.Authenticator{}

	userService := user.NewUserService(userRepo, seederService, dataService)
	userHandler := user.NewHandler(userService)
	authService := auth.NewAuthService(authRepo, userService, sessionManager, jwtManager, authenticator)
	authHandler := auth.NewHandler(authService)

	categoryHandler := interfaces.NewCategoryHandler(categoryService, respondJSON, respondError)
	bookmarkHandler := interfaces.NewBookmarkHandler(bookmarkService, respondJSON, respondError)
	dataHandler := interfaces.NewDataHandler(dataService, respondJSON, respondError)
	statisticsHandler := interfaces.NewStatisticsHandler(statisticsService, respondJSON, respondError)

	server := NewServer(authHandler, authService, userHandler, categoryHandler, bookmarkHandler, dataHandler, statisticsHandler)
	server.RegisterRoutes()

	if err := StartFaviconScheduler(bookmarkService); err != nil {
		log.Fatalf("Scheduler didn't start, stoping the app ...")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	handler := loggingMiddleware(http.HandlerFunc(server.router.ServeHTTP))
	log.Printf("Server starting on port %s...", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

func StartFaviconScheduler(bookmarkService application.BookmarkService) error {
	c := cron.New()
	// Backfills favicons for bookmarks imported without one.
	_, err := c.AddFunc("@every 6h", func() {
		updated, err := bookmarkService.RefreshMissingFavicons(context.Background())
		if err != nil {
			log.Printf("Error refreshing favicons: %v", err)
		} else if updated > 0 {
			log.Printf("Refreshed favicons for %d bookmarks.", updated)
		}
	})
	if err != nil {
		return err
	}
	c.Start()
	return nil
}
