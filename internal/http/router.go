package http

import (
	"github.com/gin-gonic/gin"

	"github.com/opdshelf/opdshelf/internal/database/progress"
	"github.com/opdshelf/opdshelf/internal/database/users"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	catalog := NewCatalogController(cfg.Index, cfg.PageSize, cfg.MaxPage, cfg.RecentLimit)
	files := NewFilesController(cfg.Index.Root())
	admin := NewAdminController(cfg.Index)
	health := NewHealthController(cfg.Database, cfg.Index.Root(), cfg.Version)

	// OPDS catalog endpoints
	router.GET("/", catalog.Redirect)
	router.GET("/opds", catalog.Root)
	router.GET("/opds/books", catalog.AllBooks)
	router.GET("/opds/recent", catalog.Recent)
	router.GET("/opds/folder/*path", catalog.Folder)
	router.GET("/opds/years", catalog.Years)
	router.GET("/opds/years/:year", catalog.YearBooks)
	router.GET("/opds/authors", catalog.Authors)
	router.GET("/opds/authors/:letter", catalog.AuthorsByLetter)
	router.GET("/opds/author", catalog.AuthorBooks)
	router.GET("/opds/search", catalog.Search)

	// File endpoints
	router.GET("/download/*path", files.Download)
	router.GET("/cover/*path", files.Cover)

	// KOReader sync endpoints
	if cfg.Database != nil {
		usersRepo := users.NewRepository(cfg.Database.DB, cfg.BcryptCost)
		progressRepo := progress.NewRepository(cfg.Database.DB)
		sync := NewSyncController(usersRepo, progressRepo)

		koreader := router.Group("/koreader/sync")
		koreader.POST("/users/create", sync.Register)
		koreader.GET("/users/auth", sync.Auth)
		koreader.PUT("/syncs/progress", sync.StoreProgress)
		koreader.GET("/syncs/progress", sync.ListProgress)
		koreader.GET("/syncs/progress/:document", sync.GetProgress)
	}

	// Operational endpoints
	router.GET("/health", health.Status)
	router.POST("/admin/refresh", admin.Refresh)

	return router
}
