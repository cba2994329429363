package router

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Oxyrus/phototags/internal/config"
	"github.com/Oxyrus/phototags/internal/http/handlers"
	"github.com/Oxyrus/phototags/internal/http/middleware"
)

// UploadURL is where the upload directory is served from.
const UploadURL = "/images/uploads"

func New(cfg *config.Config, logger *slog.Logger, library handlers.Library) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = 8 << 20

	r.Use(gin.Recovery())
	r.Use(middleware.Logging(logger))

	photoHandler := handlers.NewPhotoHandler(logger, library, UploadURL, cfg.MaxUploadBytes)
	authHandler := handlers.NewAuthHandler(logger, cfg.AdminPassword, cfg.AdminCookie)

	r.Static(UploadURL, cfg.UploadDir)

	r.GET("/photos", photoHandler.List)
	r.POST("/photos", photoHandler.Filter)
	r.POST("/login", authHandler.SubmitLogin)
	r.GET("/logout", authHandler.Logout)

	protected := r.Group("/")
	protected.Use(middleware.RequireAdmin(cfg.AdminCookie))
	protected.POST("/upload", photoHandler.Upload)
	protected.GET("/photos/:id", photoHandler.Show)
	protected.GET("/delete", photoHandler.DeleteList)
	protected.POST("/delete", photoHandler.Delete)

	r.NoRoute(func(c *gin.Context) {
		c.String(http.StatusNotFound, "not found")
	})

	return r
}
