package router

import (
	"log/slog"
	"net/http"
	"time"

	"hygieat/internal/auth"
	"hygieat/internal/middleware"
	"hygieat/internal/vendor"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// maxMultipartMemory keeps a banner, a short video and a handful of menu
// photos in memory; larger bodies spill to disk.
const maxMultipartMemory = 64 << 20

type Deps struct {
	Auth        *auth.Service
	Tokens      *auth.TokenManager
	Vendors     *vendor.Service
	Logger      *slog.Logger
	CORSOrigins []string
}

func NewRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = maxMultipartMemory

	r.Use(gin.Recovery())
	if deps.Logger != nil {
		r.Use(middleware.Logger(deps.Logger))
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// ───────────────────────── HEALTH ─────────────────────────
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ───────────────────────── AUTH ─────────────────────────
	authHandler := auth.NewHandler(deps.Auth)

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
	}

	// ───────────────────────── VENDORS ─────────────────────────
	vendorHandler := vendor.NewHandler(deps.Vendors)

	vendors := r.Group("/vendors")
	vendors.Use(
		middleware.AuthMiddleware(deps.Tokens),
		middleware.RequireRole(auth.RoleVendor),
	)
	{
		vendors.POST("", vendorHandler.Register)
	}

	return r
}
