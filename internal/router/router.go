package router

import (
	"net/http"
	"time"

	"empleadosauth/internal/apierror"
	"empleadosauth/internal/config"
	"empleadosauth/internal/handler"
	"empleadosauth/internal/middleware"
	"empleadosauth/internal/repository"
	"empleadosauth/internal/service"
	"empleadosauth/internal/token"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB. rdb may be nil.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.FrontendURL))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(100, 15*time.Minute)) // 100 req / 15 min per IP

	tokens := token.NewIssuer(cfg.JWTSecret, time.Duration(cfg.JWTExpirationHours)*time.Hour)

	empleadoRepo := repository.NewEmpleadoRepository(db)
	authSvc := service.NewAuthService(empleadoRepo, tokens)
	authH := handler.NewAuthHandler(authSvc)

	r.GET("/api/health", handler.Health(db, rdb))

	auth := r.Group("/api/auth")
	{
		auth.POST("/register", authH.Register)
		auth.POST("/login", middleware.LoginRateLimiter(rdb), authH.Login)

		jwtMW := middleware.JWTAuth(tokens)
		auth.GET("/profile", jwtMW, authH.Profile)
		// The employee listing used to be open as a testing convenience;
		// it exposes the whole roster, so it now requires a token too.
		auth.GET("/empleados", jwtMW, authH.ListEmpleados)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, apierror.New("Ruta no encontrada"))
	})

	return r
}
