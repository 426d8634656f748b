package handler

import (
	"context"
	"net/http"
	"time"

	"empleadosauth/internal/dto"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health returns a JSON health check response. Checks DB connectivity (and
// Redis when configured); never exposes credentials or internals.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		now := time.Now().UTC().Format(time.RFC3339)

		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			c.JSON(http.StatusServiceUnavailable, dto.HealthResponse{
				Message: "Base de datos no disponible", Timestamp: now,
			})
			return
		}
		if rdb != nil && rdb.Ping(ctx).Err() != nil {
			c.JSON(http.StatusServiceUnavailable, dto.HealthResponse{
				Message: "Redis no disponible", Timestamp: now,
			})
			return
		}

		c.JSON(http.StatusOK, dto.HealthResponse{
			Success: true, Message: "Servidor funcionando correctamente", Timestamp: now,
		})
	}
}
