package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health reports connectivity of the two stores the terminal depends on.
// Postgres down means sales cannot be persisted; Redis down means drafts are
// not mirrored — either one degrades the terminal to 503.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		postgres := "connected"
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			postgres = "error"
		}

		drafts := "connected"
		if rdb.Ping(ctx).Err() != nil {
			drafts = "error"
		}

		status := http.StatusOK
		if postgres != "connected" || drafts != "connected" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":       status == http.StatusOK,
			"postgres": postgres,
			"redis":    drafts,
		})
	}
}
