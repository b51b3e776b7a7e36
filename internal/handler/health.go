package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/KayzenRoot/lanchonete-pdv-sub002/internal/infra"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health returns a JSON health check response.
// Checks DB and Redis connectivity; never exposes credentials or internals.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		redisStatus := "connected"
		if rdb.Ping(ctx).Err() != nil {
			redisStatus = "error"
		}

		status := http.StatusOK
		if dbStatus != "connected" || redisStatus != "connected" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":    status == http.StatusOK,
			"db":    dbStatus,
			"redis": redisStatus,
		})
	}
}

// Ready runs one typed probe per entity against the schema. A broken or
// missing table shows up as a named failure in the response body.
func Ready(db *gorm.DB) gin.HandlerFunc {
	checks := infra.CapabilityChecks()
	return func(c *gin.Context) {
		results := make(map[string]string, len(checks))
		healthy := true
		for _, check := range checks {
			if err := check.Check(db.WithContext(c.Request.Context())); err != nil {
				results[check.Name] = "error"
				healthy = false
				continue
			}
			results[check.Name] = "ok"
		}

		status := http.StatusOK
		if !healthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"ok": healthy, "entities": results})
	}
}
