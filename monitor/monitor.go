// Package monitor serves the small operator surface: process status and a
// tail of the application log. Access is gated by MONITOR_TOKEN.
package monitor

import (
	"net/http"
	"os"
	"runtime"
	"time"

	"thesis-management-api/config"

	"github.com/gin-gonic/gin"
)

var startedAt = time.Now()

func RegisterMonitorRoutes(router *gin.Engine) {
	router.GET("/monitor", func(c *gin.Context) {
		if !authorized(c) {
			return
		}

		var mem runtime.MemStats
		runtime.ReadMemStats(&mem)

		c.JSON(http.StatusOK, gin.H{
			"status":         "ok",
			"started_at":     startedAt.Format(time.RFC3339),
			"uptime_seconds": int64(time.Since(startedAt).Seconds()),
			"goroutines":     runtime.NumGoroutine(),
			"heap_alloc_mb":  mem.HeapAlloc / 1024 / 1024,
			"go_version":     runtime.Version(),
		})
	})

	router.GET("/logs", func(c *gin.Context) {
		if !authorized(c) {
			return
		}

		logData, err := os.ReadFile(config.LogFilePath())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to read log"})
			return
		}
		c.Data(http.StatusOK, "text/plain; charset=utf-8", logData)
	})
}

func authorized(c *gin.Context) bool {
	token := os.Getenv("MONITOR_TOKEN")
	if token == "" || c.Query("token") != token {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return false
	}
	return true
}
