package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Mutter0815/ColdMailer/pkg/logx"
	"github.com/Mutter0815/ColdMailer/pkg/metrics"
)

func Observability() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		rid := c.Request.Header.Get("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Writer.Header().Set("X-Request-ID", rid)

		c.Set("request_id", rid)
		c.Next()

		lat := time.Since(start).Seconds()
		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		metrics.APIRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(status)).Inc()
		metrics.APIRequestDuration.WithLabelValues(c.Request.Method, path).Observe(lat)

		// Progress polling hits every ~2s; keep it out of the info log.
		log := logx.L().Infow
		if path == "/sent-count" && status == http.StatusOK {
			log = logx.L().Debugw
		}
		log("http_access",
			"rid", rid,
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"duration", lat,
			"client_ip", c.ClientIP(),
		)
	}
}

// CORS lets the browser form talk to the API from another origin.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		h.Set("Access-Control-Expose-Headers", "X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
