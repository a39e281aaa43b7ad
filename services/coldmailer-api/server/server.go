package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mutter0815/ColdMailer/docs"
	"github.com/Mutter0815/ColdMailer/pkg/metrics"
)

func NewHTTPServer(addr string, h *Handlers) *http.Server {
	r := gin.New()
	r.Use(gin.Recovery(), Observability(), CORS())

	r.GET("/healthz", h.Healthz)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/docs", serveDocs("text/html; charset=utf-8", docs.SwaggerHTML))
	r.GET("/docs/coldmailer/openapi.yaml", serveDocs("application/yaml", docs.OpenAPI))

	r.POST("/send-emails", h.SendEmails)
	r.GET("/sent-count", h.SentCount)
	r.GET("/email-status", h.EmailStatus)
	r.GET("/test-auth", h.TestAuth)

	api := r.Group("/api")
	api.GET("/templates", h.ListTemplates)
	api.PUT("/templates/:type", h.UpdateTemplate)

	return &http.Server{
		Addr:    addr,
		Handler: r,
	}
}

func serveDocs(contentType string, body []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Data(http.StatusOK, contentType, body)
	}
}
