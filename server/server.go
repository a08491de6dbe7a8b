package server

import (
	"context"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cashflow/app/categories"
	"cashflow/app/dictionaries"
	"cashflow/app/operations"
	"cashflow/app/subcategories"
	"cashflow/web"
)

// Handlers groups the feature handlers the server mounts.
type Handlers struct {
	Statuses      *dictionaries.Handler
	Types         *dictionaries.Handler
	Categories    *categories.Handler
	Subcategories *subcategories.Handler
	Operations    *operations.Handler
}

type Server struct {
	engine *gin.Engine
	logger *zap.Logger
	addr   string
	server *http.Server
}

func New(logger *zap.Logger, addr, mode string, h Handlers) *Server {
	if mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	// Access log through zap.
	r.Use(func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		logger.Info("http request",
			zap.Int("status", c.Writer.Status()),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Duration("cost", time.Since(start)),
		)
	})

	// CORS for the client-side apps.
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, PATCH, DELETE")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	r.SetHTMLTemplate(template.Must(template.ParseFS(web.Templates, "templates/*.html")))
	r.GET("/", func(c *gin.Context) {
		c.HTML(http.StatusOK, "records.html", nil)
	})
	r.GET("/dictionaries/", func(c *gin.Context) {
		c.HTML(http.StatusOK, "dictionaries.html", nil)
	})

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "up"})
	})

	api := r.Group("/api")
	{
		h.Statuses.Register(api.Group("/statuses"))
		h.Types.Register(api.Group("/types"))
		h.Categories.Register(api.Group("/categories"))
		h.Subcategories.Register(api.Group("/subcategories"))
		h.Operations.Register(api.Group("/operations"))
	}

	return &Server{
		engine: r,
		logger: logger,
		addr:   addr,
	}
}

func (s *Server) Run() error {
	s.server = &http.Server{
		Addr:    s.addr,
		Handler: s.engine,
	}
	s.logger.Info("server started", zap.String("addr", s.addr))
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
