// Package api exposes the deck codec, renderers and images over HTTP.
package api

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/youruser/lordeck/internal/metadata"
)

// Options configures a Server. Every field is optional.
type Options struct {
	Provider metadata.Provider
	Client   *http.Client // used for card art downloads
	Logger   *log.Logger
	Language string
}

// Server holds the handlers' collaborators.
type Server struct {
	provider metadata.Provider
	client   *http.Client
	logger   *log.Logger
	language string
}

// NewServer returns a Server for opts.
func NewServer(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Language == "" {
		opts.Language = metadata.DefaultLanguage
	}
	return &Server{
		provider: opts.Provider,
		client:   opts.Client,
		logger:   opts.Logger,
		language: opts.Language,
	}
}

// Handler returns a gin engine with recovery, request IDs, access logs and
// every route registered.
func (s *Server) Handler() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), accessLog(s.logger))
	s.RegisterRoutes(r)
	return r
}

// RegisterRoutes adds the /api routes to r.
func (s *Server) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.GET("/health", health)
		api.GET("/deck/:code", s.decodeHandler)
		api.GET("/deck/:code/page", s.pageHandler)
		api.POST("/deck/encode", encodeHandler)
		api.POST("/deck/filter", filterHandler)
		api.POST("/deck/image", s.deckImageHandler)
		api.GET("/qr", qrHandler)
	}
}
