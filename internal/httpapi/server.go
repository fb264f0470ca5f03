// Package httpapi exposes a read-only REST surface over reconstructed order
// books, for demo consumers that don't want to link against the package
// directly.
package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BullionBear/depthbook/internal/booktask"
	"github.com/BullionBear/depthbook/internal/observable"
)

// Server serves the read-only book endpoints over the supervisor's readers.
type Server struct {
	engine  *gin.Engine
	readers map[string]observable.Reader[*booktask.BookView]
}

// New builds a Server routing GET /books/:symbol and
// GET /books/:symbol/depth/:n over readers.
func New(readers map[string]observable.Reader[*booktask.BookView]) *Server {
	s := &Server{
		engine:  gin.New(),
		readers: readers,
	}
	s.engine.Use(gin.Recovery())
	s.engine.GET("/books/:symbol", s.handleBook(0))
	s.engine.GET("/books/:symbol/depth/:n", s.handleBookDepth)
	return s
}

// Run starts the HTTP server listening on addr. It blocks until the server
// stops or returns an error.
func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func (s *Server) handleBook(depth int) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.respondBook(c, depth)
	}
}

func (s *Server) handleBookDepth(c *gin.Context) {
	n, err := strconv.Atoi(c.Param("n"))
	if err != nil || n <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "depth must be a positive integer"})
		return
	}
	s.respondBook(c, n)
}

func (s *Server) respondBook(c *gin.Context, depth int) {
	symbol := c.Param("symbol")
	reader, ok := s.readers[symbol]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown symbol: " + symbol})
		return
	}

	view, version := reader.Get()
	if view == nil || version == 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "book not yet seeded for " + symbol})
		return
	}

	if depth > 0 {
		view = truncate(view, depth)
	}
	c.JSON(http.StatusOK, view)
}

func truncate(view *booktask.BookView, depth int) *booktask.BookView {
	out := *view
	if len(out.Bids) > depth {
		out.Bids = out.Bids[:depth]
	}
	if len(out.Asks) > depth {
		out.Asks = out.Asks[:depth]
	}
	return &out
}
