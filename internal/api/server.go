// Package api exposes a small read-mostly operator surface over the running
// engine: liveness, engine status, journal history and a websocket event
// stream. It never issues orders; the trading loop is the only writer.
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"daytrader/internal/engine"
	"daytrader/internal/events"
	"daytrader/pkg/journal"
)

// Server wires HTTP endpoints around the engine and event bus.
type Server struct {
	Router    *gin.Engine
	Bus       *events.Bus
	Engine    *engine.Engine
	Journal   *journal.Journal
	JWTSecret string
	// Operator is the single configured login; PasswordHash is bcrypt.
	Operator     string
	PasswordHash string
	Meta         SystemMeta
}

// SystemMeta describes runtime status exposed to the operator.
type SystemMeta struct {
	Venue     string `json:"venue"`
	Pair      string `json:"pair"`
	Timeframe string `json:"timeframe"`
	Version   string `json:"version"`
}

// NewServer builds the router with the full middleware stack.
func NewServer(bus *events.Bus, eng *engine.Engine, jnl *journal.Journal, meta SystemMeta, operator, passwordHash, jwtSecret string) *Server {
	r := gin.New()

	// Middleware stack (order matters!)
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(RequestLogger())
	r.Use(RateLimitMiddleware())
	r.Use(TimeoutMiddleware(30 * time.Second))
	r.Use(CORSMiddleware())

	s := &Server{
		Router:       r,
		Bus:          bus,
		Engine:       eng,
		Journal:      jnl,
		JWTSecret:    jwtSecret,
		Operator:     operator,
		PasswordHash: passwordHash,
		Meta:         meta,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.Router.GET("/health", s.health)
	s.Router.GET("/ws", s.websocket)

	api := s.Router.Group("/api")
	{
		api.POST("/auth/login", s.login)

		protected := api.Group("")
		protected.Use(AuthMiddleware(s.JWTSecret))
		{
			protected.GET("/status", s.getStatus)
			protected.GET("/orders", s.getOrders)
			protected.GET("/trades", s.getTrades)
		}
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) getStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"system": s.Meta,
		"engine": s.Engine.Status(),
	})
}

func (s *Server) getOrders(c *gin.Context) {
	orders, err := s.Journal.RecentOrders(c.Request.Context(), historyLimit(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": "INTERNAL_ERROR", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (s *Server) getTrades(c *gin.Context) {
	trades, err := s.Journal.RecentTrades(c.Request.Context(), historyLimit(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": "INTERNAL_ERROR", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"trades": trades})
}

func historyLimit(c *gin.Context) int {
	limit := 50
	if v, ok := c.GetQuery("limit"); ok {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 && n <= 500 {
			limit = n
		}
	}
	return limit
}

// Start runs the HTTP server on addr.
func (s *Server) Start(addr string) error {
	return s.Router.Run(addr)
}
