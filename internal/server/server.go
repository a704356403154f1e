// Package server exposes the loaded datasets over a small JSON API. It is a
// thin serving layer: every handler reads from the injected store and never
// mutates dataset contents.
package server

import (
	"log"
	"net/http"
	"net/http/pprof"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/nelsonhumberto/debug-tool/internal/dataset"
	"github.com/nelsonhumberto/debug-tool/internal/fetch"
	"github.com/nelsonhumberto/debug-tool/internal/store"
)

// Config holds the serving-layer knobs: where to listen, where the default
// infrastructure files live, and the remote fetch endpoints.
type Config struct {
	Port           string
	FlowXMLPath    string
	AgentInfraPath string
	TextHostMarker string
	Fetch          fetch.Config
}

// Server holds the Gin engine and its dependencies.
type Server struct {
	engine  *gin.Engine
	store   *store.Store
	fetcher *fetch.Client
	cfg     Config
}

// New creates the API server around a dataset store.
func New(st *store.Store, cfg Config) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.RedirectTrailingSlash = false
	engine.RedirectFixedPath = false

	s := &Server{
		engine:  engine,
		store:   st,
		fetcher: fetch.New(cfg.Fetch),
		cfg:     cfg,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.engine.GET("/healthz", s.handleHealth)

	api := s.engine.Group("/api")
	{
		api.GET("/sessions", s.handleSessions)
		api.GET("/session/:id", s.handleTimeline)
		api.GET("/session/:id/conversation", s.handleConversation)
		api.GET("/session/:id/flow", s.handleFlow)
		api.GET("/block/:id", s.handleBlock)
		api.GET("/infrastructure/agent", s.handleAgentInfra)
		api.GET("/infrastructure/flow", s.handleFlowInfra)
		api.GET("/export", s.handleExport)
		api.POST("/sessions/load", s.handleLoad)
		api.POST("/sessions/clear", s.handleClear)
	}

	// WebSocket timeline replay.
	s.engine.GET("/ws/session/:id", s.handleReplay)

	// pprof profiling endpoints.
	s.engine.GET("/debug/pprof/", gin.WrapF(pprof.Index))
	s.engine.GET("/debug/pprof/profile", gin.WrapF(pprof.Profile))
	s.engine.GET("/debug/pprof/heap", gin.WrapH(pprof.Handler("heap")))
	s.engine.GET("/debug/pprof/goroutine", gin.WrapH(pprof.Handler("goroutine")))
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"sessions": s.store.Len(),
	})
}

// handleSessions lists every known session with its summary counts.
func (s *Server) handleSessions(c *gin.Context) {
	type sessionInfo struct {
		SessionID         string `json:"session_id"`
		TotalEntries      int    `json:"total_entries"`
		ConversationTurns int    `json:"conversation_turns"`
		FlowEngineEntries int    `json:"flow_engine_entries"`
		AgentEntries      int    `json:"agent_entries"`
	}

	sessions := []sessionInfo{}
	for _, id := range s.store.SessionIDs() {
		ds, ok := s.store.Get(id)
		if !ok {
			continue
		}
		sum := ds.Summary(id)
		sessions = append(sessions, sessionInfo{
			SessionID:         id,
			TotalEntries:      sum.TotalEntries,
			ConversationTurns: len(sum.Conversation),
			FlowEngineEntries: sum.FlowEngineEntries,
			AgentEntries:      sum.AgentEntries,
		})
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

func (s *Server) handleTimeline(c *gin.Context) {
	id := c.Param("id")
	ds, ok := s.store.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	entries, _ := ds.Timeline(id)
	c.JSON(http.StatusOK, gin.H{"session_id": id, "timeline": entries})
}

func (s *Server) handleConversation(c *gin.Context) {
	id := c.Param("id")
	ds, ok := s.store.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, ds.Summary(id))
}

func (s *Server) handleFlow(c *gin.Context) {
	ds, ok := s.store.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, ds.Graph())
}

func (s *Server) handleBlock(c *gin.Context) {
	block, ok := s.store.BlockInfo(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "block not found"})
		return
	}
	c.JSON(http.StatusOK, block)
}

func (s *Server) handleAgentInfra(c *gin.Context) {
	ds, ok := s.store.First()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no data loaded"})
		return
	}
	c.JSON(http.StatusOK, ds.InfraBlocks())
}

func (s *Server) handleFlowInfra(c *gin.Context) {
	ds, ok := s.store.First()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no data loaded"})
		return
	}
	c.JSON(http.StatusOK, ds.FlowInfra())
}

func (s *Server) handleExport(c *gin.Context) {
	ds, ok := s.store.First()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no data loaded"})
		return
	}
	c.JSON(http.StatusOK, ds.ExportAll())
}

// handleLoad fetches both logs for a session id from the remote services,
// loads them as a new dataset, and registers every session it contains.
func (s *Server) handleLoad(c *gin.Context) {
	var req struct {
		SessionID string `json:"session_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.SessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id is required"})
		return
	}

	res, err := s.fetcher.Session(c.Request.Context(), req.SessionID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	src := dataset.Sources{
		FlowLog:        res.FlowLog,
		AgentLog:       res.AgentLog,
		TextHostMarker: s.cfg.TextHostMarker,
	}
	// Default infrastructure files apply to fetched sessions too.
	if s.cfg.FlowXMLPath != "" {
		src.FlowXML, _ = os.ReadFile(s.cfg.FlowXMLPath)
	}
	if s.cfg.AgentInfraPath != "" {
		src.AgentInfra, _ = os.ReadFile(s.cfg.AgentInfraPath)
	}

	ds, err := dataset.Load(src)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	ids := s.store.Insert(ds)
	log.Printf("loaded %d session(s) for %s (load %s)", len(ids), req.SessionID, res.LoadID)
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"load_id":  res.LoadID,
		"sessions": ids,
	})
}

func (s *Server) handleClear(c *gin.Context) {
	s.store.Clear()
	c.JSON(http.StatusOK, gin.H{
		"success":            true,
		"remaining_sessions": s.store.Len(),
	})
}

// Start runs the server. Blocks until the server is stopped.
func (s *Server) Start() error {
	return s.engine.Run(":" + s.cfg.Port)
}
