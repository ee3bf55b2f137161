package server

import (
	"database/sql"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/seedworks/compseed/internal/cache"
	"github.com/seedworks/compseed/internal/config"
	"github.com/seedworks/compseed/internal/core/model"
	"github.com/seedworks/compseed/internal/store"
)

// Server exposes the built competition records read-only. It prefers the
// SQLite store and falls back to the preview JSON cache when the store is
// missing, the same document the frontend falls back to.
type Server struct {
	DB    *sql.DB
	Cache []model.OutputRecord
}

func NewServer(cfg config.ServerConfig) *Server {
	db, err := store.Open(cfg.SQLitePath)
	if err == nil {
		return &Server{DB: db}
	}
	log.Printf("Store unavailable (%v), falling back to preview cache", err)

	records, err := cache.Read(cfg.CacheJSON)
	if err != nil {
		log.Fatalf("Failed to load preview cache: %v", err)
	}
	return &Server{Cache: records}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	r.GET("/healthz", s.Health)
	r.GET("/competitions", s.ListCompetitions)
	r.GET("/competitions/:id", s.GetCompetition)

	return r
}

func (s *Server) Health(c *gin.Context) {
	backend := "store"
	if s.DB == nil {
		backend = "cache"
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "backend": backend})
}

func (s *Server) ListCompetitions(c *gin.Context) {
	if s.DB == nil {
		c.JSON(http.StatusOK, gin.H{"competitions": s.Cache})
		return
	}

	records, err := store.All(s.DB)
	if err != nil {
		log.Printf("Failed to list competitions: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list competitions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"competitions": records})
}

func (s *Server) GetCompetition(c *gin.Context) {
	id := c.Param("id")

	if s.DB == nil {
		for _, r := range s.Cache {
			if r.ID == id {
				c.JSON(http.StatusOK, r)
				return
			}
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	rec, err := store.ByID(s.DB, id)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	if err != nil {
		log.Printf("Failed to get competition %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get competition"})
		return
	}
	c.JSON(http.StatusOK, rec)
}
