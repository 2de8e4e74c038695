package api

import (
	"context"
	"slices"
	"time"

	"newsai/types"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Analyzer runs one analysis request
type Analyzer interface {
	Analyze(ctx context.Context, req types.AnalysisRequest) (types.AnalysisReport, error)
}

// RouterConfig configures NewRouter
type RouterConfig struct {
	Analyzer Analyzer
	// Provider is reported by the health endpoint
	Provider    string
	CORSOrigins []string
	Logger      zerolog.Logger
}

// NewRouter constructs a Gin engine with registered routes.
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(corsMiddleware(cfg.CORSOrigins))
	r.Use(requestLogger(cfg.Logger))

	RegisterAnalyzeRoutes(r, cfg.Analyzer)
	RegisterHealthRoutes(r, cfg.Provider)
	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cc := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", RequestIDHeader},
		ExposeHeaders: []string{RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = origins
	}
	return cors.New(cc)
}
