package api

import (
	"errors"
	"net/http"

	"newsai/types"

	"github.com/gin-gonic/gin"
)

// RegisterAnalyzeRoutes registers the analysis endpoint.
func RegisterAnalyzeRoutes(r *gin.Engine, analyzer Analyzer) {
	r.POST("/api/analyze", func(c *gin.Context) {
		handleAnalyze(c, analyzer)
	})
}

// handleAnalyze accepts {type, content} and returns the analysis report.
// type is "url", "text" (also when empty) or "feed". Any other value is rejected
// with 400 invalid_request instead of being treated as text.
// Client mistakes and unextractable URLs are 400, inference failures are 500.
func handleAnalyze(c *gin.Context, analyzer Analyzer) {
	var req types.AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, types.NewInvalidRequestError("invalid JSON body: "+err.Error()))
		return
	}

	report, err := analyzer.Analyze(c.Request.Context(), req)
	if err != nil {
		var ae *types.AnalysisError
		if !errors.As(err, &ae) {
			ae = types.NewModelError(err)
		}
		writeError(c, ae)
		return
	}

	report.RequestID = requestID(c)
	c.JSON(http.StatusOK, report)
}

// StatusFor maps an error kind to its HTTP status
func StatusFor(kind types.ErrorKind) int {
	if kind == types.KindModel {
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}

func writeError(c *gin.Context, ae *types.AnalysisError) {
	c.JSON(StatusFor(ae.Kind), gin.H{
		"error":      ae.Message,
		"kind":       ae.Kind,
		"request_id": requestID(c),
	})
}
