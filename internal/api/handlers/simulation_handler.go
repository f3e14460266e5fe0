package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restockplan/internal/domain"
	"restockplan/internal/service"
)

type SimulationHandler struct {
	service *service.SimulationService
}

func NewSimulationHandler(service *service.SimulationService) *SimulationHandler {
	return &SimulationHandler{service: service}
}

// Run executes one simulation. An empty batch list is not an error: the
// engine reports no result and the caller renders a placeholder.
func (h *SimulationHandler) Run(c *gin.Context) {
	var params domain.SimulationParams
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid simulation params", "details": err.Error()})
		return
	}

	result, err := h.service.Run(c.Request.Context(), &params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to run simulation", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result})
}

// Compare runs several scenarios side by side, in input order.
func (h *SimulationHandler) Compare(c *gin.Context) {
	var scenarios []*domain.SimulationParams
	if err := c.ShouldBindJSON(&scenarios); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid scenario list", "details": err.Error()})
		return
	}

	results, err := h.service.RunAll(c.Request.Context(), scenarios)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to run scenarios", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

// InvalidateCache drops all memoized results.
func (h *SimulationHandler) InvalidateCache(c *gin.Context) {
	if err := h.service.InvalidateAll(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to invalidate cache", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
