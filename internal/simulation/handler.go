package simulation

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"workvouch/internal/shared/server/middleware"
	"workvouch/internal/shared/server/respond"
)

// Handler exposes simulation endpoints.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches simulation routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/simulations", h.create)
	rg.GET("/simulations", h.list)
	rg.GET("/simulations/:id", h.get)
	rg.GET("/usage/simulation", h.account)
}

type listQuery struct {
	Limit int `form:"limit" binding:"omitempty,gte=1,lte=100"`
}

func (h *Handler) create(c *gin.Context) {
	var in Inputs
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.ValidationError(c, err)
		return
	}
	rec, err := h.Svc.Simulate(c.Request.Context(), middleware.UserIDFromContext(c), in)
	if err != nil {
		writeError(c, err, "failed to run simulation")
		return
	}
	respond.JSON(c, http.StatusCreated, rec)
}

func (h *Handler) list(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respond.ValidationError(c, err)
		return
	}
	recs, err := h.Svc.History(c.Request.Context(), middleware.UserIDFromContext(c), q.Limit)
	if err != nil {
		writeError(c, err, "failed to list simulations")
		return
	}
	respond.OK(c, gin.H{"items": recs})
}

func (h *Handler) get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		respond.Error(c, http.StatusNotFound, "not_found", "simulation not found", nil)
		return
	}
	rec, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), id)
	if err != nil {
		writeError(c, err, "failed to fetch simulation")
		return
	}
	respond.OK(c, rec)
}

func (h *Handler) account(c *gin.Context) {
	employerID := middleware.EmployerIDFromContext(c)
	if employerID == "" {
		respond.Error(c, http.StatusForbidden, "forbidden", "caller has no employer account", nil)
		return
	}
	var ad AdParams
	if err := c.ShouldBindQuery(&ad); err != nil {
		respond.ValidationError(c, err)
		return
	}
	in, out, err := h.Svc.SimulateAccount(c.Request.Context(), employerID, ad)
	if err != nil {
		writeError(c, err, "failed to simulate account")
		return
	}
	respond.OK(c, gin.H{"inputs": in, "output": out})
}

func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "simulation not found", nil)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respond.Error(c, http.StatusRequestTimeout, "timeout", "request canceled", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
