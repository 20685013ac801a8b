package usage

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"workvouch/internal/plans"
	"workvouch/internal/shared/auth"
	"workvouch/internal/shared/server/middleware"
	"workvouch/internal/shared/server/respond"
)

// Handler exposes usage endpoints.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches usage routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/usage", h.getUsage)
	rg.GET("/usage/check", h.check)
	rg.POST("/usage/consume", h.consume)
	rg.PUT("/usage/plan", middleware.RequireRole(auth.RoleAdmin), h.updatePlan)
}

// RegisterDevRoutes attaches dev-only usage routes.
func (h *Handler) RegisterDevRoutes(rg *gin.RouterGroup) {
	rg.POST("/usage/reset", h.resetUsage)
}

type consumeRequest struct {
	Kind  Kind `json:"kind" binding:"required,oneof=report search"`
	Count int  `json:"count" binding:"omitempty,gte=1,lte=1000"`
}

type checkQuery struct {
	Kind  Kind `form:"kind" binding:"required,oneof=report search"`
	Count int  `form:"count" binding:"omitempty,gte=1,lte=1000"`
}

type planRequest struct {
	PlanUpdate
	EmployerID string `json:"employerId"`
}

func (h *Handler) getUsage(c *gin.Context) {
	employerID, ok := requireEmployer(c)
	if !ok {
		return
	}
	a, err := h.Svc.Get(c.Request.Context(), employerID)
	if err != nil {
		writeError(c, err, "failed to fetch usage")
		return
	}
	respond.OK(c, accountView(a))
}

func (h *Handler) check(c *gin.Context) {
	employerID, ok := requireEmployer(c)
	if !ok {
		return
	}
	var q checkQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respond.ValidationError(c, err)
		return
	}
	if q.Count == 0 {
		q.Count = 1
	}
	allowed, a, err := h.Svc.CanConsume(c.Request.Context(), employerID, q.Kind, q.Count)
	if err != nil {
		writeError(c, err, "failed to check usage")
		return
	}
	respond.OK(c, gin.H{"allowed": allowed, "account": accountView(a)})
}

func (h *Handler) consume(c *gin.Context) {
	employerID, ok := requireEmployer(c)
	if !ok {
		return
	}
	var req consumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.ValidationError(c, err)
		return
	}
	if req.Count == 0 {
		req.Count = 1
	}
	a, err := h.Svc.Consume(c.Request.Context(), employerID, req.Kind, req.Count)
	if err != nil {
		writeError(c, err, "failed to record usage")
		return
	}
	respond.OK(c, accountView(a))
}

func (h *Handler) updatePlan(c *gin.Context) {
	var req planRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.ValidationError(c, err)
		return
	}
	employerID := req.EmployerID
	if employerID == "" {
		employerID = middleware.EmployerIDFromContext(c)
	}
	if employerID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "employerId is required", nil)
		return
	}
	a, err := h.Svc.UpdatePlan(c.Request.Context(), employerID, req.PlanUpdate)
	if err != nil {
		writeError(c, err, "failed to update plan")
		return
	}
	respond.OK(c, accountView(a))
}

func (h *Handler) resetUsage(c *gin.Context) {
	employerID, ok := requireEmployer(c)
	if !ok {
		return
	}
	a, err := h.Svc.Reset(c.Request.Context(), employerID)
	if err != nil {
		writeError(c, err, "failed to reset usage")
		return
	}
	respond.OK(c, accountView(a))
}

func requireEmployer(c *gin.Context) (string, bool) {
	employerID := middleware.EmployerIDFromContext(c)
	if employerID == "" {
		respond.Error(c, http.StatusForbidden, "forbidden", "caller has no employer account", nil)
		return "", false
	}
	return employerID, true
}

func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrLimitReached):
		respond.Error(c, http.StatusTooManyRequests, "limit_reached", "plan limit reached", nil)
	case errors.Is(err, ErrSubscriptionInactive):
		respond.Error(c, http.StatusPaymentRequired, "subscription_inactive", "subscription is not active", nil)
	case errors.Is(err, ErrSeatsExceeded):
		respond.Error(c, http.StatusUnprocessableEntity, "seats_exceeded", "seat count exceeds plan", nil)
	case errors.Is(err, ErrInvalidKind):
		respond.Error(c, http.StatusBadRequest, "validation_error", "unknown usage kind", nil)
	case errors.Is(err, plans.ErrUnknownTier):
		respond.Error(c, http.StatusBadRequest, "validation_error", "unknown plan tier", nil)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respond.Error(c, http.StatusRequestTimeout, "timeout", "request canceled", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}

func accountView(a Account) gin.H {
	return gin.H{
		"employerId":         a.EmployerID,
		"plan":               a.Plan,
		"seats":              a.Seats,
		"reportsUsed":        a.ReportsUsed,
		"searchesUsed":       a.SearchesUsed,
		"subscriptionActive": a.SubscriptionActive,
		"limits":             a.Limits(),
		"overLimit":          a.Limits().Exceeded(a.ReportsUsed, a.SearchesUsed, a.Seats),
		"resetsAt":           a.ResetsAt,
	}
}
