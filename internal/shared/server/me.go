package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"workvouch/internal/shared/server/middleware"
	"workvouch/internal/shared/server/respond"
)

// registerMeRoutes attaches the /me endpoint.
func registerMeRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", meHandler)
}

func meHandler(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
		return
	}

	response := gin.H{
		"userId": userID,
	}
	if role := middleware.RoleFromContext(c); role != "" {
		response["role"] = role
	}
	if employerID := middleware.EmployerIDFromContext(c); employerID != "" {
		response["employerId"] = employerID
	}
	if email := middleware.UserEmailFromContext(c); email != "" {
		response["email"] = email
	}

	respond.JSON(c, http.StatusOK, response)
}
