package endpoint

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatusHealthy is the liveness payload value.
const StatusHealthy = "healthy"

// LivenessResponse is the liveness probe body.
type LivenessResponse struct {
	Status string `json:"status" example:"healthy"`
}

// Liveness returns a handler for liveness probes. It only confirms the
// process can serve HTTP; no dependency is checked.
func Liveness() gin.HandlerFunc {
	return JSON(http.StatusOK, LivenessResponse{Status: StatusHealthy})
}
