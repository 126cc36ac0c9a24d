// Package app wires the Skillsy API: its configuration, CORS policy and
// routes.
//
//	@title			Skillsy API
//	@version		1.0.0
//	@description	Backend API for the Skillsy platform.
//	@BasePath		/
package app

//go:generate swag init -g handlers.go -o docs

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillsy/skillsy-api/server/endpoint"
)

// RunningMessage is the body of the root endpoint.
const RunningMessage = "Skillsy API is running"

// MessageResponse is returned by the root endpoint.
type MessageResponse struct {
	Message string `json:"message" example:"Skillsy API is running"`
}

// StatusResponse is returned by the health endpoint.
type StatusResponse = endpoint.LivenessResponse

// Root confirms the API is up.
//
//	@Summary	API banner
//	@Tags		system
//	@Produce	json
//	@Success	200	{object}	MessageResponse
//	@Router		/ [get]
func Root() gin.HandlerFunc {
	return endpoint.JSON(http.StatusOK, MessageResponse{Message: RunningMessage})
}

// Health is the liveness probe. It checks nothing beyond the process
// serving HTTP.
//
//	@Summary	Liveness probe
//	@Tags		system
//	@Produce	json
//	@Success	200	{object}	StatusResponse
//	@Router		/health [get]
func Health() gin.HandlerFunc {
	return endpoint.Liveness()
}
