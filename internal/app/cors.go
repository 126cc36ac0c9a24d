package app

import (
	"github.com/skillsy/skillsy-api/server/middleware"
)

// DefaultFrontendURL is the local development frontend. It is always on the
// allow-list.
const DefaultFrontendURL = "http://localhost:3000"

// AllowedOrigins returns [frontendURL, DefaultFrontendURL], substituting the
// default for an empty frontendURL. The default then appears twice; that is
// harmless for matching and kept as is.
func AllowedOrigins(frontendURL string) []string {
	if frontendURL == "" {
		frontendURL = DefaultFrontendURL
	}
	return []string{frontendURL, DefaultFrontendURL}
}

// CORSPolicy is the cross-origin policy for every route: credentials, any
// method and any header from the allowed origins.
func CORSPolicy(frontendURL string) middleware.CORSConfig {
	return middleware.CORSConfig{
		AllowedOrigins:   AllowedOrigins(frontendURL),
		AllowedMethods:   []string{"*"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}
}
