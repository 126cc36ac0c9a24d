// Package version holds the application identity reported by the service.
//
// Build metadata is set at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/skillsy/skillsy-api/version.GitCommit=$(git rev-parse --short HEAD)"
package version
