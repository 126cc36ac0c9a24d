// Package logger wraps zerolog for the Skillsy API.
//
// A single global logger is initialized from config at bootstrap; packages
// derive component-tagged children from it:
//
//	log := logger.WithComponent("server")
//	log.Info("listening", logger.Fields("addr", addr))
package logger
