// Package config loads service configuration with Viper.
//
// Sources, lowest to highest precedence: an optional config.yml, an optional
// .env file, and the process environment. Environment variables are bound
// to nested keys by splitting on underscores, so SERVER_PORT fills
// server.port and FRONTEND_URL fills frontend_url. A missing file is never
// an error.
package config
