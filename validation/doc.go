// Package validation checks configuration structs against their `validate`
// tags (github.com/go-playground/validator/v10).
//
// Field names in errors are the dotted config keys taken from mapstructure
// tags, so a failure reads the way the key is written in config.yml:
//
//	type Config struct {
//	    Port int `mapstructure:"port" validate:"gte=0,lte=65535"`
//	}
//	err := validation.Struct("server", cfg) // Invalid input for server.port: ...
package validation
