package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/skillsy/skillsy-api/logger"
)

// FileSystem abstracts the file operations the loader performs.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// RealFileSystem implements FileSystem on the local disk.
type RealFileSystem struct{}

func (RealFileSystem) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// LoadEnv loads a dotenv file. Variables already present in the process
// environment are not overwritten.
func (RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// Resolver finds config and env files for a service.
type Resolver struct {
	FileSystem FileSystem
}

// ResolvedFiles contains the resolved config and env file paths. Empty
// means not found.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// ResolveFiles returns explicit paths when given, otherwise searches the
// standard locations.
func (r *Resolver) ResolveFiles(serviceName string, opts LoaderConfig) ResolvedFiles {
	resolved := ResolvedFiles{
		ConfigFile: opts.ConfigFile,
		EnvFile:    opts.EnvFile,
	}
	if resolved.ConfigFile == "" {
		resolved.ConfigFile = r.first(configSearchPaths(serviceName))
	}
	if resolved.EnvFile == "" {
		resolved.EnvFile = r.first(envSearchPaths(serviceName))
	}
	return resolved
}

func (r *Resolver) first(paths []string) string {
	for _, p := range paths {
		if r.FileSystem.Exists(p) {
			return p
		}
	}
	return ""
}

func configSearchPaths(serviceName string) []string {
	return []string{
		fmt.Sprintf("./cmd/%s/config.yml", serviceName),
		fmt.Sprintf("../cmd/%s/config.yml", serviceName),
		fmt.Sprintf("../../cmd/%s/config.yml", serviceName),
		"./config/config.yml",
		"./config.yml",
	}
}

func envSearchPaths(serviceName string) []string {
	var paths []string
	for _, name := range []string{".env." + serviceName, ".env"} {
		paths = append(paths,
			fmt.Sprintf("./cmd/%s/%s", serviceName, name),
			fmt.Sprintf("../cmd/%s/%s", serviceName, name),
			"./"+name,
			"../"+name,
			"../../"+name,
		)
	}
	return paths
}

// LoaderConfig holds optional file overrides and env aliases.
type LoaderConfig struct {
	ConfigFile string
	EnvFile    string
	Aliases    map[string]string // viper key -> env var
}

// LoaderOption is a functional option for LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// WithEnvAlias binds a short environment variable to a nested key, e.g.
// PORT to server.port. The nested form (SERVER_PORT) still wins.
func WithEnvAlias(key, env string) LoaderOption {
	return func(lc *LoaderConfig) {
		if lc.Aliases == nil {
			lc.Aliases = make(map[string]string)
		}
		lc.Aliases[key] = env
	}
}

// LoadConfig loads configuration for a service into cfg, a pointer to a
// struct. Environment variables only fill keys cfg declares; values that
// cannot be decoded into their field are logged and skipped.
func LoadConfig(serviceName string, cfg interface{}, opts ...LoaderOption) error {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}

	fs := RealFileSystem{}
	resolver := &Resolver{FileSystem: fs}
	files := resolver.ResolveFiles(serviceName, lc)

	v := viper.New()

	if files.ConfigFile != "" && fs.Exists(files.ConfigFile) {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			logger.Warn("Failed to read config file", logger.Fields("file", files.ConfigFile, "error", err.Error()))
		}
	}

	if files.EnvFile != "" && fs.Exists(files.EnvFile) {
		if err := fs.LoadEnv(files.EnvFile); err != nil {
			logger.Warn("Failed to load env file", logger.Fields("file", files.EnvFile, "error", err.Error()))
		}
	}

	leaves := configKeys(reflect.TypeOf(cfg))
	for key, env := range lc.Aliases {
		if val := os.Getenv(env); val != "" {
			setEnvValue(v, leaves, env, key, val)
		}
	}
	bindEnvironment(v, leaves, os.Environ())

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config for service %s: %w", serviceName, err)
	}
	return nil
}

// bindEnvironment sets each KEY=value pair under the key variants that name
// a leaf in leaves. Everything else in the environment is ignored.
func bindEnvironment(v *viper.Viper, leaves map[string]reflect.Type, environ []string) {
	for _, env := range environ {
		name, value, ok := strings.Cut(env, "=")
		if !ok || name == "" {
			continue
		}
		for _, variant := range envKeyVariants(name) {
			setEnvValue(v, leaves, name, variant, value)
		}
	}
}

func setEnvValue(v *viper.Viper, leaves map[string]reflect.Type, env, key, value string) {
	typ, ok := leaves[key]
	if !ok {
		return
	}
	if err := decodable(value, typ); err != nil {
		logger.Warn("Ignoring environment variable", logger.Fields("env", env, "key", key, "error", err.Error()))
		return
	}
	v.Set(key, value)
}

var durationType = reflect.TypeOf(time.Duration(0))

// decodable reports whether value converts to typ the way the config
// decoder will convert it.
func decodable(value string, typ reflect.Type) error {
	if typ == durationType {
		_, err := time.ParseDuration(value)
		return err
	}
	var err error
	switch typ.Kind() {
	case reflect.String, reflect.Slice:
	case reflect.Bool:
		_, err = strconv.ParseBool(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		_, err = strconv.ParseInt(value, 0, typ.Bits())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		_, err = strconv.ParseUint(value, 0, typ.Bits())
	case reflect.Float32, reflect.Float64:
		_, err = strconv.ParseFloat(value, typ.Bits())
	default:
		err = fmt.Errorf("unsupported field type %s", typ)
	}
	return err
}

// configKeys lists the dotted viper key of every leaf field in a config
// struct, following mapstructure tags. Squashed structs share their
// parent's prefix.
func configKeys(typ reflect.Type) map[string]reflect.Type {
	keys := make(map[string]reflect.Type)
	collectKeys(typ, "", keys)
	return keys
}

func collectKeys(typ reflect.Type, prefix string, keys map[string]reflect.Type) {
	for typ != nil && typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ == nil || typ.Kind() != reflect.Struct {
		return
	}
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		name, opts, _ := strings.Cut(field.Tag.Get("mapstructure"), ",")
		if name == "-" {
			continue
		}
		ft := field.Type
		for ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		if strings.Contains(opts, "squash") {
			collectKeys(ft, prefix, keys)
			continue
		}
		if name == "" {
			name = field.Name
		}
		key := prefix + strings.ToLower(name)
		if ft.Kind() == reflect.Struct {
			collectKeys(ft, key+".", keys)
			continue
		}
		keys[key] = ft
	}
}

// envKeyVariants maps an env var name to the viper keys it may fill.
//
//	FRONTEND_URL              -> [frontend_url, frontend.url]
//	OBSERVABILITY_SAMPLE_RATE -> [observability_sample_rate, observability.sample.rate,
//	                              observability.sample_rate, observability_sample.rate]
func envKeyVariants(envKey string) []string {
	lower := strings.ToLower(envKey)
	parts := strings.Split(lower, "_")
	if len(parts) == 1 {
		return []string{lower}
	}

	variants := []string{lower, strings.Join(parts, ".")}
	for i := 1; i < len(parts); i++ {
		variants = append(variants, strings.Join(parts[:i], ".")+"."+strings.Join(parts[i:], "_"))
		variants = append(variants, strings.Join(parts[:i], "_")+"."+strings.Join(parts[i:], "."))
	}
	return dedupe(variants)
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			out = append(out, item)
		}
	}
	return out
}
