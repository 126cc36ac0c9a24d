package middleware

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
)

const (
	wildcard          = "*"
	defaultCORSMaxAge = 600
)

// wildcardMethods is what "*" expands to in Access-Control-Allow-Methods.
// Browsers ignore a literal "*" on credentialed requests.
var wildcardMethods = []string{"DELETE", "GET", "HEAD", "OPTIONS", "PATCH", "POST", "PUT"}

// CORSConfig holds CORS middleware configuration. "*" in any list allows
// everything.
type CORSConfig struct {
	AllowedOrigins   []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	AllowedMethods   []string `yaml:"allowed_methods" mapstructure:"allowed_methods"`
	AllowedHeaders   []string `yaml:"allowed_headers" mapstructure:"allowed_headers"`
	AllowCredentials bool     `yaml:"allow_credentials" mapstructure:"allow_credentials"`
	MaxAge           int      `yaml:"max_age" mapstructure:"max_age"` // seconds
}

type corsPolicy struct {
	origins          []string
	anyOrigin        bool
	methods          []string
	anyHeader        bool
	headers          []string // lower-cased
	allowCredentials bool
	maxAge           string
}

func newCORSPolicy(cfg CORSConfig) *corsPolicy {
	p := &corsPolicy{
		origins:          slices.Clone(cfg.AllowedOrigins),
		anyOrigin:        slices.Contains(cfg.AllowedOrigins, wildcard),
		allowCredentials: cfg.AllowCredentials,
		anyHeader:        slices.Contains(cfg.AllowedHeaders, wildcard),
	}

	if slices.Contains(cfg.AllowedMethods, wildcard) {
		p.methods = wildcardMethods
	} else {
		for _, m := range cfg.AllowedMethods {
			p.methods = append(p.methods, strings.ToUpper(m))
		}
	}
	for _, h := range cfg.AllowedHeaders {
		p.headers = append(p.headers, strings.ToLower(h))
	}

	maxAge := cfg.MaxAge
	if maxAge == 0 {
		maxAge = defaultCORSMaxAge
	}
	p.maxAge = strconv.Itoa(maxAge)
	return p
}

// CORS returns middleware enforcing the cross-origin policy in cfg. The
// config is copied, so later changes to cfg have no effect.
//
// Actual requests from allowed origins get the allow-origin and credentials
// headers; requests from other origins pass through without them. With an
// explicit origin list every response to a cross-origin request carries
// Vary: Origin.
// Preflights (OPTIONS with Origin and Access-Control-Request-Method) are
// answered here: 200 when origin, method and headers are allowed, otherwise
// 400 naming what was rejected.
func CORS(cfg CORSConfig) Middleware {
	p := newCORSPolicy(cfg)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}
			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				p.preflight(w, r, origin)
				return
			}
			if p.originAllowed(origin) {
				p.setOriginHeaders(w.Header(), origin)
			} else if !p.anyOrigin {
				addVaryOrigin(w.Header())
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (p *corsPolicy) preflight(w http.ResponseWriter, r *http.Request, origin string) {
	h := w.Header()
	var failures []string

	if p.originAllowed(origin) {
		p.setOriginHeaders(h, origin)
	} else {
		addVaryOrigin(h)
		failures = append(failures, "origin")
	}

	method := strings.ToUpper(r.Header.Get("Access-Control-Request-Method"))
	if !slices.Contains(p.methods, method) {
		failures = append(failures, "method")
	}

	requested := r.Header.Get("Access-Control-Request-Headers")
	if p.anyHeader {
		if requested != "" {
			h.Set("Access-Control-Allow-Headers", requested)
		}
	} else {
		if len(p.headers) > 0 {
			h.Set("Access-Control-Allow-Headers", strings.Join(p.headers, ", "))
		}
		for _, name := range strings.Split(requested, ",") {
			name = strings.ToLower(strings.TrimSpace(name))
			if name != "" && !slices.Contains(p.headers, name) {
				failures = append(failures, "headers")
				break
			}
		}
	}

	h.Set("Access-Control-Allow-Methods", strings.Join(p.methods, ", "))
	h.Set("Access-Control-Max-Age", p.maxAge)

	h.Set("Content-Type", "text/plain; charset=utf-8")
	if len(failures) > 0 {
		h.Del("Access-Control-Allow-Origin")
		h.Del("Access-Control-Allow-Credentials")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("Disallowed CORS " + strings.Join(failures, ", ")))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// setOriginHeaders echoes the origin back; a literal "*" is only sent when
// credentials are off and every origin is allowed.
func (p *corsPolicy) setOriginHeaders(h http.Header, origin string) {
	if p.anyOrigin && !p.allowCredentials {
		h.Set("Access-Control-Allow-Origin", wildcard)
	} else {
		h.Set("Access-Control-Allow-Origin", origin)
		addVaryOrigin(h)
	}
	if p.allowCredentials {
		h.Set("Access-Control-Allow-Credentials", "true")
	}
}

// addVaryOrigin adds Origin to Vary unless a handler already listed it.
func addVaryOrigin(h http.Header) {
	for _, v := range h.Values("Vary") {
		for _, name := range strings.Split(v, ",") {
			if strings.EqualFold(strings.TrimSpace(name), "Origin") {
				return
			}
		}
	}
	h.Add("Vary", "Origin")
}

func (p *corsPolicy) originAllowed(origin string) bool {
	return p.anyOrigin || slices.Contains(p.origins, origin)
}
