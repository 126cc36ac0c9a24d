package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/skillsy/skillsy-api/logger"
)

// Logger returns a logger that discards everything below error level.
func Logger() *logger.Logger {
	return logger.NewWithWriter(&logger.Config{Level: "error", Format: "json"}, "test", io.Discard)
}

// UnsetEnv removes key for the duration of the test. t.Setenv cannot
// express "unset", which config defaults depend on.
func UnsetEnv(t testing.TB, key string) {
	t.Helper()
	prev, had := os.LookupEnv(key)
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("unset %s: %v", key, err)
	}
	t.Cleanup(func() {
		if had {
			os.Setenv(key, prev)
		} else {
			os.Unsetenv(key)
		}
	})
}

// Do serves req on h and returns the recorded response.
func Do(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}
