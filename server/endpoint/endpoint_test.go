package endpoint

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(h gin.HandlerFunc, method string) *httptest.ResponseRecorder {
	r := gin.New()
	r.Handle(method, "/", h)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, "/", nil))
	return w
}

func TestJSON(t *testing.T) {
	w := serve(JSON(http.StatusAccepted, gin.H{"message": "hi"}), http.MethodGet)

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"hi"}`, w.Body.String())
}

func TestJSONRepeatable(t *testing.T) {
	h := JSON(http.StatusOK, map[string]string{"a": "b"})
	for i := 0; i < 3; i++ {
		w := serve(h, http.MethodGet)
		assert.JSONEq(t, `{"a":"b"}`, w.Body.String())
	}
}

func TestLiveness(t *testing.T) {
	w := serve(Liveness(), http.MethodGet)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}
