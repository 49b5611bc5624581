package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Desarrollos-QV/FudiPos-Backend/internal/apierror"
	"github.com/Desarrollos-QV/FudiPos-Backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func errorChainEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	return r
}

// decodeSingle decodes the body as exactly one JSON object and fails if any
// trailing bytes follow it.
func decodeSingle(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	dec := json.NewDecoder(w.Body)
	require.NoError(t, dec.Decode(out))
	assert.False(t, dec.More(), "response body must be a single JSON object, got: %s", w.Body.String())
}

func TestRespondError_SingleEnvelope(t *testing.T) {
	r := errorChainEngine()
	r.GET("/conflict", func(c *gin.Context) {
		respondError(c, apierror.Conflict("Ya existe una caja abierta para este negocio"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/conflict", nil))

	assert.Equal(t, http.StatusConflict, w.Code)
	var env apierror.APIError
	decodeSingle(t, w, &env)
	assert.Equal(t, "Ya existe una caja abierta para este negocio", env.Detail)
}

func TestRespondError_StatusPerKind(t *testing.T) {
	cases := []struct {
		err    error
		status int
		detail string
	}{
		{apierror.Validation("El monto debe ser mayor a cero"), http.StatusBadRequest, "El monto debe ser mayor a cero"},
		{apierror.NotFound("Movimiento no encontrado"), http.StatusNotFound, "Movimiento no encontrado"},
		{apierror.Persistence(errors.New("pq: gone")), http.StatusInternalServerError, "Error de almacenamiento"},
	}
	for _, tc := range cases {
		r := errorChainEngine()
		r.GET("/x", func(c *gin.Context) { respondError(c, tc.err) })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

		assert.Equal(t, tc.status, w.Code)
		var env apierror.APIError
		decodeSingle(t, w, &env)
		assert.Equal(t, tc.detail, env.Detail)
	}
}

func TestErrorHandler_UnhandledErrorStillCovered(t *testing.T) {
	// An error attached without a response still gets the safe 500 envelope.
	r := errorChainEngine()
	r.GET("/unhandled", func(c *gin.Context) {
		c.Error(errors.New("boom"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/unhandled", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var env apierror.APIError
	decodeSingle(t, w, &env)
	assert.Equal(t, "Error interno del servidor", env.Detail)
}

func TestErrorHandler_WrittenResponseUntouched(t *testing.T) {
	// A handler that wrote its own response and attached the error for logging
	// keeps its status and body intact.
	r := errorChainEngine()
	r.GET("/handled", func(c *gin.Context) {
		c.JSON(http.StatusConflict, apierror.New("No hay caja abierta"))
		c.Error(errors.New("close race"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/handled", nil))

	assert.Equal(t, http.StatusConflict, w.Code)
	var env apierror.APIError
	decodeSingle(t, w, &env)
	assert.Equal(t, "No hay caja abierta", env.Detail)
}
