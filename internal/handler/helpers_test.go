package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"mostrador/internal/pos"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestWriteCoreError(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{pos.ErrVentanaNoEncontrada, http.StatusNotFound},
		{pos.ErrProductoNoEncontrado, http.StatusNotFound},
		{pos.ErrPagoNoEncontrado, http.StatusNotFound},
		{pos.ErrSinSesionAbierta, http.StatusConflict},
		{pos.ErrSesionYaAbierta, http.StatusConflict},
		{pos.ErrVentanaNoPagada, http.StatusConflict},
		{pos.ErrCantidadInvalida, http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		writeCoreError(c, tc.err)
		assert.Equal(t, tc.status, w.Code, "error: %v", tc.err)
	}
}

func TestVentanaIDInvalido(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	_, ok := ventanaID(c)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBindAndValidateRechazaMetodoDesconocido(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/",
		strings.NewReader(`{"id":"pg1","metodo":"bitcoin","monto":"100"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	var req struct {
		ID     string `json:"id"     validate:"required"`
		Metodo string `json:"metodo" validate:"required,oneof=cash card nequi transfer credit"`
	}
	ok := bindAndValidate(c, &req)
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
