package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"mostrador/internal/apierror"
	"mostrador/internal/pos"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// ventanaID parses the :id path param; writes the 400 response on failure.
func ventanaID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de ventana inválido"))
		return 0, false
	}
	return id, true
}

// writeCoreError maps the container's sentinel errors onto HTTP statuses:
// lookup misses → 404, failed preconditions → 409, bad input → 400.
func writeCoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pos.ErrVentanaNoEncontrada),
		errors.Is(err, pos.ErrProductoNoEncontrado),
		errors.Is(err, pos.ErrPagoNoEncontrado):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.Is(err, pos.ErrSinSesionAbierta),
		errors.Is(err, pos.ErrSesionYaAbierta),
		errors.Is(err, pos.ErrVentanaNoPagada):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.Is(err, pos.ErrCantidadInvalida):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
	}
}
