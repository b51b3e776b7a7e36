package handler

import (
	"net/http"
	"reflect"

	"github.com/KayzenRoot/lanchonete-pdv-sub002/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
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
		c.JSON(http.StatusBadRequest, apierror.NewValidation("JSON invalido: "+err.Error(), nil))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		apiErr := apierror.NewValidation("Campos invalidos", fields)
		c.JSON(apiErr.Status, apiErr)
		return false
	}
	return true
}

// respondError maps a service error onto its HTTP status. Untyped errors
// collapse into a generic 500 so internals never leak to clients.
func respondError(c *gin.Context, err error) {
	apiErr := apierror.From(err)
	c.JSON(apiErr.Status, apiErr)
}

// pathUUID parses the :id path parameter. Writes the 400 response itself
// when the value is not a UUID.
func pathUUID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.NewValidation("ID invalido", map[string]string{"id": "invalid_uuid"}))
		return uuid.Nil, false
	}
	return id, true
}
