package handler

import (
	"net/http"

	"empleadosauth/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// bindAndValidate binds the JSON body and runs go-playground/validator tags.
// On failure it writes a 400 with msg and a per-field map and returns false —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}, msg string) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(msg))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusBadRequest, apierror.NewValidation(msg, fields))
		return false
	}
	return true
}
