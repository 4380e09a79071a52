package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"healthquery-backend/internal/apperror"
	"healthquery-backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// respondError writes err in the uniform {error, message} shape. Errors that
// are not *apperror.Error are logged and hidden behind a generic 500.
func (h *Handler) respondError(c *gin.Context, err error) {
	if appErr, ok := apperror.As(err); ok {
		if appErr.Err != nil {
			h.logger.Error().Err(appErr.Err).
				Str("request_id", middleware.GetRequestID(c)).
				Str("path", c.FullPath()).
				Msg(appErr.Message)
		}
		middleware.AbortWithError(c, appErr)
		return
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		middleware.AbortWithError(c, apperror.NotFound("Resource"))
		return
	}
	h.logger.Error().Err(err).
		Str("request_id", middleware.GetRequestID(c)).
		Str("path", c.FullPath()).
		Msg("unhandled error")
	middleware.AbortWithError(c, apperror.Internal(err))
}

// bindJSON decodes the request body into obj and turns binding failures into
// 400 errors naming the offending field.
func bindJSON(c *gin.Context, obj any) *apperror.Error {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return apperror.BadRequest(validationMessage(verrs[0]))
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return &apperror.Error{
			Status:  http.StatusRequestEntityTooLarge,
			Title:   http.StatusText(http.StatusRequestEntityTooLarge),
			Message: "Request body too large",
		}
	case errors.Is(err, io.EOF), errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return apperror.BadRequest("Invalid JSON body")
	case errors.As(err, &typeErr):
		return apperror.BadRequest("Invalid value for field: " + typeErr.Field)
	}
	return apperror.BadRequest("Invalid request body")
}

func validationMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return "Missing required field: " + field
	case "email":
		return "Invalid email format"
	case "specialization":
		return "Invalid specialization. Must be one of: " + specializationList()
	case "license":
		return "Invalid license number format"
	case "urgency":
		return "Invalid urgency level. Must be one of: low, normal, high"
	case "notblank":
		return "Field must not be blank: " + field
	}
	return "Invalid value for field: " + strings.ToLower(field)
}
