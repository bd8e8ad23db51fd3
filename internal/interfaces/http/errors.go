package http

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/procurement-api/internal/application/dto"
	"github.com/jhoicas/procurement-api/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// requestError entrada HTTP mal formada o inválida; se responde 400 con su código.
type requestError struct {
	code string
	msg  string
}

func (e *requestError) Error() string { return e.msg }

// parseBody decodifica el JSON del body en in y lo valida con las etiquetas `validate`.
func parseBody(c *fiber.Ctx, in interface{}) error {
	if err := c.BodyParser(in); err != nil {
		return &requestError{code: "INVALID_BODY", msg: "cuerpo inválido"}
	}
	return validateStruct(in)
}

// parseQuery decodifica los query params en in y los valida.
func parseQuery(c *fiber.Ctx, in interface{}) error {
	if err := c.QueryParser(in); err != nil {
		return &requestError{code: "INVALID_QUERY", msg: "parámetros inválidos"}
	}
	return validateStruct(in)
}

func validateStruct(in interface{}) error {
	if err := validate.Struct(in); err != nil {
		return &requestError{code: "VALIDATION", msg: validationMessage(err)}
	}
	return nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s: %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s: %s", fe.Namespace(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}

// handleError traduce errores de dominio a respuestas HTTP.
func handleError(c *fiber.Ctx, err error) error {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: reqErr.code, Message: reqErr.msg})
	}
	status, code := fiber.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		status, code = fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrUserNotFound):
		status, code = fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrForbidden):
		status, code = fiber.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrNotFound):
		status, code = fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		status, code = fiber.StatusConflict, "EMAIL_EXISTS"
	case errors.Is(err, domain.ErrDuplicate):
		status, code = fiber.StatusConflict, "DUPLICATE"
	case errors.Is(err, domain.ErrConflict):
		status, code = fiber.StatusConflict, "CONFLICT"
	case errors.Is(err, domain.ErrCircularReference):
		status, code = fiber.StatusUnprocessableEntity, "CIRCULAR_REFERENCE"
	case errors.Is(err, domain.ErrInsufficientStock):
		status, code = fiber.StatusUnprocessableEntity, "INSUFFICIENT_STOCK"
	case errors.Is(err, domain.ErrOverReceipt):
		status, code = fiber.StatusUnprocessableEntity, "OVER_RECEIPT"
	case errors.Is(err, domain.ErrInvalidOperation):
		status, code = fiber.StatusUnprocessableEntity, "INVALID_OPERATION"
	}
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		msg = "error interno"
		c.Locals(LocalError, err)
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

// pageQuery lee limit/offset aplicando los valores por defecto.
func pageQuery(c *fiber.Ctx) dto.PageRequest {
	p := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	p.DefaultPage()
	return p
}
