package utils

import (
	"net/http"

	domainerrors "custodia/internal/errors"

	"github.com/gofiber/fiber/v2"
)

// ErrorBody is the wire shape of every error response.
type ErrorBody struct {
	Kind    string `json:"kind"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Respond sends a JSON response with the specified status code.
func Respond(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(data)
}

// Success sends a successful JSON response.
func Success(c *fiber.Ctx, data interface{}) error {
	return Respond(c, fiber.StatusOK, data)
}

// Created sends a JSON response with status 201.
func Created(c *fiber.Ctx, data interface{}) error {
	return Respond(c, fiber.StatusCreated, data)
}

// NoContent sends an empty response with status 204.
func NoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

func respondError(c *fiber.Ctx, status int, kind, code, message string) error {
	return Respond(c, status, fiber.Map{"error": ErrorBody{Kind: kind, Code: code, Message: message}})
}

// BadRequest sends a validation error with status 400.
func BadRequest(c *fiber.Ctx, message string) error {
	return respondError(c, fiber.StatusBadRequest, string(domainerrors.KindValidation), domainerrors.ErrValidation.Code, message)
}

// Unauthorized sends a JSON error response with status 401.
func Unauthorized(c *fiber.Ctx, message string) error {
	return respondError(c, fiber.StatusUnauthorized, "unauthorized", "UNAUTHORIZED", message)
}

// Forbidden sends a JSON error response with status 403.
func Forbidden(c *fiber.Ctx, message string) error {
	return respondError(c, fiber.StatusForbidden, "forbidden", "FORBIDDEN", message)
}

// NotFound sends a JSON error response with status 404.
func NotFound(c *fiber.Ctx, message string) error {
	return respondError(c, fiber.StatusNotFound, string(domainerrors.KindNotFound), "NOT_FOUND", message)
}

// InternalError sends a JSON error response with status 500.
func InternalError(c *fiber.Ctx) error {
	return respondError(c, fiber.StatusInternalServerError,
		string(domainerrors.KindPersistence), domainerrors.ErrPersistence.Code, "internal server error")
}

// Error renders err with the status of its kind. Persistence failures and
// unknown errors never expose their cause.
func Error(c *fiber.Ctx, err error) error {
	de, ok := domainerrors.As(err)
	if !ok || de.Kind == domainerrors.KindPersistence {
		return InternalError(c)
	}
	return respondError(c, StatusFor(de.Kind), string(de.Kind), de.Code, de.Message)
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind domainerrors.Kind) int {
	switch kind {
	case domainerrors.KindValidation:
		return http.StatusBadRequest
	case domainerrors.KindForbiddenTransition, domainerrors.KindAlreadySettled, domainerrors.KindForbiddenDelete:
		return http.StatusConflict
	case domainerrors.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
