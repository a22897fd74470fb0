// Package httpkit provides the JSON error envelope and response helpers every brightpath HTTP
// surface uses, following the teacher's ResponseError-plus-WithError convention
// (common/net/http/errors.go) adapted to the gateway's {success, message, code} shape (spec §6).
package httpkit

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// Error codes used across the gateway's error envelope (spec §6, §4.5 "Failure semantics").
const (
	CodeRequestTimeout     = "REQUEST_TIMEOUT"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeTooManyRequests    = "TOO_MANY_REQUESTS"
	CodeBadGateway         = "BAD_GATEWAY"
	CodeInternal           = "INTERNAL_ERROR"
)

// ResponseError is the error envelope shape {success, message, code} spec §6 requires.
type ResponseError struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface so ResponseError can flow through normal error returns.
func (r ResponseError) Error() string {
	return r.Message
}

// JSON writes status and err's envelope as the response body.
func JSON(c *fiber.Ctx, status int, err ResponseError) error {
	err.Success = false
	return c.Status(status).JSON(err)
}

// Unauthorized writes a 401 with CodeUnauthorized.
func Unauthorized(c *fiber.Ctx, message string) error {
	return JSON(c, fiber.StatusUnauthorized, ResponseError{Message: message, Code: CodeUnauthorized})
}

// Forbidden writes a 403 with CodeForbidden.
func Forbidden(c *fiber.Ctx, message string) error {
	return JSON(c, fiber.StatusForbidden, ResponseError{Message: message, Code: CodeForbidden})
}

// TooManyRequests writes a 429 with CodeTooManyRequests and a Retry-After header.
func TooManyRequests(c *fiber.Ctx, message string, retryAfterSeconds int) error {
	c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfterSeconds))
	return JSON(c, fiber.StatusTooManyRequests, ResponseError{Message: message, Code: CodeTooManyRequests})
}

// ServiceUnavailable writes a 502 with CodeServiceUnavailable, for a downstream DNS/connect
// failure (spec §4.5 "Failure semantics").
func ServiceUnavailable(c *fiber.Ctx, message string) error {
	return JSON(c, fiber.StatusBadGateway, ResponseError{Message: message, Code: CodeServiceUnavailable})
}

// RequestTimeout writes a 504 with CodeRequestTimeout, for a proxied request that exceeded its
// deadline (spec §4.5 "Timeout -> 504").
func RequestTimeout(c *fiber.Ctx, message string) error {
	return JSON(c, fiber.StatusGatewayTimeout, ResponseError{Message: message, Code: CodeRequestTimeout})
}

// InternalError writes a 500 with CodeInternal.
func InternalError(c *fiber.Ctx, message string) error {
	return JSON(c, fiber.StatusInternalServerError, ResponseError{Message: message, Code: CodeInternal})
}

// WithError inspects err and writes the matching envelope, mirroring the teacher's WithError
// type-switch dispatcher.
func WithError(c *fiber.Ctx, err error) error {
	var respErr ResponseError
	if errors.As(err, &respErr) {
		return JSON(c, statusForCode(respErr.Code), respErr)
	}

	return InternalError(c, err.Error())
}

func statusForCode(code string) int {
	switch code {
	case CodeUnauthorized:
		return fiber.StatusUnauthorized
	case CodeForbidden:
		return fiber.StatusForbidden
	case CodeTooManyRequests:
		return fiber.StatusTooManyRequests
	case CodeServiceUnavailable:
		return fiber.StatusBadGateway
	case CodeRequestTimeout:
		return fiber.StatusGatewayTimeout
	default:
		return fiber.StatusInternalServerError
	}
}
