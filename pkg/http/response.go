package http

import "github.com/labstack/echo/v4"

type Error struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type ErrorResponse struct {
	Error   Error  `json:"error"`
	TraceID string `json:"trace_id"`
}

type Response struct {
	Data interface{} `json:"data,omitempty"`
}

// DetailResponse is the flat body used for authentication failures.
// Clients key off the single human-readable detail string.
type DetailResponse struct {
	Detail string `json:"detail"`
}

func JSON(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, Response{Data: data})
}

func ErrorJSON(c echo.Context, status int, code, message, traceID string, details interface{}) error {
	return c.JSON(status, ErrorResponse{Error: Error{Code: code, Message: message, Details: details}, TraceID: traceID})
}

// Detail writes an auth-style failure with the WWW-Authenticate challenge.
func Detail(c echo.Context, status int, detail string) error {
	c.Response().Header().Set("WWW-Authenticate", "Bearer")
	return c.JSON(status, DetailResponse{Detail: detail})
}
