package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// DataResponse writes the envelope with statusCode as both HTTP status and
// body status.
func DataResponse(c echo.Context, statusCode int, message string, data interface{}) error {
	if message == "" {
		message = http.StatusText(statusCode)
	}
	return c.JSON(statusCode, APIResponse{
		Status:  statusCode,
		Message: message,
		Data:    data,
	})
}

// SuccessResponse writes success response.
func SuccessResponse(c echo.Context, data interface{}) error {
	return DataResponse(c, http.StatusOK, "", data)
}

// BadRequestResponse writes bad request error.
func BadRequestResponse(c echo.Context, data interface{}) error {
	return DataResponse(c, http.StatusBadRequest, "", data)
}

// AppErrorResponse writes err through FromError. The message carries the
// domain message; data carries the coded error.
func AppErrorResponse(c echo.Context, err error) error {
	appErr := FromError(err)
	return DataResponse(c, appErr.Status, appErr.Message, []*AppError{appErr})
}
