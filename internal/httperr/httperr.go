package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Стабильные машинные коды ошибок. Клиенты матчатся по code, не по message.
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeRateLimited       = "RATE_LIMITED"
	CodeOtpCooldown       = "OTP_COOLDOWN"
	CodeOtpMaxResends     = "OTP_MAX_RESENDS"
	CodeOtpNotFound       = "OTP_NOT_FOUND"
	CodeOtpExpired        = "OTP_EXPIRED"
	CodeOtpInvalid        = "OTP_INVALID"
	CodeOtpMaxAttempts    = "OTP_MAX_ATTEMPTS"
	CodeOtpDeliveryFailed = "OTP_DELIVERY_FAILED"
	CodeRefreshRequired   = "REFRESH_TOKEN_REQUIRED"
	CodeInvalidRefresh    = "INVALID_REFRESH_TOKEN"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeInvalidToken      = "INVALID_TOKEN"
	CodeUserExists        = "USER_ALREADY_REGISTERED"
	CodeUserNotFound      = "USER_NOT_FOUND"
	CodeFileTooLarge      = "FILE_TOO_LARGE"
	CodeFileType          = "FILE_TYPE_NOT_ALLOWED"
	CodeInternal          = "INTERNAL_ERROR"
)

// Error — единый конверт ошибки: {status_code, code, message} + details
// для агрегированных ошибок валидации.
type Error struct {
	Status  int               `json:"status_code"`
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

func New(status int, code, message string) Error {
	return Error{Status: status, Code: code, Message: message}
}

func Validation(details map[string]string) Error {
	return Error{
		Status:  http.StatusBadRequest,
		Code:    CodeValidation,
		Message: "request validation failed",
		Details: details,
	}
}

// Internal — наружу уходит общий текст, подробности остаются в логах.
func Internal() Error {
	return New(http.StatusInternalServerError, CodeInternal, "internal server error")
}

func Abort(c *gin.Context, e Error) {
	c.AbortWithStatusJSON(e.Status, e)
}

func JSON(c *gin.Context, e Error) {
	c.JSON(e.Status, e)
}
