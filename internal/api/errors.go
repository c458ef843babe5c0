package api

import (
	"net/http"
	"storerating/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// 错误码定义
const (
	// 通用错误码
	ErrCodeInvalidRequest     = "ERR_INVALID_REQUEST"
	ErrCodeUnauthorized       = "ERR_UNAUTHORIZED"
	ErrCodeForbidden          = service.CodeForbidden
	ErrCodeNotFound           = "ERR_NOT_FOUND"
	ErrCodeInternalError      = service.CodeInternal
	ErrCodeRateLimited        = "ERR_RATE_LIMITED"

	// 认证错误码
	ErrCodeInvalidCredentials = service.CodeInvalidCredentials
	ErrCodeEmailExists        = service.CodeEmailExists
	ErrCodeSessionExpired     = "ERR_SESSION_EXPIRED"
	ErrCodeInvalidResetToken  = service.CodeInvalidResetToken

	// 资源错误码
	ErrCodeUserNotFound  = service.CodeUserNotFound
	ErrCodeStoreNotFound = service.CodeStoreNotFound

	// 业务逻辑错误码
	ErrCodeValidation    = service.CodeValidation
	ErrCodeNoUpdates     = service.CodeNoUpdates
	ErrCodeStoreExists   = service.CodeStoreExists
	ErrCodeOwnerConflict = service.CodeOwnerConflict
)

// APIError 统一的 API 错误响应结构
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorResponse 返回统一格式的错误响应
func ErrorResponse(c *gin.Context, status int, code string, message string) {
	c.JSON(status, APIError{
		Code:    code,
		Message: message,
	})
}

// ErrorResponseWithDetails 返回带详情的错误响应
func ErrorResponseWithDetails(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, APIError{
		Code:    code,
		Message: message,
		Details: details,
	})
}

// 常用错误响应快捷函数

// BadRequest 400 错误请求
func BadRequest(c *gin.Context, code string, message string) {
	ErrorResponse(c, http.StatusBadRequest, code, message)
}

// Unauthorized 401 未授权
func Unauthorized(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusUnauthorized, ErrCodeUnauthorized, message)
}

// Forbidden 403 禁止访问
func Forbidden(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusForbidden, ErrCodeForbidden, message)
}

// NotFound 404 资源不存在
func NotFound(c *gin.Context, code string, message string) {
	ErrorResponse(c, http.StatusNotFound, code, message)
}

// InternalError 500 服务器内部错误
func InternalError(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusInternalServerError, ErrCodeInternalError, message)
}

// InvalidPayload 无效的请求体
func InvalidPayload(c *gin.Context) {
	ErrorResponse(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request payload")
}

// statusForKind 将业务错误类型映射为 HTTP 状态码
func statusForKind(kind service.Kind) int {
	switch kind {
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindAuthentication:
		return http.StatusUnauthorized
	case service.KindAuthorization:
		return http.StatusForbidden
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// RespondError 输出业务层错误；内部错误只记录日志，不暴露细节
func RespondError(c *gin.Context, err error) {
	svcErr := service.AsError(err)
	status := statusForKind(svcErr.Kind)
	if status == http.StatusInternalServerError {
		logrus.WithError(err).WithFields(logrus.Fields{
			"path":       c.FullPath(),
			"request_id": c.GetString(requestIDContextKey),
		}).Error("request failed")
		InternalError(c, "internal server error")
		return
	}
	if len(svcErr.Fields) > 0 {
		ErrorResponseWithDetails(c, status, svcErr.Code, svcErr.Message, svcErr.Fields)
		return
	}
	ErrorResponse(c, status, svcErr.Code, svcErr.Message)
}
