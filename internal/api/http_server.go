package api

import (
	"context"
	"net/http"
	"strconv"
	"storerating/internal/auth"
	"storerating/internal/config"
	"storerating/internal/mailer"
	"storerating/internal/model"
	"storerating/internal/service"
	"time"

	"github.com/gin-gonic/gin"
)

// requestTimeout bounds the database work of a single request.
const requestTimeout = 5 * time.Second

// HTTPHandler HTTP 请求处理器
type HTTPHandler struct {
	cfg         config.Config
	repo        model.Repository
	authManager *auth.Manager
	authLimiter *ipRateLimiter

	// 服务层
	authService       *service.AuthService
	adminService      *service.AdminService
	userService       *service.UserService
	storeOwnerService *service.StoreOwnerService
}

// NewHTTPHandler 创建 HTTP 处理器实例
func NewHTTPHandler(cfg config.Config, repo model.Repository, mail mailer.Mailer) (*HTTPHandler, error) {
	expiry := time.Duration(cfg.JWTExpirationMinutes) * time.Minute
	authManager, err := auth.NewManager(cfg.JWTSecret, cfg.JWTIssuer, expiry)
	if err != nil {
		return nil, err
	}

	return &HTTPHandler{
		cfg:               cfg,
		repo:              repo,
		authManager:       authManager,
		authLimiter:       newIPRateLimiter(cfg.AuthRateLimitRPS, cfg.AuthRateLimitBurst),
		authService:       service.NewAuthService(repo, authManager, mail, cfg),
		adminService:      service.NewAdminService(repo, cfg),
		userService:       service.NewUserService(repo),
		storeOwnerService: service.NewStoreOwnerService(repo),
	}, nil
}

// Health 健康检查
func (h *HTTPHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC()})
}

// requestContext 返回带超时的请求上下文
func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}

// pathID 解析路径中的数字 ID，失败时直接写入 400 响应
func pathID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		BadRequest(c, ErrCodeInvalidRequest, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}
