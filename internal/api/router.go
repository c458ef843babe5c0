package api

import (
	"storerating/internal/entity"
	"storerating/internal/metrics"

	"github.com/gin-gonic/gin"
)

// NewRouter 注册全部路由与中间件
func NewRouter(h *HTTPHandler) *gin.Engine {
	r := gin.New()

	r.Use(RequestIDMiddleware())
	r.Use(LoggingMiddleware())
	r.Use(CORSMiddleware())
	r.Use(metrics.Middleware())
	r.Use(gin.Recovery())

	r.NoRoute(func(c *gin.Context) {
		NotFound(c, ErrCodeNotFound, "Route not found")
	})

	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	apiGroup := r.Group("/api")

	authGroup := apiGroup.Group("/auth")
	authGroup.Use(h.RateLimitMiddleware())
	authGroup.POST("/signup", h.Signup)
	authGroup.POST("/login", h.Login)
	authGroup.POST("/reset-password-request", h.RequestPasswordReset)
	authGroup.POST("/reset-password", h.ResetPassword)
	authGroup.GET("/me", h.AuthMiddleware(), h.Me)
	authGroup.POST("/change-password", h.AuthMiddleware(), h.ChangePassword)

	admin := apiGroup.Group("/admin")
	admin.Use(h.AuthMiddleware(), h.RequireRole(entity.RoleAdmin))
	admin.GET("/dashboard", h.AdminDashboard)
	admin.POST("/users", h.AdminCreateUser)
	admin.GET("/users", h.AdminListUsers)
	admin.GET("/users/:id", h.AdminGetUser)
	admin.PUT("/users/:id", h.AdminUpdateUser)
	admin.DELETE("/users/:id", h.AdminDeleteUser)
	admin.POST("/stores", h.AdminCreateStore)
	admin.GET("/stores", h.AdminListStores)
	admin.GET("/stores/:id", h.AdminGetStore)
	admin.PUT("/stores/:id", h.AdminUpdateStore)
	admin.DELETE("/stores/:id", h.AdminDeleteStore)

	users := apiGroup.Group("/users")
	users.Use(h.AuthMiddleware(), h.RequireRole(entity.RoleNormalUser))
	users.GET("/stores", h.ListStoresForUser)
	users.POST("/stores/:id/rating", h.SubmitRating)

	owner := apiGroup.Group("/store-owner")
	owner.Use(h.AuthMiddleware(), h.RequireRole(entity.RoleStoreOwner))
	owner.GET("/dashboard", h.StoreOwnerDashboard)
	owner.POST("/stores", h.StoreOwnerCreateStore)
	owner.PUT("/stores/:id", h.StoreOwnerUpdateStore)

	return r
}
