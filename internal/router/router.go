package router

import (
	"time"

	"golden-anniversary-server/internal/config"
	"golden-anniversary-server/internal/consts"
	"golden-anniversary-server/internal/middleware"
	"golden-anniversary-server/internal/modules"
	"golden-anniversary-server/internal/realtime"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// 上传接口的请求体上限：照片本身加 multipart 的边界与表单字段
const uploadBodyLimit = consts.MaxPhotoSize + 64<<10

type Router struct {
	modules *modules.AppModules
	hub     *realtime.Hub
	redis   *redis.Client
}

// NewRouter redisClient 可以为 nil，此时限流只在本进程内生效
func NewRouter(appModules *modules.AppModules, hub *realtime.Hub, redisClient *redis.Client) *Router {
	return &Router{
		modules: appModules,
		hub:     hub,
		redis:   redisClient,
	}
}

func (rt *Router) Init(r *gin.Engine) {
	cfg := config.Get()

	// 注册全局安全标头中间件
	r.Use(middleware.SecurityHeaders(cfg.Storage.PublicURL))

	if len(cfg.CORS.AllowOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// 守卫挂在引擎上，NoRoute 回退的 /admin 页面同样受保护
	r.Use(middleware.AdminGuard(rt.modules.Auth.Service))

	loginLimiter := middleware.RateLimitMiddleware(middleware.RatePolicy{
		Name:    "login",
		Enabled: cfg.RateLimit.Enabled,
		RPS:     cfg.RateLimit.LoginRPS,
		Burst:   cfg.RateLimit.LoginBurst,
	}, rt.redis, cfg.Redis.Prefix)
	guestbookLimiter := middleware.RateLimitMiddleware(middleware.RatePolicy{
		Name:    "guestbook",
		Enabled: cfg.RateLimit.Enabled,
		RPS:     cfg.RateLimit.GuestbookRPS,
		Burst:   cfg.RateLimit.GuestbookBurst,
	}, rt.redis, cfg.Redis.Prefix)

	jsonBody := middleware.BodyLimitMiddleware(middleware.DefaultBodyLimit)
	uploadBody := middleware.BodyLimitMiddleware(uploadBodyLimit)

	api := r.Group("/api")
	registerPublicRoutes(api, jsonBody, guestbookLimiter, rt.modules)
	registerAdminRoutes(api, jsonBody, uploadBody, loginLimiter, rt.modules, rt.hub)
}
