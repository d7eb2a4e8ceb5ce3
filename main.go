package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"golden-anniversary-server/internal/cache"
	"golden-anniversary-server/internal/config"
	"golden-anniversary-server/internal/consts"
	"golden-anniversary-server/internal/db"
	"golden-anniversary-server/internal/di"
	"golden-anniversary-server/internal/middleware"
	"golden-anniversary-server/internal/notify"
	platformservice "golden-anniversary-server/internal/platform/service"
	"golden-anniversary-server/internal/realtime"
	"golden-anniversary-server/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const photoCacheControl = "public, max-age=31536000, immutable"

func main() {
	configDir := flag.String("config", "config", "配置文件目录")
	exportRoutes := flag.Bool("export", false, "导出路由到 routes.json 并退出")
	flag.Parse()

	config.InitConfig(*configDir)
	db.InitDB()
	cfg := config.Get()
	gin.SetMode(cfg.Server.Mode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := slog.Default()
	redisClient := cache.NewRedisClient(cfg.Redis)
	views := newViewCache(redisClient, cfg.Redis.Prefix, logger)

	// 缓存失效时推送给在线的管理端页面
	hub := realtime.NewHub()
	views.OnInvalidate(hub.PublishInvalidation)

	if cfg.Storage.Driver == "" || cfg.Storage.Driver == "local" {
		ensureDirectories()
	}
	objectStorage, err := storage.New(cfg.Storage)
	if err != nil {
		log.Fatalf("❌ 存储初始化失败: %v", err)
	}
	notifier := notify.New(cfg, logger)

	app, err := di.InitializeApplication(db.DB, platformservice.NewAppService(logger, views), objectStorage, notifier, hub, redisClient)
	if err != nil {
		log.Fatalf("❌ 应用初始化失败: %v", err)
	}
	seedAdmin(ctx, app)

	r := gin.Default()
	applyTrustedProxies(r, cfg.Server.TrustedProxies)
	app.Router.Init(r)
	setupStaticFiles(r, cfg.Storage)

	distFS := GetFrontendAssets()
	indexData := setupFrontend(r, distFS)
	r.NoRoute(getNoRouteHandler(distFS, indexData))

	if *exportRoutes {
		exportAPI(r)
		return // 导出后直接退出程序，不启动 Web 服务
	}

	printWelcomeMessage()

	go hub.Run(ctx)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("🚀 服务启动成功，运行在 :%s\n", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ 服务启动失败: %s\n", err)
		}
	}()

	<-ctx.Done()
	log.Println("🛑 正在关闭服务...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("❌ 服务强制关闭: %v", err)
	}

	// 等待尚未发出的新留言提醒
	if mail, ok := notifier.(*notify.MailNotifier); ok {
		mail.Wait()
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	log.Println("✅ 服务已退出")
}

func newViewCache(redisClient *redis.Client, prefix string, logger *slog.Logger) *cache.ViewCache {
	if redisClient != nil {
		return cache.NewViewCache(cache.NewRedisStore(redisClient, prefix), logger)
	}
	return cache.NewViewCache(cache.NewMemoryStore(), logger)
}

// seedAdmin 首次启动时写入配置中的管理员账号
func seedAdmin(ctx context.Context, app *di.Application) {
	admin := config.Get().Admin
	if admin.Email == "" || admin.Password == "" {
		log.Println("⚠️ 未配置 admin.email / admin.password，跳过管理员初始化")
		return
	}
	created, err := app.Modules.Auth.Service.EnsureAdmin(ctx, admin.Email, admin.Password)
	if err != nil {
		log.Fatalf("❌ 管理员初始化失败: %v", err)
	}
	if created {
		log.Printf("✅ 已创建管理员账号: %s", admin.Email)
	}
}

// applyTrustedProxies 为空或解析失败时不信任任何代理，ClientIP 取 RemoteAddr
func applyTrustedProxies(r *gin.Engine, raw string) {
	proxies := splitTrustedProxyList(raw)
	if len(proxies) == 0 {
		_ = r.SetTrustedProxies(nil)
		return
	}
	if err := r.SetTrustedProxies(proxies); err != nil {
		log.Printf("⚠️ trusted_proxies 无效，已禁用代理信任: %v", err)
		_ = r.SetTrustedProxies(nil)
	}
}

func splitTrustedProxyList(raw string) []string {
	return strings.FieldsFunc(raw, func(r rune) bool {
		switch r {
		case ',', ';', ' ', '\n', '\r', '\t':
			return true
		}
		return false
	})
}

// setupStaticFiles 本地存储时直接由本服务提供照片文件
func setupStaticFiles(r *gin.Engine, cfg config.StorageConfig) {
	if cfg.Driver != "" && cfg.Driver != "local" {
		return
	}
	r.Group(cfg.URLPrefix, middleware.StaticCacheMiddleware(photoCacheControl)).
		StaticFS("", gin.Dir(cfg.Path, false))
}

func ensureDirectories() string {
	photoPath := config.Get().Storage.Path
	checkSecurePath(photoPath)
	if err := os.MkdirAll(photoPath, 0755); err != nil {
		log.Fatal("❌ 无法创建照片目录: ", err)
	}
	return photoPath
}

func getNoRouteHandler(distFS fs.FS, indexData []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqPath := c.Request.URL.Path
		if strings.HasPrefix(reqPath, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"error": "API not found"})
			return
		}
		if strings.HasPrefix(reqPath, config.Get().Storage.URLPrefix) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Photo not found"})
			return
		}
		if distFS == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}

		// 根目录下的静态文件 (favicon.ico, manifest.json)
		name := strings.TrimPrefix(reqPath, "/")
		if name != "" {
			if f, err := distFS.Open(name); err == nil {
				stat, statErr := f.Stat()
				_ = f.Close()
				if statErr == nil && !stat.IsDir() {
					c.FileFromFS(name, http.FS(distFS))
					return
				}
			}
		}

		// SPA 回退，/admin 页面已经过 AdminGuard
		c.Data(http.StatusOK, "text/html; charset=utf-8", indexData)
	}
}

func printWelcomeMessage() {
	cfg := config.Get()
	fmt.Println()
	fmt.Println(" ┌───────────────────────────────────────────────────────┐")
	fmt.Printf(" │   💍  %s\n", consts.ApplicationName)
	fmt.Println(" ├───────────────────────────────────────────────────────┤")
	fmt.Printf(" │   📦  版本     : %s\n", consts.ApplicationVersion)
	fmt.Printf(" │   🔥  服务端口 : %s\n", cfg.Server.Port)
	fmt.Printf(" │   🗄️  数据库   : %s\n", cfg.Database.Type)
	fmt.Printf(" │   🖼️  照片存储 : %s\n", cfg.Storage.Driver)
	fmt.Println(" └───────────────────────────────────────────────────────┘")
	fmt.Println()
}

func exportAPI(r *gin.Engine) {
	type RouteInfo struct {
		Method  string `json:"method"`
		Path    string `json:"path"`
		Handler string `json:"handler"`
	}

	routes := r.Routes()
	exportList := make([]RouteInfo, 0, len(routes))
	for _, route := range routes {
		exportList = append(exportList, RouteInfo{
			Method:  route.Method,
			Path:    route.Path,
			Handler: route.Handler,
		})
	}

	file, err := json.MarshalIndent(exportList, "", "  ")
	if err != nil {
		log.Printf("❌ 路由导出失败: %v", err)
		return
	}
	if err := os.WriteFile("routes.json", file, 0644); err != nil {
		log.Printf("❌ 路由导出失败: %v", err)
		return
	}
	log.Println("✅ 路由已成功导出到 routes.json")
}

func checkSecurePath(path string) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		log.Fatalf("❌ 路径解析失败: %v", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatalf("❌ 无法获取当前工作目录: %v", err)
	}

	if absPath == cwd {
		log.Fatalf("❌ 安全配置错误: 照片目录 '%s' 不能设置为项目根目录！", path)
	}

	rel, err := filepath.Rel(cwd, absPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return
	}
	if !isAllowedStaticDir(filepath.ToSlash(rel)) {
		log.Fatalf("❌ 安全配置错误: 照片目录 '%s' (解析为: '%s') 必须位于 %v 之一下。", path, rel, allowedStaticDirs)
	}
}

// 位于工作目录内时，只有这些顶层目录允许对外提供静态文件
var allowedStaticDirs = []string{"uploads", "public", "static", "tmp"}

func isAllowedStaticDir(relSlash string) bool {
	first := strings.Split(relSlash, "/")[0]
	for _, allowed := range allowedStaticDirs {
		if strings.EqualFold(first, allowed) {
			return true
		}
	}
	return false
}
