package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"golden-anniversary-server/internal/config"
	"golden-anniversary-server/internal/consts"
	"golden-anniversary-server/internal/di"
	"golden-anniversary-server/internal/notify"
	platformservice "golden-anniversary-server/internal/platform/service"
	"golden-anniversary-server/internal/realtime"
	"golden-anniversary-server/internal/storage"
	"golden-anniversary-server/internal/testutils"

	"github.com/gin-gonic/gin"
	"github.com/neilotoole/slogt"
)

// 测试内容：为 main 包测试初始化配置环境并在结束时清理。
func TestMain(m *testing.M) {
	tmpDir, err := os.MkdirTemp("", "golden-main-config-*")
	if err != nil {
		panic(err)
	}

	envs := []testutils.SavedEnv{
		testutils.SetEnv("GOLDEN_SERVER_MODE", "debug"),
		testutils.SetEnv("GOLDEN_JWT_SECRET", "main_test_secret_0123456789abcdef"),
		testutils.SetEnv("GOLDEN_STORAGE_PATH", "uploads/photos"),
		testutils.SetEnv("GOLDEN_STORAGE_URL_PREFIX", "/photos/"),
		testutils.SetEnv("GOLDEN_REDIS_ENABLED", "false"),
		testutils.SetEnv("GOLDEN_RATE_LIMIT_ENABLED", "false"),
		testutils.SetEnv("GOLDEN_ADMIN_EMAIL", "avo@example.com"),
		testutils.SetEnv("GOLDEN_ADMIN_PASSWORD", "bodas-de-ouro"),
	}
	config.InitConfig(tmpDir)

	code := m.Run()

	testutils.RestoreEnv(envs)
	_ = os.RemoveAll(tmpDir)
	os.Exit(code)
}

func chdirTemp(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	oldwd, _ := os.Getwd()
	if err := os.Chdir(tmp); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldwd) })
	return tmp
}

// 测试内容：验证 splitTrustedProxyList 能正确拆分代理列表。
func TestSplitTrustedProxyList(t *testing.T) {
	got := splitTrustedProxyList(" 1.1.1.1,2.2.2.2; 3.3.3.3 \n4.4.4.4\t")
	if len(got) != 4 || got[3] != "4.4.4.4" {
		t.Fatalf("期望 4 个代理，实际为 %v", got)
	}
	if got := splitTrustedProxyList("  "); len(got) != 0 {
		t.Fatalf("期望空列表，实际为 %v", got)
	}
}

// 测试内容：验证 trusted_proxies 设置对信任代理的影响：空值禁用、有效列表生效、无效列表回退。
func TestApplyTrustedProxies(t *testing.T) {
	gin.SetMode(gin.TestMode)

	clientIP := func(raw string) string {
		r := gin.New()
		applyTrustedProxies(r, raw)
		r.GET("/ip", func(c *gin.Context) { c.String(http.StatusOK, c.ClientIP()) })
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ip", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		req.Header.Set("X-Forwarded-For", "203.0.113.10, 10.0.0.1")
		r.ServeHTTP(w, req)
		return strings.TrimSpace(w.Body.String())
	}

	if got := clientIP(""); got != "10.0.0.1" {
		t.Fatalf("禁用可信代理时 ClientIP 应为 RemoteAddr，实际为 %q", got)
	}
	if got := clientIP("127.0.0.1,10.0.0.0/8"); got != "203.0.113.10" {
		t.Fatalf("启用可信代理时 ClientIP 应取 X-Forwarded-For，实际为 %q", got)
	}
	if got := clientIP("not-a-cidr"); got != "10.0.0.1" {
		t.Fatalf("无效可信代理时 ClientIP 应为 RemoteAddr，实际为 %q", got)
	}
}

// 测试内容：验证未启用 embed 构建时前端资源与 index 数据为空。
func TestEmbedDisabledFrontendHooks(t *testing.T) {
	if GetFrontendAssets() != nil {
		t.Fatalf("期望非 embed 构建下前端资源为 nil")
	}
	if data := setupFrontend(gin.New(), nil); data != nil {
		t.Fatalf("期望非 embed 构建下 index 数据为 nil")
	}
}

// 测试内容：验证 exportAPI 会写出有效的 routes.json 路由列表。
func TestExportAPI_WritesRoutesJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	chdirTemp(t)

	r := gin.New()
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })
	exportAPI(r)

	b, err := os.ReadFile("routes.json")
	if err != nil {
		t.Fatalf("期望生成 routes.json: %v", err)
	}
	var routes []map[string]any
	if err := json.Unmarshal(b, &routes); err != nil {
		t.Fatalf("JSON 无效: %v", err)
	}
	if len(routes) != 1 || routes[0]["path"] != "/x" {
		t.Fatalf("非预期路由列表: %v", routes)
	}
}

// 测试内容：验证 NoRoute 在 API/照片路径返回 404，根路径与 /admin 页面回退到 index，根目录静态文件可被服务。
func TestGetNoRouteHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	dist := fstest.MapFS{
		"favicon.ico": &fstest.MapFile{Data: []byte("ico")},
		"assets/x.js": &fstest.MapFile{Data: []byte("js")},
	}
	indexData := []byte("<html>index</html>")

	r := gin.New()
	r.NoRoute(getNoRouteHandler(dist, indexData))

	cases := []struct {
		path     string
		wantCode int
		wantBody string
	}{
		{"/api/nope", http.StatusNotFound, "API not found"},
		{"/photos/2026/05/01/nope.jpg", http.StatusNotFound, "Photo not found"},
		{"/", http.StatusOK, "index"},
		{"/gallery", http.StatusOK, "index"},
		{"/assets", http.StatusOK, "index"},
		{"/favicon.ico", http.StatusOK, "ico"},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))
		if w.Code != tc.wantCode || !strings.Contains(w.Body.String(), tc.wantBody) {
			t.Fatalf("%s: 期望 %d %q，实际为 %d %q", tc.path, tc.wantCode, tc.wantBody, w.Code, w.Body.String())
		}
	}
}

// 测试内容：验证 dist 为空时 NoRoute 对任意路径返回 404。
func TestGetNoRouteHandler_DistFSNil(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.NoRoute(getNoRouteHandler(nil, nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/any", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("期望 404，实际为 %d", w.Code)
	}
}

// 测试内容：确保创建照片目录，并验证安全目录白名单。
func TestEnsureDirectories_CreatesPhotoDir(t *testing.T) {
	chdirTemp(t)

	photoPath := ensureDirectories()
	if _, err := os.Stat(photoPath); err != nil {
		t.Fatalf("期望照片目录存在: %v", err)
	}
	for rel, want := range map[string]bool{
		"uploads/photos": true,
		"Static/x":       true,
		"internal":       false,
		"config/photos":  false,
	} {
		if got := isAllowedStaticDir(rel); got != want {
			t.Fatalf("isAllowedStaticDir(%q) 期望 %v，实际为 %v", rel, want, got)
		}
	}
}

// 测试内容：验证本地存储时照片文件带长缓存头被服务，minio 时不挂载。
func TestSetupStaticFiles(t *testing.T) {
	gin.SetMode(gin.TestMode)
	chdirTemp(t)

	photoPath := ensureDirectories()
	if err := os.MkdirAll(filepath.Join(photoPath, "2026"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	_ = os.WriteFile(filepath.Join(photoPath, "2026", "a.jpg"), []byte("jpg"), 0644)

	cfg := config.Get().Storage
	r := gin.New()
	setupStaticFiles(r, cfg)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/photos/2026/a.jpg", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际为 %d", w.Code)
	}
	if got := w.Header().Get("Cache-Control"); got != photoCacheControl {
		t.Fatalf("期望 Cache-Control=%q，实际为 %q", photoCacheControl, got)
	}

	cfg.Driver = "minio"
	r2 := gin.New()
	setupStaticFiles(r2, cfg)
	if len(r2.Routes()) != 0 {
		t.Fatalf("minio 存储不应挂载静态路由")
	}
}

// 测试内容：验证 seedAdmin 按配置写入管理员且重复执行不会报错，并验证视图缓存失效会推给 hub。
func TestSeedAdminAndWiring(t *testing.T) {
	gin.SetMode(gin.TestMode)
	gdb := testutils.SetupDB(t)
	logger := slogt.New(t)

	views := newViewCache(nil, "", logger)
	hub := realtime.NewHub()
	views.OnInvalidate(hub.PublishInvalidation)

	app, err := di.InitializeApplication(gdb, platformservice.NewAppService(logger, views),
		storage.NewLocalStorage(t.TempDir(), "/photos/"), notify.Noop{}, hub, nil)
	if err != nil {
		t.Fatalf("InitializeApplication: %v", err)
	}

	ctx := context.Background()
	seedAdmin(ctx, app)
	seedAdmin(ctx, app)

	if _, _, err := app.Modules.Auth.Service.Login(ctx, "avo@example.com", "bodas-de-ouro"); err != nil {
		t.Fatalf("期望种子管理员可登录: %v", err)
	}

	// 没有连接中的客户端时失效推送不会阻塞
	views.Invalidate(ctx, consts.ViewGuestbook)
}

// 测试内容：验证欢迎信息打印函数在测试配置下可执行。
func TestPrintWelcomeMessage(t *testing.T) {
	printWelcomeMessage()
}
