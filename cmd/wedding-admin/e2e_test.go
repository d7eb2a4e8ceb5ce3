package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"golden-anniversary-server/internal/cache"
	"golden-anniversary-server/internal/config"
	"golden-anniversary-server/internal/modules"
	authrepo "golden-anniversary-server/internal/modules/auth/repo"
	galleryrepo "golden-anniversary-server/internal/modules/gallery/repo"
	guestbookdto "golden-anniversary-server/internal/modules/guestbook/dto"
	guestbookrepo "golden-anniversary-server/internal/modules/guestbook/repo"
	"golden-anniversary-server/internal/notify"
	platformservice "golden-anniversary-server/internal/platform/service"
	"golden-anniversary-server/internal/realtime"
	"golden-anniversary-server/internal/router"
	"golden-anniversary-server/internal/storage"
	"golden-anniversary-server/internal/testutils"

	"github.com/gin-gonic/gin"
	"github.com/neilotoole/slogt"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	tmpDir, err := os.MkdirTemp("", "golden-cli-*")
	if err != nil {
		panic(err)
	}
	_ = os.Setenv("GOLDEN_SERVER_MODE", "debug")
	_ = os.Setenv("GOLDEN_JWT_SECRET", "cli_test_secret_0123456789abcdefgh")
	_ = os.Setenv("GOLDEN_RATE_LIMIT_ENABLED", "false")
	config.InitConfig(tmpDir)

	code := m.Run()
	_ = os.RemoveAll(tmpDir)
	os.Exit(code)
}

func startServer(t *testing.T) (string, *modules.AppModules) {
	t.Helper()
	gdb := testutils.SetupDB(t)
	logger := slogt.New(t)
	app := platformservice.NewAppService(logger, cache.NewViewCache(cache.NewMemoryStore(), logger))
	appModules := modules.New(app,
		authrepo.NewUserRepository(gdb),
		guestbookrepo.NewMessageRepository(gdb),
		galleryrepo.NewPhotoRepository(gdb),
		storage.NewLocalStorage(t.TempDir(), "/photos/"),
		notify.Noop{},
	)
	if _, err := appModules.Auth.Service.EnsureAdmin(context.Background(), "avo@example.com", "bodas-de-ouro"); err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}
	r := gin.New()
	router.NewRouter(appModules, realtime.NewHub(), nil).Init(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv.URL, appModules
}

// 测试内容：验证 moderate 命令未确认时只打印文案，确认后批准全部待审核留言。
func TestRun_ModerateAndStats(t *testing.T) {
	url, m := startServer(t)
	ctx := context.Background()
	for _, name := range []string{"Neto", "Neta"} {
		if _, err := m.Guestbook.Service.Create(ctx, guestbookdto.CreateMessageRequest{Name: name, Message: "Parabéns!"}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	global := []string{"-server", url, "-email", "avo@example.com", "-password", "bodas-de-ouro"}

	var out bytes.Buffer
	if err := run(ctx, append(global, "moderate", "-action", "approve"), &out); err != nil {
		t.Fatalf("moderate dry-run: %v", err)
	}
	if !strings.Contains(out.String(), "Approve 2 messages?") || !strings.Contains(out.String(), "-yes") {
		t.Fatalf("非预期输出: %s", out.String())
	}

	out.Reset()
	if err := run(ctx, append(global, "stats"), &out); err != nil || !strings.Contains(out.String(), "pending=2") {
		t.Fatalf("未确认时不应执行: %s err=%v", out.String(), err)
	}

	out.Reset()
	if err := run(ctx, append(global, "moderate", "-action", "approve", "-yes"), &out); err != nil {
		t.Fatalf("moderate: %v", err)
	}

	out.Reset()
	if err := run(ctx, append(global, "stats"), &out); err != nil || !strings.Contains(out.String(), "pending=0 approved=2") {
		t.Fatalf("非预期统计: %s err=%v", out.String(), err)
	}

	out.Reset()
	if err := run(ctx, append(global, "moderate", "-action", "reject"), &out); err != nil || !strings.Contains(out.String(), "没有符合条件") {
		t.Fatalf("期望没有待审核留言: %s err=%v", out.String(), err)
	}
}

// 测试内容：验证错误密码时登录失败。
func TestRun_BadPassword(t *testing.T) {
	url, _ := startServer(t)
	var out bytes.Buffer
	err := run(context.Background(), []string{"-server", url, "-email", "avo@example.com", "-password", "x", "stats"}, &out)
	if err == nil || !strings.Contains(err.Error(), "登录失败") {
		t.Fatalf("期望登录失败，实际为 %v", err)
	}
}
