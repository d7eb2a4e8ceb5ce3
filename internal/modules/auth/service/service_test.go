package service

import (
	"context"
	"testing"

	"golden-anniversary-server/internal/modules/auth/repo"
	platformservice "golden-anniversary-server/internal/platform/service"
	"golden-anniversary-server/internal/testutils"
	"golden-anniversary-server/internal/utils"

	"github.com/neilotoole/slogt"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	gdb := testutils.SetupDB(t)
	return New(platformservice.NewAppService(slogt.New(t), nil), repo.NewUserRepository(gdb))
}

// 测试内容：验证管理员账号只在没有任何账号时写入一次。
func TestEnsureAdmin(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	created, err := s.EnsureAdmin(ctx, " Admin@Example.com ", "s3cret!")
	if err != nil || !created {
		t.Fatalf("期望首次写入管理员，created=%v err=%v", created, err)
	}
	created, err = s.EnsureAdmin(ctx, "other@example.com", "x")
	if err != nil || created {
		t.Fatalf("期望已有账号时不再写入，created=%v err=%v", created, err)
	}
	created, err = s.EnsureAdmin(ctx, "", "")
	if err != nil || created {
		t.Fatalf("期望未配置时跳过，created=%v err=%v", created, err)
	}
}

// 测试内容：验证登录成功签发可校验的令牌，失败统一返回 unauthorized。
func TestLogin(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	if _, err := s.EnsureAdmin(ctx, "admin@example.com", "s3cret!"); err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}

	token, user, err := s.Login(ctx, "ADMIN@example.com", "s3cret!")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	claims, ok := utils.VerifySessionToken(token)
	if !ok || claims.UserID != user.ID || claims.Email != "admin@example.com" {
		t.Fatalf("非预期令牌声明: %+v ok=%v", claims, ok)
	}

	for _, tc := range []struct{ email, password string }{
		{"admin@example.com", "wrong"},
		{"nobody@example.com", "s3cret!"},
	} {
		_, _, err := s.Login(ctx, tc.email, tc.password)
		if platformservice.CodeOf(err) != platformservice.ErrorCodeUnauthorized {
			t.Fatalf("期望 unauthorized，实际为 %v", err)
		}
	}
}

// 测试内容：验证按 ID 查询不存在的账号返回错误。
func TestFindUserByID_Missing(t *testing.T) {
	s := newTestService(t)
	if u, err := s.FindUserByID(context.Background(), 42); err == nil || u != nil {
		t.Fatalf("期望查询不存在账号时报错，u=%v err=%v", u, err)
	}
}
