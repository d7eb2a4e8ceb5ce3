package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"golden-anniversary-server/internal/config"
	"golden-anniversary-server/internal/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	tmpDir, err := os.MkdirTemp("", "golden-middleware-*")
	if err != nil {
		panic(err)
	}
	_ = os.Setenv("GOLDEN_SERVER_MODE", "debug")
	_ = os.Setenv("GOLDEN_JWT_SECRET", "middleware_test_secret_0123456789ab")
	config.InitConfig(tmpDir)

	code := m.Run()
	_ = os.RemoveAll(tmpDir)
	os.Exit(code)
}

// fakeUsers 记录查询次数，用于确认守卫不缓存查询结果
type fakeUsers struct {
	users map[uint]*model.User
	err   error
	calls int
}

func (f *fakeUsers) FindUserByID(_ context.Context, id uint) (*model.User, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

var errLookup = errors.New("connection refused")

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func fromIP(method, path, ip string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	req.RemoteAddr = ip + ":1111"
	return req
}
