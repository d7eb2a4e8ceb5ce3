package handler

import (
	"os"
	"testing"

	"golden-anniversary-server/internal/config"

	"github.com/gin-gonic/gin"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	tmpDir, err := os.MkdirTemp("", "golden-auth-handler-*")
	if err != nil {
		panic(err)
	}
	_ = os.Setenv("GOLDEN_SERVER_MODE", "debug")
	_ = os.Setenv("GOLDEN_JWT_SECRET", "auth_handler_secret_0123456789abcd")
	config.InitConfig(tmpDir)

	code := m.Run()
	_ = os.RemoveAll(tmpDir)
	os.Exit(code)
}
