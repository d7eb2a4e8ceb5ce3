package service

import (
	"context"
	"errors"
	"strings"

	"golden-anniversary-server/internal/config"
	"golden-anniversary-server/internal/model"
	"golden-anniversary-server/internal/modules/auth/repo"
	platformservice "golden-anniversary-server/internal/platform/service"
	"golden-anniversary-server/internal/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const loginFailed = "invalid email or password"

// dummyHash 用户不存在时也做一次 bcrypt 比较，避免通过响应时间枚举邮箱
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("golden-anniversary"), bcrypt.DefaultCost)

type Service struct {
	*platformservice.AppService
	userStore repo.UserStore
}

func New(appService *platformservice.AppService, userStore repo.UserStore) *Service {
	return &Service{
		AppService: appService,
		userStore:  userStore,
	}
}

// Login 校验邮箱密码，成功时签发会话令牌
func (s *Service) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	email = normalizeEmail(email)

	user, err := s.userStore.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return "", nil, platformservice.NewUnauthorizedError(loginFailed)
		}
		return "", nil, platformservice.Wrap(platformservice.ErrorCodeInternal, "failed to sign in", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, platformservice.NewUnauthorizedError(loginFailed)
	}

	token, err := utils.GenerateSessionToken(user.ID, user.Email, config.Get().JWT.SessionTTL())
	if err != nil {
		return "", nil, platformservice.Wrap(platformservice.ErrorCodeInternal, "failed to sign in", err)
	}
	return token, user, nil
}

// FindUserByID 供访问守卫查询会话对应的账号是否仍存在
func (s *Service) FindUserByID(ctx context.Context, id uint) (*model.User, error) {
	return s.userStore.FindByID(ctx, id)
}

// EnsureAdmin 首次启动且没有任何账号时写入配置中的管理员
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return false, nil
	}
	count, err := s.userStore.Count(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}
	if err := s.userStore.Create(ctx, &model.User{Email: email, Password: string(hash)}); err != nil {
		return false, err
	}
	s.Logger.Info("admin account created", "email", email)
	return true, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
