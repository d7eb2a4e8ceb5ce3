package config

import (
	"errors"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/viper"
)

// 用于管理应用配置

const insecureDevSecret = "golden_anniversary_secret"

var (
	// 使用 atomic.Value 存储 *Config，实现无锁读取
	appConfig atomic.Value
	configMu  sync.Mutex // 仅用于写操作互斥
	configDir = "config"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Admin     AdminConfig     `mapstructure:"admin"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Redis     RedisConfig     `mapstructure:"redis"`
	SMTP      SMTPConfig      `mapstructure:"smtp"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type ServerConfig struct {
	Port      string `mapstructure:"port"`
	Mode      string `mapstructure:"mode"`
	PublicURL string `mapstructure:"public_url"`
	// TrustedProxies 逗号分隔的代理 IP/CIDR，为空表示不信任任何代理
	TrustedProxies string `mapstructure:"trusted_proxies"`
}

type DatabaseConfig struct {
	Type     string `mapstructure:"type"`     // sqlite, mysql, postgres
	Filename string `mapstructure:"filename"` // for sqlite
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSL      bool   `mapstructure:"ssl"`
}

type JWTConfig struct {
	Secret          string `mapstructure:"secret"`
	ExpirationHours int    `mapstructure:"expiration_hours"`
}

// SessionTTL 会话令牌与 Cookie 共用的有效期，未配置时为 7 天
func (c JWTConfig) SessionTTL() time.Duration {
	hours := c.ExpirationHours
	if hours <= 0 {
		hours = 24 * 7
	}
	return time.Duration(hours) * time.Hour
}

// AdminConfig 描述唯一的管理员账号，首次启动时写入数据库
type AdminConfig struct {
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
}

type StorageConfig struct {
	Driver    string `mapstructure:"driver"` // local, minio
	Path      string `mapstructure:"path"`
	URLPrefix string `mapstructure:"url_prefix"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	PublicURL string `mapstructure:"public_url"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	Notify   string `mapstructure:"notify"` // 新留言提醒的收件人，为空时使用 admin.email
}

type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

type RateLimitConfig struct {
	Enabled        bool    `mapstructure:"enabled"`
	LoginRPS       float64 `mapstructure:"login_rps"`
	LoginBurst     int     `mapstructure:"login_burst"`
	GuestbookRPS   float64 `mapstructure:"guestbook_rps"`
	GuestbookBurst int     `mapstructure:"guestbook_burst"`
}

// Get 获取当前配置的快照（无锁）
func Get() Config {
	val := appConfig.Load()
	if val == nil {
		return Config{}
	}
	c, ok := val.(*Config)
	if !ok {
		return Config{}
	}
	return *c
}

func GetConfigDir() string {
	return configDir
}

// IsRelease reports whether the server runs in gin release mode.
func IsRelease() bool {
	return Get().Server.Mode == "release"
}

func InitConfig(customConfigDir string) {
	v := initViper(customConfigDir)
	loadAndStore(v)
	enforceJWTSecretSafety()
	log.Println("✅ 配置加载成功")
}

func initViper(customConfigDir string) *viper.Viper {
	v := viper.New()

	customConfigDir = strings.TrimSpace(customConfigDir)
	if customConfigDir == "" {
		customConfigDir = "config"
	}
	configDir = customConfigDir

	v.AddConfigPath(configDir)
	v.AddConfigPath(".")
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.public_url", "http://localhost:8080")
	v.SetDefault("server.trusted_proxies", "")
	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.filename", "database/golden_anniversary.db")
	v.SetDefault("database.host", "127.0.0.1")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.name", "golden_anniversary")
	v.SetDefault("database.ssl", false)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiration_hours", 24*7)
	v.SetDefault("admin.email", "")
	v.SetDefault("admin.password", "")
	v.SetDefault("storage.driver", "local")
	v.SetDefault("storage.path", "uploads/photos")
	v.SetDefault("storage.url_prefix", "/photos/")
	v.SetDefault("storage.endpoint", "127.0.0.1:9000")
	v.SetDefault("storage.access_key", "")
	v.SetDefault("storage.secret_key", "")
	v.SetDefault("storage.bucket", "memories")
	v.SetDefault("storage.use_ssl", false)
	v.SetDefault("storage.public_url", "")
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "golden_anniversary")
	v.SetDefault("smtp.host", "")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.username", "")
	v.SetDefault("smtp.password", "")
	v.SetDefault("smtp.from", "")
	v.SetDefault("smtp.notify", "")
	v.SetDefault("cors.allow_origins", []string{})
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.login_rps", 0.2)
	v.SetDefault("rate_limit.login_burst", 5)
	v.SetDefault("rate_limit.guestbook_rps", 0.05)
	v.SetDefault("rate_limit.guestbook_burst", 3)

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			log.Println("⚠️  未找到配置文件，将仅使用环境变量或默认值")
		} else {
			log.Fatalf("❌ 读取配置文件失败: %v", err)
		}
	}

	// 所有环境变量以 GOLDEN_ 开头
	// 例如：yaml 中的 server.port 对应环境变量 GOLDEN_SERVER_PORT
	v.SetEnvPrefix("GOLDEN")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return v
}

// loadAndStore 解析并原子更新配置
func loadAndStore(v *viper.Viper) {
	configMu.Lock()
	defer configMu.Unlock()

	var tempConfig Config
	if err := v.Unmarshal(&tempConfig); err != nil {
		log.Printf("❌ 配置解析失败: %v", err)
		return
	}

	// viper 从环境变量读取切片时得到的是单个逗号分隔字符串
	if len(tempConfig.CORS.AllowOrigins) == 1 && strings.Contains(tempConfig.CORS.AllowOrigins[0], ",") {
		tempConfig.CORS.AllowOrigins = splitList(tempConfig.CORS.AllowOrigins[0])
	}

	if tempConfig.JWT.ExpirationHours <= 0 {
		tempConfig.JWT.ExpirationHours = 24 * 7
	}

	if tempConfig.Server.Mode != "release" && tempConfig.JWT.Secret == "" {
		log.Println("⚠️ [开发模式警告] 未设置 JWT Secret，将使用默认不安全密钥进行开发")
		tempConfig.JWT.Secret = insecureDevSecret
	}

	appConfig.Store(&tempConfig)
}

// enforceJWTSecretSafety 签名密钥配置错误在启动时直接退出，而不是在每次签发时失败
func enforceJWTSecretSafety() {
	if err := checkJWTSecret(Get()); err != nil {
		log.Fatalf("❌ [安全严重错误] %v\n请设置环境变量 GOLDEN_JWT_SECRET 或在配置文件中指定 jwt.secret", err)
	}
}

func checkJWTSecret(cfg Config) error {
	if cfg.Server.Mode != "release" {
		return nil
	}
	if cfg.JWT.Secret == "" || cfg.JWT.Secret == insecureDevSecret {
		return errors.New("生产模式(release)下必须设置安全的 JWT Secret")
	}
	if len(cfg.JWT.Secret) < 32 {
		return errors.New("JWT Secret 长度不能少于 32 个字符")
	}
	return nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
