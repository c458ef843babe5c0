package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	EnvFile  string `env:"ENV_FILE" envDefault:".env"`
	HTTPPort string `env:"HTTP_PORT" envDefault:"5000"`

	DBType     string `env:"DBType" envDefault:"sqlite"`
	DSNURL     string `env:"DSN_URL" envDefault:""`
	DBUser     string `env:"DBUser" envDefault:""`
	DBPassword string `env:"DBPassword" envDefault:""`
	DBAddr     string `env:"DBAddr" envDefault:""`
	DBName     string `env:"DBName" envDefault:"store_rating_db"`
	DBPath     string `env:"DBPath" envDefault:"datas/store_rating.db"`
	DBPort     string `env:"DBPort" envDefault:"5432"`

	JWTSecret            string `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`
	JWTIssuer            string `env:"JWT_ISSUER" envDefault:"store-rating"`
	JWTExpirationMinutes int    `env:"JWT_EXPIRATION_MINUTES" envDefault:"1440"`

	// 密码重置
	ResetTokenTTLMinutes int    `env:"RESET_TOKEN_TTL_MINUTES" envDefault:"60"`
	FrontendURL          string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`
	ResetCleanupSchedule string `env:"RESET_CLEANUP_SCHEDULE" envDefault:"@every 15m"`
	JanitorRunOnce       bool   `env:"JANITOR_RUN_ONCE" envDefault:"false"`
	JanitorMetricsPort   string `env:"JANITOR_METRICS_PORT" envDefault:"9102"`

	// SMTP 邮件配置，SMTPHost 为空时只记录日志
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     string `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	EmailFrom    string `env:"EMAIL_FROM"`

	StoreOwnerTempPassword string `env:"STORE_OWNER_TEMP_PASSWORD" envDefault:"TempPassword123!"`

	SeedSampleData bool   `env:"SEED_SAMPLE_DATA" envDefault:"false"`
	AdminName      string `env:"ADMIN_NAME" envDefault:"System Administrator Account"`
	AdminEmail     string `env:"ADMIN_EMAIL"`
	AdminPassword  string `env:"ADMIN_PASSWORD"`

	AuthRateLimitRPS   float64 `env:"AUTH_RATE_LIMIT_RPS" envDefault:"5"`
	AuthRateLimitBurst int     `env:"AUTH_RATE_LIMIT_BURST" envDefault:"10"`
}

func ParseConfig() (Config, error) {
	if err := loadEnvFile(os.Getenv("ENV_FILE")); err != nil {
		logrus.WithError(err).Error("failed to load env file")
		return Config{}, err
	}

	var Conf Config
	err := env.Parse(&Conf)
	if err != nil {
		logrus.WithError(err).Error("env.Parse error")
		return Config{}, err
	}
	return Conf, nil
}

// loadEnvFile 加载 .env 文件，已存在的环境变量优先
func loadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}
