package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	AppName  string `env:"AROM_APP_NAME" envDefault:"arom-server"`
	AppEnv   string `env:"AROM_APP_ENV" envDefault:"local"`
	HTTPHost string `env:"AROM_HTTP_HOST" envDefault:"0.0.0.0"`
	HTTPPort string `env:"AROM_HTTP_PORT" envDefault:"8080"`

	MongoURI string `env:"AROM_MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDB  string `env:"AROM_MONGO_DB" envDefault:"arom"`

	JWTSecret   string        `env:"AROM_JWT_SECRET,required"`
	AccessTTL   time.Duration `env:"AROM_JWT_ACCESS_TTL" envDefault:"6h"`
	ResetExpire time.Duration `env:"AROM_RESET_PASSWORD_EXPIRE" envDefault:"10m"`

	KakaoAPIServer    string `env:"AROM_KAKAO_API_SERVER" envDefault:"https://kapi.kakao.com/v1"`
	FacebookAPIServer string `env:"AROM_FACEBOOK_API_SERVER" envDefault:"https://graph.facebook.com"`
	FacebookAppID     string `env:"AROM_FACEBOOK_APP_ID"`
	FacebookAppSecret string `env:"AROM_FACEBOOK_APP_SECRET"`

	AWSRegion        string `env:"AROM_AWS_REGION" envDefault:"ap-northeast-2"`
	S3BaseURL        string `env:"AROM_S3_BASE_URL" envDefault:"https://s3.ap-northeast-2.amazonaws.com"`
	AttachmentBucket string `env:"AROM_ATTACHMENT_BUCKET"`
	MailFrom         string `env:"AROM_MAIL_FROM" envDefault:"no-reply@arom.io"`
	ContactEmail     string `env:"AROM_CONTACT_EMAIL"`

	NATSURL           string `env:"NATS_URL"`
	NATSVerifySubject string `env:"NATS_SUBJECT_VERIFY_TOKEN" envDefault:"auth.verifyToken"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}
