package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// Config is split in two files: public.yaml is committed, private.yaml
// holds secrets and stays out of version control. Any secret can also be
// supplied through the environment, which wins over the file.
type Config struct {
	Public  Public  `yaml:"public"`
	Private Private `yaml:"private"`
}

type Public struct {
	Addr               string   `yaml:"addr"`
	LogLevel           string   `yaml:"log_level"`
	LogJSON            bool     `yaml:"log_json"`
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`

	Pg    PgPublic    `yaml:"pg"`
	Redis RedisPublic `yaml:"redis"`
	Mail  MailPublic  `yaml:"mail"`
	S3    S3Public    `yaml:"s3"`

	AccessTTLMinutes       int `yaml:"access_ttl_minutes"`
	ConfirmTTLHours        int `yaml:"confirm_ttl_hours"`
	ResetTTLHours          int `yaml:"reset_ttl_hours"`
	SessionCacheTTLSeconds int `yaml:"session_cache_ttl_seconds"`

	MaxAvatarSizeBytes int64 `yaml:"max_avatar_size_bytes"`
}

type PgPublic struct {
	Host   string `yaml:"host"`
	Port   string `yaml:"port"`
	User   string `yaml:"user"`
	Dbname string `yaml:"dbname"`
}

type RedisPublic struct {
	// Empty Addr selects the in-process session cache.
	Addr string `yaml:"addr"`
}

type MailPublic struct {
	Domain    string `yaml:"domain"`
	Sender    string `yaml:"sender"`
	AppName   string `yaml:"app_name"`
	PublicURL string `yaml:"public_url"`
}

type S3Public struct {
	Region   string `yaml:"region"`
	Bucket   string `yaml:"bucket"`
	Endpoint string `yaml:"endpoint"`
}

type Private struct {
	JwtKey        string `yaml:"jwt_key"`
	PgPassword    string `yaml:"pg_password"`
	MailgunKey    string `yaml:"mailgun_key"`
	S3AccessKey   string `yaml:"s3_access_key"`
	S3SecretKey   string `yaml:"s3_secret_key"`
	RedisPassword string `yaml:"redis_password"`
}

func (c *Config) JwtKey() []byte {
	return []byte(c.Private.JwtKey)
}

func (c *Config) AccessTTL() time.Duration {
	return time.Duration(c.Public.AccessTTLMinutes) * time.Minute
}

func (c *Config) ConfirmTTL() time.Duration {
	return time.Duration(c.Public.ConfirmTTLHours) * time.Hour
}

func (c *Config) ResetTTL() time.Duration {
	return time.Duration(c.Public.ResetTTLHours) * time.Hour
}

func (c *Config) SessionCacheTTL() time.Duration {
	return time.Duration(c.Public.SessionCacheTTLSeconds) * time.Second
}

// MustLoad reads public.yaml and private.yaml from configFolder and applies
// environment overrides for secrets. Panics on any problem: the app cannot
// run with a partial config.
func MustLoad(configFolder string) *Config {
	// Missing .env is fine, the environment may be set by the deployment.
	_ = godotenv.Load()

	cfg := &Config{}
	mustLoadPath(filepath.Join(configFolder, "public.yaml"), &cfg.Public)
	mustLoadPath(filepath.Join(configFolder, "private.yaml"), &cfg.Private)

	overrideFromEnv(&cfg.Private)

	if cfg.Private.JwtKey == "" {
		panic("config: jwt_key is not set")
	}
	return cfg
}

func mustLoadPath(path string, out interface{}) {
	if _, err := os.Stat(path); err != nil {
		panic(fmt.Sprintf("config file does not exist: %s", path))
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		panic(fmt.Sprintf("cannot read config file %s: %v", path, err))
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		panic(fmt.Sprintf("cannot parse config file %s: %v", path, err))
	}
}

func overrideFromEnv(p *Private) {
	set := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	set(&p.JwtKey, "JWT_KEY")
	set(&p.PgPassword, "PG_PASSWORD")
	set(&p.MailgunKey, "MAILGUN_KEY")
	set(&p.S3AccessKey, "S3_ACCESS_KEY")
	set(&p.S3SecretKey, "S3_SECRET_KEY")
	set(&p.RedisPassword, "REDIS_PASSWORD")
}
