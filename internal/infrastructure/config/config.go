package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	StorageFile  = "file"
	StorageMongo = "mongo"
	StorageRedis = "redis"

	BlobLocal = "local"
	BlobMinio = "minio"
)

type Config struct {
	Port      string `env:"PORT,       default=3000"`
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	StaticDir string `env:"STATIC_DIR"`

	Auth    AuthConfig
	Storage StorageConfig
	Mongo   MongoConfig
	Redis   RedisConfig
	Upload  UploadConfig
	Minio   MinioConfig
	YouTube YouTubeConfig
}

type AuthConfig struct {
	JWTSecret         string        `env:"JWT_SECRET,              default=change-me"`
	TokenTTL          time.Duration `env:"TOKEN_TTL,               default=24h"`
	Required          bool          `env:"AUTH_REQUIRED,           default=false"`
	InsecurePlaintext bool          `env:"AUTH_INSECURE_PLAINTEXT, default=false"`
}

type StorageConfig struct {
	Driver  string `env:"STORAGE_DRIVER, default=file"`
	DataDir string `env:"DATA_DIR,       default=./data"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=youtube_playlists"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

type UploadConfig struct {
	Driver   string `env:"BLOB_DRIVER,      default=local"`
	Dir      string `env:"UPLOAD_DIR,       default=./uploads"`
	MaxBytes int64  `env:"UPLOAD_MAX_BYTES, default=20971520"`
}

type MinioConfig struct {
	Endpoint  string `env:"MINIO_ENDPOINT,   default=localhost:9000"`
	AccessKey string `env:"MINIO_ACCESS_KEY"`
	SecretKey string `env:"MINIO_SECRET_KEY"`
	Bucket    string `env:"MINIO_BUCKET,     default=playlist-uploads"`
	UseSSL    bool   `env:"MINIO_USE_SSL,    default=false"`
}

type YouTubeConfig struct {
	APIKey  string  `env:"YOUTUBE_API_KEY"`
	BaseURL string  `env:"YOUTUBE_BASE_URL, default=https://www.googleapis.com/youtube/v3"`
	RPS     float64 `env:"YOUTUBE_RPS,      default=5"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case StorageFile, StorageMongo, StorageRedis:
	default:
		return fmt.Errorf("config: unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}
	switch c.Upload.Driver {
	case BlobLocal, BlobMinio:
	default:
		return fmt.Errorf("config: unknown BLOB_DRIVER %q", c.Upload.Driver)
	}
	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("config: UPLOAD_MAX_BYTES must be positive")
	}
	return nil
}

// IsDevelopment reports whether the server runs with development defaults.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
