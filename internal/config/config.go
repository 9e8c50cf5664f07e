package config

import (
	"flag"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StoreDriverMongo  = "mongo"
	StoreDriverMemory = "memory"

	PubSubDriverMemory = "memory"
	PubSubDriverRedis  = "redis"
)

type Config struct {
	Env     string        `yaml:"env" env:"ENV" env-default:"local"`
	HTTP    HTTPConfig    `yaml:"http"`
	Auth    AuthConfig    `yaml:"auth"`
	Store   StoreConfig   `yaml:"store"`
	PubSub  PubSubConfig  `yaml:"pubsub"`
	Storage StorageConfig `yaml:"storage"`
	Booking BookingConfig `yaml:"booking"`
}

type HTTPConfig struct {
	Address         string        `yaml:"address" env:"HTTP_ADDRESS" env-default:""`
	ReadTimeout     time.Duration `yaml:"read_timeout" env-default:"10s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"10s"`
	StreamKeepAlive time.Duration `yaml:"stream_keep_alive" env-default:"25s"`
	AllowedOrigins  []string      `yaml:"allowed_origins" env:"HTTP_ALLOWED_ORIGINS" env-separator:","`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret" env:"JWT_SECRET"`
	TokenTTL  time.Duration `yaml:"token_ttl" env:"TOKEN_TTL" env-default:"24h"`
}

type StoreConfig struct {
	Driver   string        `yaml:"driver" env:"STORE_DRIVER" env-default:"mongo"`
	MongoURI string        `yaml:"mongo_uri" env:"MONGO_URI"`
	Database string        `yaml:"database" env:"MONGO_DATABASE" env-default:"basha_lagbe"`
	Timeout  time.Duration `yaml:"timeout" env-default:"10s"`
}

type PubSubConfig struct {
	Driver     string      `yaml:"driver" env:"PUBSUB_DRIVER" env-default:"memory"`
	BufferSize int         `yaml:"buffer_size" env-default:"32"`
	Redis      RedisConfig `yaml:"redis"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
	Prefix   string `yaml:"prefix" env-default:"basha:"`
}

type StorageConfig struct {
	Endpoint      string `yaml:"endpoint" env:"MINIO_ENDPOINT"`
	AccessKey     string `yaml:"access_key" env:"MINIO_ACCESS_KEY"`
	SecretKey     string `yaml:"secret_key" env:"MINIO_SECRET_KEY"`
	Bucket        string `yaml:"bucket" env:"MINIO_BUCKET" env-default:"listing-images"`
	UseSSL        bool   `yaml:"use_ssl" env:"MINIO_USE_SSL"`
	Region        string `yaml:"region" env:"MINIO_REGION" env-default:"us-east-1"`
	PublicURL     string `yaml:"public_url" env:"MINIO_PUBLIC_URL"`
	MaxUploadSize int64  `yaml:"max_upload_size" env-default:"10485760"`
}

type BookingConfig struct {
	ReconcileInterval time.Duration `yaml:"reconcile_interval" env-default:"30s"`
}

func MustLoad() *Config {
	configPath := fetchConfigPath()
	if configPath == "" {
		panic("config path is empty")
	}

	return MustLoadPath(configPath)
}

func MustLoadPath(configPath string) *Config {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("cannot read config: " + err.Error())
	}

	cfg.setDefaults()

	return &cfg
}

func fetchConfigPath() string {
	var res string

	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	if res == "" {
		res = "config/local.yaml"
	}

	return res
}

func (c *Config) setDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if len(c.HTTP.AllowedOrigins) == 0 {
		c.HTTP.AllowedOrigins = []string{"http://localhost:3000"}
	}
	if c.HTTP.StreamKeepAlive <= 0 {
		c.HTTP.StreamKeepAlive = 25 * time.Second
	}
	if c.PubSub.BufferSize <= 0 {
		c.PubSub.BufferSize = 32
	}
	if c.Booking.ReconcileInterval <= 0 {
		c.Booking.ReconcileInterval = 30 * time.Second
	}
}
