package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	CacheBackendRedis  = "redis"
	CacheBackendMemory = "memory"

	StorageBackendLocal = "local"
	StorageBackendS3    = "s3"

	OrderNewestFirst = "newest_first"
	OrderOldestFirst = "oldest_first"
)

// DBConfig - параметры подключения к одному инстансу PostgreSQL
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"name"`
}

type ConfigSchema struct {
	Databases struct {
		Driver   string     `yaml:"driver"`
		SQLite   string     `yaml:"sqlite_dsn"`
		Master   DBConfig   `yaml:"master"`
		Replicas []DBConfig `yaml:"replicas"`
	} `yaml:"db"`
	Redis struct {
		URL                string `yaml:"url"`
		Host               string `yaml:"host"`
		Port               int    `yaml:"port"`
		Password           string `yaml:"password"`
		DB                 int    `yaml:"db"`
		DialTimeoutSeconds int    `yaml:"dial_timeout"`
		PoolSize           int    `yaml:"pool_size"`
	} `yaml:"redis"`
	Backend struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"backend"`
	Logs struct {
		Level string `yaml:"level"`
	} `yaml:"logs"`
	Cache struct {
		Backend    string `yaml:"backend"`
		TTLSeconds int    `yaml:"ttl"`
		KeyPrefix  string `yaml:"key_prefix"`
	} `yaml:"cache"`
	Pagination struct {
		PostsPerPage int `yaml:"posts_per_page"`
	} `yaml:"pagination"`
	Feed struct {
		Order string `yaml:"order"`
	} `yaml:"feed"`
	Auth struct {
		LoginURL   string `yaml:"login_url"`
		CookieName string `yaml:"cookie_name"`
	} `yaml:"auth"`
	Storage struct {
		Backend  string `yaml:"backend"`
		MediaDir string `yaml:"media_dir"`
		MediaURL string `yaml:"media_url"`
		Bucket   string `yaml:"bucket"`
		Region   string `yaml:"region"`
	} `yaml:"storage"`
	RabbitMQ struct {
		URL      string `yaml:"url"`
		Exchange string `yaml:"exchange"`
	} `yaml:"rabbitmq"`
}

var AppConfig *ConfigSchema

// Defaults возвращает конфигурацию, пригодную для локального запуска на SQLite
func Defaults() *ConfigSchema {
	conf := &ConfigSchema{}
	conf.Databases.Driver = DriverSQLite
	conf.Databases.SQLite = "file:yatube.db?_foreign_keys=1"
	conf.Databases.Master.Port = 5432
	conf.Redis.Host = "localhost"
	conf.Redis.Port = 6379
	conf.Redis.DialTimeoutSeconds = 5
	conf.Backend.Host = "0.0.0.0"
	conf.Backend.Port = 8080
	conf.Logs.Level = "INFO"
	conf.Cache.Backend = CacheBackendMemory
	conf.Cache.TTLSeconds = 20
	conf.Cache.KeyPrefix = "page:"
	conf.Pagination.PostsPerPage = 10
	conf.Feed.Order = OrderOldestFirst
	conf.Auth.LoginURL = "/auth/login/"
	conf.Auth.CookieName = "sessionid"
	conf.Storage.Backend = StorageBackendLocal
	conf.Storage.MediaDir = "media"
	conf.Storage.MediaURL = "/media/"
	conf.RabbitMQ.Exchange = "yatube_events"
	return conf
}

// LoadConfig читает .env (если есть), yaml-файл и переменные окружения.
// Пустой путь означает конфигурацию по умолчанию.
func LoadConfig(filePath string) error {
	_ = godotenv.Load()

	conf := Defaults()
	if filePath != "" {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return err
		}
		if err = yaml.Unmarshal(data, conf); err != nil {
			return fmt.Errorf("failed to parse %s: %w", filePath, err)
		}
	}
	applyEnv(conf)
	if err := conf.Validate(); err != nil {
		return err
	}
	AppConfig = conf
	return nil
}

// CacheTTL - время жизни страницы в кеше
func (c *ConfigSchema) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

func (c *ConfigSchema) Validate() error {
	switch c.Databases.Driver {
	case DriverPostgres:
		if c.Databases.Master.Host == "" {
			return fmt.Errorf("master database host is missing")
		}
	case DriverSQLite:
		if c.Databases.SQLite == "" {
			return fmt.Errorf("sqlite dsn is missing")
		}
	default:
		return fmt.Errorf("unknown db driver %q", c.Databases.Driver)
	}
	if c.Cache.Backend != CacheBackendRedis && c.Cache.Backend != CacheBackendMemory {
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.TTLSeconds <= 0 {
		return fmt.Errorf("cache ttl must be positive")
	}
	if c.Pagination.PostsPerPage <= 0 {
		return fmt.Errorf("posts_per_page must be positive")
	}
	if c.Feed.Order != OrderNewestFirst && c.Feed.Order != OrderOldestFirst {
		return fmt.Errorf("unknown feed order %q", c.Feed.Order)
	}
	if c.Storage.Backend == StorageBackendS3 && c.Storage.Bucket == "" {
		return fmt.Errorf("s3 bucket is missing")
	}
	return nil
}

func applyEnv(conf *ConfigSchema) {
	if v := os.Getenv("DB_HOST"); v != "" {
		conf.Databases.Master.Host = v
		conf.Databases.Driver = DriverPostgres
	}
	if v, ok := envInt("DB_PORT"); ok {
		conf.Databases.Master.Port = v
	}
	if v := os.Getenv("DB_USER"); v != "" {
		conf.Databases.Master.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		conf.Databases.Master.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		conf.Databases.Master.DBName = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		conf.Redis.URL = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		conf.Redis.Host = v
	}
	if v, ok := envInt("REDIS_PORT"); ok {
		conf.Redis.Port = v
	}
	if v := os.Getenv("RABBITMQ_URL"); v != "" {
		conf.RabbitMQ.URL = v
	}
	if v := os.Getenv("AWS_BUCKET_NAME"); v != "" {
		conf.Storage.Bucket = v
	}
	if v := os.Getenv("AWS_REGION"); v != "" {
		conf.Storage.Region = v
	}
}

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}
