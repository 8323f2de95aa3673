package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Источники границ регионов
const (
	BoundariesSourceGeoJSON   = "geojson"
	BoundariesSourceShapefile = "shapefile"
	BoundariesSourceOSM       = "osm"
)

// Провайдеры поиска ближайшей дороги
const (
	RoadsProviderOverpass = "overpass"
	RoadsProviderOSM      = "osm"
	RoadsProviderNone     = "none"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	OSMDB      DatabaseConfig
	Redis      RedisConfig
	Cache      CacheConfig
	Log        LogConfig
	Boundaries BoundariesConfig
	Sampler    SamplerConfig
	Roads      RoadsConfig
	Worker     WorkerConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

type DatabaseConfig struct {
	Enabled         bool
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	BoundariesCacheTTL time.Duration
	RoadsCacheTTL      time.Duration
	StatsCacheTTL      time.Duration
}

type LogConfig struct {
	Level string
}

// BoundariesConfig описывает источник набора границ (загружается один раз на процесс)
type BoundariesConfig struct {
	Source         string
	Path           string // путь к файлу или http(s) URL
	NameProperty   string
	StatusProperty string
	ParentProperty string
	AdminLevel     int
}

type SamplerConfig struct {
	MaxAttempts int
}

// RoadsConfig - параметры поиска ближайшей дороги с расширяющимся радиусом
type RoadsConfig struct {
	Provider       string
	BaseURL        string
	RequestTimeout int // секунды
	InitialRadius  float64
	RadiusFactor   float64
	MaxRadius      float64
	MaxAttempts    int
}

type WorkerConfig struct {
	Enabled       bool
	ConsumerGroup string
	MaxRetries    int
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// .env необязателен, переменные окружения имеют приоритет
		if !errors.Is(err, os.ErrNotExist) {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("API_HOST"),
			Port: viper.GetInt("API_PORT"),
			Env:  viper.GetString("API_ENV"),
		},
		Database: loadDatabase("DB"),
		OSMDB:    loadDatabase("OSM_DB"),
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			BoundariesCacheTTL: time.Duration(viper.GetInt("BOUNDARIES_CACHE_TTL")) * time.Second,
			RoadsCacheTTL:      time.Duration(viper.GetInt("ROADS_CACHE_TTL")) * time.Second,
			StatsCacheTTL:      time.Duration(viper.GetInt("STATS_CACHE_TTL")) * time.Second,
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		Boundaries: BoundariesConfig{
			Source:         strings.ToLower(viper.GetString("BOUNDARIES_SOURCE")),
			Path:           viper.GetString("BOUNDARIES_PATH"),
			NameProperty:   viper.GetString("BOUNDARIES_NAME_PROPERTY"),
			StatusProperty: viper.GetString("BOUNDARIES_STATUS_PROPERTY"),
			ParentProperty: viper.GetString("BOUNDARIES_PARENT_PROPERTY"),
			AdminLevel:     viper.GetInt("BOUNDARIES_ADMIN_LEVEL"),
		},
		Sampler: SamplerConfig{
			MaxAttempts: viper.GetInt("SAMPLER_MAX_ATTEMPTS"),
		},
		Roads: RoadsConfig{
			Provider:       strings.ToLower(viper.GetString("ROADS_PROVIDER")),
			BaseURL:        viper.GetString("ROADS_BASE_URL"),
			RequestTimeout: viper.GetInt("ROADS_REQUEST_TIMEOUT"),
			InitialRadius:  viper.GetFloat64("ROADS_INITIAL_RADIUS"),
			RadiusFactor:   viper.GetFloat64("ROADS_RADIUS_FACTOR"),
			MaxRadius:      viper.GetFloat64("ROADS_MAX_RADIUS"),
			MaxAttempts:    viper.GetInt("ROADS_MAX_ATTEMPTS"),
		},
		Worker: WorkerConfig{
			Enabled:       viper.GetBool("WORKER_ENABLED"),
			ConsumerGroup: viper.GetString("WORKER_CONSUMER_GROUP"),
			MaxRetries:    viper.GetInt("WORKER_MAX_RETRIES"),
		},
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadDatabase(prefix string) DatabaseConfig {
	key := func(name string) string { return prefix + "_" + name }

	return DatabaseConfig{
		Enabled:         viper.GetBool(key("ENABLED")),
		Host:            viper.GetString(key("HOST")),
		Port:            viper.GetInt(key("PORT")),
		User:            viper.GetString(key("USER")),
		Password:        viper.GetString(key("PASSWORD")),
		DBName:          viper.GetString(key("NAME")),
		SSLMode:         viper.GetString(key("SSLMODE")),
		MaxConns:        viper.GetInt(key("MAX_CONNS")),
		MaxIdleConns:    viper.GetInt(key("MAX_IDLE_CONNS")),
		ConnMaxLifetime: time.Duration(viper.GetInt(key("CONN_MAX_LIFETIME"))) * time.Second,
		ConnMaxIdleTime: time.Duration(viper.GetInt(key("CONN_MAX_IDLE_TIME"))) * time.Second,
	}
}

// applyDefaults выставляет значения по умолчанию для незаданных параметров
func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.Env == "" {
		c.Server.Env = "development"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}

	for _, db := range []*DatabaseConfig{&c.Database, &c.OSMDB} {
		if db.SSLMode == "" {
			db.SSLMode = "disable"
		}
		if db.MaxConns == 0 {
			db.MaxConns = 10
		}
		if db.MaxIdleConns == 0 {
			db.MaxIdleConns = 5
		}
	}

	if c.Redis.Host == "" {
		c.Redis.Host = "localhost"
	}
	if c.Redis.Port == 0 {
		c.Redis.Port = 6379
	}

	if c.Cache.BoundariesCacheTTL == 0 {
		c.Cache.BoundariesCacheTTL = 24 * time.Hour
	}
	if c.Cache.RoadsCacheTTL == 0 {
		c.Cache.RoadsCacheTTL = time.Hour
	}
	if c.Cache.StatsCacheTTL == 0 {
		c.Cache.StatsCacheTTL = 5 * time.Minute
	}

	if c.Boundaries.Source == "" {
		c.Boundaries.Source = BoundariesSourceGeoJSON
	}
	if c.Boundaries.NameProperty == "" {
		c.Boundaries.NameProperty = "name"
	}
	if c.Boundaries.StatusProperty == "" {
		c.Boundaries.StatusProperty = "status"
	}
	if c.Boundaries.ParentProperty == "" {
		c.Boundaries.ParentProperty = "color_code"
	}
	if c.Boundaries.AdminLevel == 0 {
		c.Boundaries.AdminLevel = 2
	}

	if c.Sampler.MaxAttempts == 0 {
		c.Sampler.MaxAttempts = 1_000_000
	}

	if c.Roads.Provider == "" {
		c.Roads.Provider = RoadsProviderOverpass
	}
	if c.Roads.BaseURL == "" {
		c.Roads.BaseURL = "https://overpass-api.de/api"
	}
	if c.Roads.RequestTimeout == 0 {
		c.Roads.RequestTimeout = 30
	}
	if c.Roads.InitialRadius == 0 {
		c.Roads.InitialRadius = 1000
	}
	if c.Roads.RadiusFactor == 0 {
		c.Roads.RadiusFactor = 2
	}
	if c.Roads.MaxRadius == 0 {
		c.Roads.MaxRadius = 50000
	}
	if c.Roads.MaxAttempts == 0 {
		c.Roads.MaxAttempts = 6
	}

	if c.Worker.ConsumerGroup == "" {
		c.Worker.ConsumerGroup = "random-spot-workers"
	}
	if c.Worker.MaxRetries == 0 {
		c.Worker.MaxRetries = 3
	}
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	switch c.Boundaries.Source {
	case BoundariesSourceGeoJSON, BoundariesSourceShapefile:
		if c.Boundaries.Path == "" {
			return fmt.Errorf("BOUNDARIES_PATH is required for source %q", c.Boundaries.Source)
		}
	case BoundariesSourceOSM:
		if c.OSMDB.Host == "" {
			return fmt.Errorf("OSM_DB_HOST is required for source %q", c.Boundaries.Source)
		}
	default:
		return fmt.Errorf("unknown BOUNDARIES_SOURCE %q", c.Boundaries.Source)
	}

	switch c.Roads.Provider {
	case RoadsProviderOverpass, RoadsProviderNone:
	case RoadsProviderOSM:
		if c.OSMDB.Host == "" {
			return fmt.Errorf("OSM_DB_HOST is required for roads provider %q", c.Roads.Provider)
		}
	default:
		return fmt.Errorf("unknown ROADS_PROVIDER %q", c.Roads.Provider)
	}

	if c.Sampler.MaxAttempts < 0 {
		return fmt.Errorf("SAMPLER_MAX_ATTEMPTS must be positive, got %d", c.Sampler.MaxAttempts)
	}
	if c.Roads.InitialRadius <= 0 {
		return fmt.Errorf("ROADS_INITIAL_RADIUS must be positive, got %v", c.Roads.InitialRadius)
	}
	if c.Roads.MaxRadius <= 0 {
		return fmt.Errorf("ROADS_MAX_RADIUS must be positive, got %v", c.Roads.MaxRadius)
	}
	if c.Roads.RadiusFactor < 1 {
		return fmt.Errorf("ROADS_RADIUS_FACTOR must be >= 1, got %v", c.Roads.RadiusFactor)
	}

	return nil
}

// UsesOSMDatabase сообщает, нужно ли подключение к OSM PostGIS
func (c *Config) UsesOSMDatabase() bool {
	return c.Boundaries.Source == BoundariesSourceOSM || c.Roads.Provider == RoadsProviderOSM
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// DSN возвращает строку подключения к PostgreSQL
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host,
		c.Port,
		c.User,
		c.Password,
		c.DBName,
		c.SSLMode,
	)
}
