package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type Config struct {
	Mode   string `mapstructure:"mode"`
	Dotenv string `mapstructure:"dotenv"`
	Server struct {
		HTTPPort string        `mapstructure:"HTTPPort"`
		Timeout  time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
	Fetch    FetchConfig    `mapstructure:"fetch"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Upstream UpstreamConfig `mapstructure:"upstream"`
}

// FetchConfig holds every knob of the external-data fetch core. The photo and
// review caps are configuration rather than literals since upstream payloads
// carry far more than we ever surface.
type FetchConfig struct {
	CacheTTLSeconds    int           `mapstructure:"cacheTTL"`
	ConcurrentRequests int           `mapstructure:"concurrentRequests"`
	RateLimitPerMinute int           `mapstructure:"rateLimitPerMinute"`
	RateLimitPerDay    int           `mapstructure:"rateLimitPerDay"`
	RequestTimeout     time.Duration `mapstructure:"requestTimeout"`
	ConnectTimeout     time.Duration `mapstructure:"connectTimeout"`
	IdleConnTTL        time.Duration `mapstructure:"idleConnTTL"`
	RetryMaxAttempts   int           `mapstructure:"retryMaxAttempts"`
	RetryMinWait       time.Duration `mapstructure:"retryMinWait"`
	RetryMaxWait       time.Duration `mapstructure:"retryMaxWait"`
	BatchSize          int           `mapstructure:"batchSize"`
	BatchPause         time.Duration `mapstructure:"batchPause"`
	MaxPhotos          int           `mapstructure:"maxPhotos"`
	MaxReviews         int           `mapstructure:"maxReviews"`
	PhotoMaxWidthPx    int           `mapstructure:"photoMaxWidthPx"`
}

// CacheTTL returns the default cache entry lifetime.
func (f FetchConfig) CacheTTL() time.Duration {
	return time.Duration(f.CacheTTLSeconds) * time.Second
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type UpstreamConfig struct {
	PlacesBaseURL  string `mapstructure:"placesBaseURL"`
	GeocodeBaseURL string `mapstructure:"geocodeBaseURL"`
	WeatherBaseURL string `mapstructure:"weatherBaseURL"`

	// API keys come from the environment, never from config files.
	MapsAPIKey    string `mapstructure:"-"`
	WeatherAPIKey string `mapstructure:"-"`
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	// Add file-based config paths
	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	// Try to load file-based config
	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %s", err)
		}
	}

	// Environment overrides for the fetch core quotas
	v.SetDefault("fetch.cacheTTL", 3600)
	v.SetDefault("fetch.concurrentRequests", 10)
	_ = v.BindEnv("fetch.cacheTTL", "CACHE_TTL")
	_ = v.BindEnv("fetch.concurrentRequests", "CONCURRENT_REQUESTS")
	_ = v.BindEnv("fetch.rateLimitPerMinute", "RATE_LIMIT_PER_MINUTE")
	_ = v.BindEnv("fetch.rateLimitPerDay", "RATE_LIMIT_PER_DAY")
	_ = v.BindEnv("fetch.batchSize", "BATCH_SIZE")
	_ = v.BindEnv("fetch.batchPause", "BATCH_PAUSE")
	_ = v.BindEnv("fetch.maxPhotos", "MAX_PHOTOS")
	_ = v.BindEnv("fetch.maxReviews", "MAX_REVIEWS")
	_ = v.BindEnv("fetch.retryMaxAttempts", "RETRY_MAX_ATTEMPTS")
	_ = v.BindEnv("fetch.retryMinWait", "RETRY_MIN_WAIT")
	_ = v.BindEnv("fetch.retryMaxWait", "RETRY_MAX_WAIT")
	_ = v.BindEnv("server.HTTPPort", "HTTP_PORT")
	_ = v.BindEnv("redis.addr", "REDIS_ADDR")
	_ = v.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("redis.db", "REDIS_DB")

	// Unmarshal the config into the Config struct
	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %s", err)
	}

	config.Upstream.MapsAPIKey = os.Getenv("GOOGLE_MAPS_API_KEY")
	config.Upstream.WeatherAPIKey = os.Getenv("GOOGLE_WEATHER_API_KEY")

	fmt.Println("Successfully loaded app configs...")
	return config, nil
}
