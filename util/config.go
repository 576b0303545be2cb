package util

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Environment       string        `mapstructure:"ENVIRONMENT"`
	DBSource          string        `mapstructure:"DB_SOURCE"`
	MigrationURL      string        `mapstructure:"MIGRATION_URL"`
	HTTPServerAddress string        `mapstructure:"HTTP_SERVER_ADDRESS"`
	RedisAddress      string        `mapstructure:"REDIS_ADDRESS"`
	TemplatePaths     []string      `mapstructure:"TEMPLATE_PATHS"`
	InputEncoding     string        `mapstructure:"INPUT_ENCODING"`
	OutputEncoding    string        `mapstructure:"OUTPUT_ENCODING"`
	IndentString      string        `mapstructure:"INDENT_STRING"`
	TemplateCacheSize int           `mapstructure:"TEMPLATE_CACHE_SIZE"`
	AutoReload        bool          `mapstructure:"AUTO_RELOAD"`
	RendererCacheTTL  time.Duration `mapstructure:"RENDERER_CACHE_TTL"`
	AllowedOrigins    []string      `mapstructure:"ALLOWED_ORIGINS"`
}

func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("HTTP_SERVER_ADDRESS", "0.0.0.0:8080")
	v.SetDefault("OUTPUT_ENCODING", "utf-8")
	v.SetDefault("INPUT_ENCODING", "utf-8")
	v.SetDefault("INDENT_STRING", "    ")
	v.SetDefault("TEMPLATE_CACHE_SIZE", 100)
	v.SetDefault("RENDERER_CACHE_TTL", 24*time.Hour)

	err = v.ReadInConfig()
	if err != nil {
		return
	}

	err = v.Unmarshal(&config)
	if err != nil {
		return
	}

	// env files keep lists as comma separated strings
	config.TemplatePaths = SplitList(config.TemplatePaths)
	config.AllowedOrigins = SplitList(config.AllowedOrigins)

	err = config.Validate()
	return
}

// Validate checks the settings the service cannot start without.
func (config *Config) Validate() error {
	if config.HTTPServerAddress == "" {
		return fmt.Errorf("HTTP_SERVER_ADDRESS is required")
	}
	if config.TemplateCacheSize < 1 {
		return fmt.Errorf("TEMPLATE_CACHE_SIZE must be positive, got %d", config.TemplateCacheSize)
	}
	if config.RendererCacheTTL < 0 {
		return fmt.Errorf("RENDERER_CACHE_TTL must not be negative")
	}
	return nil
}

// SplitList splits every comma separated item of list, dropping empty entries.
func SplitList(list []string) []string {
	var out []string
	for _, item := range list {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
