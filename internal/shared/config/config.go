package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Port            string
	CORSAllowOrigin []string
	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	SSEKMSKeyID     string
	DatabaseURL     string
	Env             string
	JWTSecret       string
	LogLevel        string
	LogFormat       string

	Engine EngineConfig

	DimensionDedup       string
	AnalyzeRatePerMinute int
	MaxResumeUploadBytes int64
}

// EngineConfig describes how to reach the external analysis engine.
type EngineConfig struct {
	BaseURL         string
	APIKey          string
	Mode            string
	TimeoutResume   time.Duration
	TimeoutJD       time.Duration
	TimeoutFit      time.Duration
	TimeoutOneClick time.Duration
	RetryAttempts   int
	RetryBaseDelay  time.Duration
}

var defaults = map[string]any{
	"port":                       "8080",
	"env":                        "dev",
	"cors_allow_origins":         "http://localhost:3000",
	"object_store":               "local",
	"local_store_dir":            "./data",
	"log_level":                  "info",
	"log_format":                 "json",
	"engine_mode":                "combined",
	"engine_timeout_resume":      "30s",
	"engine_timeout_jd":          "30s",
	"engine_timeout_fit":         "120s",
	"engine_timeout_oneclick":    "180s",
	"engine_retry_attempts":      1,
	"engine_retry_base_delay":    "300ms",
	"fit_dimension_dedup":        "all",
	"rate_limit_analyze_per_min": 10,
	"max_resume_upload_bytes":    10 << 20,
}

// Load reads configuration from local env files, the process environment and
// an optional FIT_CONFIG file. Environment values win over the file.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()
	if file := strings.TrimSpace(os.Getenv("FIT_CONFIG")); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			log.Printf("config file %s not loaded: %v", file, err)
		}
	}
	return v
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) Config {
	env := normalizeEnv(v.GetString("env"))
	dbURL := strings.TrimSpace(v.GetString("database_url"))
	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	return Config{
		Port:            v.GetString("port"),
		CORSAllowOrigin: splitAndTrim(v.GetString("cors_allow_origins")),
		ObjectStoreType: normalizeStoreType(v.GetString("object_store")),
		LocalStoreDir:   v.GetString("local_store_dir"),
		AWSRegion:       v.GetString("aws_region"),
		S3Bucket:        v.GetString("s3_bucket"),
		S3Prefix:        v.GetString("s3_prefix"),
		SSEKMSKeyID:     v.GetString("sse_kms_key_id"),
		DatabaseURL:     dbURL,
		Env:             env,
		JWTSecret:       v.GetString("jwt_secret"),
		LogLevel:        strings.ToLower(v.GetString("log_level")),
		LogFormat:       strings.ToLower(v.GetString("log_format")),
		Engine: EngineConfig{
			BaseURL:         v.GetString("engine_base_url"),
			APIKey:          v.GetString("engine_api_key"),
			Mode:            strings.ToLower(v.GetString("engine_mode")),
			TimeoutResume:   v.GetDuration("engine_timeout_resume"),
			TimeoutJD:       v.GetDuration("engine_timeout_jd"),
			TimeoutFit:      v.GetDuration("engine_timeout_fit"),
			TimeoutOneClick: v.GetDuration("engine_timeout_oneclick"),
			RetryAttempts:   v.GetInt("engine_retry_attempts"),
			RetryBaseDelay:  v.GetDuration("engine_retry_base_delay"),
		},
		DimensionDedup:       v.GetString("fit_dimension_dedup"),
		AnalyzeRatePerMinute: v.GetInt("rate_limit_analyze_per_min"),
		MaxResumeUploadBytes: v.GetInt64("max_resume_upload_bytes"),
	}
}

// IsDevLike reports whether dev conveniences (guest ids, memory repos) apply.
func (c Config) IsDevLike() bool {
	return c.Env == "dev" || c.Env == "local"
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	if strings.EqualFold(strings.TrimSpace(raw), "s3") {
		return "s3"
	}
	return "local"
}
