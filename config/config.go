package config

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"time"
)

// Date index backends
const (
	DateIndexNone     = "none"
	DateIndexDynamoDB = "dynamodb"
	DateIndexRedis    = "redis"
)

// DefaultFeishuBaseURL is the open API root used for tokens and bitable calls
const DefaultFeishuBaseURL = "https://open.feishu.cn/open-apis"

// Config holds everything main needs to wire the server
type Config struct {
	Port int

	FeishuBaseURL   string
	AppID           string
	AppSecret       string
	AppToken        string
	MatchTableID    string
	QuizTableID     string
	EventsTableID   string
	UpstreamTimeout time.Duration

	DateIndex      string
	DateIndexTable string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RedisIndexTTL  time.Duration

	AWSRegion    string
	S3BucketName string
}

// Load parses flags and falls back to environment variables.
// Secrets are only read from the environment.
func Load(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("dinnermatch", flag.ContinueOnError)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DateIndex, "index", "", "Date index backend (none, dynamodb or redis)")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 8080
		}
	}

	cfg.FeishuBaseURL = getString("FEISHU_BASE_URL", DefaultFeishuBaseURL)
	cfg.AppID = os.Getenv("FEISHU_APP_ID")
	cfg.AppSecret = os.Getenv("FEISHU_APP_SECRET")
	if cfg.AppID == "" || cfg.AppSecret == "" {
		return Config{}, errors.New("FEISHU_APP_ID and FEISHU_APP_SECRET required")
	}

	cfg.AppToken = os.Getenv("FEISHU_APP_TOKEN")
	cfg.MatchTableID = os.Getenv("FEISHU_TABLE_ID")
	if cfg.AppToken == "" || cfg.MatchTableID == "" {
		return Config{}, errors.New("FEISHU_APP_TOKEN and FEISHU_TABLE_ID required")
	}
	cfg.QuizTableID = getString("FEISHU_QUIZ_TABLE_ID", cfg.MatchTableID)
	cfg.EventsTableID = getString("FEISHU_EVENTS_TABLE_ID", cfg.MatchTableID)

	timeout, err := getDuration("UPSTREAM_TIMEOUT", 10*time.Second)
	if err != nil {
		return Config{}, err
	}
	cfg.UpstreamTimeout = timeout

	if cfg.DateIndex == "" {
		cfg.DateIndex = getString("DATE_INDEX", DateIndexNone)
	}
	switch cfg.DateIndex {
	case DateIndexNone, DateIndexDynamoDB, DateIndexRedis:
	default:
		return Config{}, errors.New("DATE_INDEX must be one of none, dynamodb, redis")
	}
	cfg.DateIndexTable = getString("DATE_INDEX_TABLE", "DailyMatchIndex")

	cfg.RedisAddr = getString("REDIS_ADDR", "localhost:6379")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		db, err := strconv.Atoi(dbStr)
		if err != nil {
			return Config{}, errors.New("invalid REDIS_DB env variable")
		}
		cfg.RedisDB = db
	}
	ttl, err := getDuration("REDIS_INDEX_TTL", 72*time.Hour)
	if err != nil {
		return Config{}, err
	}
	cfg.RedisIndexTTL = ttl

	cfg.AWSRegion = os.Getenv("AWS_REGION")
	cfg.S3BucketName = os.Getenv("S3_BUCKET_NAME")

	return cfg, nil
}

func getString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, errors.New("invalid " + key + " env variable")
	}
	return d, nil
}
