package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort string
	JWT     JWTConfig
	DB      DBConfig
	Redis   RedisConfig
	Kafka   KafkaConfig
	Storage StorageConfig
	Payroll PayrollConfig
	Leave   LeaveConfig
}

type JWTConfig struct {
	Secret string
}

type DBConfig struct {
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
	SSLMode    string
	MaxRetries int
}

type RedisConfig struct {
	Addr       string
	MaxRetries int
}

type KafkaConfig struct {
	Brokers       []string
	ConsumerGroup string
	OutboxPoll    time.Duration
	OutboxBatch   int
}

// StorageConfig targets any S3 compatible endpoint. An empty Bucket
// disables payslip archiving.
type StorageConfig struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
}

type PayrollConfig struct {
	StandardWorkDays        int
	BlockLockedRegeneration bool
	LegacyFallback          bool
	GenerateTimeout         time.Duration
	Workers                 int
	PayslipTokenTTL         time.Duration
	GenerateRatePerMinute   int
}

type LeaveConfig struct {
	AllowTerminalRedecide bool
	TypesCacheTTL         time.Duration
}

// Load reads the environment, optionally seeded from a .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppPort: getEnv("APP_PORT", "8080"),
		JWT: JWTConfig{
			Secret: os.Getenv("JWT_SECRET"),
		},
		DB: DBConfig{
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnv("DB_PORT", "5432"),
			User:       getEnv("DB_USER", "postgres"),
			Password:   os.Getenv("DB_PASSWORD"),
			Name:       getEnv("DB_NAME", "hris"),
			SSLMode:    getEnv("DB_SSLMODE", "disable"),
			MaxRetries: getInt("DB_MAX_RETRIES", 10),
		},
		Redis: RedisConfig{
			Addr:       getEnv("REDIS_ADDR", "localhost:6379"),
			MaxRetries: getInt("REDIS_MAX_RETRIES", 10),
		},
		Kafka: KafkaConfig{
			Brokers:       splitList(getEnv("KAFKA_BROKERS", "localhost:9092")),
			ConsumerGroup: getEnv("KAFKA_CONSUMER_GROUP", "hris-payroll"),
			OutboxPoll:    getDuration("OUTBOX_POLL_INTERVAL", 2*time.Second),
			OutboxBatch:   getInt("OUTBOX_BATCH_SIZE", 50),
		},
		Storage: StorageConfig{
			Endpoint:        os.Getenv("S3_ENDPOINT"),
			Region:          getEnv("S3_REGION", "auto"),
			Bucket:          os.Getenv("S3_BUCKET"),
			AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
		},
		Payroll: PayrollConfig{
			StandardWorkDays:        getInt("PAYROLL_STANDARD_WORK_DAYS", 26),
			BlockLockedRegeneration: getBool("PAYROLL_BLOCK_LOCKED_REGENERATION", true),
			LegacyFallback:          getBool("PAYROLL_LEGACY_FALLBACK", false),
			GenerateTimeout:         getDuration("PAYROLL_GENERATE_TIMEOUT", 2*time.Minute),
			Workers:                 getInt("PAYROLL_WORKERS", 8),
			PayslipTokenTTL:         getDuration("PAYSLIP_TOKEN_TTL", 5*time.Minute),
			GenerateRatePerMinute:   getInt("PAYROLL_GENERATE_RATE_PER_MINUTE", 6),
		},
		Leave: LeaveConfig{
			AllowTerminalRedecide: getBool("LEAVE_ALLOW_TERMINAL_REDECIDE", false),
			TypesCacheTTL:         getDuration("LEAVE_TYPES_CACHE_TTL", time.Hour),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Payroll.StandardWorkDays <= 0 {
		return fmt.Errorf("PAYROLL_STANDARD_WORK_DAYS must be positive, got %d", c.Payroll.StandardWorkDays)
	}
	if c.Payroll.Workers <= 0 {
		return fmt.Errorf("PAYROLL_WORKERS must be positive, got %d", c.Payroll.Workers)
	}
	if c.Payroll.PayslipTokenTTL <= 0 {
		return fmt.Errorf("PAYSLIP_TOKEN_TTL must be positive")
	}
	return nil
}

func (c DBConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
