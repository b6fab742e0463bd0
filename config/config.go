package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type (
	Config struct {
		HTTP            HTTP
		Log             Log
		Kafka           Kafka
		KafkaController KafkaController
		Mapper          Mapper
		DeadLetter      DeadLetter
		Swagger         Swagger
	}

	HTTP struct {
		Port           string        `env:"HTTP_PORT,required"`
		UsePreforkMode bool          `env:"HTTP_USE_PREFORK_MODE" envDefault:"false"`
		BodyLimit      int           `env:"HTTP_BODY_LIMIT" envDefault:"33554432"`
		HealthTimeout  time.Duration `env:"HTTP_HEALTH_TIMEOUT" envDefault:"2s"`
	}

	Log struct {
		Level string `env:"LOG_LEVEL,required"`
	}

	Kafka struct {
		Brokers       []string `env:"KAFKA_BROKERS,required"`
		GroupID       string   `env:"KAFKA_GROUP_ID,required"`
		InboundTopic  string   `env:"KAFKA_INBOUND_TOPIC" envDefault:"NativeCmsPublicationEvents"`
		OutboundTopic string   `env:"KAFKA_OUTBOUND_TOPIC" envDefault:"CmsPublicationEvents"`
	}

	KafkaController struct {
		CommitTimeout     time.Duration `env:"KAFKA_CONTROLLER_COMMIT_TIMEOUT" envDefault:"2s"`
		ProcessTimeout    time.Duration `env:"KAFKA_CONTROLLER_PROCESS_TIMEOUT" envDefault:"15s"` // маппинг и публикация
		DeadLetterTimeout time.Duration `env:"KAFKA_CONTROLLER_DEAD_LETTER_TIMEOUT" envDefault:"5s"`
		RetryBackoff      time.Duration `env:"KAFKA_CONTROLLER_RETRY_BACKOFF" envDefault:"1s"` // пауза перед повтором, если dead letter не записался
		PartitionBuffer   int           `env:"KAFKA_CONTROLLER_PARTITION_BUFFER" envDefault:"16"`
		ShutdownTimeout   time.Duration `env:"KAFKA_CONTROLLER_SHUTDOWN_TIMEOUT" envDefault:"5s"`
	}

	Mapper struct {
		SystemCode       string `env:"MAPPER_SYSTEM_CODE" envDefault:"methode-web-pub"`
		ContentType      string `env:"MAPPER_CONTENT_TYPE" envDefault:"Image"`
		ContentURIPrefix string `env:"MAPPER_CONTENT_URI_PREFIX" envDefault:"http://methode-image-set-mapper.svc.ft.com/image-set/model"`
		DefaultMediaType string `env:"MAPPER_DEFAULT_MEDIA_TYPE" envDefault:"image/jpeg"`
	}

	DeadLetter struct {
		Enabled bool `env:"DEAD_LETTER_ENABLED" envDefault:"false"`

		PGPoolMax int    `env:"PG_POOL_MAX" envDefault:"2"`
		PGURL     string `env:"PG_URL"`

		S3Endpoint       string        `env:"S3_ENDPOINT"`
		S3AccessKey      string        `env:"S3_ACCESS_KEY"`
		S3SecretKey      string        `env:"S3_SECRET_KEY"`
		S3Bucket         string        `env:"S3_BUCKET" envDefault:"image-set-mapper"`
		S3CfgLoadTimeout time.Duration `env:"S3_LOAD_CFG_TIMEOUT" envDefault:"10s"`

		PollInterval        time.Duration `env:"DEAD_LETTER_POLL_INTERVAL" envDefault:"30s"`
		MarkFailedInterval  time.Duration `env:"DEAD_LETTER_MARK_FAILED_INTERVAL" envDefault:"2m"`
		CleanupInterval     time.Duration `env:"DEAD_LETTER_CLEANUP_INTERVAL" envDefault:"24h"`
		Retention           time.Duration `env:"DEAD_LETTER_RETENTION" envDefault:"168h"`
		ProcessBatchTimeout time.Duration `env:"DEAD_LETTER_PROCESS_BATCH_TIMEOUT" envDefault:"30s"`
		StatusTimeout       time.Duration `env:"DEAD_LETTER_STATUS_TIMEOUT" envDefault:"5s"`
		StaleAfter          time.Duration `env:"DEAD_LETTER_STALE_AFTER" envDefault:"10m"` // сколько письмо может висеть в processing
		ShutdownTimeout     time.Duration `env:"DEAD_LETTER_SHUTDOWN_TIMEOUT" envDefault:"5s"`
		BatchSize           int           `env:"DEAD_LETTER_BATCH_SIZE" envDefault:"50"`
		MaxRetries          int           `env:"DEAD_LETTER_MAX_RETRIES" envDefault:"5"`
	}

	Swagger struct {
		Enabled bool `env:"SWAGGER_ENABLED" envDefault:"false"`
	}
)

func New() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if !c.DeadLetter.Enabled {
		return nil
	}

	if c.DeadLetter.PGURL == "" {
		return fmt.Errorf("PG_URL is required when DEAD_LETTER_ENABLED")
	}
	if c.DeadLetter.S3Endpoint == "" || c.DeadLetter.S3AccessKey == "" || c.DeadLetter.S3SecretKey == "" {
		return fmt.Errorf("S3_ENDPOINT, S3_ACCESS_KEY and S3_SECRET_KEY are required when DEAD_LETTER_ENABLED")
	}
	if c.DeadLetter.StaleAfter <= c.DeadLetter.ProcessBatchTimeout+c.DeadLetter.StatusTimeout {
		return fmt.Errorf("DEAD_LETTER_STALE_AFTER must exceed the batch and status timeouts")
	}

	return nil
}
