package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/andreyxaxa/Image-Set-Mapper/config"
	kafkactrl "github.com/andreyxaxa/Image-Set-Mapper/internal/controller/kafka"
	"github.com/andreyxaxa/Image-Set-Mapper/internal/controller/restapi"
	"github.com/andreyxaxa/Image-Set-Mapper/internal/controller/worker/redrive"
	"github.com/andreyxaxa/Image-Set-Mapper/internal/entity"
	infrakafka "github.com/andreyxaxa/Image-Set-Mapper/internal/infrastructure/kafka"
	"github.com/andreyxaxa/Image-Set-Mapper/internal/repo/persistent"
	"github.com/andreyxaxa/Image-Set-Mapper/internal/usecase"
	"github.com/andreyxaxa/Image-Set-Mapper/internal/usecase/deadletter"
	"github.com/andreyxaxa/Image-Set-Mapper/internal/usecase/extractor"
	"github.com/andreyxaxa/Image-Set-Mapper/internal/usecase/imageset"
	"github.com/andreyxaxa/Image-Set-Mapper/internal/usecase/mapper"
	"github.com/andreyxaxa/Image-Set-Mapper/internal/usecase/publisher"
	"github.com/andreyxaxa/Image-Set-Mapper/internal/usecase/validation"
	"github.com/andreyxaxa/Image-Set-Mapper/pkg/httpserver"
	"github.com/andreyxaxa/Image-Set-Mapper/pkg/kafka/consumer"
	"github.com/andreyxaxa/Image-Set-Mapper/pkg/kafka/producer"
	"github.com/andreyxaxa/Image-Set-Mapper/pkg/logger"
	"github.com/andreyxaxa/Image-Set-Mapper/pkg/postgres"
	"github.com/andreyxaxa/Image-Set-Mapper/pkg/s3client"
	"github.com/andreyxaxa/Image-Set-Mapper/pkg/uuidutils"
)

func Run(cfg *config.Config) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Logger
	l := logger.New(cfg.Log.Level)

	originSystemID := entity.SystemIDFromCode(cfg.Mapper.SystemCode)

	// Kafka Producer
	kafkaProducer, err := producer.New(ctx, cfg.Kafka.Brokers, cfg.Kafka.OutboundTopic)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - producer.New: %w", err))
	}
	eventProducer := infrakafka.NewEventProducer(kafkaProducer)
	defer eventProducer.Close()

	// Use-Case

	// image set use-case
	imageSetUseCase := imageset.New(
		originSystemID,
		validation.NewPublishingValidator(cfg.Mapper.ContentType, l),
		uuidutils.NewDeriver(uuidutils.ImageSet),
		mapper.New(
			extractor.New(cfg.Mapper.DefaultMediaType, l),
			mapper.ContentType(cfg.Mapper.ContentType),
		),
		publisher.New(eventProducer, originSystemID, cfg.Mapper.ContentURIPrefix, l),
		l,
	)

	// Repository, dead letter use-case, redrive worker
	var (
		deadLetterUseCase usecase.DeadLetterUseCase
		redriveWorker     *redrive.Redrive
	)
	if cfg.DeadLetter.Enabled {
		// s3
		s3Ctx, s3Cancel := context.WithTimeout(ctx, cfg.DeadLetter.S3CfgLoadTimeout)
		s3c, err := s3client.New(s3Ctx, cfg.DeadLetter.S3Endpoint, cfg.DeadLetter.S3AccessKey, cfg.DeadLetter.S3SecretKey,
			s3client.Bucket(cfg.DeadLetter.S3Bucket),
		)
		s3Cancel()
		if err != nil {
			l.Fatal(fmt.Errorf("app - Run - s3client.New: %w", err))
		}

		// postgres
		pg, err := postgres.New(cfg.DeadLetter.PGURL, postgres.MaxPoolSize(cfg.DeadLetter.PGPoolMax))
		if err != nil {
			l.Fatal(fmt.Errorf("app - Run - postgres.New: %w", err))
		}
		defer pg.Close()

		deadLetterUseCase = deadletter.New(
			persistent.NewPayloadRepo(s3c, s3c.DefaultBucket()),
			persistent.NewDeadLetterRepo(pg),
			pg,
			l,
			deadletter.Retention(cfg.DeadLetter.Retention),
			deadletter.StaleAfter(cfg.DeadLetter.StaleAfter),
		)

		redriveWorker = redrive.New(
			imageSetUseCase,
			deadLetterUseCase,
			l,
			redrive.PollInterval(cfg.DeadLetter.PollInterval),
			redrive.CleanupInterval(cfg.DeadLetter.CleanupInterval),
			redrive.MarkFailedInterval(cfg.DeadLetter.MarkFailedInterval),
			redrive.ProcessBatchTimeout(cfg.DeadLetter.ProcessBatchTimeout),
			redrive.StatusTimeout(cfg.DeadLetter.StatusTimeout),
			redrive.BatchSize(cfg.DeadLetter.BatchSize),
			redrive.MaxRetries(cfg.DeadLetter.MaxRetries),
		)
	}

	// Kafka Consumer
	kafkaConsumer, err := consumer.New(ctx, cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.InboundTopic)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - consumer.New: %w", err))
	}

	eventConsumer := infrakafka.NewEventConsumer(kafkaConsumer)

	// Kafka as Controller
	kafkaController := kafkactrl.New(
		imageSetUseCase,
		deadLetterUseCase,
		eventConsumer,
		l,
		kafkactrl.CommitTimeout(cfg.KafkaController.CommitTimeout),
		kafkactrl.ProcessTimeout(cfg.KafkaController.ProcessTimeout),
		kafkactrl.DeadLetterTimeout(cfg.KafkaController.DeadLetterTimeout),
		kafkactrl.RetryBackoff(cfg.KafkaController.RetryBackoff),
		kafkactrl.PartitionBuffer(cfg.KafkaController.PartitionBuffer),
	)

	// HTTP Server
	httpServer := httpserver.New(l,
		httpserver.Port(cfg.HTTP.Port),
		httpserver.Prefork(cfg.HTTP.UsePreforkMode),
		httpserver.BodyLimit(cfg.HTTP.BodyLimit),
	)
	restapi.NewRouter(httpServer.App, cfg, imageSetUseCase, []restapi.Check{
		{Name: "kafka-producer", Ping: eventProducer.Ping},
		{Name: "kafka-consumer", Ping: eventConsumer.Ping},
	}, l)

	// Start Components
	if redriveWorker != nil {
		err = redriveWorker.Start(ctx)
		if err != nil {
			l.Fatal(fmt.Errorf("app - Run - redriveWorker.Start: %w", err))
		}
	}
	err = kafkaController.Start(ctx)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - kafkaController.Start: %w", err))
	}
	httpServer.Start()

	// Waiting Signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		l.Info("app - Run - signal: %s", s.String())
	case err = <-httpServer.Notify():
		l.Error(fmt.Errorf("app - Run - httpServer.Notify: %w", err))
	}

	// Shutdown
	err = httpServer.Shutdown()
	if err != nil {
		l.Error(fmt.Errorf("app - Run - httpServer.Shutdown: %w", err))
	}

	kcShutdownCtx, kcShutdownCancel := context.WithTimeout(ctx, cfg.KafkaController.ShutdownTimeout)
	defer kcShutdownCancel()
	err = kafkaController.Shutdown(kcShutdownCtx)
	if err != nil {
		l.Error(fmt.Errorf("app - Run - kafkaController.Shutdown: %w", err))
	}

	if redriveWorker != nil {
		rdShutdownCtx, rdShutdownCancel := context.WithTimeout(ctx, cfg.DeadLetter.ShutdownTimeout)
		defer rdShutdownCancel()
		err = redriveWorker.Shutdown(rdShutdownCtx)
		if err != nil {
			l.Error(fmt.Errorf("app - Run - redriveWorker.Shutdown: %w", err))
		}
	}
}
