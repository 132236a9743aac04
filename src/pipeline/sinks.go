package pipeline

import (
	"context"
	"fmt"

	"circle-stats/src/broker"
	"circle-stats/src/config"
	"circle-stats/src/logger"
	"circle-stats/src/stats"
	"circle-stats/src/store"
	"circle-stats/src/upload"
)

// FileUploader copies output files to remote storage.
type FileUploader interface {
	UploadFiles(paths []string) ([]string, error)
}

// Sinks delivers finished runs to the destinations enabled in the environment.
// A nil field means the sink is disabled. A zero Sinks value logs nothing.
type Sinks struct {
	Store    store.Store
	Broker   broker.Broker
	Uploader FileUploader
	log      logger.Logger
}

// EnabledSinks lists the sinks the configuration turns on.
func EnabledSinks(cfg *config.Config) []string {
	var names []string
	if cfg.PostgresDSN != "" {
		names = append(names, "postgres")
	}
	if len(cfg.KafkaBrokers) > 0 {
		names = append(names, "redpanda")
	}
	if cfg.S3Bucket != "" {
		names = append(names, "s3")
	}
	return names
}

// NewSinks connects every enabled sink. On failure, sinks already opened are closed.
func NewSinks(ctx context.Context, cfg *config.Config, log logger.Logger) (*Sinks, error) {
	s := &Sinks{log: log}

	if cfg.PostgresDSN != "" {
		pg, err := store.NewPostgresStore(cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to create Postgres store: %w", err)
		}
		if err := pg.Migrate(ctx); err != nil {
			pg.Close()
			return nil, err
		}
		s.Store = pg
	}

	if len(cfg.KafkaBrokers) > 0 {
		rp, err := broker.NewRedpandaBroker(cfg.KafkaBrokers)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to create Redpanda broker: %w", err)
		}
		s.Broker = rp
	}

	if cfg.S3Bucket != "" {
		u, err := upload.NewUploader(cfg.S3Region, cfg.S3Bucket, cfg.S3Prefix)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to create S3 uploader: %w", err)
		}
		s.Uploader = u
	}

	return s, nil
}

// NewSinksWith wraps already constructed sinks.
func NewSinksWith(st store.Store, b broker.Broker, u FileUploader, log logger.Logger) *Sinks {
	return &Sinks{Store: st, Broker: b, Uploader: u, log: log}
}

// Deliver saves, publishes and uploads a run, in that order, stopping at the first failure.
func (s *Sinks) Deliver(ctx context.Context, run store.RunInfo, result *stats.Result, files []string) error {
	log := s.log
	if log == nil {
		log = logger.NewSilentLogger()
	}

	if s.Store != nil {
		if err := s.Store.SaveRun(ctx, run, result); err != nil {
			return fmt.Errorf("failed to save run %s: %w", run.RunID, err)
		}
		log.Info("Saved run %s", run.RunID)
	}

	if s.Broker != nil {
		if err := broker.PublishResult(ctx, s.Broker, run.RunID, result); err != nil {
			return err
		}
		log.Info("Published %d builds and %d tests", len(result.Builds), len(result.Tests))
	}

	if s.Uploader != nil {
		uris, err := s.Uploader.UploadFiles(files)
		if err != nil {
			return err
		}
		for _, uri := range uris {
			log.Info("Uploaded %s", uri)
		}
	}

	return nil
}

// Close shuts down every open sink.
func (s *Sinks) Close() error {
	var firstErr error
	if s.Broker != nil {
		if err := s.Broker.Close(); err != nil {
			firstErr = err
		}
	}
	if s.Store != nil {
		if err := s.Store.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
