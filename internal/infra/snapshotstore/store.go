// Package snapshotstore provides durable backends for queue snapshots.
package snapshotstore

import (
	"io"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"github.com/osa030/playq/internal/app/playback"
	"github.com/osa030/playq/internal/domain/snapshot"
)

// Store is a snapshot backend that holds resources until closed.
type Store interface {
	playback.Store
	io.Closer
}

// FileStoreConfig represents settings for the "json" backend.
type FileStoreConfig struct {
	Path string `yaml:"path" mapstructure:"path" default:"playq_state.json" validate:"required"`
}

// BoltStoreConfig represents settings for the "bolt" backend.
type BoltStoreConfig struct {
	Path      string `yaml:"path" mapstructure:"path" default:"playq.db" validate:"required"`
	Bucket    string `yaml:"bucket" mapstructure:"bucket" default:"playq" validate:"required"`
	Key       string `yaml:"key" mapstructure:"key" default:"queue" validate:"required"`
	TimeoutMs int    `yaml:"timeout_ms" mapstructure:"timeout_ms" default:"1000" validate:"gte=0"`
}

// New creates the backend named by backend ("json", "bolt" or "memory").
func New(backend string, settings map[string]any) (Store, error) {
	zlog.Debug().Msgf("creating snapshot store: backend=%s settings=%+v", backend, settings)

	switch backend {
	case "json":
		var cfg FileStoreConfig
		if err := decodeSettings(settings, &cfg); err != nil {
			return nil, errors.Wrapf(err, "snapshot backend %s", backend)
		}
		return NewFileStore(afero.NewOsFs(), cfg.Path), nil

	case "bolt":
		var cfg BoltStoreConfig
		if err := decodeSettings(settings, &cfg); err != nil {
			return nil, errors.Wrapf(err, "snapshot backend %s", backend)
		}
		return OpenBoltStore(cfg.Path, cfg.Bucket, cfg.Key, time.Duration(cfg.TimeoutMs)*time.Millisecond)

	case "memory":
		return NewMemoryStore(), nil

	default:
		return nil, errors.Newf("unsupported snapshot backend: %s", backend)
	}
}

func decodeSettings(settings map[string]any, out any) error {
	if err := mapstructure.Decode(settings, out); err != nil {
		return errors.Wrap(err, "failed to decode settings")
	}
	if err := defaults.Set(out); err != nil {
		return errors.Wrap(err, "failed to set defaults")
	}
	if err := validator.New().Struct(out); err != nil {
		return errors.Wrap(err, "validation failed")
	}
	return nil
}

// decode turns a stored record into a snapshot. Corrupt records are logged and treated
// as no session.
func decode(data []byte, where string) (*snapshot.Snapshot, error) {
	s, err := snapshot.Unmarshal(data)
	if errors.Is(err, snapshot.ErrCorrupt) {
		zlog.Warn().Err(err).Str("store", where).Msg("ignoring unreadable snapshot")
		return nil, nil
	}
	return s, err
}
