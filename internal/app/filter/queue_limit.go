package filter

import (
	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"

	"github.com/osa030/playq/internal/domain/track"
)

// QueueLimitConfig represents the configuration for QueueLimitFilter.
// Zero disables the corresponding limit.
type QueueLimitConfig struct {
	MaxTracks  int     `yaml:"max_tracks" mapstructure:"max_tracks" validate:"gte=0"`
	MaxMinutes float64 `yaml:"max_minutes" mapstructure:"max_minutes" validate:"gte=0"`
}

// QueueLimitFilter stops adding tracks once the queue is full, by count or by total
// playing time.
type QueueLimitFilter struct {
	config QueueLimitConfig
}

// NewQueueLimitFilter creates a new QueueLimitFilter.
func NewQueueLimitFilter() *QueueLimitFilter {
	return &QueueLimitFilter{}
}

func (f *QueueLimitFilter) Name() string {
	return "queue_limit_filter"
}

func (f *QueueLimitFilter) Description() string {
	return "Checks if the queue has room for another track"
}

func (f *QueueLimitFilter) ReturnCodes() []string {
	return []string{"queue_full", "time_limit_exceeded"}
}

func (f *QueueLimitFilter) ValidateConfig(settings map[string]any) error {
	var config QueueLimitConfig

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &config,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create decoder")
	}
	if err := decoder.Decode(settings); err != nil {
		return errors.Wrap(err, "failed to decode settings")
	}

	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return errors.Wrap(err, "validation failed")
	}

	f.config = config
	return nil
}

func (f *QueueLimitFilter) AppliesTo(source Source) bool {
	// Limits apply to all tracks regardless of source
	return true
}

func (f *QueueLimitFilter) Check(t track.Track, queued []track.Track) Result {
	if f.config.MaxTracks > 0 && len(queued) >= f.config.MaxTracks {
		return Reject("queue_full")
	}

	if f.config.MaxMinutes > 0 {
		total := lo.SumBy(queued, func(q track.Track) int {
			return q.Duration
		}) + t.Duration
		if float64(total)/60 > f.config.MaxMinutes {
			return Reject("time_limit_exceeded")
		}
	}

	return Accept()
}

func init() {
	Register("queue_limit_filter", func() Filter {
		return NewQueueLimitFilter()
	})
}
