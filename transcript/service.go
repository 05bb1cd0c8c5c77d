package transcript

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nijaru/yt-transcript/errors"
	"github.com/nijaru/yt-transcript/metrics"
)

// Service fetches transcripts through a Provider.
type Service struct {
	provider Provider
	timeout  time.Duration
	metrics  *metrics.Metrics
	logger   logrus.FieldLogger
}

// Option configures a Service.
type Option func(*Service)

// WithTimeout bounds a whole Fetch. Zero means no bound.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.timeout = d
	}
}

// WithMetrics records fetch outcomes on m. A nil m disables recording.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithLogger replaces the standard logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// NewService returns a Service backed by provider.
func NewService(provider Provider, opts ...Option) *Service {
	s := &Service{
		provider: provider,
		logger:   logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch returns the first caption track of videoID that can be fetched.
// Per-track failures move on to the next track; any other provider failure
// is returned immediately as an *errors.Error.
func (s *Service) Fetch(ctx context.Context, videoID string) (*Result, error) {
	const op = "transcript.Service.Fetch"

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	log := s.logger.WithField("video_id", videoID)

	tracks, err := s.provider.ListTracks(ctx, videoID)
	if err != nil {
		appErr := Classify(op, err)
		s.observe(appErr, err, 0)
		log.WithError(err).Warn("Listing caption tracks failed")
		return nil, appErr
	}
	if len(tracks) == 0 {
		err := NewProviderError(ReasonNoTranscripts, videoID, nil)
		appErr := Classify(op, err)
		s.observe(appErr, err, 0)
		return nil, appErr
	}

	var lastErr error
	for i, track := range tracks {
		entries, err := track.Fetch(ctx)
		if err == nil {
			result := NewResult(videoID, entries)
			result.Language = track.Language()
			s.metrics.ObserveFetch(metrics.OutcomeSuccess, i+1)
			log.WithFields(logrus.Fields{
				"language": track.Language(),
				"entries":  len(entries),
				"attempts": i + 1,
			}).Debug("Fetched caption track")
			return result, nil
		}

		if ctx.Err() != nil {
			appErr := Classify(op, ctx.Err())
			s.observe(appErr, ctx.Err(), i+1)
			log.WithError(err).Warn("Fetch cancelled while trying caption tracks")
			return nil, appErr
		}

		lastErr = err
		log.WithError(err).WithField("language", track.Language()).Debug("Caption track failed, trying next")
	}

	err = NewProviderError(ReasonNoTranscripts, videoID, lastErr)
	appErr := Classify(op, err)
	s.observe(appErr, err, len(tracks))
	log.WithError(lastErr).WithField("tracks", len(tracks)).Warn("No caption track could be fetched")
	return nil, appErr
}

func (s *Service) observe(appErr *errors.Error, cause error, tried int) {
	outcome := metrics.OutcomeUpstream
	switch {
	case stderrors.Is(cause, context.DeadlineExceeded):
		outcome = metrics.OutcomeTimeout
	case ReasonOf(cause) == ReasonVideoUnavailable:
		outcome = metrics.OutcomeUnavailable
	case appErr.Kind == errors.KindNotFound:
		outcome = metrics.OutcomeNotFound
	}
	s.metrics.ObserveFetch(outcome, tried)
}
