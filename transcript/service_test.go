package transcript

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nijaru/yt-transcript/errors"
	"github.com/nijaru/yt-transcript/metrics"
)

type stubTrack struct {
	lang    string
	entries []Entry
	err     error
	calls   int
	block   bool
}

func (t *stubTrack) Language() string { return t.lang }

func (t *stubTrack) Fetch(ctx context.Context) ([]Entry, error) {
	t.calls++
	if t.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return t.entries, t.err
}

type stubProvider struct {
	tracks []Track
	err    error
}

func (p *stubProvider) ListTracks(ctx context.Context, videoID string) ([]Track, error) {
	return p.tracks, p.err
}

var sampleEntries = []Entry{
	{Text: "a", Start: 0, Duration: 1},
	{Text: "b", Start: 1, Duration: 1},
}

func TestFetchFirstTrack(t *testing.T) {
	m := metrics.New()
	svc := NewService(&stubProvider{tracks: []Track{
		&stubTrack{lang: "en", entries: sampleEntries},
	}}, WithMetrics(m))

	result, err := svc.Fetch(context.Background(), "dQw4w9WgXcQ")
	require.NoError(t, err)

	assert.Equal(t, "dQw4w9WgXcQ", result.VideoID)
	assert.Equal(t, "a b", result.FullText)
	assert.Equal(t, "en", result.Language)
	assert.Len(t, result.Entries, 2)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FetchCount(metrics.OutcomeSuccess)))
}

func TestFetchSkipsFailingTracks(t *testing.T) {
	restricted := &stubTrack{lang: "de", err: NewProviderError(ReasonTrackFailed, "dQw4w9WgXcQ", fmt.Errorf("status 403"))}
	good := &stubTrack{lang: "en", entries: sampleEntries}
	unused := &stubTrack{lang: "fr", entries: sampleEntries}

	svc := NewService(&stubProvider{tracks: []Track{restricted, good, unused}})

	result, err := svc.Fetch(context.Background(), "dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "en", result.Language)
	assert.Equal(t, 1, restricted.calls)
	assert.Equal(t, 1, good.calls)
	assert.Equal(t, 0, unused.calls)
}

func TestFetchAllTracksFail(t *testing.T) {
	m := metrics.New()
	svc := NewService(&stubProvider{tracks: []Track{
		&stubTrack{lang: "en", err: fmt.Errorf("boom")},
		&stubTrack{lang: "de", err: fmt.Errorf("boom again")},
	}}, WithMetrics(m))

	_, err := svc.Fetch(context.Background(), "dQw4w9WgXcQ")
	require.Error(t, err)

	appErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, appErr.Code)
	assert.Equal(t, "No transcripts available for this video", appErr.Message)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FetchCount(metrics.OutcomeNotFound)))
}

func TestFetchNoTracks(t *testing.T) {
	svc := NewService(&stubProvider{tracks: nil})

	_, err := svc.Fetch(context.Background(), "dQw4w9WgXcQ")
	assert.True(t, errors.IsNotFound(err))
}

func TestFetchListErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{
			name:    "typed no transcripts",
			err:     NewProviderError(ReasonNoTranscripts, "x", nil),
			code:    http.StatusNotFound,
			message: "No transcripts available for this video",
		},
		{
			name:    "typed unavailable",
			err:     NewProviderError(ReasonVideoUnavailable, "x", nil),
			code:    http.StatusNotFound,
			message: "Video is unavailable or private",
		},
		{
			name:    "untyped unavailable message",
			err:     fmt.Errorf("Video unavailable: This video is private"),
			code:    http.StatusNotFound,
			message: "Video is unavailable or private",
		},
		{
			name:    "untyped no transcripts message",
			err:     pkgerrors.Wrap(fmt.Errorf("Could not retrieve a transcript for the video"), "listing"),
			code:    http.StatusNotFound,
			message: "No transcripts available for this video",
		},
		{
			name:    "rate limited",
			err:     NewProviderError(ReasonRateLimited, "x", nil),
			code:    http.StatusInternalServerError,
			message: "Failed to get transcript",
		},
		{
			name:    "unknown",
			err:     fmt.Errorf("connection reset by peer"),
			code:    http.StatusInternalServerError,
			message: "Failed to get transcript",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(&stubProvider{err: tt.err})

			_, err := svc.Fetch(context.Background(), "dQw4w9WgXcQ")
			appErr, ok := errors.As(err)
			require.True(t, ok)
			assert.Equal(t, tt.code, appErr.Code)
			assert.Equal(t, tt.message, appErr.Message)
		})
	}
}

func TestFetchUpstreamSurfacesMessage(t *testing.T) {
	svc := NewService(&stubProvider{err: fmt.Errorf("connection reset by peer")})

	_, err := svc.Fetch(context.Background(), "dQw4w9WgXcQ")
	appErr, _ := errors.As(err)
	assert.Equal(t, "connection reset by peer", appErr.Details["details"])
	assert.Equal(t, errors.KindUpstream, appErr.Kind)
}

func TestFetchTimeout(t *testing.T) {
	m := metrics.New()
	blocking := &stubTrack{lang: "en", block: true}
	next := &stubTrack{lang: "de", entries: sampleEntries}

	svc := NewService(&stubProvider{tracks: []Track{blocking, next}},
		WithTimeout(20*time.Millisecond), WithMetrics(m))

	_, err := svc.Fetch(context.Background(), "dQw4w9WgXcQ")
	appErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, appErr.Code)
	assert.Equal(t, errors.KindUpstream, appErr.Kind)
	assert.Equal(t, 0, next.calls)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FetchCount(metrics.OutcomeTimeout)))
}

func TestReasonOfPrefersTypedReason(t *testing.T) {
	err := NewProviderError(ReasonRateLimited, "x", fmt.Errorf("Video unavailable"))
	assert.Equal(t, ReasonRateLimited, ReasonOf(err))

	err = NewProviderError(ReasonUnknown, "x", fmt.Errorf("Video unavailable"))
	assert.Equal(t, ReasonVideoUnavailable, ReasonOf(err))

	assert.Equal(t, ReasonUnknown, ReasonOf(nil))
}
