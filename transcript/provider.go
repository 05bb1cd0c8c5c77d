package transcript

import (
	"context"
	"fmt"
)

// Provider lists the caption tracks available for a video.
type Provider interface {
	ListTracks(ctx context.Context, videoID string) ([]Track, error)
}

// Track is one selectable caption stream. Fetch may fail for a single
// track while others succeed.
type Track interface {
	Language() string
	Fetch(ctx context.Context) ([]Entry, error)
}

// Reason is the typed cause a provider reports for a failure.
type Reason int

const (
	ReasonUnknown Reason = iota
	ReasonNoTranscripts
	ReasonVideoUnavailable
	ReasonRateLimited
	ReasonTrackFailed
)

func (r Reason) String() string {
	switch r {
	case ReasonNoTranscripts:
		return "No transcripts were found"
	case ReasonVideoUnavailable:
		return "Video unavailable"
	case ReasonRateLimited:
		return "Too many requests to the video platform"
	case ReasonTrackFailed:
		return "Could not fetch caption track"
	}
	return "Unknown provider failure"
}

// ProviderError is returned by Provider and Track implementations.
type ProviderError struct {
	Reason  Reason
	VideoID string
	Err     error
}

func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("%s for video %s", e.Reason, e.VideoID)
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func NewProviderError(reason Reason, videoID string, err error) *ProviderError {
	return &ProviderError{Reason: reason, VideoID: videoID, Err: err}
}
