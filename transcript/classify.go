package transcript

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/nijaru/yt-transcript/errors"
)

// Only consulted when an error carries no typed Reason.
var (
	noTranscriptMarkers = []string{
		"No transcripts were found",
		"Could not retrieve a transcript",
		"Transcripts are disabled",
	}
	unavailableMarkers = []string{
		"Video unavailable",
		"Video is private",
	}
)

// ReasonOf extracts the failure reason from err, falling back to the
// message text when the error is untyped.
func ReasonOf(err error) Reason {
	if err == nil {
		return ReasonUnknown
	}

	var perr *ProviderError
	if stderrors.As(err, &perr) && perr.Reason != ReasonUnknown {
		return perr.Reason
	}

	msg := err.Error()
	for _, m := range noTranscriptMarkers {
		if strings.Contains(msg, m) {
			return ReasonNoTranscripts
		}
	}
	for _, m := range unavailableMarkers {
		if strings.Contains(msg, m) {
			return ReasonVideoUnavailable
		}
	}
	return ReasonUnknown
}

// Classify maps a provider failure to the application error taxonomy.
func Classify(op string, err error) *errors.Error {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.Upstream(op, err, "Failed to get transcript").
			WithDetail("details", "Timed out waiting for the video platform")
	}

	switch ReasonOf(err) {
	case ReasonNoTranscripts:
		return errors.NotFound(op, err, "No transcripts available for this video").
			WithDetail("details", "The video may not have captions or transcripts enabled")
	case ReasonVideoUnavailable:
		return errors.NotFound(op, err, "Video is unavailable or private").
			WithDetail("details", "Cannot access this video")
	}

	return errors.Upstream(op, err, "Failed to get transcript").
		WithDetail("details", err.Error())
}
