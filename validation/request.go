package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/nijaru/yt-transcript/errors"
	"github.com/nijaru/yt-transcript/transcript"
)

const exampleURL = "https://www.youtube.com/watch?v=VIDEO_ID"

// TranscriptRequest is the validated body of POST /transcript.
type TranscriptRequest struct {
	URL    string
	Format transcript.Format
	// RawType is the requested type as sent, kept for logging when it was
	// not recognized.
	RawType        string
	TypeRecognized bool
	VideoID        string
}

// DecodeTranscriptRequest reads and validates a transcript request body.
// The returned request is non-nil whenever the body was a JSON object, so
// callers can honor the requested format when rendering an error.
func DecodeTranscriptRequest(body io.Reader) (*TranscriptRequest, error) {
	const op = "validation.DecodeTranscriptRequest"

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, errors.InvalidInput(op, err, "Invalid request body").
			WithDetail("details", "Request body could not be read")
	}

	req := &TranscriptRequest{Format: transcript.FormatJSON, TypeRecognized: true}

	if len(bytes.TrimSpace(data)) == 0 {
		return req, urlRequired(op)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, errors.InvalidInput(op, err, "Invalid request body").
			WithDetail("details", "Request body must be a JSON object")
	}
	if fields == nil {
		return req, urlRequired(op)
	}

	if rawType, ok := fields["type"]; ok && !isNull(rawType) {
		var t string
		if err := json.Unmarshal(rawType, &t); err != nil {
			return req, errors.InvalidInput(op, err, "Invalid request body").
				WithDetail("details", "Field 'type' must be a string")
		}
		req.RawType = t
		req.Format, req.TypeRecognized = transcript.ParseFormat(t)
	}

	rawURL, ok := fields["url"]
	if !ok || isNull(rawURL) {
		return req, urlRequired(op)
	}
	if err := json.Unmarshal(rawURL, &req.URL); err != nil {
		return req, errors.InvalidInput(op, err, "Invalid request body").
			WithDetail("details", "Field 'url' must be a string")
	}
	if strings.TrimSpace(req.URL) == "" {
		return req, urlRequired(op)
	}

	id, ok := ExtractVideoID(req.URL)
	if !ok {
		return req, errors.InvalidInput(op, nil, "Invalid YouTube URL or video ID").
			WithDetail("provided_url", req.URL)
	}
	req.VideoID = id

	return req, nil
}

func urlRequired(op string) error {
	return errors.InvalidInput(op, nil, "URL is required in request body").
		WithDetail("example", map[string]string{"url": exampleURL})
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

// RequestValidationOpts holds options for request validation
type RequestValidationOpts struct {
	MaxContentLength int64
	AllowedMethods   []string
}

// ValidateRequest checks the method and the declared body length.
func ValidateRequest(r *http.Request, opts RequestValidationOpts) error {
	const op = "validation.ValidateRequest"

	if len(opts.AllowedMethods) > 0 {
		methodAllowed := false
		for _, method := range opts.AllowedMethods {
			if r.Method == method {
				methodAllowed = true
				break
			}
		}
		if !methodAllowed {
			return errors.MethodNotAllowed(op, r.Method)
		}
	}

	if opts.MaxContentLength > 0 && r.ContentLength > opts.MaxContentLength {
		return errors.InvalidInput(op, nil, "Request body too large").
			WithDetail("details", fmt.Sprintf("Request body must not exceed %d bytes", opts.MaxContentLength))
	}

	return nil
}
