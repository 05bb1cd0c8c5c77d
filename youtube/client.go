// Package youtube implements transcript.Provider against the public watch
// page and timedtext endpoints of the video platform.
package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/nijaru/yt-transcript/transcript"
)

const (
	defaultBaseURL   = "https://www.youtube.com"
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	maxPageBytes = 8 << 20
)

type Config struct {
	BaseURL   string
	UserAgent string
	// Languages orders tracks: listed languages first, in order.
	Languages []string
	Timeout   time.Duration
	// RateLimit is the number of outbound requests per second.
	RateLimit float64
	RateBurst int
}

// Client lists and fetches caption tracks. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	userAgent  string
	languages  []string
	limiter    *rate.Limiter
	logger     logrus.FieldLogger
}

type ClientOption func(*Client)

func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithLogger(l logrus.FieldLogger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

func NewClient(cfg Config, opts ...ClientOption) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing base URL %q", cfg.BaseURL)
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 5
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = 1
	}

	c := &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    base,
		userAgent:  cfg.UserAgent,
		languages:  cfg.Languages,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
		logger:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListTracks loads the watch page of videoID and returns its caption
// tracks, preferred languages first and manual tracks before generated ones.
func (c *Client) ListTracks(ctx context.Context, videoID string) ([]transcript.Track, error) {
	watchURL := c.baseURL.ResolveReference(&url.URL{
		Path:     "/watch",
		RawQuery: url.Values{"v": {videoID}}.Encode(),
	})

	status, page, err := c.get(ctx, watchURL.String())
	if err != nil {
		return nil, transcript.NewProviderError(transcript.ReasonUnknown, videoID, err)
	}

	switch {
	case status == http.StatusTooManyRequests:
		return nil, transcript.NewProviderError(transcript.ReasonRateLimited, videoID, nil)
	case status != http.StatusOK:
		return nil, transcript.NewProviderError(transcript.ReasonUnknown, videoID,
			fmt.Errorf("watch page returned status %d", status))
	case bytes.Contains(page, []byte(`class="g-recaptcha"`)):
		return nil, transcript.NewProviderError(transcript.ReasonRateLimited, videoID,
			errors.New("captcha challenge"))
	}

	infos, err := parseWatchPage(page)
	if err != nil {
		if perr, ok := err.(*pageError); ok {
			return nil, transcript.NewProviderError(perr.reason, videoID, perr)
		}
		return nil, transcript.NewProviderError(transcript.ReasonUnknown, videoID, err)
	}

	c.sortTracks(infos)

	tracks := make([]transcript.Track, 0, len(infos))
	for _, info := range infos {
		tracks = append(tracks, &Track{client: c, videoID: videoID, info: info})
	}

	c.logger.WithFields(logrus.Fields{
		"video_id": videoID,
		"tracks":   len(tracks),
	}).Debug("Listed caption tracks")
	return tracks, nil
}

func (c *Client) sortTracks(infos []captionTrack) {
	rank := func(lang string) int {
		for i, l := range c.languages {
			if l == lang {
				return i
			}
		}
		return len(c.languages)
	}
	sort.SliceStable(infos, func(i, j int) bool {
		ri, rj := rank(infos[i].LanguageCode), rank(infos[j].LanguageCode)
		if ri != rj {
			return ri < rj
		}
		return !infos[i].generated() && infos[j].generated()
	})
}

// get performs a paced GET and returns status and body.
func (c *Client) get(ctx context.Context, rawURL string) (int, []byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, nil, errors.Wrap(err, "waiting for outbound rate limiter")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, nil, errors.Wrap(err, "building request")
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, errors.Wrapf(err, "requesting %s", req.URL.Path)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return resp.StatusCode, nil, errors.Wrapf(err, "reading %s", req.URL.Path)
	}

	c.logger.WithFields(logrus.Fields{
		"path":     req.URL.Path,
		"status":   resp.StatusCode,
		"size":     len(body),
		"duration": time.Since(start),
	}).Debug("Upstream request completed")
	return resp.StatusCode, body, nil
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"`
	Name         struct {
		SimpleText string `json:"simpleText"`
		Runs       []struct {
			Text string `json:"text"`
		} `json:"runs"`
	} `json:"name"`
}

func (t captionTrack) generated() bool {
	return t.Kind == "asr"
}

func (t captionTrack) displayName() string {
	if t.Name.SimpleText != "" {
		return t.Name.SimpleText
	}
	var b bytes.Buffer
	for _, r := range t.Name.Runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

type pageError struct {
	reason transcript.Reason
	detail string
}

func (e *pageError) Error() string {
	if e.detail != "" {
		return e.detail
	}
	return e.reason.String()
}

// parseWatchPage extracts the caption track list embedded in a watch page.
func parseWatchPage(page []byte) ([]captionTrack, error) {
	var playability struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	}
	found, err := decodeAfter(page, `"playabilityStatus":`, &playability)
	if err != nil {
		return nil, errors.Wrap(err, "decoding playability status")
	}
	if !found {
		return nil, &pageError{reason: transcript.ReasonVideoUnavailable}
	}
	if playability.Status != "OK" {
		detail := "Video unavailable"
		if playability.Reason != "" {
			detail = fmt.Sprintf("Video unavailable: %s", playability.Reason)
		}
		return nil, &pageError{reason: transcript.ReasonVideoUnavailable, detail: detail}
	}

	var captions struct {
		Renderer *struct {
			Tracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	}
	found, err = decodeAfter(page, `"captions":`, &captions)
	if err != nil {
		return nil, errors.Wrap(err, "decoding caption tracks")
	}
	if !found || captions.Renderer == nil || len(captions.Renderer.Tracks) == 0 {
		return nil, &pageError{reason: transcript.ReasonNoTranscripts, detail: "Transcripts are disabled"}
	}
	return captions.Renderer.Tracks, nil
}

// decodeAfter decodes the JSON value following the first occurrence of
// needle, ignoring whatever follows the value.
func decodeAfter(page []byte, needle string, v interface{}) (bool, error) {
	i := bytes.Index(page, []byte(needle))
	if i < 0 {
		return false, nil
	}
	dec := json.NewDecoder(bytes.NewReader(page[i+len(needle):]))
	if err := dec.Decode(v); err != nil {
		return true, err
	}
	return true, nil
}
