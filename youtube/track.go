package youtube

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"github.com/nijaru/yt-transcript/transcript"
)

var markupTag = regexp.MustCompile(`<[^>]*>`)

// Track is a caption track listed on a watch page.
type Track struct {
	client  *Client
	videoID string
	info    captionTrack
}

func (t *Track) Language() string {
	return t.info.LanguageCode
}

func (t *Track) Name() string {
	return t.info.displayName()
}

// IsGenerated reports whether the track was produced by speech recognition.
func (t *Track) IsGenerated() bool {
	return t.info.generated()
}

// Fetch downloads and parses the track's timedtext document.
func (t *Track) Fetch(ctx context.Context) ([]transcript.Entry, error) {
	u, err := t.url()
	if err != nil {
		return nil, transcript.NewProviderError(transcript.ReasonTrackFailed, t.videoID, err)
	}

	status, body, err := t.client.get(ctx, u)
	if err != nil {
		return nil, transcript.NewProviderError(transcript.ReasonTrackFailed, t.videoID, err)
	}
	if status != http.StatusOK {
		return nil, transcript.NewProviderError(transcript.ReasonTrackFailed, t.videoID,
			fmt.Errorf("track %s returned status %d", t.Language(), status))
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, transcript.NewProviderError(transcript.ReasonTrackFailed, t.videoID,
			fmt.Errorf("track %s returned an empty document", t.Language()))
	}

	entries, err := parseTimedtext(body)
	if err != nil {
		return nil, transcript.NewProviderError(transcript.ReasonTrackFailed, t.videoID, err)
	}
	return entries, nil
}

// url resolves the track's base URL against the client's base and drops
// any explicit format so the XML document is served.
func (t *Track) url() (string, error) {
	ref, err := url.Parse(t.info.BaseURL)
	if err != nil {
		return "", errors.Wrapf(err, "parsing track URL for %s", t.Language())
	}
	u := t.client.baseURL.ResolveReference(ref)
	q := u.Query()
	q.Del("fmt")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

type timedtextDocument struct {
	XMLName xml.Name        `xml:"transcript"`
	Texts   []timedtextText `xml:"text"`
}

type timedtextText struct {
	Start    float64 `xml:"start,attr"`
	Duration float64 `xml:"dur,attr"`
	Text     string  `xml:",chardata"`
}

func parseTimedtext(data []byte) ([]transcript.Entry, error) {
	var doc timedtextDocument
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = xml.HTMLEntity
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "decoding timedtext XML")
	}

	entries := make([]transcript.Entry, 0, len(doc.Texts))
	for _, t := range doc.Texts {
		text := html.UnescapeString(t.Text)
		text = strings.TrimSpace(markupTag.ReplaceAllString(text, ""))
		if text == "" {
			continue
		}
		entries = append(entries, transcript.Entry{
			Text:     text,
			Start:    t.Start,
			Duration: t.Duration,
		})
	}
	return entries, nil
}
