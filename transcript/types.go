package transcript

import "strings"

// Entry is one caption unit. Start and Duration are in seconds.
type Entry struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// Result is a fetched transcript for one video.
type Result struct {
	VideoID  string
	Language string
	Entries  []Entry
	FullText string
}

// NewResult builds a Result with FullText joined from entries.
func NewResult(videoID string, entries []Entry) *Result {
	if entries == nil {
		entries = []Entry{}
	}
	return &Result{
		VideoID:  videoID,
		Entries:  entries,
		FullText: JoinText(entries),
	}
}

// JoinText concatenates entry texts separated by single spaces.
func JoinText(entries []Entry) string {
	texts := make([]string, len(entries))
	for i, e := range entries {
		texts[i] = e.Text
	}
	return strings.Join(texts, " ")
}

// Format selects the response shape.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
	FormatRaw  Format = "raw"
)

// ParseFormat maps a requested type to a Format. Empty and unrecognized
// values yield FormatJSON; ok reports whether the value was recognized.
func ParseFormat(s string) (f Format, ok bool) {
	switch Format(strings.TrimSpace(s)) {
	case FormatJSON:
		return FormatJSON, true
	case FormatText:
		return FormatText, true
	case FormatRaw:
		return FormatRaw, true
	case "":
		return FormatJSON, true
	}
	return FormatJSON, false
}

// Envelope is the default json response body.
type Envelope struct {
	VideoID      string  `json:"video_id"`
	Transcript   string  `json:"transcript"`
	Entries      []Entry `json:"transcript_entries"`
	TotalEntries int     `json:"total_entries"`
}

// Envelope converts r to the json response body.
func (r *Result) Envelope() Envelope {
	return Envelope{
		VideoID:      r.VideoID,
		Transcript:   r.FullText,
		Entries:      r.Entries,
		TotalEntries: len(r.Entries),
	}
}
