package handlers

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/nijaru/yt-transcript/errors"
	"github.com/nijaru/yt-transcript/middleware"
	"github.com/nijaru/yt-transcript/transcript"
	"github.com/nijaru/yt-transcript/utils"
	"github.com/nijaru/yt-transcript/validation"
)

const serviceName = "YouTube Transcript API"

// Fetcher resolves a video ID to its transcript.
type Fetcher interface {
	Fetch(ctx context.Context, videoID string) (*transcript.Result, error)
}

type Handler struct {
	fetcher      Fetcher
	maxBodyBytes int64
}

func New(fetcher Fetcher, maxBodyBytes int64) *Handler {
	return &Handler{
		fetcher:      fetcher,
		maxBodyBytes: maxBodyBytes,
	}
}

// Register mounts the API routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/", h.Home)
	mux.HandleFunc("/health", h.Health)
	mux.HandleFunc("/transcript", h.Transcript)
}

type usageBody struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}

type usage struct {
	Endpoint    string    `json:"endpoint"`
	Method      string    `json:"method"`
	Body        usageBody `json:"body"`
	Description string    `json:"description"`
}

type homeResponse struct {
	Message string `json:"message"`
	Usage   usage  `json:"usage"`
}

var homeBody = homeResponse{
	Message: serviceName,
	Usage: usage{
		Endpoint: "/transcript",
		Method:   http.MethodPost,
		Body: usageBody{
			URL:  "https://www.youtube.com/watch?v=VIDEO_ID",
			Type: "json | text | raw",
		},
		Description: "Send a POST request with a YouTube URL to get the transcript",
	},
}

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		utils.RespondWithError(w, errors.NotFound("handlers.Home", nil, "Not found"))
		return
	}
	if r.Method != http.MethodGet {
		utils.RespondWithError(w, errors.MethodNotAllowed("handlers.Home", r.Method))
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, homeBody)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.RespondWithError(w, errors.MethodNotAllowed("handlers.Health", r.Method))
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, healthResponse{Status: "healthy", Service: serviceName})
}

func (h *Handler) Transcript(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.Transcript"
	logger := middleware.GetLogger(r.Context())

	if err := validation.ValidateRequest(r, validation.RequestValidationOpts{
		AllowedMethods:   []string{http.MethodPost},
		MaxContentLength: h.maxBodyBytes,
	}); err != nil {
		utils.RespondWithError(w, err)
		return
	}

	if h.maxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	}

	req, err := validation.DecodeTranscriptRequest(r.Body)
	if err != nil {
		logger.WithError(err).Debug("Rejected transcript request")
		respondError(w, req, err)
		return
	}
	if !req.TypeRecognized {
		logger.WithField("type", req.RawType).Warn("Unknown response type, defaulting to json")
	}

	logger = logger.WithFields(logrus.Fields{
		"video_id": req.VideoID,
		"format":   req.Format,
	})

	result, err := h.fetcher.Fetch(r.Context(), req.VideoID)
	if err != nil {
		logger.WithError(err).WithField("op", op).Warn("Transcript fetch failed")
		respondError(w, req, err)
		return
	}

	logger.WithFields(logrus.Fields{
		"language": result.Language,
		"entries":  len(result.Entries),
	}).Info("Transcript fetched")

	switch req.Format {
	case transcript.FormatRaw:
		utils.RespondWithJSON(w, http.StatusOK, result.Entries)
	case transcript.FormatText:
		utils.RespondWithText(w, http.StatusOK, result.FullText)
	default:
		utils.RespondWithJSON(w, http.StatusOK, result.Envelope())
	}
}

// respondError renders err as text when the caller asked for text output.
func respondError(w http.ResponseWriter, req *validation.TranscriptRequest, err error) {
	if req != nil && req.Format == transcript.FormatText {
		utils.RespondWithTextError(w, err)
		return
	}
	utils.RespondWithError(w, err)
}
