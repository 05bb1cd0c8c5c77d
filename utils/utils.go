package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/nijaru/yt-transcript/errors"
)

const (
	contentTypeJSON = "application/json"
	contentTypeText = "text/plain; charset=utf-8"
)

// RespondWithJSON encodes payload before writing anything, so an encoding
// failure still produces a complete error response.
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		logrus.WithError(err).Error("Failed to encode JSON response")
		w.Header().Set("Content-Type", contentTypeJSON)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Failed to encode response"}` + "\n"))
		return
	}

	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(code)
	w.Write(buf.Bytes())
}

func RespondWithText(w http.ResponseWriter, code int, text string) {
	w.Header().Set("Content-Type", contentTypeText)
	w.WriteHeader(code)
	w.Write([]byte(text))
}

// RespondWithError renders err as a JSON error body.
func RespondWithError(w http.ResponseWriter, err error) {
	appErr := toAppError(err)
	logFailure(appErr)
	RespondWithJSON(w, appErr.Code, ErrorBody(appErr))
}

// RespondWithTextError renders err as a plain-text body:
// the message, followed by ": details" when present.
func RespondWithTextError(w http.ResponseWriter, err error) {
	appErr := toAppError(err)
	logFailure(appErr)

	text := appErr.Message
	if details, ok := appErr.Details["details"]; ok {
		text = fmt.Sprintf("%s: %v", text, details)
	} else if provided, ok := appErr.Details["provided_url"]; ok {
		text = fmt.Sprintf("%s: %v", text, provided)
	}
	RespondWithText(w, appErr.Code, text)
}

// ErrorBody is the JSON object for an error: {"error": message} plus
// any details.
func ErrorBody(appErr *errors.Error) map[string]interface{} {
	body := make(map[string]interface{}, len(appErr.Details)+1)
	for k, v := range appErr.Details {
		body[k] = v
	}
	body["error"] = appErr.Message
	return body
}

func toAppError(err error) *errors.Error {
	if appErr, ok := errors.As(err); ok {
		return appErr
	}
	return errors.Upstream("utils.RespondWithError", err, "Failed to get transcript").
		WithDetail("details", err.Error())
}

func logFailure(appErr *errors.Error) {
	entry := logrus.WithFields(logrus.Fields{
		"status_code": appErr.Code,
		"op":          appErr.Op,
		"error":       appErr.Error(),
	})
	if appErr.Code >= http.StatusInternalServerError {
		entry.Error("Request failed")
		return
	}
	entry.Debug("Request rejected")
}
