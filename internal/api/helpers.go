package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/granohq/accessd/internal/entity"
)

const (
	errInternalText     = "internal error"
	errUnauthorizedText = "invalid or missing credentials"
)

type ResponseError struct {
	Message string `json:"message"`
}

func sendErr(ctx context.Context, w http.ResponseWriter, code int, err error, msg string) {
	slog.ErrorContext(ctx, msg, "error", err.Error(), "http_code", code)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	err = json.NewEncoder(w).Encode(ResponseError{
		Message: msg,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to encode error response",
			"error", err.Error(),
			"http_code", http.StatusInternalServerError)
	}
}

func sendJSON(ctx context.Context, w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		sendErr(ctx, w, http.StatusInternalServerError, err, errInternalText)
		return
	}
}

// decisionText maps a deny decision to the message the caller may see. All
// credential failures collapse into one generic 401 text; role vs permission
// denials stay distinct because they are policy feedback, not an oracle.
func decisionText(d entity.Decision) string {
	if d.Reason.Unauthenticated() {
		return errUnauthorizedText
	}

	switch d.Reason {
	case entity.ReasonUserNotFound:
		return "user does not exist"
	case entity.ReasonRoleDenied:
		return "access denied"
	case entity.ReasonPermissionDenied:
		return "insufficient permissions"
	default:
		return errInternalText
	}
}
