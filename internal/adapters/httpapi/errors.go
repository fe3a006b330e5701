package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/nullable"

	"github.com/armywelfare/welfare-api/internal/app/accounts"
	"github.com/armywelfare/welfare-api/internal/app/chat"
	"github.com/armywelfare/welfare-api/internal/app/contacts"
	"github.com/armywelfare/welfare-api/internal/app/grievances"
	"github.com/armywelfare/welfare-api/internal/app/marketplace"
	"github.com/armywelfare/welfare-api/internal/app/schemes"
)

type ErrorBody struct {
	Code      string                            `json:"code"`
	Message   string                            `json:"message"`
	Details   nullable.Nullable[map[string]any] `json:"details,omitempty"`
	RequestID nullable.Nullable[string]         `json:"requestId,omitempty"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code string, message string, details map[string]any) {
	var er ErrorResponse
	er.Error.Code = code
	er.Error.Message = message
	if details != nil {
		er.Error.Details = nullable.NewNullableWithValue(details)
	}
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		er.Error.RequestID = nullable.NewNullableWithValue(rid)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(er)
}

// appError is the shape shared by the application packages' *Error types.
type appError struct {
	Status  int
	Code    string
	Message string
	Details map[string]any
}

func asAppError(err error) (appError, bool) {
	var (
		se *schemes.Error
		ge *grievances.Error
		me *marketplace.Error
		ce *contacts.Error
		ae *accounts.Error
		he *chat.Error
	)
	switch {
	case errors.As(err, &se):
		return appError(*se), true
	case errors.As(err, &ge):
		return appError(*ge), true
	case errors.As(err, &me):
		return appError(*me), true
	case errors.As(err, &ce):
		return appError(*ce), true
	case errors.As(err, &ae):
		return appError(*ae), true
	case errors.As(err, &he):
		return appError(*he), true
	}
	return appError{}, false
}

// writeServiceError renders err with its own status when it is an
// application error and as 500 INTERNAL otherwise.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if ae, ok := asAppError(err); ok {
		writeError(w, r, ae.Status, ae.Code, ae.Message, ae.Details)
		return
	}
	s.log.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	writeError(w, r, http.StatusInternalServerError, "INTERNAL", err.Error(), nil)
}
