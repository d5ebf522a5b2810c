package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"findmyspace/internal/auth"
	"findmyspace/internal/entities"
	apperrors "findmyspace/internal/errors"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, data any) {
	env := entities.Envelope{Success: true}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			writeError(w, zap.NewNop(), err)
			return
		}
		env.Data = raw
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(env)
}

// writeError maps err onto its HTTP status. Unexpected errors are logged and hidden.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	httpErr := apperrors.FromError(err)
	if httpErr.Status >= http.StatusInternalServerError {
		logger.Error("request failed", zap.Error(err))
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpErr.Status)
	json.NewEncoder(w).Encode(entities.Envelope{Success: false, Message: httpErr.Message, Code: httpErr.Code})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperrors.ErrBadRequest("invalid request body")
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.ErrBadRequest(fmt.Sprintf("invalid %s", name))
	}
	return id, nil
}

func currentUser(r *http.Request) (int64, error) {
	id, ok := auth.UserID(r.Context())
	if !ok {
		return 0, errors.New("missing user in authenticated request")
	}
	return id, nil
}
