package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	cverrors "github.com/matzehuels/cubicleview/pkg/errors"
)

// errorBody is the JSON body of failed requests.
type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, cverrors.HTTPStatus(err), errorBody{
		Error: cverrors.UserMessage(err),
		Code:  string(cverrors.GetCode(err)),
	})
}

// decode reads a JSON request body into v.
func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return cverrors.Wrap(cverrors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}

// splitParam returns the {split} URL parameter.
func splitParam(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "split")
	i, err := strconv.Atoi(raw)
	if err != nil {
		return 0, cverrors.New(cverrors.ErrCodeInvalidSplit, "invalid split %q", raw)
	}
	return i, nil
}
