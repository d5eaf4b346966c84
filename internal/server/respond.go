package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/matzehuels/codeviz/pkg/errors"
	"github.com/matzehuels/codeviz/pkg/graph"
	"github.com/matzehuels/codeviz/pkg/store"
)

// requestOverhead is the JSON envelope allowance added to the source
// ceiling when limiting request bodies.
const requestOverhead = 64 << 10

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeGraph writes g with empty slices encoded as [].
func writeGraph(w http.ResponseWriter, g graph.Graph, cacheHit bool) {
	data, err := graph.MarshalGraph(g)
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "encode graph"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", cacheStatus(cacheHit))
	_, _ = w.Write(data)
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

// writeError maps err to a status and the error envelope. Messages of
// uncoded errors are not exposed.
func writeError(w http.ResponseWriter, err error) {
	err = normalize(err)
	status := errors.HTTPStatus(err)
	code := errors.GetCode(err)
	msg := errors.UserMessage(err)
	if code == "" {
		code = errors.ErrCodeInternal
		msg = "internal error"
	}
	writeErrorStatus(w, status, string(code), msg)
}

func writeErrorStatus(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: msg}})
}

// normalize converts errors from other packages into coded errors.
func normalize(err error) error {
	var maxErr *http.MaxBytesError
	switch {
	case stderrors.As(err, &maxErr):
		return errors.New(errors.ErrCodeInputTooLarge, "request body too large")
	case stderrors.Is(err, store.ErrNotFound):
		return errors.Wrap(errors.ErrCodeNotFound, err, "diagram not found")
	}
	return err
}

func errNotFound(format string, args ...any) error {
	return errors.New(errors.ErrCodeNotFound, format, args...)
}

// decodeJSON reads a JSON body of at most limit bytes into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, v any) error {
	if limit > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, limit+requestOverhead)
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if stderrors.As(err, &maxErr) {
			return err
		}
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid JSON body: %v", err)
	}
	return nil
}
