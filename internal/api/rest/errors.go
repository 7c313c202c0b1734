package rest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"bujet/internal/api"
)

// The service reports failures as {"detail": ...} where detail is either a
// plain message or a list of field validation errors.
type errorEnvelope struct {
	Detail json.RawMessage `json:"detail"`
}

type fieldError struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

const unknownErrorMessage = "an unknown error occurred"

// decodeError turns a non-2xx response into an api.Error. The service's
// message is preserved verbatim; only the taxonomy kind is derived locally
// from the status code.
func decodeError(resp *http.Response) *api.Error {
	kind := kindForStatus(resp.StatusCode)

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return api.NewError(kind, unknownErrorMessage)
	}

	var envelope errorEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil || len(envelope.Detail) == 0 {
		return api.NewError(kind, unknownErrorMessage)
	}

	var message string
	if err := json.Unmarshal(envelope.Detail, &message); err == nil {
		return api.NewError(kind, message)
	}

	var fields []fieldError
	if err := json.Unmarshal(envelope.Detail, &fields); err == nil && len(fields) > 0 {
		first := fields[0]
		if len(first.Loc) > 0 {
			field := fmt.Sprint(first.Loc[len(first.Loc)-1])
			return api.NewError(kind, fmt.Sprintf("In %s, %s", field, strings.ToLower(first.Msg)))
		}
		return api.NewError(kind, strings.ToLower(first.Msg))
	}

	return api.NewError(kind, unknownErrorMessage)
}

func kindForStatus(status int) api.Kind {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return api.KindUnauthorized
	case http.StatusNotFound:
		return api.KindNotFound
	default:
		return api.KindNetwork
	}
}
