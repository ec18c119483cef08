package api

import (
	"errors"
	"strconv"

	"github.com/danielgtaylor/huma/v2"

	"github.com/ohmyreads/ohmyreads-server/internal/http/response"
)

// EnvelopeVersion is the response envelope format version sent as "v".
const EnvelopeVersion = response.Version

// APIEnvelope wraps every success response and simple error responses.
type APIEnvelope struct { //nolint:revive // API prefix is intentional for clarity
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

// APIErrorEnvelope carries an error with structured details.
type APIErrorEnvelope struct { //nolint:revive // API prefix is intentional for clarity
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details"`
}

// EnvelopeTransformer wraps handler output in the response envelope.
// Status codes >= 400 produce error envelopes; errors with details keep them.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	code, _ := strconv.Atoi(status)
	if code < 400 {
		return APIEnvelope{Version: EnvelopeVersion, Success: true, Data: v}, nil
	}

	var apiErr *APIError
	if e, ok := v.(error); ok && errors.As(e, &apiErr) {
		if apiErr.Details != nil {
			return APIErrorEnvelope{
				Version: EnvelopeVersion,
				Error:   apiErr.Message,
				Code:    apiErr.Code,
				Message: apiErr.Message,
				Details: apiErr.Details,
			}, nil
		}
		return APIEnvelope{Version: EnvelopeVersion, Error: apiErr.Message, Code: apiErr.Code}, nil
	}

	if e, ok := v.(error); ok {
		return APIEnvelope{Version: EnvelopeVersion, Error: e.Error()}, nil
	}
	return APIEnvelope{Version: EnvelopeVersion, Error: "request failed"}, nil
}
