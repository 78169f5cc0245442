// Package api implements the HTTP resource handlers and their shared
// response plumbing.
package api

import (
	"encoding/json"
	"net/http"

	apierrors "github.com/metamui-network/metascan-api/internal/errors"
	"github.com/metamui-network/metascan-api/internal/logging"
)

// Resource is one serialized record in a response envelope.
type Resource struct {
	Type       string `json:"type"`
	ID         string `json:"id"`
	Attributes any    `json:"attributes"`
}

// ListMeta carries pagination metadata for list responses.
type ListMeta struct {
	Count      int `json:"count"`
	PageSize   int `json:"page_size"`
	PageNumber int `json:"page_number"`
}

type envelope struct {
	Meta     any        `json:"meta,omitempty"`
	Data     any        `json:"data"`
	Included []Resource `json:"included,omitempty"`
}

func marshalList(resources []Resource, meta ListMeta) ([]byte, error) {
	if resources == nil {
		resources = []Resource{}
	}
	return json.Marshal(envelope{Meta: meta, Data: resources})
}

func marshalDetail(resource Resource, included []Resource) ([]byte, error) {
	return json.Marshal(envelope{Data: resource, Included: included})
}

type errorBody struct {
	Code    apierrors.ErrorCode `json:"code"`
	Message string              `json:"message"`
	Details map[string]any      `json:"details,omitempty"`
}

// writeError maps any error onto the service error taxonomy and writes the
// JSON error envelope. Unknown errors are reported as opaque store
// failures so internals never leak.
func writeError(w http.ResponseWriter, log *logging.Logger, err error) {
	svcErr := apierrors.GetServiceError(err)
	if svcErr == nil {
		log.WithError(err).Error("unhandled store error")
		svcErr = apierrors.Internal("query failed", err)
	} else if svcErr.HTTPStatus >= http.StatusInternalServerError {
		log.WithError(err).Error(svcErr.Message)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(svcErr.HTTPStatus)
	json.NewEncoder(w).Encode(map[string]any{
		"errors": []errorBody{{Code: svcErr.Code, Message: svcErr.Message, Details: svcErr.Details}},
	})
}

func writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}
