// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Assoplat Contributors

package apierr

// StatusInfo is the error payload clients branch on.
type StatusInfo struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Body is the JSON error response envelope.
type Body struct {
	StatusInfo StatusInfo `json:"status_info"`
}

// internalMessage hides details of unexpected and storage errors.
const internalMessage = "internal server error"

// ResponseFor maps err to an HTTP status and response body.
func ResponseFor(err error) (int, Body) {
	apiErr, ok := Lookup(err)
	if !ok {
		return Unknown.HTTPStatus(), Body{StatusInfo: StatusInfo{Code: int(Unknown), Message: internalMessage}}
	}
	msg := apiErr.Message
	if apiErr.Kind == StorageFailure {
		msg = internalMessage
	}
	return apiErr.Kind.HTTPStatus(), Body{StatusInfo: StatusInfo{Code: int(apiErr.Kind), Message: msg}}
}
