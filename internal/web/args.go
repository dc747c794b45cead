// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Assoplat Contributors

package web

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strconv"

	"github.com/assoplat/assoplat/internal/apierr"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// args holds request arguments from the query string, a form body or a
// JSON object body.
type args struct {
	values url.Values
}

func parseArgs(w http.ResponseWriter, r *http.Request) (args, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")) //nolint:errcheck // empty type is fine
	if mediaType == "application/json" {
		values := r.URL.Query()
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return args{}, apierr.NewInvalidFormat("body", "Not a JSON object")
		}
		for key, v := range body {
			addJSONValue(values, key, v)
		}
		return args{values: values}, nil
	}

	if err := r.ParseForm(); err != nil {
		return args{}, apierr.NewInvalidFormat("body", "Malformed form data")
	}
	return args{values: r.Form}, nil
}

func addJSONValue(values url.Values, key string, v any) {
	switch v := v.(type) {
	case nil:
	case string:
		values.Add(key, v)
	case []any:
		for _, item := range v {
			addJSONValue(values, key, item)
		}
	case float64:
		values.Add(key, strconv.FormatFloat(v, 'f', -1, 64))
	default:
		values.Add(key, fmt.Sprint(v))
	}
}

// Get returns the first value of key, or "".
func (a args) Get(key string) string {
	return a.values.Get(key)
}

// All returns every value of key.
func (a args) All(key string) []string {
	return a.values[key]
}

// Text returns a pointer to the value of key, or nil when absent.
func (a args) Text(key string) *string {
	if !a.values.Has(key) {
		return nil
	}
	v := a.values.Get(key)
	return &v
}

// Int parses the value of key as a 32-bit integer, returning nil when
// absent or empty.
func (a args) Int(key string) (*int, error) {
	v := a.values.Get(key)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(v, 10, 32)
	if err != nil {
		return nil, apierr.NewInvalidFormat(key, "Not an integer")
	}
	i := int(n)
	return &i, nil
}
