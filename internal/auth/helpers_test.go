// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Assoplat Contributors

package auth_test

// mapSession is a minimal auth.Session.
type mapSession map[string]any

func (s mapSession) GetString(key string) (string, bool) {
	v, ok := s[key].(string)
	return v, ok && v != ""
}

func (s mapSession) Set(key string, value any) { s[key] = value }

func (s mapSession) Unset(key string) { delete(s, key) }
