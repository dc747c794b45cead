// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Assoplat Contributors

// Package web exposes the authentication API over HTTP.
//
// Every route runs inside the session middleware: the session cookie is
// resolved before the handler and the session is persisted afterwards, so
// each response carries a refreshed Set-Cookie header. Handlers return a
// result to encode as JSON or an error mapped by apierr.ResponseFor.
package web
