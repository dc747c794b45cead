// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Assoplat Contributors

// Package session implements server-side web sessions.
//
// A Session is identified by an opaque token carried in a cookie. Its data is
// a small key/value map stored as a single encoded blob together with an
// expiry time. The Store resolves tokens into handles at the start of a
// request and persists modified handles at the end of it.
//
// # Handle lifecycle
//
//	Resolve(""), Resolve(unknown) -> New
//	Resolve(known)                -> Loaded
//	Set / Unset                   -> Dirty
//	Persist                       -> Persisted
//
// New and Dirty handles are written on Persist; Loaded and Persisted handles
// are not, but still receive a fresh cookie directive.
//
// Expired rows are not rejected on read unless Config.EnforceExpiry is set.
// They can be purged with a Sweeper.
//
// A Session handle belongs to one request and is not safe for concurrent use.
package session
