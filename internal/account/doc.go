// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Assoplat Contributors

// Package account defines accounts, login credentials and user information.
//
// # Domain Types
//
//   - Account - identified by a server-generated UUID, with an optional password digest
//   - Credential - a (type, value) pair naming exactly one account
//   - UserInfo - optional profile attributes keyed by account uid
//
// Credential values coming from clients are checked with ValidateEmail,
// ValidatePhone and ValidateDigest before they reach a repository.
//
// Password digests are bare MD5 hex strings compared case-insensitively.
// This is kept for compatibility with existing clients and is not suitable
// for new systems.
package account
