// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Assoplat Contributors

// Package auth implements registration and credential login on top of
// server-side sessions.
//
// # Services
//
// Service coordinates the account repositories and a request's session:
//   - Register - creates an account and its credentials in one transaction
//   - Login - resolves a credential, checks the digest, binds the session
//   - Logout - unbinds the session
//   - CurrentUser - the account bound to the session, if any
//   - UpdateUserInfo, GetUserInfo - profile attributes
//
// The authenticated account is stored in the session under SessionUserKey.
// Services are created with NewService, which validates dependencies.
package auth
