// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Assoplat Contributors

package auth

// RegisterRequest holds the registration arguments. Name is required; the
// other fields are optional.
type RegisterRequest struct {
	Name   string
	Email  string
	Phone  string
	Passwd string
}

// LoginRequest holds the login arguments. UID, if set, selects the account
// directly; otherwise the first non-empty of Name, Email and Phone does.
type LoginRequest struct {
	UID    string
	Name   string
	Email  string
	Phone  string
	Passwd string
}

// selectorUID selects an account by its identifier instead of a credential.
const selectorUID = "uid"

// selector returns the credential that identifies the account.
func (r LoginRequest) selector() (credType, value string) {
	switch {
	case r.UID != "":
		return selectorUID, r.UID
	case r.Name != "":
		return "name", r.Name
	case r.Email != "":
		return "email", r.Email
	case r.Phone != "":
		return "phone", r.Phone
	default:
		return "", ""
	}
}
