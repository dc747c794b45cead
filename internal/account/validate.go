// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Assoplat Contributors

package account

import (
	"fmt"
	"regexp"

	"github.com/assoplat/assoplat/internal/apierr"
)

// MaxCredentialLength bounds credential values, matching the cred_value column.
const MaxCredentialLength = 255

var (
	emailRegex  = regexp.MustCompile(`^[^@]+@[a-zA-Z0-9\-_.]+$`)
	phoneRegex  = regexp.MustCompile(`^[0-9]+$`)
	digestRegex = regexp.MustCompile(`^[a-fA-F0-9]{32}$`)
)

// ValidateEmail checks an email address. Case is preserved.
func ValidateEmail(s string) (string, error) {
	if !emailRegex.MatchString(s) {
		return "", apierr.NewInvalidFormat(string(CredentialEmail), "Not a Proper Email.")
	}
	return s, nil
}

// ValidatePhone checks a phone number: one or more ASCII digits.
func ValidatePhone(s string) (string, error) {
	if !phoneRegex.MatchString(s) {
		return "", apierr.NewInvalidFormat(string(CredentialPhone), "Not a Proper Phone Number.")
	}
	return s, nil
}

// ValidateDigest checks a password digest: 32 hexadecimal characters.
// Case is preserved; comparison elsewhere ignores case.
func ValidateDigest(s string) (string, error) {
	if !digestRegex.MatchString(s) {
		return "", apierr.NewInvalidFormat("passwd", "Not MD5 Hashed.")
	}
	return s, nil
}

// ParseCredentialType checks a credential type name.
func ParseCredentialType(s string) (CredentialType, error) {
	switch t := CredentialType(s); t {
	case CredentialName, CredentialEmail, CredentialPhone:
		return t, nil
	default:
		return "", apierr.NewInvalidFormat("cred_type", "unknown credential type "+s)
	}
}

// Validate checks a credential value against the rules of its type.
// Names only need to be non-empty. No value may exceed MaxCredentialLength.
func (t CredentialType) Validate(value string) (string, error) {
	if len(value) > MaxCredentialLength {
		return "", apierr.NewInvalidFormat(string(t), fmt.Sprintf("Longer than %d characters.", MaxCredentialLength))
	}
	switch t {
	case CredentialEmail:
		return ValidateEmail(value)
	case CredentialPhone:
		return ValidatePhone(value)
	case CredentialName:
		if value == "" {
			return "", apierr.NewInvalidFormat(string(CredentialName), "name cannot be empty")
		}
		return value, nil
	default:
		return "", apierr.NewInvalidFormat("cred_type", "unknown credential type "+string(t))
	}
}
