// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Assoplat Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/samber/oops"

	"github.com/assoplat/assoplat/internal/account"
	"github.com/assoplat/assoplat/internal/apierr"
	"github.com/assoplat/assoplat/pkg/errutil"
)

// SessionUserKey is the session key holding the authenticated account uid.
const SessionUserKey = "user_id"

// Session is the part of a session handle the service reads and mutates.
// *session.Session satisfies it.
type Session interface {
	GetString(key string) (string, bool)
	Set(key string, value any)
	Unset(key string)
}

// Service provides registration, login and profile operations.
type Service struct {
	accounts    account.AccountRepository
	credentials account.CredentialRepository
	userInfos   account.UserInfoRepository
	tx          account.Transactor
	logger      *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used for authentication events.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService creates a new Service.
func NewService(
	accounts account.AccountRepository,
	credentials account.CredentialRepository,
	userInfos account.UserInfoRepository,
	tx account.Transactor,
	opts ...Option,
) (*Service, error) {
	if accounts == nil {
		return nil, oops.Code("AUTH_INVALID_SERVICE").Errorf("account repository is required")
	}
	if credentials == nil {
		return nil, oops.Code("AUTH_INVALID_SERVICE").Errorf("credential repository is required")
	}
	if userInfos == nil {
		return nil, oops.Code("AUTH_INVALID_SERVICE").Errorf("user info repository is required")
	}
	if tx == nil {
		return nil, oops.Code("AUTH_INVALID_SERVICE").Errorf("transactor is required")
	}

	s := &Service{
		accounts:    accounts,
		credentials: credentials,
		userInfos:   userInfos,
		tx:          tx,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Register creates an account with a name credential and optional email
// and phone credentials. Either everything is stored or nothing is.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (acct *account.Account, err error) {
	defer func() { s.finish(ctx, OpRegister, err) }()

	if req.Name == "" {
		return nil, apierr.NewInvalidFormat(string(account.CredentialName), "Missing required parameter")
	}
	creds, err := supplied(req.Name, req.Email, req.Phone)
	if err != nil {
		return nil, err
	}
	var passwd *string
	if req.Passwd != "" {
		if _, err := account.ValidateDigest(req.Passwd); err != nil {
			return nil, err
		}
		passwd = &req.Passwd
	}

	err = s.tx.InTransaction(ctx, func(ctx context.Context) error {
		created, err := s.accounts.Create(ctx, passwd)
		if err != nil {
			return err
		}
		for _, cred := range creds {
			cred.UID = created.UID
			if err := s.credentials.Create(ctx, cred); err != nil {
				return err
			}
		}
		acct = created
		return nil
	})
	if err != nil {
		return nil, storageFailure("register account", err)
	}

	s.logger.InfoContext(ctx, "account registered", "uid", acct.UID, "credentials", len(creds))
	return acct, nil
}

// Login resolves the request's credential, checks the password digest and
// binds the account to sess.
func (s *Service) Login(ctx context.Context, sess Session, req LoginRequest) (acct *account.Account, err error) {
	credType, value := req.selector()
	defer func() {
		s.finish(ctx, OpLogin, err)
		if err != nil && credType != "" {
			s.logger.WarnContext(ctx, "login failed", "cred_type", credType, "api_code", int(apierr.KindOf(err)))
		}
	}()

	if err := validateLogin(req); err != nil {
		return nil, err
	}
	if credType == "" {
		return nil, apierr.NewAtLeastOneOfArguments("name", "email", "phone")
	}

	acct, err = s.lookup(ctx, credType, value)
	if err != nil {
		return nil, err
	}
	if !acct.CheckDigest(req.Passwd) {
		return nil, apierr.NewPasswordIncorrect()
	}

	sess.Set(SessionUserKey, acct.UID)
	s.logger.InfoContext(ctx, "login succeeded", "uid", acct.UID, "cred_type", credType)
	return acct, nil
}

// validateLogin checks the format of every supplied argument.
func validateLogin(req LoginRequest) error {
	if _, err := supplied(req.Name, req.Email, req.Phone); err != nil {
		return err
	}
	if req.Passwd != "" {
		if _, err := account.ValidateDigest(req.Passwd); err != nil {
			return err
		}
	}
	return nil
}

// supplied validates the non-empty credential values, in name, email, phone
// order.
func supplied(name, email, phone string) ([]account.Credential, error) {
	var creds []account.Credential
	for _, c := range []account.Credential{
		{Type: account.CredentialName, Value: name},
		{Type: account.CredentialEmail, Value: email},
		{Type: account.CredentialPhone, Value: phone},
	} {
		if c.Value == "" {
			continue
		}
		if _, err := c.Type.Validate(c.Value); err != nil {
			return nil, err
		}
		creds = append(creds, c)
	}
	return creds, nil
}

func (s *Service) lookup(ctx context.Context, credType, value string) (*account.Account, error) {
	var (
		acct *account.Account
		err  error
	)
	if credType == selectorUID {
		acct, err = s.accounts.GetByID(ctx, value)
	} else {
		ct, perr := account.ParseCredentialType(credType)
		if perr != nil {
			return nil, perr
		}
		acct, err = s.credentials.Lookup(ctx, ct, value)
	}
	if errors.Is(err, account.ErrNotFound) {
		return nil, apierr.NewCredentialNotFound(credType, value)
	}
	if err != nil {
		return nil, storageFailure("lookup credential", err)
	}
	return acct, nil
}

// Logout unbinds the account from sess and returns its uid.
func (s *Service) Logout(ctx context.Context, sess Session) (uid string, err error) {
	defer func() { s.finish(ctx, OpLogout, err) }()

	acct, err := s.requireUser(ctx, sess)
	if err != nil {
		return "", err
	}
	sess.Unset(SessionUserKey)
	s.logger.InfoContext(ctx, "logout", "uid", acct.UID)
	return acct.UID, nil
}

// CurrentUser returns the account bound to sess, or nil if the session is
// anonymous or the bound account no longer exists.
func (s *Service) CurrentUser(ctx context.Context, sess Session) (*account.Account, error) {
	uid, ok := sess.GetString(SessionUserKey)
	if !ok {
		return nil, nil
	}
	acct, err := s.accounts.GetByID(ctx, uid)
	if errors.Is(err, account.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storageFailure("get current user", err)
	}
	return acct, nil
}

func (s *Service) requireUser(ctx context.Context, sess Session) (*account.Account, error) {
	acct, err := s.CurrentUser(ctx, sess)
	if err != nil {
		return nil, err
	}
	if acct == nil {
		return nil, apierr.NewAuthenticationRequired()
	}
	return acct, nil
}

// finish records the outcome of an operation and logs server-side failures.
func (s *Service) finish(ctx context.Context, operation string, err error) {
	recordAttempt(operation, err)
	if resultOf(err) == ResultError {
		errutil.LogError(ctx, s.logger, operation+" failed", err)
	}
}

// storageFailure passes client errors through and wraps everything else.
func storageFailure(operation string, err error) error {
	if _, ok := apierr.Lookup(err); ok {
		return err
	}
	return apierr.NewStorageFailure(operation, err)
}
