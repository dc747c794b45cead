// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Assoplat Contributors

package auth

import (
	"context"
	"errors"

	"github.com/assoplat/assoplat/internal/account"
	"github.com/assoplat/assoplat/internal/apierr"
)

// UpdateUserInfo applies a partial update to the current user's profile,
// creating it on first use. An update that changes nothing only writes when
// the profile does not exist yet.
func (s *Service) UpdateUserInfo(ctx context.Context, sess Session, update account.UserInfoUpdate) (info *account.UserInfo, err error) {
	defer func() { s.finish(ctx, OpUpdateUserInfo, err) }()

	acct, err := s.requireUser(ctx, sess)
	if err != nil {
		return nil, err
	}
	if update.IsEmpty() {
		info, err = s.userInfos.Get(ctx, acct.UID)
		if err == nil {
			return info, nil
		}
		if !errors.Is(err, account.ErrNotFound) {
			return nil, storageFailure("get user info", err)
		}
	}
	info, err = s.userInfos.Upsert(ctx, acct.UID, update)
	if err != nil {
		return nil, storageFailure("update user info", err)
	}
	return info, nil
}

// GetUserInfo returns the requested profile fields of uid, or of the current
// user when uid is empty. Unknown field names are ignored.
func (s *Service) GetUserInfo(ctx context.Context, sess Session, uid string, fields []string) (result map[string]any, err error) {
	defer func() { s.finish(ctx, OpGetUserInfo, err) }()

	if len(fields) == 0 {
		return nil, apierr.NewAtLeastOneOfArguments("info")
	}

	if uid == "" {
		acct, err := s.CurrentUser(ctx, sess)
		if err != nil {
			return nil, err
		}
		if acct == nil {
			return nil, apierr.NewUserInfoNotFound("UID is not provided")
		}
		uid = acct.UID
	}

	info, err := s.userInfos.Get(ctx, uid)
	if errors.Is(err, account.ErrNotFound) {
		return nil, apierr.NewUserInfoNotFound("This user hasn't provided any information")
	}
	if err != nil {
		return nil, storageFailure("get user info", err)
	}
	return info.Fields(fields), nil
}
