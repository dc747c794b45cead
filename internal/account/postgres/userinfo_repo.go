// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Assoplat Contributors

package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"github.com/assoplat/assoplat/internal/account"
	"github.com/assoplat/assoplat/internal/store"
)

// UserInfoRepository implements account.UserInfoRepository using PostgreSQL.
type UserInfoRepository struct {
	pool store.Pool
	tx   *store.Transactor
}

// NewUserInfoRepository creates a new UserInfoRepository.
func NewUserInfoRepository(pool store.Pool) *UserInfoRepository {
	return &UserInfoRepository{pool: pool, tx: store.NewTransactor(pool)}
}

const selectUserInfo = `
	SELECT uid, student_id, department, school, introduction
	FROM user_infos
	WHERE uid = $1
`

// Get retrieves the user information of an account.
func (r *UserInfoRepository) Get(ctx context.Context, uid string) (*account.UserInfo, error) {
	info, err := scanUserInfo(store.QuerierFrom(ctx, r.pool).QueryRow(ctx, selectUserInfo, uid))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("USER_INFO_NOT_FOUND").
			With("uid", uid).
			Wrap(account.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_INFO_GET_FAILED").
			With("operation", "get user info").
			With("uid", uid).
			Wrap(err)
	}
	return info, nil
}

// Upsert creates the row if absent and applies the partial update. The
// read-modify-write runs in one transaction with the row locked.
func (r *UserInfoRepository) Upsert(ctx context.Context, uid string, update account.UserInfoUpdate) (*account.UserInfo, error) {
	var result *account.UserInfo
	err := r.tx.InTransaction(ctx, func(ctx context.Context) error {
		q := store.QuerierFrom(ctx, r.pool)

		info, err := scanUserInfo(q.QueryRow(ctx, selectUserInfo+" FOR UPDATE", uid))
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			info = &account.UserInfo{UID: uid}
		case err != nil:
			return oops.Code("USER_INFO_UPSERT_FAILED").
				With("operation", "lock user info").
				With("uid", uid).
				Wrap(err)
		}

		update.Apply(info)

		_, err = q.Exec(ctx, `
			INSERT INTO user_infos (uid, student_id, department, school, introduction)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (uid) DO UPDATE SET
				student_id = EXCLUDED.student_id,
				department = EXCLUDED.department,
				school = EXCLUDED.school,
				introduction = EXCLUDED.introduction
		`, info.UID, info.StudentID, info.Department, info.School, info.Introduction)
		if err != nil {
			return oops.Code("USER_INFO_UPSERT_FAILED").
				With("operation", "write user info").
				With("uid", uid).
				Wrap(err)
		}
		result = info
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func scanUserInfo(row pgx.Row) (*account.UserInfo, error) {
	var info account.UserInfo
	err := row.Scan(&info.UID, &info.StudentID, &info.Department, &info.School, &info.Introduction)
	if err != nil {
		return nil, err //nolint:wrapcheck // callers wrap with context-specific info
	}
	return &info, nil
}

// Compile-time interface check.
var _ account.UserInfoRepository = (*UserInfoRepository)(nil)
