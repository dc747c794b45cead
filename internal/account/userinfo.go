// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Assoplat Contributors

package account

import (
	"context"
)

// User information field names accepted by UserInfo.Fields.
const (
	FieldStudentID    = "student_id"
	FieldDepartment   = "department"
	FieldSchool       = "school"
	FieldIntroduction = "introduction"
)

// UserInfo holds optional profile attributes of an account.
type UserInfo struct {
	UID          string
	StudentID    *int
	Department   *string
	School       *string
	Introduction *string
}

// UserInfoUpdate is a partial update. Nil, zero and empty values leave the
// stored attribute untouched.
type UserInfoUpdate struct {
	StudentID    *int
	Department   *string
	School       *string
	Introduction *string
}

// Apply overwrites the attributes of info that are set in u.
func (u UserInfoUpdate) Apply(info *UserInfo) {
	if u.StudentID != nil && *u.StudentID != 0 {
		v := *u.StudentID
		info.StudentID = &v
	}
	applyText(&info.Department, u.Department)
	applyText(&info.School, u.School)
	applyText(&info.Introduction, u.Introduction)
}

// IsEmpty reports whether u would change nothing.
func (u UserInfoUpdate) IsEmpty() bool {
	var scratch UserInfo
	u.Apply(&scratch)
	return scratch == UserInfo{}
}

func applyText(dst **string, src *string) {
	if src == nil || *src == "" {
		return
	}
	v := *src
	*dst = &v
}

// Fields returns the requested attributes. Unknown names are ignored and
// unset attributes are reported as nil.
func (info *UserInfo) Fields(requested []string) map[string]any {
	result := make(map[string]any, len(requested))
	for _, name := range requested {
		switch name {
		case FieldStudentID:
			result[name] = derefOrNil(info.StudentID)
		case FieldDepartment:
			result[name] = derefOrNil(info.Department)
		case FieldSchool:
			result[name] = derefOrNil(info.School)
		case FieldIntroduction:
			result[name] = derefOrNil(info.Introduction)
		}
	}
	return result
}

func derefOrNil[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

// UserInfoRepository manages user information persistence.
type UserInfoRepository interface {
	// Get retrieves the user information of an account.
	// Returns ErrNotFound if the account has not provided any.
	Get(ctx context.Context, uid string) (*UserInfo, error)

	// Upsert creates the row if absent and applies the partial update.
	Upsert(ctx context.Context, uid string, update UserInfoUpdate) (*UserInfo, error)
}
