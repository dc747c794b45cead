// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Assoplat Contributors

package web

import (
	"net/http"

	"github.com/assoplat/assoplat/internal/account"
	"github.com/assoplat/assoplat/internal/auth"
	"github.com/assoplat/assoplat/internal/session"
)

// uidResponse is returned by account, login, logout and profile updates.
type uidResponse struct {
	UID string `json:"uid"`
}

// AuthHandlers serves the /api/auth endpoints.
type AuthHandlers struct {
	svc *auth.Service
}

// NewAuthHandlers creates handlers backed by svc.
func NewAuthHandlers(svc *auth.Service) *AuthHandlers {
	return &AuthHandlers{svc: svc}
}

// Routes returns the route table.
func (h *AuthHandlers) Routes() []Route {
	return []Route{
		{Method: http.MethodPost, Path: "/api/auth/account", Handler: h.register},
		{Method: http.MethodGet, Path: "/api/auth/account", Handler: h.register},
		{Method: http.MethodPost, Path: "/api/auth/login", Handler: h.login},
		{Method: http.MethodGet, Path: "/api/auth/login", Handler: h.login},
		{Method: http.MethodPost, Path: "/api/auth/logout", Handler: h.logout},
		{Method: http.MethodPost, Path: "/api/auth/userinfo", Handler: h.updateUserInfo},
		{Method: http.MethodGet, Path: "/api/auth/userinfo", Handler: h.getUserInfo},
	}
}

func (h *AuthHandlers) register(w http.ResponseWriter, r *http.Request, _ *session.Session) (any, error) {
	a, err := parseArgs(w, r)
	if err != nil {
		return nil, err
	}
	acct, err := h.svc.Register(r.Context(), auth.RegisterRequest{
		Name:   a.Get("name"),
		Email:  a.Get("email"),
		Phone:  a.Get("phone"),
		Passwd: a.Get("passwd"),
	})
	if err != nil {
		return nil, err
	}
	return uidResponse{UID: acct.UID}, nil
}

func (h *AuthHandlers) login(w http.ResponseWriter, r *http.Request, sess *session.Session) (any, error) {
	a, err := parseArgs(w, r)
	if err != nil {
		return nil, err
	}
	acct, err := h.svc.Login(r.Context(), sess, auth.LoginRequest{
		UID:    a.Get("uid"),
		Name:   a.Get("name"),
		Email:  a.Get("email"),
		Phone:  a.Get("phone"),
		Passwd: a.Get("passwd"),
	})
	if err != nil {
		return nil, err
	}
	return uidResponse{UID: acct.UID}, nil
}

func (h *AuthHandlers) logout(_ http.ResponseWriter, r *http.Request, sess *session.Session) (any, error) {
	uid, err := h.svc.Logout(r.Context(), sess)
	if err != nil {
		return nil, err
	}
	return uidResponse{UID: uid}, nil
}

func (h *AuthHandlers) updateUserInfo(w http.ResponseWriter, r *http.Request, sess *session.Session) (any, error) {
	a, err := parseArgs(w, r)
	if err != nil {
		return nil, err
	}
	studentID, err := a.Int(account.FieldStudentID)
	if err != nil {
		return nil, err
	}
	info, err := h.svc.UpdateUserInfo(r.Context(), sess, account.UserInfoUpdate{
		StudentID:    studentID,
		Department:   a.Text(account.FieldDepartment),
		School:       a.Text(account.FieldSchool),
		Introduction: a.Text(account.FieldIntroduction),
	})
	if err != nil {
		return nil, err
	}
	return uidResponse{UID: info.UID}, nil
}

func (h *AuthHandlers) getUserInfo(w http.ResponseWriter, r *http.Request, sess *session.Session) (any, error) {
	a, err := parseArgs(w, r)
	if err != nil {
		return nil, err
	}
	return h.svc.GetUserInfo(r.Context(), sess, a.Get("uid"), a.All("info"))
}
