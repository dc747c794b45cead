// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Assoplat Contributors

// Package accounttest provides in-memory account repositories for tests.
package accounttest

import (
	"context"
	"maps"
	"sync"

	"github.com/google/uuid"

	"github.com/assoplat/assoplat/internal/account"
	"github.com/assoplat/assoplat/internal/apierr"
)

// MemoryStore holds accounts, credentials and user information in maps.
// InTransaction snapshots every table and restores it when fn fails.
type MemoryStore struct {
	mu       sync.Mutex
	accounts map[string]account.Account
	creds    map[account.CredentialType]map[string]string
	infos    map[string]account.UserInfo
	txMu     sync.Mutex

	failType account.CredentialType
	failErr  error
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts: map[string]account.Account{},
		creds: map[account.CredentialType]map[string]string{
			account.CredentialName:  {},
			account.CredentialEmail: {},
			account.CredentialPhone: {},
		},
		infos: map[string]account.UserInfo{},
	}
}

// FailCredentialCreate makes every Create of credType return err.
func (m *MemoryStore) FailCredentialCreate(credType account.CredentialType, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failType, m.failErr = credType, err
}

// AccountCount returns the number of stored accounts.
func (m *MemoryStore) AccountCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.accounts)
}

// CredentialCount returns the number of stored credentials.
func (m *MemoryStore) CredentialCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, byValue := range m.creds {
		n += len(byValue)
	}
	return n
}

// DeleteAccount removes an account, leaving its credentials dangling.
func (m *MemoryStore) DeleteAccount(uid string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.accounts, uid)
}

// InTransaction implements account.Transactor. Transactions are serialized.
func (m *MemoryStore) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.Lock()
	accounts := maps.Clone(m.accounts)
	creds := make(map[account.CredentialType]map[string]string, len(m.creds))
	for t, byValue := range m.creds {
		creds[t] = maps.Clone(byValue)
	}
	infos := maps.Clone(m.infos)
	m.mu.Unlock()

	if err := fn(ctx); err != nil {
		m.mu.Lock()
		m.accounts, m.creds, m.infos = accounts, creds, infos
		m.mu.Unlock()
		return err
	}
	return nil
}

// Accounts returns the account repository view.
func (m *MemoryStore) Accounts() account.AccountRepository { return memAccounts{m} }

// Credentials returns the credential repository view.
func (m *MemoryStore) Credentials() account.CredentialRepository { return memCredentials{m} }

// UserInfos returns the user information repository view.
func (m *MemoryStore) UserInfos() account.UserInfoRepository { return memUserInfos{m} }

type memAccounts struct{ m *MemoryStore }

func (r memAccounts) Create(_ context.Context, passwd *string) (*account.Account, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	acct := account.Account{UID: uuid.NewString(), Passwd: passwd}
	r.m.accounts[acct.UID] = acct
	return &acct, nil
}

func (r memAccounts) GetByID(_ context.Context, uid string) (*account.Account, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	acct, ok := r.m.accounts[uid]
	if !ok {
		return nil, account.ErrNotFound
	}
	return &acct, nil
}

type memCredentials struct{ m *MemoryStore }

func (r memCredentials) Create(_ context.Context, cred account.Credential) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.failErr != nil && cred.Type == r.m.failType {
		return r.m.failErr
	}
	if _, taken := r.m.creds[cred.Type][cred.Value]; taken {
		return apierr.NewDuplicateCredential(string(cred.Type), cred.Value, nil)
	}
	r.m.creds[cred.Type][cred.Value] = cred.UID
	return nil
}

func (r memCredentials) Lookup(_ context.Context, credType account.CredentialType, value string) (*account.Account, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	uid, ok := r.m.creds[credType][value]
	if !ok {
		return nil, account.ErrNotFound
	}
	acct, ok := r.m.accounts[uid]
	if !ok {
		return nil, account.ErrNotFound
	}
	return &acct, nil
}

type memUserInfos struct{ m *MemoryStore }

func (r memUserInfos) Get(_ context.Context, uid string) (*account.UserInfo, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	info, ok := r.m.infos[uid]
	if !ok {
		return nil, account.ErrNotFound
	}
	return &info, nil
}

func (r memUserInfos) Upsert(_ context.Context, uid string, update account.UserInfoUpdate) (*account.UserInfo, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	info, ok := r.m.infos[uid]
	if !ok {
		info = account.UserInfo{UID: uid}
	}
	update.Apply(&info)
	r.m.infos[uid] = info
	return &info, nil
}

var _ account.Transactor = (*MemoryStore)(nil)
