package identity

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"a2admin/internal/sentinel"
	id "a2admin/pkg/domain"
)

// InMemoryDirectory is an AccountAdmin for local development and tests.
type InMemoryDirectory struct {
	mu          sync.Mutex
	accounts    map[id.PrincipalID]Account
	deleteErrs  map[id.PrincipalID]error
	invited     []string
	recoveryURL string
}

func NewInMemoryDirectory() *InMemoryDirectory {
	return &InMemoryDirectory{
		accounts:    make(map[id.PrincipalID]Account),
		deleteErrs:  make(map[id.PrincipalID]error),
		recoveryURL: "http://localhost/recover",
	}
}

// Add registers an existing account.
func (d *InMemoryDirectory) Add(acc Account) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.accounts[acc.ID] = acc
}

// FailDelete makes DeleteAccount return err for accountID.
func (d *InMemoryDirectory) FailDelete(accountID id.PrincipalID, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.deleteErrs[accountID] = err
}

// Exists reports whether accountID is registered.
func (d *InMemoryDirectory) Exists(accountID id.PrincipalID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.accounts[accountID]
	return ok
}

// Invited returns the emails InviteByEmail was called with.
func (d *InMemoryDirectory) Invited() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.invited...)
}

func (d *InMemoryDirectory) ListAccountsByEmail(_ context.Context, email string) ([]Account, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []Account
	for _, acc := range d.accounts {
		if strings.EqualFold(acc.Email, email) {
			out = append(out, acc)
		}
	}
	return out, nil
}

func (d *InMemoryDirectory) CreateAccount(_ context.Context, req CreateAccountRequest) (Account, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, acc := range d.accounts {
		if strings.EqualFold(acc.Email, req.Email) {
			return Account{}, fmt.Errorf("account %s: %w", req.Email, sentinel.ErrAlreadyUsed)
		}
	}
	acc := Account{ID: id.PrincipalID(uuid.New()), Email: req.Email, Role: req.Role}
	d.accounts[acc.ID] = acc
	return acc, nil
}

func (d *InMemoryDirectory) SetAccountRole(_ context.Context, accountID id.PrincipalID, role string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	acc, ok := d.accounts[accountID]
	if !ok {
		return sentinel.ErrNotFound
	}
	acc.Role = role
	d.accounts[accountID] = acc
	return nil
}

func (d *InMemoryDirectory) DeleteAccount(_ context.Context, accountID id.PrincipalID) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err, ok := d.deleteErrs[accountID]; ok {
		return err
	}
	if _, ok := d.accounts[accountID]; !ok {
		return fmt.Errorf("delete account %s: %w", accountID, sentinel.ErrNotFound)
	}
	delete(d.accounts, accountID)
	return nil
}

func (d *InMemoryDirectory) InviteByEmail(_ context.Context, email, _ string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.invited = append(d.invited, strings.ToLower(email))
	return nil
}

func (d *InMemoryDirectory) GenerateRecoveryLink(_ context.Context, email, _ string) (string, error) {
	return d.recoveryURL + "?email=" + strings.ToLower(email), nil
}
