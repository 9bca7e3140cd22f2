package application

import (
	"fmt"
	"strings"
	"sync"
)

// demoAccount is one row of the fixed demo login table.
type demoAccount struct {
	Email        string
	PasswordHash string
	Role         Role
}

// CredentialTable matches login attempts against the demo accounts.
type CredentialTable struct {
	accounts []demoAccount
	verify   func(encoded, password string) error
}

var demoPasswords = []struct {
	email    string
	password string
	role     Role
}{
	{email: "demo.student@hostel.com", password: "student123", role: RoleStudent},
	{email: "demo.mess@hostel.com", password: "mess123", role: RoleMess},
	{email: "demo.office@hostel.com", password: "office123", role: RoleOffice},
}

var (
	demoTableOnce sync.Once
	demoTable     *CredentialTable
	demoTableErr  error
)

// DemoCredentials returns the shared table of the three demo accounts. The
// hashes are computed once per process.
func DemoCredentials() (*CredentialTable, error) {
	demoTableOnce.Do(func() {
		accounts := make([]demoAccount, 0, len(demoPasswords))
		for _, demo := range demoPasswords {
			hash, err := HashPassword(demo.password, DemoArgon2idParams)
			if err != nil {
				demoTableErr = fmt.Errorf("hash demo credential %s: %w", demo.email, err)
				return
			}
			accounts = append(accounts, demoAccount{Email: demo.email, PasswordHash: hash, Role: demo.role})
		}
		demoTable = &CredentialTable{accounts: accounts, verify: VerifyPassword}
	})
	return demoTable, demoTableErr
}

// Match reports whether the exact (email, password, role) triple belongs to a
// demo account. Emails compare exactly, as typed.
func (t *CredentialTable) Match(creds Credentials) bool {
	if t == nil {
		return false
	}
	for _, account := range t.accounts {
		if account.Email != creds.Email || account.Role != creds.Role {
			continue
		}
		return t.verify(account.PasswordHash, creds.Password) == nil
	}
	return false
}

// canonicalIdentity is the fixed profile every login of role receives.
func canonicalIdentity(role Role, email string) Identity {
	switch role {
	case RoleStudent:
		return Identity{
			ID:            "1",
			Name:          "John Doe",
			Email:         email,
			Role:          RoleStudent,
			RoomNumber:    "A-101",
			RollNumber:    "ST12345",
			ParentContact: "+1234567890",
		}
	case RoleMess:
		return Identity{ID: "2", Name: "Mess Manager", Email: email, Role: RoleMess, Designation: "Head Chef"}
	default:
		return Identity{ID: "3", Name: "Hostel Warden", Email: email, Role: RoleOffice, Designation: "Chief Warden"}
	}
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(email)
}
