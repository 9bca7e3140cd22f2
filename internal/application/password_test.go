package application

import (
	"errors"
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("student123", DemoArgon2idParams)
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=8192,t=1,p=1$") {
		t.Fatalf("unexpected encoding %q", hash)
	}

	if err := VerifyPassword(hash, "student123"); err != nil {
		t.Fatalf("expected password to verify, got %v", err)
	}
	if err := VerifyPassword(hash, "student124"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	other, err := HashPassword("student123", DemoArgon2idParams)
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if other == hash {
		t.Fatalf("expected distinct salts to produce distinct encodings")
	}
}

func TestVerifyPasswordRejectsMalformedHashes(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		encoded string
		want    error
	}{
		"empty":         {encoded: "", want: ErrInvalidPasswordHash},
		"wrong variant": {encoded: "$argon2i$v=19$m=8192,t=1,p=1$c2FsdA$aGFzaA", want: ErrInvalidPasswordHash},
		"old version":   {encoded: "$argon2id$v=16$m=8192,t=1,p=1$c2FsdA$aGFzaA", want: ErrIncompatiblePasswordVersion},
		"bad params":    {encoded: "$argon2id$v=19$memory$c2FsdA$aGFzaA", want: ErrInvalidPasswordHash},
		"bad salt":      {encoded: "$argon2id$v=19$m=8192,t=1,p=1$!!!$aGFzaA", want: ErrInvalidPasswordHash},
	}

	for name, tc := range cases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if err := VerifyPassword(tc.encoded, "student123"); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestCredentialTable_Match(t *testing.T) {
	t.Parallel()

	table := demoCredentialTable(t)
	again := demoCredentialTable(t)
	if table != again {
		t.Fatalf("expected the demo table to be built once")
	}

	for _, role := range Roles() {
		password := map[Role]string{RoleStudent: "student123", RoleMess: "mess123", RoleOffice: "office123"}[role]
		email := "demo." + string(role) + "@hostel.com"
		if !table.Match(Credentials{Email: email, Password: password, Role: role}) {
			t.Fatalf("expected %s demo account to match", role)
		}
	}

	var nilTable *CredentialTable
	if nilTable.Match(Credentials{Email: "demo.student@hostel.com", Password: "student123", Role: RoleStudent}) {
		t.Fatalf("expected nil table to match nothing")
	}
}

func TestCanonicalIdentity(t *testing.T) {
	t.Parallel()

	student := canonicalIdentity(RoleStudent, "demo.student@hostel.com")
	if student.RollNumber != "ST12345" || student.ParentContact != "+1234567890" || student.Designation != "" {
		t.Fatalf("unexpected student identity %+v", student)
	}
	mess := canonicalIdentity(RoleMess, "demo.mess@hostel.com")
	if mess.Designation != "Head Chef" || mess.RoomNumber != "" {
		t.Fatalf("unexpected mess identity %+v", mess)
	}
	office := canonicalIdentity(RoleOffice, "demo.office@hostel.com")
	if office.ID != "3" || office.Designation != "Chief Warden" {
		t.Fatalf("unexpected office identity %+v", office)
	}
}
