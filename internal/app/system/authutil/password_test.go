package authutil

import (
	"strings"
	"testing"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		personal []string
		want     error
	}{
		{"valid", "hiking-trail-42", nil, nil},
		{"too short", "abc12", nil, ErrPasswordTooShort},
		{"six runes of CJK", "登山露營活動", nil, nil},
		{"exactly 72 bytes", strings.Repeat("x", 72), nil, nil},
		{"73 bytes", strings.Repeat("x", 73), nil, ErrPasswordTooLong},
		{"common", "password1", nil, ErrPasswordCommon},
		{"common any case", "StrataClub", nil, ErrPasswordCommon},
		{"contains email name", "xTaiMan99x", []string{"taiman@example.com"}, ErrPasswordPersonal},
		{"contains student id", "my-s1001-pass", []string{"a@b.c", "S1001"}, ErrPasswordPersonal},
		{"short personal values ignored", "abc-longer-pass", []string{"abc@example.com"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidatePassword(tt.password, tt.personal...); got != tt.want {
				t.Errorf("ValidatePassword(%q) = %v, want %v", tt.password, got, tt.want)
			}
		})
	}
}

func TestHashAndCheck(t *testing.T) {
	hash, err := HashPassword("campfire-song")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if !strings.HasPrefix(hash, "$2a$12$") {
		t.Errorf("hash = %q, want bcrypt cost 12", hash)
	}

	other, err := HashPassword("campfire-song")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == other {
		t.Error("two hashes of the same password should differ by salt")
	}

	tests := []struct {
		name     string
		password string
		hash     string
		want     bool
	}{
		{"match", "campfire-song", hash, true},
		{"wrong password", "campfire-songs", hash, false},
		{"empty password", "", hash, false},
		{"not a hash", "campfire-song", "plaintext", false},
		{"empty hash", "campfire-song", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckPassword(tt.password, tt.hash); got != tt.want {
				t.Errorf("CheckPassword() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPasswordRules(t *testing.T) {
	rules := PasswordRules()
	for _, want := range []string{"6 characters", "student ID"} {
		if !strings.Contains(rules, want) {
			t.Errorf("PasswordRules() missing %q", want)
		}
	}
}
