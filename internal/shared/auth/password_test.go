package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	password := "senha-super-secreta"
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() failed: %v", err)
	}
	if hash == "" {
		t.Fatal("HashPassword() returned empty hash")
	}
	if hash == password {
		t.Fatal("HashPassword() returned plaintext password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		t.Errorf("HashPassword() produced invalid bcrypt hash: %v", err)
	}
}

func TestHashPassword_Salted(t *testing.T) {
	password := "same-password"
	hash1, _ := HashPassword(password)
	hash2, _ := HashPassword(password)

	if hash1 == hash2 {
		t.Error("HashPassword() produced identical hashes for same password (no salt)")
	}
}

func TestVerifyPassword(t *testing.T) {
	hash, _ := HashPassword("correct-password")

	if err := VerifyPassword(hash, "correct-password"); err != nil {
		t.Errorf("VerifyPassword() failed with correct password: %v", err)
	}
	if err := VerifyPassword(hash, "wrong-password"); err == nil {
		t.Error("VerifyPassword() accepted wrong password")
	}
	if err := VerifyPassword(hash, ""); err == nil {
		t.Error("VerifyPassword() accepted empty password against non-empty hash")
	}
}
