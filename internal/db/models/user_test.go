package models

import (
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func TestVerifyPasswordArgon2id(t *testing.T) {
	u := User{Password: HashPassword("s3cr3t")}

	if !u.VerifyPassword("s3cr3t") {
		t.Error("correct password rejected")
	}

	if u.VerifyPassword("wrong") {
		t.Error("wrong password accepted")
	}
}

func TestVerifyPasswordBcryptFallback(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("imported"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt hash failed: %v", err)
	}

	u := User{Password: string(hash)}

	if !u.VerifyPassword("imported") {
		t.Error("imported bcrypt password rejected")
	}

	if u.VerifyPassword("wrong") {
		t.Error("wrong password accepted against bcrypt hash")
	}
}

func TestPasswordResetLifecycle(t *testing.T) {
	now := time.Now()
	r := PasswordReset{ExpiresAt: now.Add(time.Minute)}

	if r.Expired(now) {
		t.Error("token expired before its time")
	}

	if !r.Expired(now.Add(2 * time.Minute)) {
		t.Error("token not expired after its time")
	}

	if r.Used() {
		t.Error("fresh token reported used")
	}

	used := now
	r.UsedAt = &used

	if !r.Used() {
		t.Error("redeemed token reported unused")
	}
}
