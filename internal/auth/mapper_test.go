package auth

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"testing"

	"gorm.io/gorm"
)

func TestMapNilIsNil(t *testing.T) {
	if got := Map(nil); got != nil {
		t.Fatalf("Map(nil) = %v, want nil", got)
	}
}

func TestMapSentinels(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind Kind
	}{
		{"invalid credentials", ErrInvalidCredentials, KindInvalidCredentials},
		{"invalid old password", ErrInvalidOldPassword, KindInvalidCredentials},
		{"two-factor required", ErrTwoFactorRequired, KindInvalidCredentials},
		{"two-factor invalid", ErrTwoFactorInvalid, KindInvalidCredentials},
		{"user not found", ErrUserNotFound, KindUserNotFound},
		{"gorm record not found", gorm.ErrRecordNotFound, KindUserNotFound},
		{"email in use", ErrEmailInUse, KindEmailInUse},
		{"weak password", ErrWeakPassword, KindWeakPassword},
		{"not authenticated", ErrNotAuthenticated, KindNotAuthenticated},
		{"oauth cancelled", ErrOAuthCancelled, KindOAuthCancelled},
		{"reset token invalid", ErrResetTokenInvalid, KindUnknown},
		{"reset token expired", ErrResetTokenExpired, KindUnknown},
		{"display name empty", ErrDisplayNameEmpty, KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Map(tt.err)
			if got == nil {
				t.Fatalf("Map(%v) = nil", tt.err)
			}

			if got.Kind != tt.kind {
				t.Errorf("Map(%v).Kind = %q, want %q", tt.err, got.Kind, tt.kind)
			}

			if got.Message == "" {
				t.Errorf("Map(%v) has empty message", tt.err)
			}
		})
	}
}

func TestMapWrappedSentinel(t *testing.T) {
	err := fmt.Errorf("sign-in failed: %w", ErrInvalidCredentials)

	got := Map(err)
	if got.Kind != KindInvalidCredentials {
		t.Fatalf("Map(wrapped).Kind = %q, want %q", got.Kind, KindInvalidCredentials)
	}
}

func TestMapNetworkErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"dns error", &net.DNSError{Err: "no such host", Name: "idp.example.com"}},
		{"url error", &url.Error{Op: "Get", URL: "https://idp.example.com", Err: errors.New("connection refused")}},
		{"op error", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("timeout")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Map(tt.err)
			if got.Kind != KindNetwork {
				t.Errorf("Map(%v).Kind = %q, want %q", tt.err, got.Kind, KindNetwork)
			}
		})
	}
}

func TestMapUnknownKeepsRawMessage(t *testing.T) {
	err := errors.New("something exploded")

	got := Map(err)
	if got.Kind != KindUnknown {
		t.Fatalf("Kind = %q, want %q", got.Kind, KindUnknown)
	}

	if got.Message != "something exploded" {
		t.Fatalf("Message = %q, want raw message", got.Message)
	}
}

func TestMapDisplayNameEmptyMessage(t *testing.T) {
	got := Map(ErrDisplayNameEmpty)
	if got.Message != "Display name cannot be empty" {
		t.Fatalf("Message = %q, want %q", got.Message, "Display name cannot be empty")
	}
}

func TestErrorImplementsError(t *testing.T) {
	var err error = &Error{Kind: KindUnknown, Message: "boom"}
	if err.Error() != "boom" {
		t.Fatalf("Error() = %q", err.Error())
	}
}
