package notify

import (
	"testing"
)

func TestSign(t *testing.T) {
	secret := "whsec_reminder"
	payload := []byte(`{"event":"case.reminder_due"}`)

	// echo -n '{"event":"case.reminder_due"}' | openssl dgst -sha256 -hmac "whsec_reminder"
	expected := "6d82574f17fb9db4921e818b6ac9afc58af209013c8693ee07e5e1cfbc28541b"

	if got := Sign(secret, payload); got != expected {
		t.Errorf("Sign() = %v, want %v", got, expected)
	}
}

func TestVerify(t *testing.T) {
	secret := "whsec_reminder"
	payload := []byte(`{"event":"case.reminder_due"}`)

	if !Verify(secret, payload, Sign(secret, payload)) {
		t.Error("valid signature rejected")
	}
	if Verify(secret, payload, "deadbeef") {
		t.Error("invalid signature accepted")
	}
	if Verify("other-secret", payload, Sign(secret, payload)) {
		t.Error("signature accepted with wrong secret")
	}
}
