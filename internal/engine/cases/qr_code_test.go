package cases

import (
	"bytes"
	"testing"
)

func TestVerificationQR(t *testing.T) {
	png, err := VerificationQR("https://app.recurso.example/verify/case_123", 256)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("expected PNG output")
	}
}

func TestVerificationQRSizeBounds(t *testing.T) {
	if _, err := VerificationQR("https://app.recurso.example/verify/case_123", 64); err == nil {
		t.Error("expected error for size below minimum")
	}
	if _, err := VerificationQR("https://app.recurso.example/verify/case_123", 4096); err == nil {
		t.Error("expected error for size above maximum")
	}
	if png, err := VerificationQR("https://app.recurso.example/verify/case_123", 0); err != nil || len(png) == 0 {
		t.Errorf("expected default size to apply, got err=%v", err)
	}
}
