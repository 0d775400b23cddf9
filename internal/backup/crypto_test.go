package backup

import (
	"bytes"
	"testing"
)

func TestSealOpenRoundTrip(t *testing.T) {
	plaintext := []byte("chore collection snapshot")

	sealed, err := Seal(plaintext, "correct horse battery staple")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	if bytes.Contains(sealed, plaintext) {
		t.Fatal("sealed output contains the plaintext")
	}
	if len(sealed) < saltSize+nonceSize+len(plaintext) {
		t.Fatalf("sealed output too small: %d bytes", len(sealed))
	}

	opened, err := Open(sealed, "correct horse battery staple")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if !bytes.Equal(opened, plaintext) {
		t.Errorf("round trip mismatch: %q", opened)
	}
}

func TestOpenWrongPassphrase(t *testing.T) {
	sealed, err := Seal([]byte("secret"), "right")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	if _, err := Open(sealed, "wrong"); err == nil {
		t.Error("wrong passphrase should fail to decrypt")
	}
}

func TestOpenTamperedCiphertext(t *testing.T) {
	sealed, err := Seal([]byte("secret"), "pass")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	sealed[len(sealed)-1] ^= 0xFF
	if _, err := Open(sealed, "pass"); err == nil {
		t.Error("tampered ciphertext should fail authentication")
	}
}

func TestOpenTruncatedInput(t *testing.T) {
	if _, err := Open([]byte("short"), "pass"); err == nil {
		t.Error("truncated input should error")
	}
}

func TestSaltAndNonceAreFresh(t *testing.T) {
	a, err := Seal([]byte("same input"), "pass")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	b, err := Seal([]byte("same input"), "pass")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	if bytes.Equal(a, b) {
		t.Error("two seals of the same input should differ")
	}
}
