package signing

import (
	"testing"
	"time"
)

func newSigner() *Signer { return New("test-signing-secret-32-bytes-ok!") }

func TestSign_Verify_HappyPath(t *testing.T) {
	s := newSigner()
	exp := time.Now().Add(time.Hour)

	signed := s.Sign([]byte(`{"preferredResolutions":["1080p"]}`), exp)
	if !s.Verify(signed.Payload, signed.Exp, signed.Sig) {
		t.Fatal("expected Verify to return true for valid signature")
	}
}

func TestVerify_Expired(t *testing.T) {
	s := newSigner()
	exp := time.Now().Add(-time.Hour)

	signed := s.Sign([]byte(`{}`), exp)
	if s.Verify(signed.Payload, signed.Exp, signed.Sig) {
		t.Fatal("expected Verify to return false for expired signature")
	}
}

func TestVerify_TamperedPayload(t *testing.T) {
	s := newSigner()
	exp := time.Now().Add(time.Hour)
	signed := s.Sign([]byte(`{"a":1}`), exp)

	other := s.Sign([]byte(`{"a":2}`), exp)
	if s.Verify(other.Payload, signed.Exp, signed.Sig) {
		t.Fatal("expected Verify to fail for tampered payload")
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	s1 := newSigner()
	s2 := New("different-secret-32-bytes-padded!!")
	exp := time.Now().Add(time.Hour)

	signed := s1.Sign([]byte(`{}`), exp)
	if s2.Verify(signed.Payload, signed.Exp, signed.Sig) {
		t.Fatal("expected Verify to fail with different secret")
	}
}

func TestEncodeDecodeToken_Roundtrip(t *testing.T) {
	s := newSigner()
	exp := time.Now().Add(time.Hour)
	payload := []byte(`{"enableSeadex":true}`)
	signed := s.Sign(payload, exp)

	token := EncodeToken(signed)
	payloadB64, decodedExp, sig, err := DecodeToken(token)
	if err != nil {
		t.Fatalf("DecodeToken: %v", err)
	}
	if payloadB64 != signed.Payload {
		t.Fatalf("expected payload %q, got %q", signed.Payload, payloadB64)
	}
	if decodedExp != signed.Exp {
		t.Fatalf("expected exp %d, got %d", signed.Exp, decodedExp)
	}
	if !s.Verify(payloadB64, decodedExp, sig) {
		t.Fatal("decoded token should verify successfully")
	}

	got, err := DecodePayload(payloadB64)
	if err != nil {
		t.Fatalf("DecodePayload: %v", err)
	}
	if string(got) != string(payload) {
		t.Fatalf("expected payload %q, got %q", payload, got)
	}
}

func TestDecodeToken_Malformed(t *testing.T) {
	tests := []string{
		"",
		"onlyonepart",
		"two.parts",
		"..",
		"payload..sig",
	}
	for _, tok := range tests {
		t.Run(tok, func(t *testing.T) {
			if _, _, _, err := DecodeToken(tok); err == nil {
				t.Fatalf("expected error decoding %q", tok)
			}
		})
	}
}
