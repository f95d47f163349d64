package crypto

import (
	"strings"
	"testing"
)

func TestGenerateHashedToken(t *testing.T) {
	tests := []struct {
		name       string
		byteLength []int
	}{
		{name: "default length"},
		{name: "explicit 16 bytes", byteLength: []int{16}},
		{name: "explicit 64 bytes", byteLength: []int{64}},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			pair, err := GenerateHashedToken(test.byteLength...)
			if err != nil {
				t.Fatalf("GenerateHashedToken() error = %v", err)
			}
			if pair.Token == "" || pair.Hash == "" {
				t.Fatal("GenerateHashedToken() returned empty pair")
			}
			if pair.Token == pair.Hash {
				t.Error("token and hash must differ")
			}
			if strings.ContainsAny(pair.Token, "+/= ") {
				t.Errorf("token contains URL-unsafe characters: %q", pair.Token)
			}
			if HashToken(pair.Token) != pair.Hash {
				t.Error("hash must be the sha-256 of the token")
			}
		})
	}
}

func TestGenerateHashedToken_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		pair, err := GenerateHashedToken()
		if err != nil {
			t.Fatalf("GenerateHashedToken() error = %v", err)
		}
		if seen[pair.Token] {
			t.Fatalf("duplicate token after %d iterations", i)
		}
		seen[pair.Token] = true
	}
}

func TestVerifyToken(t *testing.T) {
	pair, err := GenerateHashedToken()
	if err != nil {
		t.Fatalf("GenerateHashedToken() error = %v", err)
	}

	tests := []struct {
		name    string
		token   string
		hash    string
		want    bool
		wantErr bool
	}{
		{name: "matching pair", token: pair.Token, hash: pair.Hash, want: true},
		{name: "wrong token", token: "tampered", hash: pair.Hash, want: false},
		{name: "wrong hash", token: pair.Token, hash: HashToken("other"), want: false},
		{name: "empty token", token: "", hash: pair.Hash, wantErr: true},
		{name: "empty hash", token: pair.Token, hash: "", wantErr: true},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			got, err := VerifyToken(test.token, test.hash)
			if test.wantErr {
				if err == nil {
					t.Error("VerifyToken() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("VerifyToken() error = %v", err)
			}
			if got != test.want {
				t.Errorf("VerifyToken() = %v, want %v", got, test.want)
			}
		})
	}
}

func TestHashToken_Deterministic(t *testing.T) {
	if HashToken("abc") != HashToken("abc") {
		t.Error("HashToken() must be deterministic")
	}
	if HashToken("abc") == HashToken("abd") {
		t.Error("HashToken() must differ for different inputs")
	}
	if len(HashToken("abc")) != 64 {
		t.Errorf("HashToken() length = %d, want 64 hex chars", len(HashToken("abc")))
	}
}
