package credentials

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestStore_SetAndToken(t *testing.T) {
	kr := NewMockKeyring()
	s := NewStore(WithKeyring(kr))

	if err := s.SetToken(" key ", " secret\n"); err != nil {
		t.Fatalf("SetToken: %v", err)
	}
	got, err := kr.Get(Service, "key")
	if err != nil || got != "secret" {
		t.Fatalf("keyring entry = %q, %v; want secret", got, err)
	}

	token, err := s.Token("key")
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if token != "secret" {
		t.Errorf("Token = %q, want secret", token)
	}
}

func TestStore_SetTokenRejectsEmpty(t *testing.T) {
	s := NewStore(WithKeyring(NewMockKeyring()))

	tests := []struct {
		name, key, token string
	}{
		{"empty key", "", "t"},
		{"empty token", "k", "  "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.SetToken(tt.key, tt.token); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestStore_TokenNotFound(t *testing.T) {
	s := NewStore(WithKeyring(NewMockKeyring()))

	_, err := s.Token("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestStore_DeleteToken(t *testing.T) {
	kr := NewMockKeyring()
	s := NewStore(WithKeyring(kr))
	_ = s.SetToken("key", "secret")

	if err := s.DeleteToken("key"); err != nil {
		t.Fatalf("DeleteToken: %v", err)
	}
	if _, err := s.Token("key"); !errors.Is(err, ErrNotFound) {
		t.Errorf("after delete error = %v, want ErrNotFound", err)
	}
	if err := s.DeleteToken("key"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete error = %v, want ErrNotFound", err)
	}
}

func TestStore_Resolve(t *testing.T) {
	kr := NewMockKeyring()
	_ = kr.Set(Service, "key", "from-keyring")
	s := NewStore(WithKeyring(kr))

	tests := []struct {
		name       string
		key        string
		configured string
		want       string
		wantErr    bool
	}{
		{"configured wins", "key", "from-config", "from-config", false},
		{"keyring fallback", "key", "", "from-keyring", false},
		{"nothing stored", "other", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Resolve(tt.key, tt.configured)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Resolve = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReadToken(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"trimmed line", "  abc123  \nignored\n", "abc123", false},
		{"no newline", "abc", "abc", false},
		{"blank line", "\n", "", true},
		{"no input", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var prompt bytes.Buffer
			got, err := ReadToken(strings.NewReader(tt.input), &prompt)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ReadToken = %q, want %q", got, tt.want)
			}
			if prompt.String() != "Trello token: " {
				t.Errorf("prompt = %q", prompt.String())
			}
		})
	}
}
