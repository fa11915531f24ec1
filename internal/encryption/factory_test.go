package encryption

import (
	"testing"

	"tilecfg/internal/config"
)

func TestNewEncryptorFromConfig(t *testing.T) {
	tests := []struct {
		typ     string
		wantNil bool
		wantErr bool
	}{
		{typ: "age"},
		{typ: ""},
		{typ: "test"},
		{typ: "none", wantNil: true},
		{typ: "rot13", wantNil: true, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			got, err := NewEncryptorFromConfig(config.EncryptionConfig{Type: tt.typ})
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewEncryptorFromConfig(%q) error = %v, wantErr %v", tt.typ, err, tt.wantErr)
			}
			if (got == nil) != tt.wantNil {
				t.Errorf("NewEncryptorFromConfig(%q) nil = %v, want %v", tt.typ, got == nil, tt.wantNil)
			}
		})
	}
}
