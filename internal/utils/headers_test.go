package utils

import (
	"errors"
	"net/http/httptest"
	"testing"
)

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name          string
		header        string
		expectedToken string
		expectedErr   error
	}{
		{name: "bearer token", header: "Bearer abc.def.ghi", expectedToken: "abc.def.ghi"},
		{name: "lowercase scheme", header: "bearer abc.def.ghi", expectedToken: "abc.def.ghi"},
		{name: "extra spaces around token", header: "Bearer   abc.def.ghi  ", expectedToken: "abc.def.ghi"},
		{name: "missing header", header: "", expectedErr: ErrMissingAuthzHeader},
		{name: "scheme only", header: "Bearer", expectedErr: ErrMissingAuthzToken},
		{name: "scheme with blank token", header: "Bearer    ", expectedErr: ErrMissingAuthzToken},
		{name: "raw token without scheme", header: "abc.def.ghi", expectedErr: ErrInvalidAuthzHeader},
		{name: "basic auth", header: "Basic dXNlcjpwYXNz", expectedErr: ErrUnsupportedAuthzScheme},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			token, err := ExtractBearerToken(req)
			if tt.expectedErr != nil {
				if !errors.Is(err, tt.expectedErr) {
					t.Fatalf("expected error %v, got %v", tt.expectedErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if token != tt.expectedToken {
				t.Errorf("expected token %q, got %q", tt.expectedToken, token)
			}
		})
	}
}
