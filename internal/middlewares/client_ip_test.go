package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientIPMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		trustProxy     bool
		remoteAddr     string
		headers        map[string]string
		expectedRemote string
	}{
		{
			name:           "direct connection with port",
			remoteAddr:     "203.0.113.1:54321",
			expectedRemote: "203.0.113.1:54321",
		},
		{
			name:           "direct connection without port",
			remoteAddr:     "203.0.113.1",
			expectedRemote: "203.0.113.1:0",
		},
		{
			name:           "forwarded headers ignored when proxy untrusted",
			remoteAddr:     "10.0.0.1:12345",
			headers:        map[string]string{"X-Forwarded-For": "198.51.100.3", "X-Real-IP": "198.51.100.2"},
			expectedRemote: "10.0.0.1:12345",
		},
		{
			name:           "true-client-ip header",
			trustProxy:     true,
			remoteAddr:     "10.0.0.1:12345",
			headers:        map[string]string{"True-Client-IP": "198.51.100.1"},
			expectedRemote: "198.51.100.1:12345",
		},
		{
			name:           "x-real-ip header",
			trustProxy:     true,
			remoteAddr:     "10.0.0.1:12345",
			headers:        map[string]string{"X-Real-IP": "198.51.100.2"},
			expectedRemote: "198.51.100.2:12345",
		},
		{
			name:           "x-forwarded-for uses first hop",
			trustProxy:     true,
			remoteAddr:     "10.0.0.1:12345",
			headers:        map[string]string{"X-Forwarded-For": "  198.51.100.4 , 10.0.0.2, 10.0.0.3"},
			expectedRemote: "198.51.100.4:12345",
		},
		{
			name:       "true-client-ip wins over the others",
			trustProxy: true,
			remoteAddr: "10.0.0.1:12345",
			headers: map[string]string{
				"True-Client-IP":  "198.51.100.6",
				"X-Real-IP":       "198.51.100.7",
				"X-Forwarded-For": "198.51.100.8",
			},
			expectedRemote: "198.51.100.6:12345",
		},
		{
			name:           "invalid header falls back to remote addr",
			trustProxy:     true,
			remoteAddr:     "10.0.0.1:12345",
			headers:        map[string]string{"X-Forwarded-For": "invalid-ip"},
			expectedRemote: "10.0.0.1:12345",
		},
		{
			name:           "ipv6 remote addr",
			remoteAddr:     "[2001:db8::1]:12345",
			expectedRemote: "[2001:db8::1]:12345",
		},
		{
			name:           "ipv6 in x-forwarded-for",
			trustProxy:     true,
			remoteAddr:     "10.0.0.1:12345",
			headers:        map[string]string{"X-Forwarded-For": "2001:db8::2"},
			expectedRemote: "[2001:db8::2]:12345",
		},
		{
			name:           "unparseable remote addr left alone",
			remoteAddr:     "invalid",
			expectedRemote: "invalid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var capturedRemoteAddr string
			handler := ClientIPMiddleware(tt.trustProxy)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				capturedRemoteAddr = r.RemoteAddr
			}))

			req := httptest.NewRequest(http.MethodGet, "/auth/google", nil)
			req.RemoteAddr = tt.remoteAddr
			for key, value := range tt.headers {
				req.Header.Set(key, value)
			}

			handler.ServeHTTP(httptest.NewRecorder(), req)

			if capturedRemoteAddr != tt.expectedRemote {
				t.Errorf("expected RemoteAddr %q, got %q", tt.expectedRemote, capturedRemoteAddr)
			}
		})
	}
}

func BenchmarkExtractClientIP(b *testing.B) {
	req := httptest.NewRequest(http.MethodGet, "/auth/google", nil)
	req.RemoteAddr = "192.168.1.1:12345"
	req.Header.Set("X-Forwarded-For", "203.0.113.1, 10.0.0.1")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = extractClientIP(req, true)
	}
}
