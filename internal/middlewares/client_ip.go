package middlewares

import (
	"net"
	"net/http"
	"strings"
)

// ClientIPMiddleware normalises RemoteAddr to "IP:port". Forwarding headers are
// only honoured when trustProxy is set, since any client can send them.
func ClientIPMiddleware(trustProxy bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := extractClientIP(r, trustProxy)

			if clientIP != "" {
				_, port, err := net.SplitHostPort(r.RemoteAddr)
				if err == nil && port != "" {
					r.RemoteAddr = net.JoinHostPort(clientIP, port)
				} else {
					r.RemoteAddr = net.JoinHostPort(clientIP, "0")
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func extractClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if ip := parseHeaderIP(r.Header.Get("True-Client-IP")); ip != "" {
			return ip
		}

		if ip := parseHeaderIP(r.Header.Get("X-Real-IP")); ip != "" {
			return ip
		}

		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if ip := parseHeaderIP(first); ip != "" {
				return ip
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return parseHeaderIP(r.RemoteAddr)
	}

	return parseHeaderIP(host)
}

func parseHeaderIP(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}

	if parsed := net.ParseIP(value); parsed != nil {
		return parsed.String()
	}

	return ""
}
