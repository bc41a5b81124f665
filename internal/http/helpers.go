package http

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// sanitizeInput trims whitespace and removes control characters except tab,
// newline and carriage return.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s)
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(b)
}

// requestID reuses a well-formed incoming X-Request-ID or generates one.
func requestID(incoming string) string {
	incoming = sanitizeInput(incoming)
	if incoming != "" && len(incoming) <= 64 && !strings.ContainsAny(incoming, " \t\r\n") {
		return incoming
	}
	return generateRequestID()
}
