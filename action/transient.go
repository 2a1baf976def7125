package action

import "strings"

// transientPatterns are lowercase error-message substrings that indicate a
// transient transport failure likely to succeed on retry. Adapted from the
// teacher's act.IsTransientError classifier — which matches Docker/act
// container-startup failure strings — re-aimed at plain HTTP/DNS/transport
// errors, since this system has no container runtime to fail.
var transientPatterns = []string{
	"connection refused",
	"connection reset by peer",
	"no such host",
	"network is unreachable",
	"i/o timeout",
	"tls handshake timeout",
	"context deadline exceeded",
	"temporary failure in name resolution",
	"eof",
}

// IsTransientNetworkError reports whether err's message matches a known
// transient-failure pattern.
func IsTransientNetworkError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, pattern := range transientPatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
