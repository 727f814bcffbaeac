package oracle

import (
	"errors"
	"net"
)

// Sentinel errors for the two oracle failure classes. Every error returned by
// this package wraps exactly one of them.
var (
	// ErrConnection covers unreachable oracles, refused connections, I/O
	// failures mid-exchange and deadline expiry.
	ErrConnection = errors.New("oracle connection failure")

	// ErrProtocol covers missing, malformed or unexpectedly shaped responses.
	ErrProtocol = errors.New("oracle protocol error")
)

// Failure kinds reported by Classify. Used as metric labels and log fields.
const (
	KindConnection = "connection"
	KindTimeout    = "timeout"
	KindProtocol   = "protocol"
)

// Classify maps an exchange error to its failure kind.
// Returns "" for a nil error. Timeouts are reported separately from other
// connection failures but are handled identically by callers.
func Classify(err error) string {
	if err == nil {
		return ""
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}
	if errors.Is(err, ErrProtocol) {
		return KindProtocol
	}
	return KindConnection
}
