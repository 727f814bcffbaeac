// Package oracle implements the client side of the line-oriented decision
// protocol spoken by remote scheduling oracles.
//
// Every decision is one exchange over a fresh TCP connection: dial, write one
// request line, read one response line, close. There is no pooling, no
// pipelining and no retry. The package has no dependency on sim/ and deals
// only in plain state slices and provider indices.
package oracle

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultDialTimeout bounds connection establishment.
	DefaultDialTimeout = 2 * time.Second
	// DefaultIOTimeout bounds the write and the read of one exchange.
	DefaultIOTimeout = 5 * time.Second

	// maxResponseBytes caps a single response line.
	maxResponseBytes = 64 << 10
)

// Exchanger performs one request/response round trip.
// The payload is sent as a single line; the returned string is the response
// line with its terminator stripped.
type Exchanger interface {
	Exchange(payload []byte) (string, error)
}

// Client is a connection-per-call TCP Exchanger.
type Client struct {
	Addr        string        // host:port of the oracle
	DialTimeout time.Duration // zero means DefaultDialTimeout
	IOTimeout   time.Duration // zero means DefaultIOTimeout
}

// NewClient creates a Client for host:port with default timeouts.
func NewClient(host string, port int) *Client {
	return &Client{
		Addr:        net.JoinHostPort(host, strconv.Itoa(port)),
		DialTimeout: DefaultDialTimeout,
		IOTimeout:   DefaultIOTimeout,
	}
}

// Exchange implements Exchanger.
//
// The response line may be terminated by '\n' or by the oracle closing the
// connection; the reference oracles do the latter. An empty response is a
// protocol error. Deadline expiry is a connection error.
func (c *Client) Exchange(payload []byte) (string, error) {
	conn, err := net.DialTimeout("tcp", c.Addr, orDefault(c.DialTimeout, DefaultDialTimeout))
	if err != nil {
		return "", fmt.Errorf("%w: dial %s: %w", ErrConnection, c.Addr, err)
	}
	defer func() { _ = conn.Close() }()

	if err := conn.SetDeadline(time.Now().Add(orDefault(c.IOTimeout, DefaultIOTimeout))); err != nil {
		return "", fmt.Errorf("%w: set deadline: %w", ErrConnection, err)
	}

	line := make([]byte, 0, len(payload)+1)
	line = append(append(line, payload...), '\n')
	if _, err := conn.Write(line); err != nil {
		return "", fmt.Errorf("%w: write to %s: %w", ErrConnection, c.Addr, err)
	}

	return readLine(conn)
}

// readLine reads a single response line, accepting EOF as a terminator.
func readLine(r io.Reader) (string, error) {
	br := bufio.NewReader(io.LimitReader(r, maxResponseBytes))
	line, err := br.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("%w: read: %w", ErrConnection, err)
		}
		if line == "" {
			return "", fmt.Errorf("%w: connection closed without a response", ErrProtocol)
		}
	}
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" {
		return "", fmt.Errorf("%w: empty response line", ErrProtocol)
	}
	return line, nil
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
