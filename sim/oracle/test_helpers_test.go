package oracle

import (
	"bufio"
	"net"
	"strconv"
	"sync"
	"testing"
	"time"
)

// fakeOracle is an in-process TCP oracle. For every accepted connection it
// reads one request line, records it, and writes reply(request) verbatim
// (no newline is appended) before closing, as the reference oracles do.
type fakeOracle struct {
	ln       net.Listener
	mu       sync.Mutex
	requests []string
	conns    int
}

func startFakeOracle(t *testing.T, reply func(request string) string) *fakeOracle {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	f := &fakeOracle{ln: ln}
	t.Cleanup(func() { _ = ln.Close() })
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go f.serve(conn, reply)
		}
	}()
	return f
}

func (f *fakeOracle) serve(conn net.Conn, reply func(string) string) {
	defer func() { _ = conn.Close() }()
	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		return
	}
	f.mu.Lock()
	f.requests = append(f.requests, line)
	f.conns++
	f.mu.Unlock()
	if out := reply(line); out != "" {
		_, _ = conn.Write([]byte(out))
	}
}

func (f *fakeOracle) client() *Client {
	host, portStr, _ := net.SplitHostPort(f.ln.Addr().String())
	port, _ := strconv.Atoi(portStr)
	c := NewClient(host, port)
	c.IOTimeout = 2 * time.Second
	return c
}

func (f *fakeOracle) received() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

// closedPortClient returns a Client pointing at a port nothing listens on.
func closedPortClient(t *testing.T) *Client {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()
	return &Client{Addr: addr, DialTimeout: time.Second, IOTimeout: time.Second}
}

// stubExchanger returns a canned line or error without any network.
type stubExchanger struct {
	line     string
	err      error
	payloads [][]byte
}

func (s *stubExchanger) Exchange(payload []byte) (string, error) {
	s.payloads = append(s.payloads, payload)
	return s.line, s.err
}
