package sim

import (
	"bufio"
	"errors"
	"net"
	"strconv"
	"sync"
	"testing"

	"github.com/multicloud-sched/multicloud-sched/sim/outcome"
)

// startLineOracle serves one request line per connection and answers with
// reply(request), without a trailing newline, then closes the connection.
func startLineOracle(t *testing.T, reply func(request string) string) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { _ = ln.Close() })
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				defer func() { _ = c.Close() }()
				line, err := bufio.NewReader(c).ReadString('\n')
				if err != nil {
					return
				}
				_, _ = c.Write([]byte(reply(line)))
			}(conn)
		}
	}()
	return ln.Addr().String()
}

// closedAddr returns a loopback address nothing listens on.
func closedAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()
	return addr
}

func splitAddr(t *testing.T, addr string) (string, int) {
	t.Helper()
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		t.Fatalf("split %q: %v", addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("port %q: %v", portStr, err)
	}
	return host, port
}

// memorySink collects outcomes in memory.
type memorySink struct {
	mu       sync.Mutex
	outcomes []outcome.Outcome
}

func (s *memorySink) Write(o outcome.Outcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outcomes = append(s.outcomes, o)
	return nil
}

func (s *memorySink) all() []outcome.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]outcome.Outcome(nil), s.outcomes...)
}

// failingSink rejects every write.
type failingSink struct{ calls int }

func (s *failingSink) Write(outcome.Outcome) error {
	s.calls++
	return errors.New("disk full")
}

// fixedPolicy always answers the same index.
type fixedPolicy struct {
	index  int
	family PolicyFamily
	seen   []*DecisionContext
}

func (p *fixedPolicy) Decide(dc *DecisionContext) Decision {
	cp := *dc
	p.seen = append(p.seen, &cp)
	return Decision{Index: p.index, Reason: "fixed"}
}

func (p *fixedPolicy) Family() PolicyFamily { return p.family }

func mustRegistry(t *testing.T, configs []ProviderConfig) *ProviderRegistry {
	t.Helper()
	reg, err := NewProviderRegistry(configs)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	return reg
}
