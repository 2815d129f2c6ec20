// Package netprobe provides a synchronous point-in-time connectivity check.
package netprobe

import (
	"net"
	"time"
)

// Probe checks reachability of a single host:port address. Each call
// dials fresh; nothing is cached.
type Probe struct {
	// Addr is the host:port dialed to decide online state.
	Addr string
	// Timeout bounds each dial attempt.
	Timeout time.Duration
}

// New creates a Probe for the given address with a one second timeout.
func New(addr string) *Probe {
	return &Probe{Addr: addr, Timeout: time.Second}
}

// Online reports whether the probe address is currently reachable.
func (p *Probe) Online() bool {
	conn, err := net.DialTimeout("tcp", p.Addr, p.Timeout)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}
