package config

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Config holds the node configuration.
type Config struct {
	// Host is the interface the node listens on and advertises to peers.
	// Defaults to 127.0.0.1.
	Host string

	// Port is the listen port. Zero asks the OS for an ephemeral port,
	// which the integration harness relies on; the CLI requires an
	// explicit value.
	Port uint16

	// Period is the gossip tick interval.
	Period time.Duration

	// Connect is the address of an existing node to join through. Empty
	// means this node starts the network.
	Connect string

	// MetricsAddr, when set, serves prometheus metrics on that address.
	MetricsAddr string
}

// Validate checks the configuration before any socket is opened. A failure
// here is fatal and precedes all gossip activity.
func (c *Config) Validate() error {
	if c.Period <= 0 {
		return fmt.Errorf("gossip period must be positive, got %v", c.Period)
	}
	if c.Connect != "" {
		if err := ValidateAddr(c.Connect); err != nil {
			return fmt.Errorf("invalid connect address: %w", err)
		}
	}
	return nil
}

// ListenAddr returns the host:port the node binds.
func (c *Config) ListenAddr() string {
	host := c.Host
	if host == "" {
		host = "127.0.0.1"
	}
	return net.JoinHostPort(host, strconv.Itoa(int(c.Port)))
}

// ValidateAddr checks that addr is a host:port with a numeric port.
func ValidateAddr(addr string) error {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("expected host:port, got %q: %w", addr, err)
	}
	if host == "" {
		return fmt.Errorf("empty host in %q", addr)
	}
	n, err := strconv.Atoi(port)
	if err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("invalid port in %q", addr)
	}
	return nil
}
