// Package transport moves wire messages between nodes over ephemeral TCP
// connections: one connection, one message, at most one reply. The sender
// and receiver absorb every I/O failure at this boundary; a failed exchange
// surfaces to the protocol only as a missed round.
package transport
