// Package suspicion provides the accounting behind quorum-based eviction.
// It tracks which peers have reported which other peers as unresponsive and
// computes the majority threshold that turns accumulated reports into an
// eviction.
package suspicion
