// Package wire defines the gossip wire protocol: a tagged JSON record per
// message, one message per TCP connection. The "type" field selects the
// variant; every other field belongs to exactly one variant.
package wire
