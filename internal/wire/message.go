package wire

import (
	"fmt"

	"github.com/bytedance/sonic"
)

// Message kinds carried in the "type" discriminator.
const (
	TypeRegister       = "Register"
	TypeRegisterOk     = "RegisterOk"
	TypeGossipRandom   = "GossipRandom"
	TypeGossipRandomOk = "GossipRandomOk"
)

// Message is the wire record for all four protocol exchanges. Type selects
// the variant; unrelated fields stay at their zero value and are not encoded.
type Message struct {
	Type string `json:"type"`

	// Addr is the joining node's listen address (Register).
	Addr string `json:"addr,omitempty"`

	// KnownNodes lists every membership entry of the replying node,
	// including the newly registered one (RegisterOk).
	KnownNodes []string `json:"known_nodes,omitempty"`

	// From is the gossiping node's listen address (GossipRandom). TCP only
	// exposes the ephemeral remote port, so the listen address travels in
	// the record itself.
	From string `json:"from,omitempty"`

	// Data is the disseminated payload (GossipRandom).
	Data string `json:"data,omitempty"`

	// Suspects lists peers the sender locally considers unresponsive
	// (GossipRandom).
	Suspects []string `json:"suspects,omitempty"`
}

// NewRegister builds the join request announcing addr.
func NewRegister(addr string) Message {
	return Message{Type: TypeRegister, Addr: addr}
}

// NewRegisterOk builds the join reply carrying the full membership list.
func NewRegisterOk(known []string) Message {
	if known == nil {
		known = []string{}
	}
	return Message{Type: TypeRegisterOk, KnownNodes: known}
}

// NewGossipRandom builds one gossip round: payload plus the sender's
// locally suspected peers.
func NewGossipRandom(from, data string, suspects []string) Message {
	if suspects == nil {
		suspects = []string{}
	}
	return Message{Type: TypeGossipRandom, From: from, Data: data, Suspects: suspects}
}

// NewGossipRandomOk builds the gossip acknowledgement.
func NewGossipRandomOk() Message {
	return Message{Type: TypeGossipRandomOk}
}

// IsRequest reports whether the sender must hold the connection open for a
// synchronous reply to this message.
func (m Message) IsRequest() bool {
	return m.Type == TypeRegister || m.Type == TypeGossipRandom
}

// Source returns the listen address of the node that produced the message,
// or "" when the message kind does not identify its sender (replies are
// attributed by whoever performed the request).
func (m Message) Source() string {
	switch m.Type {
	case TypeRegister:
		return m.Addr
	case TypeGossipRandom:
		return m.From
	}
	return ""
}

// encoding shadows: one struct per variant so that set-valued fields encode
// as [] rather than disappearing or encoding as null.
type (
	registerJSON struct {
		Type string `json:"type"`
		Addr string `json:"addr"`
	}
	registerOkJSON struct {
		Type       string   `json:"type"`
		KnownNodes []string `json:"known_nodes"`
	}
	gossipRandomJSON struct {
		Type     string   `json:"type"`
		From     string   `json:"from"`
		Data     string   `json:"data"`
		Suspects []string `json:"suspects"`
	}
	gossipRandomOkJSON struct {
		Type string `json:"type"`
	}
)

// Encode serializes m as a single JSON record.
func Encode(m Message) ([]byte, error) {
	switch m.Type {
	case TypeRegister:
		return sonic.Marshal(registerJSON{Type: m.Type, Addr: m.Addr})
	case TypeRegisterOk:
		known := m.KnownNodes
		if known == nil {
			known = []string{}
		}
		return sonic.Marshal(registerOkJSON{Type: m.Type, KnownNodes: known})
	case TypeGossipRandom:
		suspects := m.Suspects
		if suspects == nil {
			suspects = []string{}
		}
		return sonic.Marshal(gossipRandomJSON{Type: m.Type, From: m.From, Data: m.Data, Suspects: suspects})
	case TypeGossipRandomOk:
		return sonic.Marshal(gossipRandomOkJSON{Type: m.Type})
	}
	return nil, fmt.Errorf("encode: unknown message type %q", m.Type)
}

// Decode parses a single JSON record. It rejects records whose discriminator
// is missing or unknown, and normalizes set-valued fields so that decoding
// an encoded message yields an equal value.
func Decode(data []byte) (Message, error) {
	var m Message
	if err := sonic.Unmarshal(data, &m); err != nil {
		return Message{}, fmt.Errorf("decode: %w", err)
	}
	switch m.Type {
	case TypeRegister:
		if m.Addr == "" {
			return Message{}, fmt.Errorf("decode: %s without addr", TypeRegister)
		}
	case TypeRegisterOk:
		if m.KnownNodes == nil {
			m.KnownNodes = []string{}
		}
	case TypeGossipRandom:
		if m.From == "" {
			return Message{}, fmt.Errorf("decode: %s without from", TypeGossipRandom)
		}
		if m.Suspects == nil {
			m.Suspects = []string{}
		}
	case TypeGossipRandomOk:
	default:
		return Message{}, fmt.Errorf("decode: unknown message type %q", m.Type)
	}
	return m, nil
}
