// Package engine implements the membership engine: a single-goroutine event
// loop that owns all protocol state. Receiver and ticker feed events into one
// channel; the engine drains it one event at a time, mutates membership and
// suspicion state, and emits delivery orders for the sender. No other
// component touches the state.
//
// Known limitation, inherited from the protocol: two never-before-seen nodes
// registering with different peers at nearly the same instant can each miss
// the other in the known-node lists they receive, under-propagating the mesh
// until a later exchange closes the gap.
package engine
