package suspicion

// Table maps a suspected peer address to the set of peers that have gossiped
// suspicion of it. Entries exist only for peers reported by someone; a peer's
// own view of itself is never recorded.
type Table struct {
	reporters map[string]map[string]struct{}
}

// NewTable creates an empty suspicion table.
func NewTable() *Table {
	return &Table{
		reporters: make(map[string]map[string]struct{}),
	}
}

// Report records that reporter has gossiped suspicion of target. Reporting
// the same pair twice has no further effect.
func (t *Table) Report(target, reporter string) {
	set, ok := t.reporters[target]
	if !ok {
		set = make(map[string]struct{})
		t.reporters[target] = set
	}
	set[reporter] = struct{}{}
}

// Retract withdraws reporter's suspicion of target, if any. The entry for
// target disappears once its last reporter is withdrawn.
func (t *Table) Retract(target, reporter string) {
	set, ok := t.reporters[target]
	if !ok {
		return
	}
	delete(set, reporter)
	if len(set) == 0 {
		delete(t.reporters, target)
	}
}

// Reporters returns how many distinct peers currently suspect target.
func (t *Table) Reporters(target string) int {
	return len(t.reporters[target])
}

// Remove drops all suspicion state for target. Called on eviction.
func (t *Table) Remove(target string) {
	delete(t.reporters, target)
}

// Targets returns the addresses that currently have at least one reporter.
func (t *Table) Targets() []string {
	targets := make([]string, 0, len(t.reporters))
	for target := range t.reporters {
		targets = append(targets, target)
	}
	return targets
}

// Len returns the number of suspected addresses.
func (t *Table) Len() int {
	return len(t.reporters)
}

// Threshold returns the reporter count that constitutes a quorum for a
// membership of n entries: a majority of the known peers other than the
// target itself, ceil((n-1)/2), never less than one.
func Threshold(n int) int {
	q := n / 2 // ceil((n-1)/2)
	if q < 1 {
		q = 1
	}
	return q
}
