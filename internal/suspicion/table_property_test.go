package suspicion

import (
	"fmt"
	"math"
	"testing"
)

// TestThreshold_MatchesMajorityFormula checks the threshold against the
// closed form ceil((n-1)/2) across a range of membership sizes.
func TestThreshold_MatchesMajorityFormula(t *testing.T) {
	for n := 1; n <= 50; n++ {
		want := int(math.Ceil(float64(n-1) / 2))
		if want < 1 {
			want = 1
		}
		if got := Threshold(n); got != want {
			t.Errorf("Threshold(%d) = %d, want %d", n, got, want)
		}
	}
}

// TestTable_QuorumReachedExactlyOnce simulates reporters arriving one at a
// time and checks that the reporter count crosses the threshold exactly when
// the quorum-th distinct reporter lands, never before.
func TestTable_QuorumReachedExactlyOnce(t *testing.T) {
	for n := 2; n <= 12; n++ {
		t.Run(fmt.Sprintf("membership=%d", n), func(t *testing.T) {
			tbl := NewTable()
			quorum := Threshold(n)

			for i := 1; i < n; i++ {
				reporter := fmt.Sprintf("127.0.0.1:%d", 9000+i)
				tbl.Report("target", reporter)

				reached := tbl.Reporters("target") >= quorum
				if i < quorum && reached {
					t.Fatalf("quorum reached after %d reporters, threshold is %d", i, quorum)
				}
				if i >= quorum && !reached {
					t.Fatalf("quorum not reached after %d reporters, threshold is %d", i, quorum)
				}
			}
		})
	}
}

// TestTable_DuplicateReportersNeverAdvanceQuorum re-reports the same peer
// repeatedly and checks the count stays at one.
func TestTable_DuplicateReportersNeverAdvanceQuorum(t *testing.T) {
	tbl := NewTable()
	for i := 0; i < 20; i++ {
		tbl.Report("target", "127.0.0.1:9001")
	}
	if got := tbl.Reporters("target"); got != 1 {
		t.Errorf("Reporters() = %d after repeated reports from one peer, want 1", got)
	}
}
