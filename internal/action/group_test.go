package action_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dropDatabas3/searchjohn/internal/action"
)

func shardFail(shard int, err error) *action.ShardFailure {
	return action.NewShardFailure("items", shard, 500, err)
}

func TestGroupShardFailures_CollapsesByCause(t *testing.T) {
	closed := errors.New("index [items] closed")
	failures := make([]*action.ShardFailure, 0, 5)
	for i := 0; i < 5; i++ {
		failures = append(failures, shardFail(i, fmt.Errorf("refresh failed: %w", closed)))
	}

	groups := action.GroupShardFailures(failures)
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	if groups[0].Members != 5 {
		t.Fatalf("expected 5 members, got %d", groups[0].Members)
	}
	if groups[0].Representative.Shard != 0 {
		t.Fatalf("representative should be the first seen (shard 0), got shard %d", groups[0].Representative.Shard)
	}
}

func TestGroupShardFailures_FirstSeenOrder(t *testing.T) {
	// input [A,B,A,C,B] => output [A(2), B(2), C(1)]
	a := errors.New("cause a")
	b := errors.New("cause b")
	c := errors.New("cause c")
	failures := []*action.ShardFailure{
		shardFail(0, a), shardFail(1, b), shardFail(2, a), shardFail(3, c), shardFail(4, b),
	}

	groups := action.GroupShardFailures(failures)
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}
	wantMembers := []int{2, 2, 1}
	wantShards := []int{0, 1, 3} // primer representante de cada causa
	for i, g := range groups {
		if g.Members != wantMembers[i] {
			t.Fatalf("group %d: expected %d members, got %d", i, wantMembers[i], g.Members)
		}
		if g.Representative.Shard != wantShards[i] {
			t.Fatalf("group %d: expected representative shard %d, got %d", i, wantShards[i], g.Representative.Shard)
		}
	}
}

func TestGroupShardFailures_Partition(t *testing.T) {
	// la suma de miembros tiene que dar el total de fallos de entrada
	var failures []*action.ShardFailure
	for i := 0; i < 12; i++ {
		failures = append(failures, shardFail(i, fmt.Errorf("cause %d", i%4)))
	}

	groups := action.GroupShardFailures(failures)
	sum := 0
	for _, g := range groups {
		sum += g.Members
	}
	if sum != len(failures) {
		t.Fatalf("member counts sum to %d, want %d", sum, len(failures))
	}
}

func TestGroupShardFailures_Idempotent(t *testing.T) {
	a := errors.New("cause a")
	b := errors.New("cause b")
	failures := []*action.ShardFailure{shardFail(0, a), shardFail(1, b)}

	first := action.GroupShardFailures(failures)
	reps := make([]*action.ShardFailure, len(first))
	for i, g := range first {
		if g.Members != 1 {
			t.Fatalf("distinct causes should yield singleton groups, got %d members", g.Members)
		}
		reps[i] = g.Representative
	}

	second := action.GroupShardFailures(reps)
	if len(second) != len(first) {
		t.Fatalf("re-grouping changed group count: %d -> %d", len(first), len(second))
	}
	for i := range second {
		if second[i].Representative != first[i].Representative {
			t.Fatalf("re-grouping changed representative at %d", i)
		}
		if second[i].Members != 1 {
			t.Fatalf("re-grouping changed member count at %d", i)
		}
	}
}

func TestGroupShardFailures_Deterministic(t *testing.T) {
	closed := errors.New("index closed")
	var failures []*action.ShardFailure
	for i := 0; i < 20; i++ {
		failures = append(failures, shardFail(i, fmt.Errorf("op failed: %w", closed)))
	}
	for i := 20; i < 30; i++ {
		failures = append(failures, shardFail(i, errors.New("disk full")))
	}

	g1 := action.GroupShardFailures(failures)
	g2 := action.GroupShardFailures(failures)
	if len(g1) != len(g2) {
		t.Fatalf("group counts differ between runs: %d vs %d", len(g1), len(g2))
	}
	for i := range g1 {
		if g1[i].Representative != g2[i].Representative || g1[i].Members != g2[i].Members {
			t.Fatalf("grouping not deterministic at group %d", i)
		}
	}
}

func TestGroupShardFailures_DistinguishesCauseChain(t *testing.T) {
	// mismo mensaje top-level, distinta causa => grupos distintos
	f1 := shardFail(0, fmt.Errorf("op failed: %w", errors.New("index closed")))
	f2 := shardFail(1, fmt.Errorf("op failed: %w", errors.New("disk full")))

	groups := action.GroupShardFailures([]*action.ShardFailure{f1, f2})
	if len(groups) != 2 {
		t.Fatalf("different cause chains should not group together, got %d groups", len(groups))
	}
}

func TestGroupShardFailures_Empty(t *testing.T) {
	if got := action.GroupShardFailures(nil); len(got) != 0 {
		t.Fatalf("empty input should yield empty output, got %d", len(got))
	}
}
