package bisim

import (
	"fmt"
	"sort"
	"strings"

	"invminer/internal/checker"
	"invminer/internal/invariant"
	"invminer/internal/partition"
)

// Coarsen merges k-equivalent partitions whenever doing so preserves every
// invariant in set, until no such merge remains (spec.md §4.6). pg is
// mutated in place; it returns the number of merges performed.
func Coarsen(pg *partition.PartitionGraph, set *invariant.Set) int {
	total := 0
	for {
		classes := computeEquivalenceClasses(pg)
		candidates := candidatePairs(pg, classes)

		merged := false
		for _, pr := range candidates {
			p, q := pr[0], pr[1]
			if pg.Partition(p) == nil || pg.Partition(q) == nil {
				continue
			}
			left := pg.Partition(p).Nodes()
			right := pg.Partition(q).Nodes()

			newID, err := pg.Merge(p, q)
			if err != nil {
				continue
			}
			if anyViolated(pg, set) {
				// Revert: splitting the merged partition back into its
				// exact pre-merge node sets reconstructs the prior state.
				if _, _, splitErr := pg.Split(newID, left, right); splitErr != nil {
					panic(fmt.Sprintf("bisim: failed to revert a rejected coarsening merge: %v", splitErr))
				}
				continue
			}
			total++
			merged = true
			break
		}
		if !merged {
			return total
		}
	}
}

func anyViolated(pg *partition.PartitionGraph, set *invariant.Set) bool {
	for _, res := range checker.CheckAll(pg, set) {
		if res.Violated {
			return true
		}
	}
	return false
}

// computeEquivalenceClasses computes the coarsest stable partition-of-
// partitions consistent with spec.md §4.6's k-equivalence recursion, via
// iterative signature refinement (Moore-style DFA minimization): start by
// coloring partitions by EventType (k=0), then repeatedly refine each
// partition's color by the multiset of (relation, target-color) pairs
// among its outgoing edges, until the coloring stops changing. The fixed
// point is exactly "∞-equivalence".
func computeEquivalenceClasses(pg *partition.PartitionGraph) map[partition.ID]int {
	ids := pg.AllPartitions()
	typeOf := make(map[partition.ID]string, len(ids))
	for _, id := range ids {
		typeOf[id] = pg.Partition(id).Type.String()
	}
	colors := assignColors(ids, func(id partition.ID) string { return typeOf[id] })

	for {
		sig := make(map[partition.ID]string, len(ids))
		for _, id := range ids {
			part := pg.Partition(id)
			counts := make(map[string]int)
			for _, e := range part.OutEdges() {
				counts[fmt.Sprintf("%s:%d", e.Relation, colors[e.To])]++
			}
			var keys []string
			for k := range counts {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			var b strings.Builder
			b.WriteString(typeOf[id])
			for _, k := range keys {
				fmt.Fprintf(&b, "|%s=%d", k, counts[k])
			}
			sig[id] = b.String()
		}

		next := assignColors(ids, func(id partition.ID) string { return sig[id] })
		if sameGrouping(colors, next, ids) {
			return colors
		}
		colors = next
	}
}

// assignColors maps each id to a small deterministic integer, grouping ids
// with an identical signature and numbering groups in sorted-signature
// order.
func assignColors(ids []partition.ID, sigOf func(partition.ID) string) map[partition.ID]int {
	sigs := make(map[partition.ID]string, len(ids))
	for _, id := range ids {
		sigs[id] = sigOf(id)
	}
	distinct := make(map[string]bool)
	var order []string
	for _, id := range ids {
		s := sigs[id]
		if !distinct[s] {
			distinct[s] = true
			order = append(order, s)
		}
	}
	sort.Strings(order)
	label := make(map[string]int, len(order))
	for i, s := range order {
		label[s] = i
	}
	colors := make(map[partition.ID]int, len(ids))
	for _, id := range ids {
		colors[id] = label[sigs[id]]
	}
	return colors
}

func sameGrouping(a, b map[partition.ID]int, ids []partition.ID) bool {
	for _, id := range ids {
		if a[id] != b[id] {
			return false
		}
	}
	return true
}

// candidatePairs groups live partitions by (EventType, class) and returns
// every pairing within a group, in a deterministic (group, then ID) order.
func candidatePairs(pg *partition.PartitionGraph, classes map[partition.ID]int) [][2]partition.ID {
	groups := make(map[string][]partition.ID)
	for _, id := range pg.AllPartitions() {
		key := fmt.Sprintf("%s#%d", pg.Partition(id).Type.String(), classes[id])
		groups[key] = append(groups[key], id)
	}
	var keys []string
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var pairs [][2]partition.ID
	for _, k := range keys {
		ids := groups[k]
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				pairs = append(pairs, [2]partition.ID{ids[i], ids[j]})
			}
		}
	}
	return pairs
}
