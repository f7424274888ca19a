package doctor

import (
	"github.com/kecbigmt/mm-sub003/internal/item"
)

// Node colors for the placement-cycle walk.
type color byte

const (
	white color = iota // unvisited
	gray               // on the current path
	black              // fully explored
)

// checkCycles detects directed cycles among Item-headed placements. Each
// item has at most one successor (its placement head), so the walk keeps an
// explicit path slice instead of a recursion stack; depth is bounded only by
// the chain length, never by goroutine stack size.
//
// The first cycle found from each unexplored root is reported and the walk
// moves on; disjoint cycles in the same component are not enumerated.
func checkCycles(items map[string]*item.Record) []Issue {
	succ := func(id string) (string, bool) {
		it, ok := items[id]
		if !ok || it.Directory.Head != item.HeadItem {
			return "", false
		}
		if _, ok := items[it.Directory.Parent]; !ok {
			return "", false
		}
		return it.Directory.Parent, true
	}

	colors := make(map[string]color, len(items))
	var issues []Issue

	for _, root := range sortedIDs(items) {
		if colors[root] != white {
			continue
		}

		var path []string
		onPath := make(map[string]int)

		cur := root
		for {
			colors[cur] = gray
			onPath[cur] = len(path)
			path = append(path, cur)

			next, ok := succ(cur)
			if !ok {
				break
			}
			if colors[next] == gray {
				// Found a cycle: report it once, from where the
				// path re-enters itself.
				start := onPath[next]
				cycle := make([]string, len(path)-start)
				copy(cycle, path[start:])
				issues = append(issues, Issue{Kind: CycleDetected, Cycle: cycle})
				break
			}
			if colors[next] == black {
				break
			}
			cur = next
		}

		for _, id := range path {
			colors[id] = black
		}
	}
	return issues
}
