package game

import (
	"math"

	"github.com/dekarrin/minnowquest/internal/util"
)

type pathCache map[[2]string][]string

// Pathfinder performs pathfinding operations on the given world. It retains
// already-completed lookups so that it becomes faster with use. Changing World
// does not invalidate the cache, therefore World should not be set to anything
// else once the first operation is called on the Pathfinder.
type Pathfinder struct {
	World         map[string]*Room
	dijkstraTable pathCache
}

// ReachableFrom returns the labels of every room that can be reached from the
// room with the given label by following egresses, including the starting
// room itself. Locks on egresses are ignored; an egress that merely needs a
// flag still counts as passable. If no room has the given label, the returned
// set is empty.
func (pf *Pathfinder) ReachableFrom(startLabel string) util.StringSet {
	seen := util.NewStringSet()

	start, ok := pf.World[startLabel]
	if !ok {
		return seen
	}

	frontier := []*Room{start}
	seen.Add(start.Label)

	for len(frontier) > 0 {
		cur := frontier[0]
		frontier = frontier[1:]

		for _, eg := range cur.Exits {
			if seen.Has(eg.DestLabel) {
				continue
			}
			next, ok := pf.World[eg.DestLabel]
			if !ok {
				continue
			}
			seen.Add(next.Label)
			frontier = append(frontier, next)
		}
	}

	return seen
}

// Dijkstra uses Dijkstra's Algorithm to find the shortest path from one room
// to another in the world. This only checks if travel is ever possible, not if
// it is *currently* possible with no further actions; locked egresses count as
// passable. The returned path includes both endpoints, in travel order.
//
// Returns an empty path if either label does not exist in the world, if the
// two labels are the same, or if no route connects them.
func (pf *Pathfinder) Dijkstra(startLabel, endLabel string) []string {
	if pf.dijkstraTable != nil {
		if solution, ok := pf.dijkstraTable[[2]string{startLabel, endLabel}]; ok {
			solCopy := make([]string, len(solution))
			copy(solCopy, solution)
			return solCopy
		}
	}

	source := pf.World[startLabel]
	target := pf.World[endLabel]

	solution := []string{}
	if source != nil && target != nil && startLabel != endLabel {
		dist := map[string]uint{}
		prev := map[string]*Room{}
		searchSetQ := map[string]*Room{}

		for _, room := range pf.World {
			dist[room.Label] = math.MaxUint
			searchSetQ[room.Label] = room
		}
		dist[source.Label] = 0

		for len(searchSetQ) > 0 {
			var minDist uint = math.MaxUint
			uLabel := ""
			for label := range searchSetQ {
				if dist[label] <= minDist {
					uLabel = label
					minDist = dist[label]
				}
			}

			if uLabel == target.Label || minDist == math.MaxUint {
				// found it, or nothing left in the queue can be reached
				break
			}
			u := searchSetQ[uLabel]
			delete(searchSetQ, uLabel)

			for _, vEgress := range u.Exits {
				vLabel := vEgress.DestLabel
				if _, inQ := searchSetQ[vLabel]; !inQ {
					continue
				}

				// every room movement has edge length of 1 in world graph
				alt := dist[u.Label] + 1
				if alt < dist[vLabel] {
					dist[vLabel] = alt
					prev[vLabel] = u
				}
			}
		}

		if prev[target.Label] != nil {
			for u := target; u != nil; u = prev[u.Label] {
				solution = append(solution, u.Label)
			}

			// the walk above went from target back to source, so flip it
			for i, j := 0, len(solution)-1; i < j; i, j = i+1, j-1 {
				solution[i], solution[j] = solution[j], solution[i]
			}
		}
	}

	if pf.dijkstraTable == nil {
		pf.dijkstraTable = pathCache{}
	}
	cached := make([]string, len(solution))
	copy(cached, solution)
	pf.dijkstraTable[[2]string{startLabel, endLabel}] = cached

	return solution
}
