package revwalk

import "fmt"

// mergeBaseGenerator computes common ancestors of the walk's starting
// commits by two-color ancestor painting: each start gets its own bit, a
// commit's color is the union of every start's bit reachable through it,
// and a commit whose color already carries every bit is a merge base —
// propagation stops there instead of continuing into its ancestors, so no
// color reaches an older commit through a merge base. An older common
// ancestor that still receives every bit along paths avoiding the merge
// bases already found is reported as well, so the result is not limited
// to the lowest common ancestors. Supplemented feature: the
// original_source tree only carried StartGenerator.java, which names
// MergeBaseGenerator as the special case to install but does not include
// its implementation; this is a from-scratch two-color walk grounded on
// the well-known `git merge-base` algorithm and on how RevWalk's flags
// propagate a boolean color (UNINTERESTING) down parent edges elsewhere
// in this package, generalized here to a bitmask color.
type mergeBaseGenerator struct {
	results []*RevCommit
}

const maxMergeBaseStarts = 32

func newMergeBaseGenerator(w *RevWalk) (*mergeBaseGenerator, error) {
	results, err := computeMergeBases(w)
	if err != nil {
		return nil, err
	}
	return &mergeBaseGenerator{results: results}, nil
}

func (g *mergeBaseGenerator) OutputType() int { return 0 }

func (g *mergeBaseGenerator) Next() (*RevCommit, error) {
	if len(g.results) == 0 {
		return nil, nil
	}
	c := g.results[0]
	g.results = g.results[1:]
	return c, nil
}

func computeMergeBases(w *RevWalk) ([]*RevCommit, error) {
	starts := w.starts
	if len(starts) == 0 {
		return nil, nil
	}
	if len(starts) > maxMergeBaseStarts {
		return nil, fmt.Errorf("revwalk: merge-base supports at most %d starting points, got %d", maxMergeBaseStarts, len(starts))
	}

	var full uint32
	color := make(map[*RevCommit]uint32, len(starts))
	for i, c := range starts {
		if err := w.ensureParsed(c); err != nil {
			return nil, err
		}
		bit := uint32(1) << uint(i)
		color[c] |= bit
		full |= bit
	}

	q := newDateRevQueue()
	for _, c := range starts {
		q.add(c)
	}

	var results []*RevCommit
	resultSet := make(map[*RevCommit]bool)

	for {
		c, _ := q.Next()
		if c == nil {
			break
		}
		cColor := color[c]
		if cColor == full {
			if !resultSet[c] {
				resultSet[c] = true
				results = append(results, c)
			}
			continue
		}
		if err := w.ensureParsed(c); err != nil {
			return nil, err
		}
		for _, p := range c.parents {
			if err := w.ensureParsed(p); err != nil {
				return nil, err
			}
			before := color[p]
			after := before | cColor
			if after != before {
				color[p] = after
				q.add(p)
			}
		}
	}
	return results, nil
}
