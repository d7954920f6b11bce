/*
 * Copyright 2024 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package fusion

import (
	"github.com/cloudwego/statefuse/internal/ir"
	"github.com/cloudwego/statefuse/internal/subsets"
)

// link orders every pair of conflicting accesses across the two halves of a
// fused state that is not already ordered by a path. It returns the number
// of edges inserted.
func link(p *ir.Program, t subsets.Tester, f *fused) (int, error) {
	var xs, ys []*ir.AccessNode
	s := f.state
	g := s.Dataflow()

	/* split the access nodes by origin */
	for _, n := range s.Nodes() {
		if acc, ok := n.(*ir.AccessNode); ok {
			switch f.origin[acc.ID()] {
			case SideA:
				xs = append(xs, acc)
			case SideB:
				ys = append(ys, acc)
			}
		}
	}

	/* everything in the first half happens before the second half */
	n := 0
	for _, x := range xs {
		for _, y := range ys {
			if x.Data != y.Data {
				continue
			}
			if !s.Writes(x.ID()) && !s.Writes(y.ID()) {
				continue
			}
			if g.PathExists(x.ID(), y.ID()) {
				continue
			}
			if worst(t, accessRanges(p, s, x), accessRanges(p, s, y)) == subsets.Disjoint {
				continue
			}
			if g.PathExists(y.ID(), x.ID()) {
				return n, reject(UnsupportedEdgeShape, "", "%s must precede %s but already depends on it", x, y)
			}
			g.AddOrderingEdge(x.ID(), y.ID())
			n++
		}
	}
	return n, nil
}
