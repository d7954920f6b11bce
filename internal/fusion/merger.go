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

// Side records which input state a node of the fused state came from.
type Side uint8

const (
	SideA Side = iota + 1
	SideB
)

func (self Side) String() string {
	switch self {
	case SideA:
		return "first"
	case SideB:
		return "second"
	default:
		return "unknown"
	}
}

type fused struct {
	state   *ir.State
	origin  map[ir.NodeID]Side
	merged  int
	ordered int
}

// accessRanges returns the descriptors for every way n touches its
// container. Memlets naming another container, or no memlet at all, count as
// the whole container.
func accessRanges(p *ir.Program, s *ir.State, n *ir.AccessNode) []*subsets.Descriptor {
	var ret []*subsets.Descriptor
	var full bool
	for _, m := range s.Memlets(n.ID()) {
		if m.Data == n.Data {
			ret = append(ret, m)
		} else {
			full = true
		}
	}
	if full || len(ret) == 0 {
		shape, _ := p.Shape(n.Data)
		ret = append(ret, subsets.Full(n.Data, shape))
	}
	return ret
}

// worst returns the strongest overlap between any pair of descriptors.
func worst(t subsets.Tester, xs []*subsets.Descriptor, ys []*subsets.Descriptor) subsets.Overlap {
	ret := subsets.Disjoint
	for _, x := range xs {
		for _, y := range ys {
			switch t.Overlaps(x, y) {
			case subsets.Overlapping:
				return subsets.Overlapping
			case subsets.Unknown:
				ret = subsets.Unknown
			}
		}
	}
	return ret
}

// merge builds the disjoint union of a and b as a detached state. Every
// source access node of b is folded into the last write of a to the same
// container whose ranges may intersect it.
func merge(p *ir.Program, t subsets.Tester, a *ir.State, b *ir.State) (*fused, error) {
	order, err := a.TopologicalOrder()
	if err != nil {
		return nil, err
	}

	/* the first state goes in unchanged */
	f := &fused{
		state:  ir.NewState(a.Label + "_" + b.Label),
		origin: make(map[ir.NodeID]Side),
	}
	amap := make(map[ir.NodeID]ir.NodeID, len(order))
	for _, n := range a.Nodes() {
		id := f.state.Copy(n).ID()
		amap[n.ID()] = id
		f.origin[id] = SideA
	}
	for _, e := range a.Edges() {
		f.state.Connect(amap[e.Src], e.SrcConn, amap[e.Dst], e.DstConn, e.Memlet.Clone())
	}

	/* sources of the second state read what the first one wrote */
	g := a.Dataflow()
	bmap := make(map[ir.NodeID]ir.NodeID)
	for _, n := range b.Nodes() {
		if acc, ok := n.(*ir.AccessNode); ok && b.InDegree(n.ID()) == 0 {
			if w := f.target(p, t, a, g, order, amap, acc, accessRanges(p, b, acc)); w != nil {
				bmap[n.ID()] = amap[w.ID()]
				f.merged++
				continue
			}
		}
		id := f.state.Copy(n).ID()
		bmap[n.ID()] = id
		f.origin[id] = SideB
	}
	for _, e := range b.Edges() {
		f.state.Connect(bmap[e.Src], e.SrcConn, bmap[e.Dst], e.DstConn, e.Memlet.Clone())
	}
	return f, nil
}

// target picks the write of a that src gets merged into, or nil. Any other
// write of a the read may observe is ordered before the chosen one.
func (self *fused) target(p *ir.Program, t subsets.Tester, a *ir.State, g *ir.Dataflow, order []ir.Node, amap map[ir.NodeID]ir.NodeID, src *ir.AccessNode, rs []*subsets.Descriptor) *ir.AccessNode {
	var ret *ir.AccessNode
	for i := len(order) - 1; i >= 0; i-- {
		w, ok := order[i].(*ir.AccessNode)
		if !ok || w.Data != src.Data || !a.Writes(w.ID()) {
			continue
		}
		if worst(t, accessRanges(p, a, w), rs) == subsets.Disjoint {
			continue
		}
		if ret == nil {
			ret = w
		} else if !g.PathExists(w.ID(), ret.ID()) {
			self.state.AddOrderingEdge(amap[w.ID()], amap[ret.ID()])
			self.ordered++
		}
	}
	return ret
}
