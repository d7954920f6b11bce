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

package ir

import (
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

func (self *State) directed() *simple.DirectedGraph {
	g := simple.NewDirectedGraph()
	for _, n := range self.Nodes() {
		g.AddNode(simple.Node(n.ID()))
	}
	for _, e := range self.edges {
		if e.Src != e.Dst {
			g.SetEdge(g.NewEdge(simple.Node(e.Src), simple.Node(e.Dst)))
		}
	}
	return g
}

func (self *State) undirected() *simple.UndirectedGraph {
	g := simple.NewUndirectedGraph()
	for _, n := range self.Nodes() {
		g.AddNode(simple.Node(n.ID()))
	}
	for _, e := range self.edges {
		if e.Src != e.Dst {
			g.SetEdge(g.NewEdge(simple.Node(e.Src), simple.Node(e.Dst)))
		}
	}
	return g
}

// Components returns the weakly connected components of the dataflow graph,
// each sorted by node handle, ordered by their smallest handle. The result
// is computed from scratch on every call.
func (self *State) Components() [][]NodeID {
	cc := topo.ConnectedComponents(self.undirected())
	ret := make([][]NodeID, 0, len(cc))
	for _, c := range cc {
		ids := make([]NodeID, len(c))
		for i, n := range c {
			ids[i] = NodeID(n.ID())
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		ret = append(ret, ids)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i][0] < ret[j][0] })
	return ret
}

// PathExists reports whether a directed path leads from one node to another.
// Every node reaches itself. Repeated queries should go through Dataflow.
func (self *State) PathExists(from NodeID, to NodeID) bool {
	return self.Dataflow().PathExists(from, to)
}

// Dataflow is a directed view of a state for repeated path queries. Ordering
// edges added through it update both the state and the view; any other
// change to the state makes the view stale.
type Dataflow struct {
	s *State
	g *simple.DirectedGraph
}

// Dataflow builds the directed view of the current dataflow graph.
func (self *State) Dataflow() *Dataflow {
	return &Dataflow{s: self, g: self.directed()}
}

func (self *Dataflow) PathExists(from NodeID, to NodeID) bool {
	if self.s.Node(from) == nil || self.s.Node(to) == nil {
		return false
	}
	return topo.PathExistsIn(self.g, simple.Node(from), simple.Node(to))
}

// AddOrderingEdge adds an empty edge src -> dst to the state and the view.
func (self *Dataflow) AddOrderingEdge(src NodeID, dst NodeID) *DataEdge {
	e := self.s.AddOrderingEdge(src, dst)
	if src != dst {
		self.g.SetEdge(self.g.NewEdge(simple.Node(src), simple.Node(dst)))
	}
	return e
}

// TopologicalOrder sorts the nodes so that every edge points forward, ties
// broken by handle. A cyclic state is an invariant violation.
func (self *State) TopologicalOrder() ([]Node, error) {
	order, err := topo.SortStabilized(self.directed(), byID)
	if err != nil {
		return nil, &InvariantError{Where: self.where(), Detail: "dataflow graph is cyclic"}
	}
	ret := make([]Node, len(order))
	for i, n := range order {
		ret[i] = self.nodes[n.ID()]
	}
	return ret, nil
}

func byID(nodes []graph.Node) {
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID() < nodes[j].ID() })
}
