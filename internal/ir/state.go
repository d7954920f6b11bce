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
	"github.com/cloudwego/statefuse/internal/subsets"
)

// DataEdge connects two nodes of a state. A nil Memlet makes it an empty
// edge used purely for ordering.
type DataEdge struct {
	Src     NodeID
	SrcConn string
	Dst     NodeID
	DstConn string
	Memlet  *subsets.Descriptor
}

func (self *DataEdge) IsEmpty() bool {
	return self.Memlet == nil
}

// State is a control-flow node holding a dataflow subgraph. Bindings are
// evaluated on entry, before any of the dataflow.
type State struct {
	ID       StateID
	Label    string
	Bindings Assignments

	nodes []Node
	edges []*DataEdge
}

// NewState returns a detached state, see Program.Insert.
func NewState(label string) *State {
	return &State{ID: NoState, Label: label}
}

func (self *State) add(n Node) {
	setID(n, NodeID(len(self.nodes)))
	self.nodes = append(self.nodes, n)
}

func (self *State) AddAccess(data string) *AccessNode {
	n := &AccessNode{Data: data}
	self.add(n)
	return n
}

// AddRead is AddAccess, named for the reading side of a dataflow. The node
// only becomes a read once an edge leaves it.
func (self *State) AddRead(data string) *AccessNode {
	return self.AddAccess(data)
}

// AddWrite is AddAccess, named for the writing side of a dataflow. The node
// only becomes a write once data flows into it.
func (self *State) AddWrite(data string) *AccessNode {
	return self.AddAccess(data)
}

func (self *State) AddCompute(label string, inputs []string, outputs []string, code ...Assignment) *ComputeNode {
	n := &ComputeNode{Label: label, Inputs: inputs, Outputs: outputs, Code: code}
	self.add(n)
	return n
}

// Copy adds a fresh copy of n, which may belong to another state.
func (self *State) Copy(n Node) Node {
	ret := cloneNode(n)
	self.add(ret)
	return ret
}

func (self *State) AddEdge(src Node, srcConn string, dst Node, dstConn string, memlet *subsets.Descriptor) *DataEdge {
	return self.Connect(src.ID(), srcConn, dst.ID(), dstConn, memlet)
}

// Connect is AddEdge over node handles.
func (self *State) Connect(src NodeID, srcConn string, dst NodeID, dstConn string, memlet *subsets.Descriptor) *DataEdge {
	e := &DataEdge{Src: src, SrcConn: srcConn, Dst: dst, DstConn: dstConn, Memlet: memlet}
	self.edges = append(self.edges, e)
	return e
}

// AddOrderingEdge adds an empty edge forcing src to happen before dst.
func (self *State) AddOrderingEdge(src NodeID, dst NodeID) *DataEdge {
	return self.Connect(src, "", dst, "", nil)
}

// Node returns the live node with the given handle, or nil.
func (self *State) Node(id NodeID) Node {
	if id < 0 || int(id) >= len(self.nodes) {
		return nil
	}
	return self.nodes[id]
}

// Nodes returns the live nodes ordered by handle.
func (self *State) Nodes() []Node {
	ret := make([]Node, 0, len(self.nodes))
	for _, n := range self.nodes {
		if n != nil {
			ret = append(ret, n)
		}
	}
	return ret
}

func (self *State) Edges() []*DataEdge {
	return self.edges
}

func (self *State) IsEmpty() bool {
	return len(self.Nodes()) == 0
}

func (self *State) InEdges(id NodeID) []*DataEdge {
	var ret []*DataEdge
	for _, e := range self.edges {
		if e.Dst == id {
			ret = append(ret, e)
		}
	}
	return ret
}

func (self *State) OutEdges(id NodeID) []*DataEdge {
	var ret []*DataEdge
	for _, e := range self.edges {
		if e.Src == id {
			ret = append(ret, e)
		}
	}
	return ret
}

func (self *State) InDegree(id NodeID) int {
	return len(self.InEdges(id))
}

func (self *State) OutDegree(id NodeID) int {
	return len(self.OutEdges(id))
}

// RemoveNode drops a node and all of its incident edges.
func (self *State) RemoveNode(id NodeID) {
	if self.Node(id) == nil {
		return
	}
	edges := self.edges[:0]
	for _, e := range self.edges {
		if e.Src != id && e.Dst != id {
			edges = append(edges, e)
		}
	}
	self.edges = edges
	self.nodes[id] = nil
}

// FreeSymbols returns the symbols read by the dataflow of the state:
// compute code and memlet ranges. Bindings are not included.
func (self *State) FreeSymbols() []string {
	set := make(map[string]struct{})
	for _, n := range self.nodes {
		if c, ok := n.(*ComputeNode); ok {
			for _, s := range c.FreeSymbols() {
				set[s] = struct{}{}
			}
		}
	}
	for _, e := range self.edges {
		if e.Memlet != nil {
			for _, s := range e.Memlet.FreeSymbols() {
				set[s] = struct{}{}
			}
		}
	}
	return sortedSet(set)
}

// WrittenContainers returns the containers written anywhere in the state.
func (self *State) WrittenContainers() []string {
	set := make(map[string]struct{})
	for _, n := range self.nodes {
		if a, ok := n.(*AccessNode); ok && self.writes(a.id) {
			set[a.Data] = struct{}{}
		}
	}
	return sortedSet(set)
}

// AccessSet partitions the access nodes of one container by mode.
type AccessSet struct {
	Read      []*AccessNode
	Write     []*AccessNode
	ReadWrite []*AccessNode
}

// Writers returns Write and ReadWrite nodes.
func (self AccessSet) Writers() []*AccessNode {
	return append(append([]*AccessNode(nil), self.Write...), self.ReadWrite...)
}

func (self AccessSet) Len() int {
	return len(self.Read) + len(self.Write) + len(self.ReadWrite)
}

// AccessNodes returns the access nodes of data in this state. A node with
// incoming data is a write, one with outgoing data a read. Empty ordering
// edges do not count.
func (self *State) AccessNodes(data string) AccessSet {
	var ret AccessSet
	for _, n := range self.nodes {
		a, ok := n.(*AccessNode)
		if !ok || a.Data != data {
			continue
		}
		switch r, w := self.reads(a.id), self.writes(a.id); {
		case r && w:
			ret.ReadWrite = append(ret.ReadWrite, a)
		case w:
			ret.Write = append(ret.Write, a)
		default:
			ret.Read = append(ret.Read, a)
		}
	}
	return ret
}

// Containers returns the names of every container accessed in the state.
func (self *State) Containers() []string {
	set := make(map[string]struct{})
	for _, n := range self.nodes {
		if a, ok := n.(*AccessNode); ok {
			set[a.Data] = struct{}{}
		}
	}
	return sortedSet(set)
}

// Writes reports whether data flows into the node.
func (self *State) Writes(id NodeID) bool {
	return self.writes(id)
}

func (self *State) writes(id NodeID) bool {
	for _, e := range self.edges {
		if e.Dst == id && !e.IsEmpty() {
			return true
		}
	}
	return false
}

func (self *State) reads(id NodeID) bool {
	for _, e := range self.edges {
		if e.Src == id && !e.IsEmpty() {
			return true
		}
	}
	return false
}

// Memlets returns the descriptors of the non-empty edges incident to n.
func (self *State) Memlets(id NodeID) []*subsets.Descriptor {
	var ret []*subsets.Descriptor
	for _, e := range self.edges {
		if (e.Src == id || e.Dst == id) && e.Memlet != nil {
			ret = append(ret, e.Memlet)
		}
	}
	return ret
}
