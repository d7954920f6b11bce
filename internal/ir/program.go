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

// Package ir is the program graph of the data-centric IR: a control-flow
// graph of states whose nodes are dataflow subgraphs over named containers.
//
// States and control edges live in arenas and are referenced by stable
// handles. Destroying a state leaves a hole in the arena, so handles held
// elsewhere never silently point at a different state.
package ir

import (
	"sort"

	"github.com/cloudwego/statefuse/internal/subsets"
	"github.com/cloudwego/statefuse/internal/symbolic"
)

type (
	StateID int
	EdgeID  int
)

const NoState StateID = -1

// Container is a named multi-dimensional buffer declared at program scope.
type Container struct {
	Name      string
	Shape     []symbolic.Expr
	DType     string
	Transient bool
}

// Symbol is a scalar control value. Positive and Nonnegative are
// assumptions used when proving range properties.
type Symbol struct {
	Name        string
	DType       string
	Positive    bool
	Nonnegative bool
}

// ControlEdge is a directed edge between states. A zero Guard is
// unconditional. Assign is evaluated atomically on traversal.
type ControlEdge struct {
	ID     EdgeID
	Src    StateID
	Dst    StateID
	Guard  symbolic.Expr
	Assign Assignments
}

func (self *ControlEdge) IsUnconditional() bool {
	return self.Guard.IsTriviallyTrue()
}

// FreeSymbols returns the symbols read by the guard and the assignments.
func (self *ControlEdge) FreeSymbols() []string {
	return append(self.Guard.FreeSymbols(), self.Assign.FreeSymbols()...)
}

type Program struct {
	Name       string
	Containers map[string]*Container
	Symbols    map[string]*Symbol
	Start      StateID

	states []*State
	edges  []*ControlEdge
}

func NewProgram(name string) *Program {
	return &Program{
		Name:       name,
		Containers: make(map[string]*Container),
		Symbols:    make(map[string]*Symbol),
		Start:      NoState,
	}
}

// AddArray declares a container. Shape entries are parsed as expressions.
func (self *Program) AddArray(name string, dtype string, shape ...string) *Container {
	c := &Container{Name: name, DType: dtype, Shape: make([]symbolic.Expr, len(shape))}
	for i, s := range shape {
		c.Shape[i] = symbolic.MustParse(s)
	}
	return self.AddContainer(c)
}

// AddContainer declares c, replacing any container of the same name.
func (self *Program) AddContainer(c *Container) *Container {
	self.Containers[c.Name] = c
	return c
}

func (self *Program) AddSymbol(name string, dtype string) *Symbol {
	s := &Symbol{Name: name, DType: dtype}
	self.Symbols[name] = s
	return s
}

// AddState creates an empty state. The first state becomes the start state.
func (self *Program) AddState(label string) *State {
	s := NewState(label)
	self.Insert(s)
	return s
}

// Insert attaches a detached state to the arena and returns its handle.
func (self *Program) Insert(s *State) StateID {
	s.ID = StateID(len(self.states))
	self.states = append(self.states, s)
	if self.Start == NoState {
		self.Start = s.ID
	}
	return s.ID
}

func (self *Program) AddEdge(src StateID, dst StateID, guard symbolic.Expr, assign ...Assignment) *ControlEdge {
	e := &ControlEdge{
		ID:     EdgeID(len(self.edges)),
		Src:    src,
		Dst:    dst,
		Guard:  guard,
		Assign: assign,
	}
	self.edges = append(self.edges, e)
	return e
}

// State returns the live state with the given handle, or nil.
func (self *Program) State(id StateID) *State {
	if id < 0 || int(id) >= len(self.states) {
		return nil
	}
	return self.states[id]
}

// Edge returns the live control edge with the given handle, or nil.
func (self *Program) Edge(id EdgeID) *ControlEdge {
	if id < 0 || int(id) >= len(self.edges) {
		return nil
	}
	return self.edges[id]
}

// States returns the live states ordered by handle.
func (self *Program) States() []*State {
	ret := make([]*State, 0, len(self.states))
	for _, s := range self.states {
		if s != nil {
			ret = append(ret, s)
		}
	}
	return ret
}

// Edges returns the live control edges ordered by handle.
func (self *Program) Edges() []*ControlEdge {
	ret := make([]*ControlEdge, 0, len(self.edges))
	for _, e := range self.edges {
		if e != nil {
			ret = append(ret, e)
		}
	}
	return ret
}

func (self *Program) NumStates() int {
	return len(self.States())
}

func (self *Program) InEdges(id StateID) []*ControlEdge {
	var ret []*ControlEdge
	for _, e := range self.edges {
		if e != nil && e.Dst == id {
			ret = append(ret, e)
		}
	}
	return ret
}

func (self *Program) OutEdges(id StateID) []*ControlEdge {
	var ret []*ControlEdge
	for _, e := range self.edges {
		if e != nil && e.Src == id {
			ret = append(ret, e)
		}
	}
	return ret
}

func (self *Program) RemoveEdge(id EdgeID) {
	if self.Edge(id) != nil {
		self.edges[id] = nil
	}
}

// RemoveState destroys a state together with every control edge still
// attached to it.
func (self *Program) RemoveState(id StateID) {
	if self.State(id) == nil {
		return
	}
	for i, e := range self.edges {
		if e != nil && (e.Src == id || e.Dst == id) {
			self.edges[i] = nil
		}
	}
	self.states[id] = nil
	if self.Start == id {
		self.Start = NoState
	}
}

// Shape resolves the declared shape of a container.
func (self *Program) Shape(data string) ([]symbolic.Expr, bool) {
	c, ok := self.Containers[data]
	if !ok {
		return nil, false
	}
	return c.Shape, true
}

// Memlet parses a data-access descriptor against the declared containers.
func (self *Program) Memlet(src string) (*subsets.Descriptor, error) {
	return subsets.Parse(src, self.Shape)
}

// MustMemlet is like Memlet but panics on error.
func (self *Program) MustMemlet(src string) *subsets.Descriptor {
	d, err := self.Memlet(src)
	if err != nil {
		panic(err)
	}
	return d
}

// Prover returns a prover seeded with the symbol assumptions.
func (self *Program) Prover() *symbolic.Prover {
	p := symbolic.NewProver()
	names := make([]string, 0, len(self.Symbols))
	for name := range self.Symbols {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		switch s := self.Symbols[name]; {
		case s.Positive:
			p.Assume(name, 1)
		case s.Nonnegative:
			p.Assume(name, 0)
		}
	}
	return p
}

// FreeSymbols delegates to the symbolic engine.
func FreeSymbols(e symbolic.Expr) []string {
	return symbolic.FreeSymbols(e)
}
