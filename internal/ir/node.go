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
	"fmt"
	"strings"

	"github.com/cloudwego/statefuse/internal/symbolic"
)

type NodeID int

// Node is a dataflow node inside a state: either an *AccessNode or a
// *ComputeNode.
type Node interface {
	fmt.Stringer
	ID() NodeID
	node()
}

func (*AccessNode) node() {}
func (*ComputeNode) node() {}

// AccessNode is a reference to one data container. Whether it reads, writes
// or does both follows from its incident edges.
type AccessNode struct {
	id   NodeID
	Data string
}

func (self *AccessNode) ID() NodeID {
	return self.id
}

func (self *AccessNode) String() string {
	return fmt.Sprintf("n%d:%s", self.id, self.Data)
}

// ComputeNode is a stateless transformation with named input and output
// connectors. Code assigns an expression to each output connector; the
// expressions may read input connectors and symbols.
type ComputeNode struct {
	id      NodeID
	Label   string
	Inputs  []string
	Outputs []string
	Code    Assignments
}

func (self *ComputeNode) ID() NodeID {
	return self.id
}

func (self *ComputeNode) String() string {
	return fmt.Sprintf("n%d:%s(%s -> %s)", self.id, self.Label, strings.Join(self.Inputs, ", "), strings.Join(self.Outputs, ", "))
}

// FreeSymbols returns the symbols read by the code of the node, connector
// names excluded.
func (self *ComputeNode) FreeSymbols() []string {
	conn := make(map[string]struct{}, len(self.Inputs)+len(self.Outputs))
	for _, c := range self.Inputs {
		conn[c] = struct{}{}
	}
	for _, c := range self.Outputs {
		conn[c] = struct{}{}
	}
	var ret []string
	for _, s := range self.Code.FreeSymbols() {
		if _, ok := conn[s]; !ok {
			ret = append(ret, s)
		}
	}
	return ret
}

func cloneNode(n Node) Node {
	switch v := n.(type) {
	case *AccessNode:
		return &AccessNode{Data: v.Data}
	case *ComputeNode:
		return &ComputeNode{
			Label:   v.Label,
			Inputs:  append([]string(nil), v.Inputs...),
			Outputs: append([]string(nil), v.Outputs...),
			Code:    v.Code.Clone(),
		}
	default:
		panic("unreachable")
	}
}

func setID(n Node, id NodeID) {
	switch v := n.(type) {
	case *AccessNode:
		v.id = id
	case *ComputeNode:
		v.id = id
	default:
		panic("unreachable")
	}
}

// Assignment binds a symbol (or output connector) to an expression.
type Assignment struct {
	Symbol string
	Value  symbolic.Expr
}

// Assign is a shorthand that parses the value. It panics on malformed
// expressions.
func Assign(sym string, value string) Assignment {
	return Assignment{Symbol: sym, Value: symbolic.MustParse(value)}
}

func (self Assignment) String() string {
	return self.Symbol + " = " + self.Value.String()
}

// Assignments is an ordered assignment map.
type Assignments []Assignment

func (self Assignments) Get(sym string) (symbolic.Expr, bool) {
	for _, a := range self {
		if a.Symbol == sym {
			return a.Value, true
		}
	}
	return symbolic.Expr{}, false
}

func (self Assignments) Has(sym string) bool {
	_, ok := self.Get(sym)
	return ok
}

// Names returns the assigned symbols in order.
func (self Assignments) Names() []string {
	ret := make([]string, len(self))
	for i, a := range self {
		ret[i] = a.Symbol
	}
	return ret
}

// FreeSymbols returns the symbols read by the assigned expressions.
func (self Assignments) FreeSymbols() []string {
	set := make(map[string]struct{})
	var ret []string
	for _, a := range self {
		for _, s := range a.Value.FreeSymbols() {
			if _, ok := set[s]; !ok {
				set[s] = struct{}{}
				ret = append(ret, s)
			}
		}
	}
	return ret
}

func (self Assignments) Clone() Assignments {
	return append(Assignments(nil), self...)
}

func (self Assignments) String() string {
	buf := make([]string, len(self))
	for i, a := range self {
		buf[i] = a.String()
	}
	return "{" + strings.Join(buf, "; ") + "}"
}
