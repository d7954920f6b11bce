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
	"github.com/cloudwego/statefuse/internal/symbolic"
)

// Validate checks the structural invariants of the whole program.
func (self *Program) Validate() error {
	if len(self.States()) != 0 && self.State(self.Start) == nil {
		return invariant("program "+self.Name, "start state %d does not exist", self.Start)
	}
	for _, e := range self.Edges() {
		if self.State(e.Src) == nil || self.State(e.Dst) == nil {
			return invariant("program "+self.Name, "control edge %d references a dead state", e.ID)
		}
	}
	for _, s := range self.States() {
		if err := self.ValidateState(s); err != nil {
			return err
		}
	}
	return nil
}

// ValidateState checks a single state against the program declarations. The
// state may be detached.
func (self *Program) ValidateState(s *State) error {
	p := self.Prover()
	for _, n := range s.Nodes() {
		if a, ok := n.(*AccessNode); ok {
			if _, ok = self.Containers[a.Data]; !ok {
				return invariant(s.where(), "%s accesses unknown container %q", a, a.Data)
			}
		}
	}
	for _, e := range s.edges {
		if s.Node(e.Src) == nil || s.Node(e.Dst) == nil {
			return invariant(s.where(), "data edge %d -> %d references a dead node", e.Src, e.Dst)
		}
		if e.Memlet == nil {
			continue
		}
		c, ok := self.Containers[e.Memlet.Data]
		if !ok {
			return invariant(s.where(), "memlet %s names unknown container", e.Memlet)
		}
		if len(c.Shape) != len(e.Memlet.Ranges) {
			return invariant(s.where(), "memlet %s has %d dimensions, container has %d", e.Memlet, len(e.Memlet.Ranges), len(c.Shape))
		}
		if e.Memlet.Covers(c.Shape, p) == symbolic.No {
			return invariant(s.where(), "memlet %s lies outside of the container", e.Memlet)
		}
	}
	return nil
}
