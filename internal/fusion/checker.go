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
)

// match returns the edge joining a to b if the pair has the shape of a
// fusion candidate: a single edge out of a, which is also the single edge
// into b. The program must be entered through a, so b is never the start
// state.
func match(p *ir.Program, a ir.StateID, b ir.StateID) (*ir.ControlEdge, error) {
	if a == b || b == p.Start || p.State(a) == nil || p.State(b) == nil {
		return nil, ErrNoMatch
	}
	out := p.OutEdges(a)
	if len(out) != 1 || out[0].Dst != b {
		return nil, ErrNoMatch
	}
	if len(p.InEdges(b)) != 1 {
		return nil, ErrNoMatch
	}
	return out[0], nil
}

type symset map[string]struct{}

func newSymset(names ...[]string) symset {
	ret := make(symset)
	for _, v := range names {
		for _, s := range v {
			ret[s] = struct{}{}
		}
	}
	return ret
}

func (self symset) has(s string) bool {
	_, ok := self[s]
	return ok
}

// first returns the first name of v contained in the set.
func (self symset) first(v []string) (string, bool) {
	for _, s := range v {
		if self.has(s) {
			return s, true
		}
	}
	return "", false
}

// check decides whether folding e into a fused state keeps every symbol
// read seeing the same value it saw before.
func check(p *ir.Program, a *ir.State, b *ir.State, e *ir.ControlEdge) error {
	if !e.IsUnconditional() {
		return reject(GuardedEdge, "", "edge %d is guarded by %s", e.ID, e.Guard)
	}

	/* values bound on entry to the fused state must not be observed by the first state */
	assigned := newSymset(e.Assign.Names())
	entry := newSymset(e.Assign.Names(), b.Bindings.Names())
	if s, ok := entry.first(a.FreeSymbols()); ok {
		return reject(AssignmentInUse, s, "%s is read inside state %d before it is assigned", s, a.ID)
	}
	if s, ok := entry.first(a.Bindings.FreeSymbols()); ok {
		return reject(AssignmentInUse, s, "%s is read by the bindings of state %d", s, a.ID)
	}

	/* the assignment must not leave the fused state */
	switch out := p.OutEdges(b.ID); len(out) {
	case 0:
	case 1:
		if s, ok := assigned.first(out[0].FreeSymbols()); ok {
			return reject(LaterEdgeDependency, s, "edge %d depends on %s assigned by edge %d", out[0].ID, s, e.ID)
		}
	default:
		for _, o := range out {
			if s, ok := assigned.first(o.FreeSymbols()); ok {
				return reject(AssignmentEscapes, s, "%s assigned by edge %d escapes through branch %d", s, e.ID, o.ID)
			}
		}
	}

	/* the assignment is folded together with whatever binds the first state */
	if s, ok := assigned.first(a.Bindings.Names()); ok {
		return reject(AmbiguousBinding, s, "%s is already bound on entry to state %d", s, a.ID)
	}
	if s, ok := newSymset(a.Bindings.Names()).first(e.Assign.FreeSymbols()); ok {
		return reject(AmbiguousBinding, s, "edge %d reads %s bound on entry to state %d", e.ID, s, a.ID)
	}
	for _, in := range p.InEdges(a.ID) {
		bound := newSymset(in.Assign.Names())
		if s, ok := assigned.first(in.Assign.Names()); ok {
			return reject(AmbiguousBinding, s, "%s is assigned by both edge %d and edge %d", s, in.ID, e.ID)
		}
		if s, ok := bound.first(e.Assign.FreeSymbols()); ok {
			return reject(AmbiguousBinding, s, "edge %d reads %s assigned by edge %d", e.ID, s, in.ID)
		}
		if s, ok := assigned.first(in.FreeSymbols()); ok {
			return reject(AmbiguousBinding, s, "edge %d reads %s which edge %d reassigns", in.ID, s, e.ID)
		}
	}

	/* assignments and bindings of b are evaluated before the dataflow once fused */
	written := newSymset(a.WrittenContainers())
	if s, ok := written.first(e.Assign.FreeSymbols()); ok {
		return reject(AssignmentReadsWrite, s, "edge %d reads container %s written in state %d", e.ID, s, a.ID)
	}
	if s, ok := written.first(b.Bindings.FreeSymbols()); ok {
		return reject(AssignmentReadsWrite, s, "bindings of state %d read container %s written in state %d", b.ID, s, a.ID)
	}
	return nil
}
