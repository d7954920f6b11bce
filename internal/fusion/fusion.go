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

// Package fusion merges sequentially connected states of a program into one
// whenever the merge is provably safe.
package fusion

import (
	"context"
	"errors"
	"sync/atomic"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/cloudwego/statefuse/internal/ir"
	"github.com/cloudwego/statefuse/internal/opts"
	"github.com/cloudwego/statefuse/internal/subsets"
)

// Fuser applies state fusion under a fixed set of options.
type Fuser struct {
	opts opts.Options
}

func NewFuser(o opts.Options) *Fuser {
	return &Fuser{opts: o}
}

func (self *Fuser) tester(p *ir.Program) subsets.Tester {
	limit := self.opts.EnumerationLimit
	if limit == 0 {
		limit = opts.EnumerationLimit
	}
	return subsets.Tester{Prover: p.Prover(), Limit: limit}
}

// TryFuse fuses state a with its successor b. It returns ErrNoMatch if the
// pair is not a candidate, a *RejectionError if fusing would be unsafe and an
// *ir.InvariantError if the program is malformed. The program is only
// modified on success.
func (self *Fuser) TryFuse(ctx context.Context, p *ir.Program, a ir.StateID, b ir.StateID) (id ir.StateID, err error) {
	ctx, span := startFuseSpan(ctx, a, b)
	defer span.End()

	if id, err = self.tryFuse(ctx, p, a, b); err != nil {
		var re *RejectionError
		if errors.As(err, &re) {
			countRejection(re.Reason)
			recordRejection(ctx, re.Reason)
			span.SetAttributes(attribute.String("statefuse.reason", re.Reason.String()))
			self.opts.Log().DebugContext(ctx, "state fusion rejected",
				"first", int(a),
				"second", int(b),
				"reason", re.Reason.String(),
				"symbol", re.Symbol,
				"detail", re.Detail,
			)
		} else if !errors.Is(err, ErrNoMatch) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		return ir.NoState, err
	}

	span.SetAttributes(attribute.Int("statefuse.fused", int(id)))
	return id, nil
}

func (self *Fuser) tryFuse(ctx context.Context, p *ir.Program, a ir.StateID, b ir.StateID) (ir.StateID, error) {
	e, err := match(p, a, b)
	if err != nil {
		return ir.NoState, err
	}

	atomic.AddUint64(&CandidateCount, 1)
	sa, sb := p.State(a), p.State(b)

	/* malformed states are never fused */
	if self.opts.StrictShapes {
		if err = p.ValidateState(sa); err != nil {
			return ir.NoState, err
		}
		if err = p.ValidateState(sb); err != nil {
			return ir.NoState, err
		}
	}

	if err = check(p, sa, sb, e); err != nil {
		return ir.NoState, err
	}

	/* build the fused state aside, the program is still untouched */
	t := self.tester(p)
	f, err := merge(p, t, sa, sb)
	if err != nil {
		return ir.NoState, err
	}
	n, err := link(p, t, f)
	if err != nil {
		return ir.NoState, err
	}

	f.state.Bindings = append(append(sa.Bindings.Clone(), e.Assign...), sb.Bindings...)
	id := commit(p, sa, sb, e, f.state)

	atomic.AddUint64(&FusionCount, 1)
	atomic.AddUint64(&MergedNodeCount, uint64(f.merged))
	atomic.AddUint64(&OrderingEdgeCount, uint64(f.ordered+n))
	recordFusion(ctx, f.ordered+n)

	self.opts.Log().DebugContext(ctx, "states fused",
		"first", int(a),
		"second", int(b),
		"fused", int(id),
		"merged", f.merged,
		"ordering_edges", f.ordered+n,
	)
	return id, nil
}

// commit swaps a and b for f in the control-flow graph.
func commit(p *ir.Program, a *ir.State, b *ir.State, e *ir.ControlEdge, f *ir.State) ir.StateID {
	start := p.Start == a.ID
	id := p.Insert(f)

	p.RemoveEdge(e.ID)
	for _, in := range p.InEdges(a.ID) {
		in.Dst = id
	}
	for _, out := range p.OutEdges(b.ID) {
		out.Src = id
	}

	p.RemoveState(a.ID)
	p.RemoveState(b.ID)
	if start {
		p.Start = id
	}
	return id
}

// ApplyTo fuses a and b or reports why it cannot.
func (self *Fuser) ApplyTo(ctx context.Context, p *ir.Program, a ir.StateID, b ir.StateID) error {
	_, err := self.TryFuse(ctx, p, a, b)
	return err
}

// ApplyRepeated fuses candidates until none is left and returns the number
// of successful fusions. Enumeration restarts after every success.
func (self *Fuser) ApplyRepeated(ctx context.Context, p *ir.Program) (n int, err error) {
	ctx, span := startApplySpan(ctx, p)
	defer span.End()

	for self.opts.CanIterate(n) {
		if err = ctx.Err(); err != nil {
			break
		}

		ok := false
		for _, e := range Candidates(p) {
			if _, err = self.TryFuse(ctx, p, e.Src, e.Dst); err == nil {
				ok = true
				break
			}
			if !errors.Is(err, ErrNoMatch) && !IsRejection(err) {
				break
			}
			err = nil
		}

		if err != nil || !ok {
			break
		}
		n++
	}

	span.SetAttributes(attribute.Int("statefuse.fusions", n))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return n, err
}

// Candidates returns the control edges that match the fusion pattern,
// visiting states breadth-first from the start state.
func Candidates(p *ir.Program) []*ir.ControlEdge {
	var ret []*ir.ControlEdge
	for _, s := range p.Reachable() {
		if e, err := match(p, s.ID, successor(p, s.ID)); err == nil {
			ret = append(ret, e)
		}
	}
	return ret
}

func successor(p *ir.Program, id ir.StateID) ir.StateID {
	if out := p.OutEdges(id); len(out) == 1 {
		return out[0].Dst
	}
	return ir.NoState
}
