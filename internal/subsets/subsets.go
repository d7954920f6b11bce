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

// Package subsets models strided multi-dimensional ranges over data
// containers and decides whether two accesses may touch the same elements.
package subsets

import (
	"fmt"
	"strings"

	"github.com/cloudwego/statefuse/internal/symbolic"
)

// Range is a strided range with an inclusive End.
type Range struct {
	Start symbolic.Expr
	End   symbolic.Expr
	Step  symbolic.Expr
}

// Index returns the single-element range [i, i].
func Index(i symbolic.Expr) Range {
	return Range{Start: i, End: i, Step: symbolic.Int(1)}
}

// Span returns the unit-stride range [lo, hi].
func Span(lo symbolic.Expr, hi symbolic.Expr) Range {
	return Range{Start: lo, End: hi, Step: symbolic.Int(1)}
}

// Dim returns the full range of a dimension of the given size.
func Dim(size symbolic.Expr) Range {
	return Span(symbolic.Int(0), symbolic.AddInt(size, -1))
}

func (r Range) step() (int64, bool) {
	if r.Step.IsZero() {
		return 1, true
	}
	return r.Step.Int64()
}

// String renders r with an exclusive stop, the same notation Parse accepts.
func (r Range) String() string {
	if r.Start.Equal(r.End) {
		return r.Start.String()
	}
	buf := r.Start.String() + ":" + symbolic.AddInt(r.End, 1).String()
	if s, ok := r.step(); !ok || s != 1 {
		buf += ":" + r.Step.String()
	}
	return buf
}

// Descriptor names the elements of one container touched by a data-access
// edge.
type Descriptor struct {
	Data   string
	Ranges []Range
}

// Full returns the descriptor covering the whole container.
func Full(data string, shape []symbolic.Expr) *Descriptor {
	ret := &Descriptor{Data: data, Ranges: make([]Range, len(shape))}
	for i, n := range shape {
		ret.Ranges[i] = Dim(n)
	}
	return ret
}

func (d *Descriptor) Clone() *Descriptor {
	if d == nil {
		return nil
	}
	return &Descriptor{Data: d.Data, Ranges: append([]Range(nil), d.Ranges...)}
}

// FreeSymbols returns every symbol referenced by the ranges of d.
func (d *Descriptor) FreeSymbols() []string {
	var ret []string
	for _, r := range d.Ranges {
		ret = append(ret, r.Start.FreeSymbols()...)
		ret = append(ret, r.End.FreeSymbols()...)
		ret = append(ret, r.Step.FreeSymbols()...)
	}
	return ret
}

func (d *Descriptor) String() string {
	if d == nil {
		return "<empty>"
	}
	buf := make([]string, len(d.Ranges))
	for i, r := range d.Ranges {
		buf[i] = r.String()
	}
	return fmt.Sprintf("%s[%s]", d.Data, strings.Join(buf, ", "))
}

// Covers reports whether d provably lies inside a container of the given
// shape.
func (d *Descriptor) Covers(shape []symbolic.Expr, p *symbolic.Prover) symbolic.Tri {
	if len(shape) != len(d.Ranges) {
		return symbolic.No
	}
	ret := symbolic.Yes
	for i, r := range d.Ranges {
		for _, t := range [...]symbolic.Tri{
			p.LessEq(symbolic.Int(0), r.Start),
			p.Less(r.End, shape[i]),
		} {
			switch t {
			case symbolic.No:
				return symbolic.No
			case symbolic.Maybe:
				ret = symbolic.Maybe
			}
		}
	}
	return ret
}
