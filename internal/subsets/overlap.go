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

package subsets

import (
	"github.com/cloudwego/statefuse/internal/symbolic"
)

// Overlap is the outcome of an intersection test. Unknown must be treated
// by callers as a potential conflict.
type Overlap int8

const (
	Unknown Overlap = iota
	Disjoint
	Overlapping
)

func (o Overlap) String() string {
	switch o {
	case Disjoint:
		return "disjoint"
	case Overlapping:
		return "overlapping"
	default:
		return "unknown"
	}
}

// DefaultEnumerationLimit bounds the number of lattice points visited when
// two numeric strided ranges are intersected exactly.
const DefaultEnumerationLimit = 1 << 16

// Tester runs intersection tests under the assumptions of a prover.
type Tester struct {
	Prover *symbolic.Prover
	Limit  int
}

// Overlaps tests a and b with the default enumeration limit.
func Overlaps(a *Descriptor, b *Descriptor, p *symbolic.Prover) Overlap {
	return Tester{Prover: p, Limit: DefaultEnumerationLimit}.Overlaps(a, b)
}

// Overlaps decides whether a and b may touch a common element. Accesses to
// different containers never overlap. A single provably disjoint dimension
// is enough to separate the element sets; Overlapping needs every dimension
// to have numeric bounds sharing at least one element.
func (t Tester) Overlaps(a *Descriptor, b *Descriptor) Overlap {
	if a.Data != b.Data {
		return Disjoint
	}
	if len(a.Ranges) != len(b.Ranges) {
		return Unknown
	}
	ret := Overlapping
	for i := range a.Ranges {
		switch t.dim(a.Ranges[i], b.Ranges[i]) {
		case Disjoint:
			return Disjoint
		case Unknown:
			ret = Unknown
		}
	}
	return ret
}

func (t Tester) dim(a Range, b Range) Overlap {
	p := t.prover()

	/* one range ends before the other starts */
	if p.Less(a.End, b.Start) == symbolic.Yes || p.Less(b.End, a.Start) == symbolic.Yes {
		return Disjoint
	}

	/* strides that never meet */
	sa, ok1 := a.step()
	sb, ok2 := b.step()
	if !ok1 || !ok2 || sa <= 0 || sb <= 0 {
		return Unknown
	}
	off, ok := symbolic.Sub(b.Start, a.Start).Int64()
	if ok && off%gcd(sa, sb) != 0 {
		return Disjoint
	}

	/* everything is numeric, intersect exactly */
	a0, ok1 := a.Start.Int64()
	a1, ok2 := a.End.Int64()
	b0, ok3 := b.Start.Int64()
	b1, ok4 := b.End.Int64()
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return Unknown
	}
	return t.lattice(a0, a1, sa, b0, b1, sb)
}

// lattice looks for x in [lo, hi] with x = a0 (mod sa) and x = b0 (mod sb).
func (t Tester) lattice(a0 int64, a1 int64, sa int64, b0 int64, b1 int64, sb int64) Overlap {
	lo, hi := max(a0, b0), min(a1, b1)
	if lo > hi {
		return Disjoint
	}

	/* walk the sparser lattice */
	if sa < sb {
		a0, sa, b0, sb = b0, sb, a0, sa
	}
	x := a0
	if x < lo {
		x += (lo - x + sa - 1) / sa * sa
	}
	for n := 0; x <= hi; n++ {
		if t.Limit > 0 && n >= t.Limit {
			return Unknown
		}
		if (x-b0)%sb == 0 {
			return Overlapping
		}
		x += sa
	}
	return Disjoint
}

func (t Tester) prover() *symbolic.Prover {
	if t.Prover == nil {
		return symbolic.NewProver()
	}
	return t.Prover
}

func gcd(a int64, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	if a < 0 {
		return -a
	}
	return a
}
