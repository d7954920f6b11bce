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

package symbolic

// Tri is the outcome of a proof obligation.
type Tri int8

const (
	Maybe Tri = iota
	Yes
	No
)

func (t Tri) String() string {
	switch t {
	case Yes:
		return "yes"
	case No:
		return "no"
	default:
		return "maybe"
	}
}

// Not swaps Yes and No.
func (t Tri) Not() Tri {
	switch t {
	case Yes:
		return No
	case No:
		return Yes
	default:
		return Maybe
	}
}

// Prover decides orderings between affine expressions using lower bounds
// assumed for symbols. Symbols without an assumption are unbounded.
type Prover struct {
	lower map[string]int64
}

func NewProver() *Prover {
	return &Prover{lower: make(map[string]int64)}
}

// Assume records that sym >= lo on every path.
func (p *Prover) Assume(sym string, lo int64) {
	if old, ok := p.lower[sym]; !ok || lo > old {
		p.lower[sym] = lo
	}
}

// LowerBound returns the greatest provable lower bound of a.
func (p *Prover) LowerBound(a Affine) (int64, bool) {
	lo := a.Const
	for s, c := range a.Coef {
		if c < 0 {
			return 0, false
		}
		v, ok := p.lower[s]
		if !ok {
			return 0, false
		}
		lo += c * v
	}
	return lo, true
}

// Less proves a < b.
func (p *Prover) Less(a Expr, b Expr) Tri {
	return p.nonneg(b, a, 1)
}

// LessEq proves a <= b.
func (p *Prover) LessEq(a Expr, b Expr) Tri {
	return p.nonneg(b, a, 0)
}

// nonneg decides hi - lo >= k for k in {0, 1}.
func (p *Prover) nonneg(hi Expr, lo Expr, k int64) Tri {
	if hi.x != nil && lo.x != nil && hi.src == lo.src {
		if k == 0 {
			return Yes
		}
		return No
	}
	ha, ok1 := Linearize(hi)
	la, ok2 := Linearize(lo)
	if !ok1 || !ok2 {
		return Maybe
	}
	if v, ok := p.LowerBound(ha.Sub(la)); ok && v >= k {
		return Yes
	}
	if v, ok := p.LowerBound(la.Sub(ha)); ok && v > -k {
		return No
	}
	return Maybe
}
