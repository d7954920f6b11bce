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

import (
	"sort"
	"strconv"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
)

// Affine is a linear combination of symbols plus a constant.
type Affine struct {
	Coef  map[string]int64
	Const int64
}

// Linearize converts e into affine form. Only integer literals, bare
// symbols, parentheses, negation, addition, subtraction and multiplication
// by a constant are supported.
func Linearize(e Expr) (Affine, bool) {
	if e.x == nil {
		return Affine{}, false
	}
	return linearize(e.x)
}

func linearize(x hclsyntax.Expression) (Affine, bool) {
	switch v := x.(type) {
	case *hclsyntax.LiteralValueExpr:
		if v.Val.IsNull() || !v.Val.IsKnown() || v.Val.Type() != cty.Number {
			return Affine{}, false
		}
		if c, ok := bigInt(v.Val.AsBigFloat()); ok {
			return Affine{Const: c}, true
		}

	case *hclsyntax.ScopeTraversalExpr:
		if len(v.Traversal) != 1 {
			return Affine{}, false
		}
		if root, ok := v.Traversal[0].(hcl.TraverseRoot); ok {
			return Affine{Coef: map[string]int64{root.Name: 1}}, true
		}

	case *hclsyntax.ParenthesesExpr:
		return linearize(v.Expression)

	case *hclsyntax.TemplateWrapExpr:
		return linearize(v.Wrapped)

	case *hclsyntax.UnaryOpExpr:
		if v.Op == hclsyntax.OpNegate {
			a, ok := linearize(v.Val)
			return a.Scale(-1), ok
		}

	case *hclsyntax.BinaryOpExpr:
		lhs, ok := linearize(v.LHS)
		if !ok {
			return Affine{}, false
		}
		rhs, ok := linearize(v.RHS)
		if !ok {
			return Affine{}, false
		}
		switch v.Op {
		case hclsyntax.OpAdd:
			return lhs.Add(rhs), true
		case hclsyntax.OpSubtract:
			return lhs.Sub(rhs), true
		case hclsyntax.OpMultiply:
			if c, ok := lhs.IsConst(); ok {
				return rhs.Scale(c), true
			}
			if c, ok := rhs.IsConst(); ok {
				return lhs.Scale(c), true
			}
		}
	}
	return Affine{}, false
}

// IsConst returns the constant term when a has no symbolic part.
func (a Affine) IsConst() (int64, bool) {
	for _, c := range a.Coef {
		if c != 0 {
			return 0, false
		}
	}
	return a.Const, true
}

func (a Affine) isZero() bool {
	c, ok := a.IsConst()
	return ok && c == 0
}

func (a Affine) Add(b Affine) Affine {
	ret := Affine{Coef: make(map[string]int64, len(a.Coef)+len(b.Coef)), Const: a.Const + b.Const}
	for s, c := range a.Coef {
		ret.Coef[s] += c
	}
	for s, c := range b.Coef {
		ret.Coef[s] += c
	}
	ret.prune()
	return ret
}

func (a Affine) Sub(b Affine) Affine {
	return a.Add(b.Scale(-1))
}

func (a Affine) Scale(k int64) Affine {
	ret := Affine{Coef: make(map[string]int64, len(a.Coef)), Const: a.Const * k}
	for s, c := range a.Coef {
		ret.Coef[s] = c * k
	}
	ret.prune()
	return ret
}

// Symbols returns the symbols with a non-zero coefficient, sorted.
func (a Affine) Symbols() []string {
	ret := make([]string, 0, len(a.Coef))
	for s, c := range a.Coef {
		if c != 0 {
			ret = append(ret, s)
		}
	}
	sort.Strings(ret)
	return ret
}

// String renders a in a canonical form that parses back into an equal Expr.
func (a Affine) String() string {
	var sb strings.Builder
	for _, s := range a.Symbols() {
		c := a.Coef[s]
		switch {
		case sb.Len() == 0 && c == 1:
			sb.WriteString(s)
		case sb.Len() == 0 && c == -1:
			sb.WriteString("-" + s)
		case sb.Len() == 0:
			sb.WriteString(strconv.FormatInt(c, 10) + "*" + s)
		case c == 1:
			sb.WriteString(" + " + s)
		case c == -1:
			sb.WriteString(" - " + s)
		case c < 0:
			sb.WriteString(" - " + strconv.FormatInt(-c, 10) + "*" + s)
		default:
			sb.WriteString(" + " + strconv.FormatInt(c, 10) + "*" + s)
		}
	}
	switch {
	case sb.Len() == 0:
		sb.WriteString(strconv.FormatInt(a.Const, 10))
	case a.Const > 0:
		sb.WriteString(" + " + strconv.FormatInt(a.Const, 10))
	case a.Const < 0:
		sb.WriteString(" - " + strconv.FormatInt(-a.Const, 10))
	}
	return sb.String()
}

func (a *Affine) prune() {
	for s, c := range a.Coef {
		if c == 0 {
			delete(a.Coef, s)
		}
	}
}
