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

// Package symbolic is the small symbolic engine used by the fusion pass. It
// parses scalar expressions with the HCL expression syntax, extracts their
// free symbols, folds constants and proves simple orderings between affine
// expressions.
package symbolic

import (
	"fmt"
	"math/big"
	"sort"
	"strconv"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
)

// Expr is an immutable scalar expression. The zero Expr is "absent" and is
// treated as trivially true when used as a guard.
type Expr struct {
	src string
	x   hclsyntax.Expression
}

// SyntaxError occurs when an expression cannot be parsed.
type SyntaxError struct {
	Src    string
	Reason string
}

func (self SyntaxError) Error() string {
	return fmt.Sprintf("invalid expression %q: %s", self.Src, self.Reason)
}

// Parse parses src as an HCL expression.
func Parse(src string) (Expr, error) {
	x, diags := hclsyntax.ParseExpression([]byte(src), "<expr>", hcl.InitialPos)
	if diags.HasErrors() {
		return Expr{}, SyntaxError{Src: src, Reason: diags.Error()}
	}
	return Expr{src: src, x: x}, nil
}

// MustParse is like Parse but panics on error. Meant for tests and
// statically known expressions.
func MustParse(src string) Expr {
	e, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return e
}

// FromHCL wraps an already parsed HCL expression. src must be the bytes of
// the file the expression was parsed from.
func FromHCL(x hcl.Expression, src []byte) (Expr, error) {
	sx, ok := x.(hclsyntax.Expression)
	if !ok {
		return Expr{}, SyntaxError{Src: x.Range().String(), Reason: "not a native syntax expression"}
	}
	return Expr{src: string(sx.Range().SliceBytes(src)), x: sx}, nil
}

// Int returns the literal expression v.
func Int(v int64) Expr {
	return MustParse(strconv.FormatInt(v, 10))
}

// Sym returns the expression consisting of the single symbol name.
func Sym(name string) Expr {
	return MustParse(name)
}

func (e Expr) IsZero() bool {
	return e.x == nil
}

func (e Expr) String() string {
	if e.x == nil {
		return "true"
	}
	return e.src
}

// FreeSymbols returns the sorted, de-duplicated root names referenced by e.
func (e Expr) FreeSymbols() []string {
	if e.x == nil {
		return nil
	}
	set := make(map[string]struct{})
	for _, tr := range e.x.Variables() {
		set[tr.RootName()] = struct{}{}
	}
	return sortedKeys(set)
}

// FreeSymbols is the package level form of Expr.FreeSymbols.
func FreeSymbols(e Expr) []string {
	return e.FreeSymbols()
}

// IsTriviallyTrue reports whether e is absent or a closed expression that
// evaluates to true.
func (e Expr) IsTriviallyTrue() bool {
	if e.x == nil {
		return true
	}
	v, ok := e.constant()
	if !ok || v.Type() != cty.Bool {
		return false
	}
	return v.True()
}

// Int64 folds e into an integer constant when it has no free symbols.
func (e Expr) Int64() (int64, bool) {
	if a, ok := Linearize(e); ok {
		return a.IsConst()
	}
	v, ok := e.constant()
	if !ok || v.Type() != cty.Number {
		return 0, false
	}
	return bigInt(v.AsBigFloat())
}

// Equal reports whether two expressions are syntactically identical after
// affine normalisation.
func (e Expr) Equal(o Expr) bool {
	if e.x == nil || o.x == nil {
		return e.x == nil && o.x == nil
	}
	if e.src == o.src {
		return true
	}
	a, ok1 := Linearize(e)
	b, ok2 := Linearize(o)
	return ok1 && ok2 && a.Sub(b).isZero()
}

// Simplify returns the normalised affine rendering of e, or e itself when it
// is not affine.
func Simplify(e Expr) Expr {
	if a, ok := Linearize(e); ok {
		return MustParse(a.String())
	}
	return e
}

// AddInt returns the simplified expression e + k.
func AddInt(e Expr, k int64) Expr {
	if a, ok := Linearize(e); ok {
		a.Const += k
		return MustParse(a.String())
	}
	return MustParse(fmt.Sprintf("(%s) + %d", e.src, k))
}

// Sub returns the simplified expression a - b.
func Sub(a Expr, b Expr) Expr {
	la, ok1 := Linearize(a)
	lb, ok2 := Linearize(b)
	if ok1 && ok2 {
		return MustParse(la.Sub(lb).String())
	}
	return MustParse(fmt.Sprintf("(%s) - (%s)", a.src, b.src))
}

func (e Expr) constant() (cty.Value, bool) {
	if len(e.x.Variables()) != 0 {
		return cty.NilVal, false
	}
	v, diags := e.x.Value(nil)
	if diags.HasErrors() || !v.IsWhollyKnown() || v.IsNull() {
		return cty.NilVal, false
	}
	return v, true
}

func bigInt(f *big.Float) (int64, bool) {
	if !f.IsInt() {
		return 0, false
	}
	i, acc := f.Int64()
	return i, acc == big.Exact
}

func sortedKeys(set map[string]struct{}) []string {
	ret := make([]string, 0, len(set))
	for k := range set {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}
