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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudwego/statefuse/internal/symbolic"
)

func testShapes(data string) ([]symbolic.Expr, bool) {
	switch data {
	case "A", "B":
		return []symbolic.Expr{symbolic.Sym("N"), symbolic.Sym("N")}, true
	case "V":
		return []symbolic.Expr{symbolic.Int(20)}, true
	default:
		return nil, false
	}
}

func testProver() *symbolic.Prover {
	p := symbolic.NewProver()
	p.Assume("N", 1)
	return p
}

func mustParse(t *testing.T, src string) *Descriptor {
	t.Helper()
	d, err := Parse(src, testShapes)
	require.NoError(t, err)
	return d
}

func TestParse(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{src: "A", want: "A[0:N, 0:N]"},
		{src: "A[0:N-1, :]", want: "A[0:N - 1, 0:N]"},
		{src: "A[N-1, :]", want: "A[N-1, 0:N]"},
		{src: "V[2:10:2]", want: "V[2:10:2]"},
		{src: "V[3]", want: "V[3]"},
		{src: "V[:5]", want: "V[0:5]"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			assert.Equal(t, tt.want, mustParse(t, tt.src).String())
		})
	}
}

func TestParse_Errors(t *testing.T) {
	for _, src := range []string{"", "X[0]", "A[0]", "V[0", "V[1:2:3:4]", "V[1 +]"} {
		_, err := Parse(src, testShapes)
		assert.Error(t, err, src)
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want Overlap
	}{
		{name: "different containers", a: "A", b: "B", want: Disjoint},
		{name: "row split", a: "A[0:N-1, :]", b: "A[N-1, :]", want: Disjoint},
		{name: "column split", a: "A[:, 5:N]", b: "A[:, 0:3]", want: Disjoint},
		{name: "symbolic full", a: "A", b: "A", want: Unknown},
		{name: "symbolic partial", a: "A[0:N-1, :]", b: "A[1:N, :]", want: Unknown},
		{name: "numeric", a: "V[0:10]", b: "V[5:15]", want: Overlapping},
		{name: "numeric touching", a: "V[0:10]", b: "V[10:20]", want: Disjoint},
		{name: "even vs odd", a: "V[0:20:2]", b: "V[1:20:2]", want: Disjoint},
		{name: "stride meet", a: "V[0:20:4]", b: "V[2:20:6]", want: Overlapping},
		{name: "stride miss in window", a: "V[0:7:4]", b: "V[2:7:6]", want: Disjoint},
	}
	p := testProver()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := mustParse(t, tt.a), mustParse(t, tt.b)
			assert.Equal(t, tt.want, Overlaps(a, b, p))
			assert.Equal(t, tt.want, Overlaps(b, a, p))
		})
	}
}

func TestOverlaps_EnumerationLimit(t *testing.T) {
	a := &Descriptor{Data: "V", Ranges: []Range{{Start: symbolic.Int(0), End: symbolic.Int(1 << 20), Step: symbolic.Int(3)}}}
	b := &Descriptor{Data: "V", Ranges: []Range{{Start: symbolic.Int(1), End: symbolic.Int(1 << 20), Step: symbolic.Int(1 << 19)}}}
	assert.Equal(t, Overlapping, Tester{Limit: 0}.Overlaps(a, b))
	assert.Equal(t, Unknown, Tester{Limit: 1}.Overlaps(a, b))
}

func TestDescriptor_Covers(t *testing.T) {
	p := testProver()
	shape, _ := testShapes("A")
	assert.Equal(t, symbolic.Yes, mustParse(t, "A[0:N-1, :]").Covers(shape, p))
	assert.Equal(t, symbolic.No, mustParse(t, "A[0:N+1, :]").Covers(shape, p))
	assert.Equal(t, symbolic.Maybe, mustParse(t, "A[0:M, :]").Covers(shape, p))
	assert.Equal(t, symbolic.No, mustParse(t, "V[0:5]").Covers(shape, p))
}

func TestDescriptor_Clone(t *testing.T) {
	d := mustParse(t, "A[0:N-1, :]")
	c := d.Clone()
	c.Ranges[0] = Index(symbolic.Int(0))
	assert.Equal(t, "A[0:N - 1, 0:N]", d.String())
	assert.Nil(t, (*Descriptor)(nil).Clone())
	assert.ElementsMatch(t, []string{"N", "N"}, d.FreeSymbols())
}
