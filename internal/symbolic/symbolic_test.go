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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpr_FreeSymbols(t *testing.T) {
	tests := []struct {
		src  string
		syms []string
	}{
		{src: "1", syms: []string{}},
		{src: "k + 1", syms: []string{"k"}},
		{src: "k * N - k", syms: []string{"N", "k"}},
		{src: "A[0] + i", syms: []string{"A", "i"}},
		{src: "i < N && true", syms: []string{"N", "i"}},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			e, err := Parse(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.syms, e.FreeSymbols())
		})
	}
}

func TestExpr_ParseError(t *testing.T) {
	_, err := Parse("k + ")
	require.Error(t, err)
	var se SyntaxError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "k + ", se.Src)
}

func TestExpr_IsTriviallyTrue(t *testing.T) {
	assert.True(t, Expr{}.IsTriviallyTrue())
	assert.True(t, MustParse("true").IsTriviallyTrue())
	assert.True(t, MustParse("1 < 2").IsTriviallyTrue())
	assert.False(t, MustParse("false").IsTriviallyTrue())
	assert.False(t, MustParse("i < N").IsTriviallyTrue())
	assert.False(t, MustParse("1").IsTriviallyTrue())
}

func TestExpr_Int64(t *testing.T) {
	v, ok := MustParse("(3 + 4) * 2").Int64()
	require.True(t, ok)
	assert.Equal(t, int64(14), v)

	v, ok = MustParse("N - N + 5").Int64()
	require.True(t, ok)
	assert.Equal(t, int64(5), v)

	_, ok = MustParse("N + 1").Int64()
	assert.False(t, ok)
}

func TestAffine_Normalize(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{src: "N - 1 - 1", want: "N - 2"},
		{src: "2 * (N + 3) - N", want: "N + 6"},
		{src: "-(i - j)", want: "-i + j"},
		{src: "0", want: "0"},
		{src: "3 * k - 4", want: "3*k - 4"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			assert.Equal(t, tt.want, Simplify(MustParse(tt.src)).String())
		})
	}

	_, ok := Linearize(MustParse("N * M"))
	assert.False(t, ok)
	_, ok = Linearize(MustParse("N / 2"))
	assert.False(t, ok)
}

func TestExpr_Arithmetic(t *testing.T) {
	assert.Equal(t, "N - 2", AddInt(MustParse("N - 1"), -1).String())
	assert.Equal(t, "1", Sub(MustParse("N"), MustParse("N - 1")).String())
	assert.True(t, MustParse("N + 1").Equal(MustParse("1 + N")))
	assert.False(t, MustParse("N + 1").Equal(MustParse("N")))
}

func TestProver_Orderings(t *testing.T) {
	p := NewProver()
	p.Assume("N", 1)

	assert.Equal(t, Yes, p.Less(MustParse("N - 2"), MustParse("N - 1")))
	assert.Equal(t, No, p.Less(MustParse("N - 1"), MustParse("N - 1")))
	assert.Equal(t, Yes, p.LessEq(MustParse("N - 1"), MustParse("N - 1")))
	assert.Equal(t, Yes, p.Less(MustParse("0"), MustParse("N")))
	assert.Equal(t, Yes, p.LessEq(MustParse("0"), MustParse("N - 1")))
	assert.Equal(t, Maybe, p.Less(MustParse("5"), MustParse("N")))
	assert.Equal(t, No, p.Less(MustParse("N + 3"), MustParse("N")))
	assert.Equal(t, Maybe, p.Less(MustParse("M"), MustParse("N")))
	assert.Equal(t, Maybe, p.Less(MustParse("N * N"), MustParse("N")))
}

func TestTri_Not(t *testing.T) {
	assert.Equal(t, No, Yes.Not())
	assert.Equal(t, Yes, No.Not())
	assert.Equal(t, Maybe, Maybe.Not())
	assert.Equal(t, "maybe", Maybe.String())
}
