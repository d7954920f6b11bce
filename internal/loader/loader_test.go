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

package loader

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudwego/statefuse/internal/ir"
)

const assignments = `
symbol "N" {
  positive = true
}

array "A" {
  shape = [N]
  dtype = "int32"
}

state "s1" {}

state "s2" {
  bindings = { j = 0 }

  access "r" {
    data = "A"
  }
  compute "t" {
    inputs  = ["a"]
    outputs = ["b"]
    code    = { b = a + k, c = b * 2 }
  }
  edge {
    src      = "r"
    dst      = "t"
    dst_conn = "a"
    memlet   = "A[0:N-1]"
  }
}

state "s3" {}

transition "s1" "s2" {
  assign = { k = 1 }
}

transition "s2" "s3" {
  condition = k > N
  assign    = { k = k + 1, m = 2 }
}

start = "s1"
`

func TestParse_Assignments(t *testing.T) {
	p, err := Parse([]byte(assignments), "assignments.hcl")
	require.NoError(t, err)
	assert.Equal(t, "assignments", p.Name)
	require.Equal(t, 3, p.NumStates())
	assert.True(t, p.Symbols["N"].Positive)
	assert.Equal(t, "int64", p.Symbols["N"].DType)
	assert.Equal(t, "N", p.Containers["A"].Shape[0].String())

	edges := p.Edges()
	require.Len(t, edges, 2)
	assert.True(t, edges[0].IsUnconditional())
	assert.Equal(t, "{k = 1}", edges[0].Assign.String())
	assert.False(t, edges[1].IsUnconditional())
	assert.Equal(t, "k > N", edges[1].Guard.String())
	assert.Equal(t, "{k = k + 1; m = 2}", edges[1].Assign.String())

	s2 := p.State(edges[0].Dst)
	assert.Equal(t, "s2", s2.Label)
	assert.Equal(t, "{j = 0}", s2.Bindings.String())
	assert.Equal(t, []string{"N", "k"}, s2.FreeSymbols())

	var c *ir.ComputeNode
	for _, n := range s2.Nodes() {
		if v, ok := n.(*ir.ComputeNode); ok {
			c = v
		}
	}
	require.NotNil(t, c)
	assert.Equal(t, []string{"b", "c"}, c.Code.Names())
	require.Len(t, s2.Edges(), 1)
	assert.Equal(t, "A[0:N - 1]", s2.Edges()[0].Memlet.String())
}

func TestLoad_File(t *testing.T) {
	p, err := Load("testdata/write_write.hcl")
	require.NoError(t, err)
	assert.Equal(t, "write_write", p.Name)
	require.Equal(t, 2, p.NumStates())
	assert.Equal(t, "fill", p.State(p.Start).Label)
	assert.Len(t, p.State(p.Start).AccessNodes("A").Write, 1)
}

func TestLoad_MatchesBuilder(t *testing.T) {
	want := ir.NewProgram("write_write")
	want.AddSymbol("N", "int64").Positive = true
	want.AddArray("A", "int32", "N", "N")
	for _, st := range []struct {
		label  string
		kernel string
		value  string
		memlet string
	}{
		{"fill", "one", "1", "A[0:N-1, :]"},
		{"last", "two", "2", "A[N-1, :]"},
	} {
		s := want.AddState(st.label)
		w := s.AddAccess("A")
		c := s.AddCompute(st.kernel, nil, []string{"a"}, ir.Assign("a", st.value))
		s.AddEdge(c, "a", w, "", want.MustMemlet(st.memlet))
	}
	want.AddEdge(0, 1, nil)

	got, err := Load("testdata/write_write.hcl")
	require.NoError(t, err)
	if diff := cmp.Diff(want.String(), got.String()); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "syntax",
			src:  `state "s" {`,
			want: "failed to parse",
		},
		{
			name: "unknown block",
			src:  `bogus "x" {}`,
			want: "failed to decode",
		},
		{
			name: "unknown state",
			src:  `transition "a" "b" {}`,
			want: `unknown state "a"`,
		},
		{
			name: "duplicated state",
			src:  "state \"a\" {}\nstate \"a\" {}",
			want: `duplicated state "a"`,
		},
		{
			name: "unknown node",
			src:  "state \"a\" {\n  edge {\n    src = \"x\"\n    dst = \"y\"\n  }\n}",
			want: `unknown source "x"`,
		},
		{
			name: "bad memlet",
			src:  "array \"A\" {\n  shape = [4]\n}\nstate \"a\" {\n  access \"x\" {\n    data = \"A\"\n  }\n  access \"y\" {\n    data = \"A\"\n  }\n  edge {\n    src = \"x\"\n    dst = \"y\"\n    memlet = \"B[0]\"\n  }\n}",
			want: "undeclared container B",
		},
		{
			name: "unknown container",
			src:  "state \"a\" {\n  access \"x\" {\n    data = \"Z\"\n  }\n}",
			want: "unknown container",
		},
		{
			name: "unknown start",
			src:  "state \"a\" {}\nstart = \"b\"",
			want: `unknown start state "b"`,
		},
		{
			name: "computed key",
			src:  "state \"a\" {}\nstate \"b\" {}\ntransition \"a\" \"b\" {\n  assign = { \"k\" = 1 }\n}",
			want: "plain identifiers",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.src), "test.hcl")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}
