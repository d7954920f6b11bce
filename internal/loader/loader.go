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

// Package loader reads program descriptions written in HCL.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"

	"github.com/cloudwego/statefuse/internal/ir"
	"github.com/cloudwego/statefuse/internal/symbolic"
)

type fileRoot struct {
	Start       *string          `hcl:"start,optional"`
	Symbols     []*hclSymbol     `hcl:"symbol,block"`
	Arrays      []*hclArray      `hcl:"array,block"`
	States      []*hclState      `hcl:"state,block"`
	Transitions []*hclTransition `hcl:"transition,block"`
}

type hclSymbol struct {
	Name        string `hcl:"name,label"`
	DType       string `hcl:"dtype,optional"`
	Positive    bool   `hcl:"positive,optional"`
	Nonnegative bool   `hcl:"nonnegative,optional"`
}

type hclArray struct {
	Name      string         `hcl:"name,label"`
	Shape     hcl.Expression `hcl:"shape"`
	DType     string         `hcl:"dtype,optional"`
	Transient bool           `hcl:"transient,optional"`
}

type hclState struct {
	Name     string         `hcl:"name,label"`
	Bindings hcl.Expression `hcl:"bindings,optional"`
	Access   []*hclAccess   `hcl:"access,block"`
	Compute  []*hclCompute  `hcl:"compute,block"`
	Edges    []*hclEdge     `hcl:"edge,block"`
}

type hclAccess struct {
	Name string `hcl:"name,label"`
	Data string `hcl:"data"`
}

type hclCompute struct {
	Name    string         `hcl:"name,label"`
	Inputs  []string       `hcl:"inputs,optional"`
	Outputs []string       `hcl:"outputs,optional"`
	Code    hcl.Expression `hcl:"code,optional"`
}

type hclEdge struct {
	Src     string  `hcl:"src"`
	SrcConn string  `hcl:"src_conn,optional"`
	Dst     string  `hcl:"dst"`
	DstConn string  `hcl:"dst_conn,optional"`
	Memlet  *string `hcl:"memlet,optional"`
}

type hclTransition struct {
	From      string         `hcl:"from,label"`
	To        string         `hcl:"to,label"`
	Condition hcl.Expression `hcl:"condition,optional"`
	Assign    hcl.Expression `hcl:"assign,optional"`
}

// Load reads and validates the program described by the file at path.
func Load(path string) (*ir.Program, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read program %s: %w", path, err)
	}
	return Parse(src, path)
}

// Parse reads the program described by src. filename is only used for
// diagnostics and to name the program.
func Parse(src []byte, filename string) (*ir.Program, error) {
	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	var root fileRoot
	if diags = gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	b := &builder{
		src:    src,
		prog:   ir.NewProgram(strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))),
		states: make(map[string]ir.StateID),
	}
	if err := b.build(&root); err != nil {
		return nil, fmt.Errorf("invalid program %s: %w", filename, err)
	}
	if err := b.prog.Validate(); err != nil {
		return nil, fmt.Errorf("invalid program %s: %w", filename, err)
	}
	return b.prog, nil
}

type builder struct {
	src    []byte
	prog   *ir.Program
	states map[string]ir.StateID
}

func (self *builder) build(root *fileRoot) error {
	for _, s := range root.Symbols {
		sym := self.prog.AddSymbol(s.Name, orDefault(s.DType, "int64"))
		sym.Positive = s.Positive
		sym.Nonnegative = s.Nonnegative
	}
	for _, a := range root.Arrays {
		if err := self.array(a); err != nil {
			return err
		}
	}
	for _, s := range root.States {
		if err := self.state(s); err != nil {
			return err
		}
	}
	for _, t := range root.Transitions {
		if err := self.transition(t); err != nil {
			return err
		}
	}
	if root.Start != nil {
		id, ok := self.states[*root.Start]
		if !ok {
			return fmt.Errorf("unknown start state %q", *root.Start)
		}
		self.prog.Start = id
	}
	return nil
}

func (self *builder) array(a *hclArray) error {
	items, diags := hcl.ExprList(a.Shape)
	if diags.HasErrors() {
		return fmt.Errorf("array %s: %w", a.Name, diags)
	}
	c := &ir.Container{
		Name:      a.Name,
		DType:     orDefault(a.DType, "float64"),
		Transient: a.Transient,
		Shape:     make([]symbolic.Expr, len(items)),
	}
	for i, x := range items {
		v, err := symbolic.FromHCL(x, self.src)
		if err != nil {
			return fmt.Errorf("array %s: %w", a.Name, err)
		}
		c.Shape[i] = v
	}
	self.prog.AddContainer(c)
	return nil
}

func (self *builder) state(s *hclState) error {
	if _, ok := self.states[s.Name]; ok {
		return fmt.Errorf("duplicated state %q", s.Name)
	}

	st := self.prog.AddState(s.Name)
	self.states[s.Name] = st.ID
	nodes := make(map[string]ir.Node)

	/* declare every node before the edges refer to them */
	for _, a := range s.Access {
		if _, ok := nodes[a.Name]; ok {
			return fmt.Errorf("state %s: duplicated node %q", s.Name, a.Name)
		}
		nodes[a.Name] = st.AddAccess(a.Data)
	}
	for _, c := range s.Compute {
		if _, ok := nodes[c.Name]; ok {
			return fmt.Errorf("state %s: duplicated node %q", s.Name, c.Name)
		}
		code, err := self.assignments(c.Code)
		if err != nil {
			return fmt.Errorf("state %s: compute %s: %w", s.Name, c.Name, err)
		}
		nodes[c.Name] = st.AddCompute(c.Name, c.Inputs, c.Outputs, code...)
	}

	/* then connect them */
	for i, e := range s.Edges {
		src, ok := nodes[e.Src]
		if !ok {
			return fmt.Errorf("state %s: edge %d: unknown source %q", s.Name, i, e.Src)
		}
		dst, ok := nodes[e.Dst]
		if !ok {
			return fmt.Errorf("state %s: edge %d: unknown destination %q", s.Name, i, e.Dst)
		}
		if e.Memlet == nil {
			st.AddEdge(src, e.SrcConn, dst, e.DstConn, nil)
			continue
		}
		m, err := self.prog.Memlet(*e.Memlet)
		if err != nil {
			return fmt.Errorf("state %s: edge %d: %w", s.Name, i, err)
		}
		st.AddEdge(src, e.SrcConn, dst, e.DstConn, m)
	}

	bindings, err := self.assignments(s.Bindings)
	if err != nil {
		return fmt.Errorf("state %s: bindings: %w", s.Name, err)
	}
	st.Bindings = bindings
	return nil
}

func (self *builder) transition(t *hclTransition) error {
	src, ok := self.states[t.From]
	if !ok {
		return fmt.Errorf("transition %s -> %s: unknown state %q", t.From, t.To, t.From)
	}
	dst, ok := self.states[t.To]
	if !ok {
		return fmt.Errorf("transition %s -> %s: unknown state %q", t.From, t.To, t.To)
	}

	var guard symbolic.Expr
	if present(t.Condition) {
		v, err := symbolic.FromHCL(t.Condition, self.src)
		if err != nil {
			return fmt.Errorf("transition %s -> %s: %w", t.From, t.To, err)
		}
		guard = v
	}

	assign, err := self.assignments(t.Assign)
	if err != nil {
		return fmt.Errorf("transition %s -> %s: %w", t.From, t.To, err)
	}
	self.prog.AddEdge(src, dst, guard, assign...)
	return nil
}

// assignments reads an object constructor `{ k = expr, ... }` keeping the
// order the keys were written in.
func (self *builder) assignments(x hcl.Expression) (ir.Assignments, error) {
	if !present(x) {
		return nil, nil
	}
	items, diags := hcl.ExprMap(x)
	if diags.HasErrors() {
		return nil, diags
	}
	ret := make(ir.Assignments, 0, len(items))
	for _, kv := range items {
		key := hcl.ExprAsKeyword(kv.Key)
		if key == "" {
			return nil, fmt.Errorf("assignment keys must be plain identifiers at %s", kv.Key.Range())
		}
		v, err := symbolic.FromHCL(kv.Value, self.src)
		if err != nil {
			return nil, err
		}
		ret = append(ret, ir.Assignment{Symbol: key, Value: v})
	}
	return ret, nil
}

// present tells written attributes apart from the placeholders gohcl uses
// for missing optional expressions.
func present(x hcl.Expression) bool {
	if x == nil {
		return false
	}
	_, ok := x.(hclsyntax.Expression)
	return ok
}

func orDefault(v string, def string) string {
	if v == "" {
		return def
	}
	return v
}
