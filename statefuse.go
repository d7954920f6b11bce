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

// Package statefuse merges sequentially connected states of a data-centric
// program whenever doing so provably keeps its meaning.
package statefuse

import (
	"context"

	"github.com/cloudwego/statefuse/internal/fusion"
	"github.com/cloudwego/statefuse/internal/ir"
	"github.com/cloudwego/statefuse/internal/loader"
	"github.com/cloudwego/statefuse/internal/opts"
)

type (
	Program = ir.Program
	State   = ir.State
	StateID = ir.StateID
)

// NewProgram creates an empty program.
func NewProgram(name string) *Program {
	return ir.NewProgram(name)
}

// LoadFile reads a program description written in HCL.
func LoadFile(path string) (*Program, error) {
	return loader.Load(path)
}

// ParseProgram reads a program description from memory.
func ParseProgram(src []byte, filename string) (*Program, error) {
	return loader.Parse(src, filename)
}

func optionsOf(options []Option) opts.Options {
	o := opts.GetDefaultOptions()
	for _, fn := range options {
		fn(&o)
	}
	return o
}

// TryFuse fuses the state first with its successor second and returns the
// fused state.
//
// ErrNoMatch is returned if the two states are not joined by the single edge
// out of first and into second. A *RejectionError is returned if fusing them
// could change the meaning of the program, in which case the program is left
// untouched.
func TryFuse(ctx context.Context, p *Program, first StateID, second StateID, options ...Option) (StateID, error) {
	return fusion.NewFuser(optionsOf(options)).TryFuse(ctx, p, first, second)
}

// ApplyTo is like TryFuse but only reports the error.
func ApplyTo(ctx context.Context, p *Program, first StateID, second StateID, options ...Option) error {
	return fusion.NewFuser(optionsOf(options)).ApplyTo(ctx, p, first, second)
}

// ApplyRepeated fuses states until no candidate is left and returns the
// number of fusions performed. Rejected candidates are skipped; a malformed
// program aborts with an *InvariantError.
func ApplyRepeated(ctx context.Context, p *Program, options ...Option) (int, error) {
	return fusion.NewFuser(optionsOf(options)).ApplyRepeated(ctx, p)
}

// Optimize runs every registered pass on p in order.
func Optimize(ctx context.Context, p *Program, options ...Option) (int, error) {
	n := 0
	o := optionsOf(options)
	for _, pass := range fusion.Passes {
		v, err := pass.Pass.Apply(ctx, p, o)
		if n += v; err != nil {
			return n, err
		}
	}
	return n, nil
}
