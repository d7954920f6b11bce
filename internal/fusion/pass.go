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

package fusion

import (
	"context"

	"github.com/cloudwego/statefuse/internal/ir"
	"github.com/cloudwego/statefuse/internal/opts"
)

type Pass interface {
	Apply(context.Context, *ir.Program, opts.Options) (int, error)
}

type PassDescriptor struct {
	Pass Pass
	Name string
}

var Passes = [...]PassDescriptor{
	{Name: "State Fusion", Pass: new(StateFusion)},
}

// StateFusion fuses states to a fixpoint.
type StateFusion struct{}

func (StateFusion) Apply(ctx context.Context, p *ir.Program, o opts.Options) (int, error) {
	return NewFuser(o).ApplyRepeated(ctx, p)
}
