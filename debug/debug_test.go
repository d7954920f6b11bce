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

package debug

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudwego/statefuse/internal/fusion"
	"github.com/cloudwego/statefuse/internal/ir"
	"github.com/cloudwego/statefuse/internal/opts"
	"github.com/cloudwego/statefuse/internal/symbolic"
)

func TestGetStats(t *testing.T) {
	p := ir.NewProgram("stats")
	s0 := p.AddState("s0")
	s1 := p.AddState("s1")
	s2 := p.AddState("s2")
	p.AddEdge(s0.ID, s1.ID, symbolic.Expr{})
	p.AddEdge(s1.ID, s2.ID, symbolic.Expr{}, ir.Assign("k", "1"))
	s0.Bindings = ir.Assignments{ir.Assign("k", "0")}

	before := GetStats()
	n, err := fusion.NewFuser(opts.GetDefaultOptions()).ApplyRepeated(context.Background(), p)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	after := GetStats()
	assert.Equal(t, before.Fusion.Fused+1, after.Fusion.Fused)
	assert.Greater(t, after.Fusion.Candidates, before.Fusion.Candidates)
	assert.Equal(t, before.Rejections["AmbiguousBinding"]+1, after.Rejections["AmbiguousBinding"])
}
