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
	"sync/atomic"

	"github.com/cloudwego/statefuse/internal/fusion"
)

// A Stats records statistics about the state fusion pass.
type Stats struct {
	Fusion     FusionStats
	Rejections map[string]int
}

// A FusionStats records what successful fusions did to the program.
type FusionStats struct {
	Candidates    int
	Fused         int
	MergedNodes   int
	OrderingEdges int
}

// GetStats returns statistics of the state fusion pass.
func GetStats() Stats {
	ret := Stats{
		Fusion: FusionStats{
			Candidates:    int(atomic.LoadUint64(&fusion.CandidateCount)),
			Fused:         int(atomic.LoadUint64(&fusion.FusionCount)),
			MergedNodes:   int(atomic.LoadUint64(&fusion.MergedNodeCount)),
			OrderingEdges: int(atomic.LoadUint64(&fusion.OrderingEdgeCount)),
		},
		Rejections: make(map[string]int),
	}
	for _, r := range fusion.Reasons() {
		if n := fusion.RejectionCount(r); n != 0 {
			ret.Rejections[r.String()] = int(n)
		}
	}
	return ret
}
