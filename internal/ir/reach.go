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

package ir

import (
	"github.com/oleiade/lane"
)

// Reachable returns the live states in breadth-first order from Start,
// followed by the unreachable ones ordered by handle.
func (self *Program) Reachable() []*State {
	q := lane.NewQueue()
	seen := make(map[StateID]bool, len(self.states))
	ret := make([]*State, 0, len(self.states))

	/* breadth-first walk over the control edges */
	if self.State(self.Start) != nil {
		seen[self.Start] = true
		q.Enqueue(self.Start)
	}
	for !q.Empty() {
		id := q.Dequeue().(StateID)
		ret = append(ret, self.states[id])
		for _, e := range self.OutEdges(id) {
			if !seen[e.Dst] && self.State(e.Dst) != nil {
				seen[e.Dst] = true
				q.Enqueue(e.Dst)
			}
		}
	}

	/* states not reachable from the start */
	for _, s := range self.states {
		if s != nil && !seen[s.ID] {
			ret = append(ret, s)
		}
	}
	return ret
}
