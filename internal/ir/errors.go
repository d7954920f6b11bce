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
	"fmt"
)

// InvariantError reports a malformed program. It is never a reason to skip
// a candidate, callers abort on it.
type InvariantError struct {
	Where  string
	Detail string
}

func (self *InvariantError) Error() string {
	return fmt.Sprintf("invariant violated at %s: %s", self.Where, self.Detail)
}

func invariant(where string, format string, args ...interface{}) *InvariantError {
	return &InvariantError{Where: where, Detail: fmt.Sprintf(format, args...)}
}

func (self *State) where() string {
	if self.Label == "" {
		return fmt.Sprintf("state %d", self.ID)
	}
	return fmt.Sprintf("state %d (%s)", self.ID, self.Label)
}
