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
	"errors"
	"fmt"
	"sync/atomic"
)

// Reason classifies why a candidate pair was rejected.
type Reason int

const (
	GuardedEdge Reason = iota + 1
	AssignmentInUse
	LaterEdgeDependency
	AssignmentEscapes
	AmbiguousBinding
	AssignmentReadsWrite
	UnsupportedEdgeShape
	_ReasonMax
)

var _ReasonNames = [_ReasonMax]string{
	GuardedEdge:          "GuardedEdge",
	AssignmentInUse:      "AssignmentInUse",
	LaterEdgeDependency:  "LaterEdgeDependency",
	AssignmentEscapes:    "AssignmentEscapes",
	AmbiguousBinding:     "AmbiguousBinding",
	AssignmentReadsWrite: "AssignmentReadsWrite",
	UnsupportedEdgeShape: "UnsupportedEdgeShape",
}

func (self Reason) String() string {
	if self <= 0 || self >= _ReasonMax {
		return fmt.Sprintf("Reason(%d)", int(self))
	}
	return _ReasonNames[self]
}

// Reasons lists every rejection reason.
func Reasons() []Reason {
	ret := make([]Reason, 0, _ReasonMax-1)
	for r := GuardedEdge; r < _ReasonMax; r++ {
		ret = append(ret, r)
	}
	return ret
}

// RejectionError is returned when a candidate pair matches the pattern but
// fusing it would change the meaning of the program.
type RejectionError struct {
	Reason Reason
	Symbol string
	Detail string
}

func (self *RejectionError) Error() string {
	if self.Symbol != "" {
		return fmt.Sprintf("state fusion rejected (%s, symbol %s): %s", self.Reason, self.Symbol, self.Detail)
	} else {
		return fmt.Sprintf("state fusion rejected (%s): %s", self.Reason, self.Detail)
	}
}

// ErrNoMatch is returned when the states are not a fusion candidate at all.
var ErrNoMatch = errors.New("states do not form a fusion candidate")

func reject(reason Reason, sym string, format string, args ...interface{}) *RejectionError {
	return &RejectionError{
		Reason: reason,
		Symbol: sym,
		Detail: fmt.Sprintf(format, args...),
	}
}

// IsRejection reports whether err carries a *RejectionError.
func IsRejection(err error) bool {
	var re *RejectionError
	return errors.As(err, &re)
}

var (
	FusionCount       uint64
	CandidateCount    uint64
	OrderingEdgeCount uint64
	MergedNodeCount   uint64

	rejections [_ReasonMax]uint64
)

// RejectionCount returns how many candidates were rejected for r.
func RejectionCount(r Reason) uint64 {
	if r <= 0 || r >= _ReasonMax {
		return 0
	}
	return atomic.LoadUint64(&rejections[r])
}

func countRejection(r Reason) {
	if r > 0 && r < _ReasonMax {
		atomic.AddUint64(&rejections[r], 1)
	}
}
