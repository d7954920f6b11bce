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

package statefuse

import (
	"github.com/cloudwego/statefuse/internal/fusion"
	"github.com/cloudwego/statefuse/internal/ir"
)

type (
	// RejectionError occurs when a candidate pair cannot be fused safely.
	RejectionError = fusion.RejectionError

	// Reason classifies a RejectionError.
	Reason = fusion.Reason

	// InvariantError occurs when the program itself is malformed.
	InvariantError = ir.InvariantError
)

const (
	GuardedEdge          = fusion.GuardedEdge
	AssignmentInUse      = fusion.AssignmentInUse
	LaterEdgeDependency  = fusion.LaterEdgeDependency
	AssignmentEscapes    = fusion.AssignmentEscapes
	AmbiguousBinding     = fusion.AmbiguousBinding
	AssignmentReadsWrite = fusion.AssignmentReadsWrite
	UnsupportedEdgeShape = fusion.UnsupportedEdgeShape
)

// ErrNoMatch occurs when two states are not a fusion candidate.
var ErrNoMatch = fusion.ErrNoMatch
