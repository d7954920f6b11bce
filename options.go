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
	"fmt"
	"log/slog"

	"github.com/cloudwego/statefuse/internal/opts"
)

// Option is the property setter function for opts.Options.
type Option func(*opts.Options)

const (
	_MinEnumerationLimit = 16
)

// WithMaxIterations bounds the number of fusions ApplyRepeated performs.
//
// Set this option to "0" disables this limit. The loop always terminates
// since every fusion removes a state.
//
// The default value of this option is "0".
func WithMaxIterations(n int) Option {
	if n < 0 {
		panic(fmt.Sprintf("statefuse: invalid iteration limit: %d", n))
	} else {
		return func(o *opts.Options) { o.MaxIterations = n }
	}
}

// WithEnumerationLimit sets how many lattice points the overlap test may
// visit when intersecting two numeric strided ranges. Pairs exceeding the
// limit are assumed to overlap, which only costs an extra ordering edge.
//
// The default value of this option is "65536".
func WithEnumerationLimit(n int) Option {
	if n < _MinEnumerationLimit {
		panic(fmt.Sprintf("statefuse: invalid enumeration limit: %d", n))
	} else {
		return func(o *opts.Options) { o.EnumerationLimit = n }
	}
}

// WithLogger sets the logger receiving a debug record for every decision.
// Nothing is logged by default.
func WithLogger(l *slog.Logger) Option {
	return func(o *opts.Options) { o.Logger = l }
}

// WithStrictShapes controls whether both states are validated against the
// container declarations before fusing. Enabled by default.
func WithStrictShapes(v bool) Option {
	return func(o *opts.Options) { o.StrictShapes = v }
}

// SetMaxIterations sets the default iteration limit from now on.
//
// This value can also be configured with the `STATEFUSE_MAX_ITERATIONS`
// environment variable.
//
// Returns the old opts.MaxIterations value.
func SetMaxIterations(n int) int {
	n, opts.MaxIterations = opts.MaxIterations, n
	return n
}

// SetEnumerationLimit sets the default enumeration limit from now on.
//
// This value can also be configured with the `STATEFUSE_ENUM_LIMIT`
// environment variable.
//
// Returns the old opts.EnumerationLimit value.
func SetEnumerationLimit(n int) int {
	n, opts.EnumerationLimit = opts.EnumerationLimit, n
	return n
}
