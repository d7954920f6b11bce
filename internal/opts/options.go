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

package opts

import (
	"log/slog"
)

type Options struct {
	MaxIterations    int
	EnumerationLimit int
	StrictShapes     bool
	Logger           *slog.Logger
}

// CanIterate reports whether another successful fusion is allowed after n.
func (self *Options) CanIterate(n int) bool {
	return self.MaxIterations > n || self.MaxIterations == 0
}

func (self *Options) Log() *slog.Logger {
	if self.Logger == nil {
		return discard
	}
	return self.Logger
}

var discard = slog.New(slog.DiscardHandler)

func GetDefaultOptions() Options {
	return Options{
		MaxIterations:    MaxIterations,
		EnumerationLimit: EnumerationLimit,
		StrictShapes:     true,
	}
}
