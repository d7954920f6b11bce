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

package subsets

import (
	"fmt"
	"strings"

	"github.com/cloudwego/statefuse/internal/symbolic"
)

// ShapeFunc resolves the declared shape of a container.
type ShapeFunc func(data string) ([]symbolic.Expr, bool)

// SyntaxError occurs when a descriptor cannot be parsed.
type SyntaxError struct {
	Src    string
	Reason string
}

func (self SyntaxError) Error() string {
	return fmt.Sprintf("invalid descriptor %q: %s", self.Src, self.Reason)
}

// Parse reads the notation `A`, `A[i]`, `A[0:N-1, :]` or `A[0:N:2]`. Stops
// are exclusive and `:` spans the whole dimension, as with slices.
func Parse(src string, shapes ShapeFunc) (*Descriptor, error) {
	text := strings.TrimSpace(src)
	name, body := text, ""
	if i := strings.IndexByte(text, '['); i >= 0 {
		if !strings.HasSuffix(text, "]") {
			return nil, SyntaxError{Src: src, Reason: "missing closing bracket"}
		}
		name, body = strings.TrimSpace(text[:i]), text[i+1:len(text)-1]
	}
	if name == "" {
		return nil, SyntaxError{Src: src, Reason: "missing container name"}
	}
	shape, ok := shapes(name)
	if !ok {
		return nil, SyntaxError{Src: src, Reason: "undeclared container " + name}
	}
	if body == "" {
		return Full(name, shape), nil
	}

	dims := splitTop(body, ',')
	if len(dims) != len(shape) {
		return nil, SyntaxError{Src: src, Reason: fmt.Sprintf("expected %d dimensions, got %d", len(shape), len(dims))}
	}
	ret := &Descriptor{Data: name, Ranges: make([]Range, len(dims))}
	for i, dim := range dims {
		r, err := parseRange(dim, shape[i])
		if err != nil {
			return nil, SyntaxError{Src: src, Reason: err.Error()}
		}
		ret.Ranges[i] = r
	}
	return ret, nil
}

func parseRange(src string, size symbolic.Expr) (Range, error) {
	parts := splitTop(src, ':')
	if len(parts) == 1 {
		e, err := symbolic.Parse(parts[0])
		if err != nil {
			return Range{}, err
		}
		return Index(e), nil
	}
	if len(parts) > 3 {
		return Range{}, fmt.Errorf("too many colons in %q", src)
	}
	var err error
	start, stop, step := symbolic.Int(0), size, symbolic.Int(1)
	if s := strings.TrimSpace(parts[0]); s != "" {
		if start, err = symbolic.Parse(s); err != nil {
			return Range{}, err
		}
	}
	if s := strings.TrimSpace(parts[1]); s != "" {
		if stop, err = symbolic.Parse(s); err != nil {
			return Range{}, err
		}
	}
	if len(parts) == 3 {
		if s := strings.TrimSpace(parts[2]); s != "" {
			if step, err = symbolic.Parse(s); err != nil {
				return Range{}, err
			}
		}
	}
	return Range{Start: symbolic.Simplify(start), End: symbolic.AddInt(stop, -1), Step: step}, nil
}

// splitTop splits s on sep, ignoring separators nested in brackets.
func splitTop(s string, sep byte) []string {
	var ret []string
	depth, last := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case sep:
			if depth == 0 {
				ret = append(ret, strings.TrimSpace(s[last:i]))
				last = i + 1
			}
		}
	}
	return append(ret, strings.TrimSpace(s[last:]))
}
