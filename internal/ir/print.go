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
	"sort"
	"strings"
)

func (self *ControlEdge) String() string {
	buf := fmt.Sprintf("%d -> %d", self.Src, self.Dst)
	if !self.IsUnconditional() {
		buf += " if " + self.Guard.String()
	}
	if len(self.Assign) != 0 {
		buf += " " + self.Assign.String()
	}
	return buf
}

func (self *DataEdge) String() string {
	src := fmt.Sprintf("n%d", self.Src)
	dst := fmt.Sprintf("n%d", self.Dst)
	if self.SrcConn != "" {
		src += "." + self.SrcConn
	}
	if self.DstConn != "" {
		dst += "." + self.DstConn
	}
	if self.Memlet == nil {
		return src + " -> " + dst
	}
	return fmt.Sprintf("%s -> %s [%s]", src, dst, self.Memlet)
}

func (self *State) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "state %d %q", self.ID, self.Label)
	if len(self.Bindings) != 0 {
		sb.WriteString(" " + self.Bindings.String())
	}
	sb.WriteString(" {\n")
	for _, n := range self.Nodes() {
		sb.WriteString("    " + n.String() + "\n")
	}
	for _, e := range self.edges {
		sb.WriteString("    " + e.String() + "\n")
	}
	sb.WriteString("}")
	return sb.String()
}

func (self *Program) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "program %q start %d\n", self.Name, self.Start)
	for _, name := range sortedKeys(self.Containers) {
		c := self.Containers[name]
		shape := make([]string, len(c.Shape))
		for i, v := range c.Shape {
			shape[i] = v.String()
		}
		fmt.Fprintf(&sb, "array %s %s[%s]\n", c.Name, c.DType, strings.Join(shape, ", "))
	}
	for _, s := range self.States() {
		sb.WriteString(s.String() + "\n")
	}
	for _, e := range self.Edges() {
		sb.WriteString(e.String() + "\n")
	}
	return sb.String()
}

func sortedKeys[T any](m map[string]T) []string {
	ret := make([]string, 0, len(m))
	for k := range m {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

func sortedSet(set map[string]struct{}) []string {
	return sortedKeys(set)
}
