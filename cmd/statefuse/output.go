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

package main

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/cloudwego/statefuse"
)

type programDoc struct {
	Name        string          `yaml:"name"`
	Start       string          `yaml:"start"`
	Fusions     int             `yaml:"fusions"`
	States      []stateDoc      `yaml:"states"`
	Transitions []transitionDoc `yaml:"transitions,omitempty"`
}

type stateDoc struct {
	ID       int      `yaml:"id"`
	Label    string   `yaml:"label"`
	Bindings []string `yaml:"bindings,omitempty"`
	Nodes    []string `yaml:"nodes,omitempty"`
	Edges    []string `yaml:"edges,omitempty"`
}

type transitionDoc struct {
	From   string   `yaml:"from"`
	To     string   `yaml:"to"`
	Guard  string   `yaml:"guard,omitempty"`
	Assign []string `yaml:"assign,omitempty"`
}

func newProgramDoc(p *statefuse.Program, fusions int) programDoc {
	doc := programDoc{Name: p.Name, Fusions: fusions}
	if s := p.State(p.Start); s != nil {
		doc.Start = s.Label
	}
	for _, s := range p.States() {
		sd := stateDoc{ID: int(s.ID), Label: s.Label}
		for _, a := range s.Bindings {
			sd.Bindings = append(sd.Bindings, a.String())
		}
		for _, n := range s.Nodes() {
			sd.Nodes = append(sd.Nodes, n.String())
		}
		for _, e := range s.Edges() {
			sd.Edges = append(sd.Edges, e.String())
		}
		doc.States = append(doc.States, sd)
	}
	for _, e := range p.Edges() {
		td := transitionDoc{From: p.State(e.Src).Label, To: p.State(e.Dst).Label}
		if !e.IsUnconditional() {
			td.Guard = e.Guard.String()
		}
		for _, a := range e.Assign {
			td.Assign = append(td.Assign, a.String())
		}
		doc.Transitions = append(doc.Transitions, td)
	}
	return doc
}

func writeProgram(w io.Writer, format string, p *statefuse.Program, fusions int) error {
	if format != "yaml" {
		_, err := fmt.Fprintf(w, "# %d fusion(s)\n%s", fusions, p)
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(newProgramDoc(p, fusions)); err != nil {
		return err
	}
	return enc.Close()
}
