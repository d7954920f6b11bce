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
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cloudwego/statefuse"
)

type cli struct {
	stdout io.Writer
	stderr io.Writer

	configPath       string
	logLevel         string
	logFormat        string
	output           string
	maxIterations    int
	enumerationLimit int
	strictShapes     bool

	cfg    Config
	logger *slog.Logger
}

func newRootCmd(stdout io.Writer, stderr io.Writer) *cobra.Command {
	c := &cli{stdout: stdout, stderr: stderr}
	root := &cobra.Command{
		Use:           "statefuse",
		Short:         "Fuse sequential states of a data-centric program",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "path to a TOML config file")
	pf.StringVar(&c.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.StringVar(&c.logFormat, "log-format", "text", "log format (text, json)")
	pf.StringVarP(&c.output, "output", "o", "text", "output format (text, yaml)")
	pf.IntVar(&c.maxIterations, "max-iterations", 0, "maximum number of fusions, 0 for no limit")
	pf.IntVar(&c.enumerationLimit, "enum-limit", 0, "lattice points visited per range pair, 0 for the default")
	pf.BoolVar(&c.strictShapes, "strict-shapes", true, "validate states against container shapes before fusing")

	root.AddCommand(
		&cobra.Command{
			Use:   "fuse <file.hcl>",
			Short: "Fuse states until no candidate is left and print the program",
			Args:  cobra.ExactArgs(1),
			RunE:  c.fuse,
		},
		&cobra.Command{
			Use:   "check <file.hcl> <first> <second>",
			Short: "Fuse one pair of states, reporting why it is rejected",
			Args:  cobra.ExactArgs(3),
			RunE:  c.check,
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the version",
			Args:  cobra.NoArgs,
			PersistentPreRunE: func(*cobra.Command, []string) error {
				return nil
			},
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(c.stdout, "statefuse %s\n", version)
			},
		},
	)
	return root
}

// setup merges the config file with the flags actually given.
func (self *cli) setup(cmd *cobra.Command) error {
	cfg, err := loadConfig(self.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = self.logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = self.logFormat
	}
	if flags.Changed("output") {
		cfg.Output = self.output
	}
	if flags.Changed("max-iterations") {
		cfg.MaxIterations = self.maxIterations
	}
	if flags.Changed("enum-limit") {
		cfg.EnumerationLimit = self.enumerationLimit
	}
	if flags.Changed("strict-shapes") {
		cfg.StrictShapes = self.strictShapes
	}
	if err = cfg.validate(); err != nil {
		return err
	}

	self.cfg = cfg
	self.logger = newLogger(cfg.LogLevel, cfg.LogFormat, self.stderr)
	return nil
}

func (self *cli) options() []statefuse.Option {
	ret := []statefuse.Option{
		statefuse.WithLogger(self.logger),
		statefuse.WithMaxIterations(self.cfg.MaxIterations),
		statefuse.WithStrictShapes(self.cfg.StrictShapes),
	}
	if self.cfg.EnumerationLimit != 0 {
		ret = append(ret, statefuse.WithEnumerationLimit(self.cfg.EnumerationLimit))
	}
	return ret
}

func (self *cli) fuse(cmd *cobra.Command, args []string) error {
	p, err := statefuse.LoadFile(args[0])
	if err != nil {
		return err
	}

	before := p.NumStates()
	n, err := statefuse.Optimize(ctxOf(cmd), p, self.options()...)
	if err != nil {
		return fmt.Errorf("state fusion failed after %d fusion(s): %w", n, err)
	}

	self.logger.Info("state fusion done", "file", args[0], "fusions", n, "states_before", before, "states_after", p.NumStates())
	return writeProgram(self.stdout, self.cfg.Output, p, n)
}

func (self *cli) check(cmd *cobra.Command, args []string) error {
	p, err := statefuse.LoadFile(args[0])
	if err != nil {
		return err
	}
	first, err := stateByLabel(p, args[1])
	if err != nil {
		return err
	}
	second, err := stateByLabel(p, args[2])
	if err != nil {
		return err
	}

	err = statefuse.ApplyTo(ctxOf(cmd), p, first, second, self.options()...)
	var re *statefuse.RejectionError
	switch {
	case err == nil:
		return writeProgram(self.stdout, self.cfg.Output, p, 1)
	case errors.As(err, &re):
		fmt.Fprintf(self.stdout, "rejected: %s\n", re.Reason)
		if re.Symbol != "" {
			fmt.Fprintf(self.stdout, "symbol: %s\n", re.Symbol)
		}
		fmt.Fprintf(self.stdout, "detail: %s\n", re.Detail)
		return &exitError{code: ExitRejected, err: err}
	case errors.Is(err, statefuse.ErrNoMatch):
		return fmt.Errorf("%s and %s: %w", args[1], args[2], err)
	default:
		return err
	}
}

func stateByLabel(p *statefuse.Program, label string) (statefuse.StateID, error) {
	for _, s := range p.States() {
		if s.Label == label {
			return s.ID, nil
		}
	}
	return 0, fmt.Errorf("no state labelled %q", label)
}

func ctxOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
