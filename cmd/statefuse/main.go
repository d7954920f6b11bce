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
	"errors"
	"fmt"
	"io"
	"os"
)

// Exit codes.
const (
	ExitSuccess  = 0
	ExitError    = 1
	ExitRejected = 3
)

var version = "dev"

type exitError struct {
	code int
	err  error
}

func (self *exitError) Error() string {
	return self.err.Error()
}

func (self *exitError) Unwrap() error {
	return self.err
}

func run(args []string, stdout io.Writer, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		var ee *exitError
		fmt.Fprintf(stderr, "statefuse: %v\n", err)
		if errors.As(err, &ee) {
			return ee.code
		}
		return ExitError
	}
	return ExitSuccess
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
