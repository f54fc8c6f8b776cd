/*
Copyright 2025.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/cockroachdb/errors"

	"github.com/lexfrei/plugcheck/internal/config"
)

// Exit codes.
const (
	exitOK           = 0
	exitError        = 1
	exitIncompatible = 2
)

var (
	// Version information set via ldflags.
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"
)

// errIncompatible marks a completed check that found violations.
var errIncompatible = errors.New("plugin is not compatible")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)

	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)

		return exitError
	}

	root := newRootCommand(cfg, stdout, stderr)
	root.SetArgs(args)

	return exitCode(root.ExecuteContext(ctx), stderr)
}

func exitCode(err error, stderr io.Writer) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errIncompatible):
		return exitIncompatible
	default:
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)

		return exitError
	}
}
