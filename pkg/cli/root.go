// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/logfan/pkg/config"
	"github.com/NVIDIA/logfan/pkg/logging"
	"github.com/NVIDIA/logfan/pkg/serializer"
)

const (
	name           = "logfan"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Output file path (default: stdout)",
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Value:   string(serializer.FormatYAML),
		Usage:   fmt.Sprintf("Output format (supported values: %v)", serializer.SupportedFormats()),
	}
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path or URL of the YAML/JSON configuration file",
		Sources: cli.EnvVars(config.EnvConfigPath),
	}
}

// Execute runs the CLI with the process arguments and exits non-zero on error.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().Run(ctx, os.Args); err != nil {
		slog.Error("command failed", "error", err)
		code := 1
		if ctx.Err() != nil {
			code = 2
		}
		stop()
		os.Exit(code)
	}
}

func newRootCmd() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Usage:                 "logfan - structured logging fan-out demo",
		Version:               fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Operational log level (verbose, debug, info, warn, error, fatal)",
				Value:   "info",
				Sources: cli.EnvVars(logging.EnvLogLevel),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logging.SetDefaultStructuredLoggerWithLevel(name, version, cmd.String("log-level"))
			return ctx, nil
		},
		Commands: []*cli.Command{
			serveCmd(),
			emitCmd(),
			renderCmd(),
			configCmd(),
		},
		CommandNotFound: commandNotFound,
	}
}

func commandNotFound(ctx context.Context, cmd *cli.Command, command string) {
	fmt.Fprintf(writerOf(cmd), "unknown command %q\n\n", command)
	commandLister(ctx, cmd)
}

// commandLister prints the visible subcommands of cmd.
func commandLister(_ context.Context, cmd *cli.Command) {
	if cmd == nil || len(cmd.Commands) == 0 {
		return
	}
	w := writerOf(cmd)
	fmt.Fprintln(w, "Available commands:")
	for _, c := range cmd.Commands {
		if c.Hidden {
			continue
		}
		fmt.Fprintf(w, "  %-8s %s\n", c.Name, c.Usage)
	}
}

// writerOf returns the writer the root command prints to.
func writerOf(cmd *cli.Command) io.Writer {
	if cmd != nil {
		if root := cmd.Root(); root != nil && root.Writer != nil {
			return root.Writer
		}
	}
	return os.Stdout
}

func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	f := serializer.Format(cmd.String("format"))
	if f.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q, supported values: %v", f, serializer.SupportedFormats())
	}
	return f, nil
}

// openOutput returns the file named by the output flag, or the command
// writer when it is empty. The returned close func is never nil.
func openOutput(cmd *cli.Command) (io.Writer, func() error, error) {
	path := cmd.String("output")
	if path == "" {
		return writerOf(cmd), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	return f, f.Close, nil
}

func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}
