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
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/logfan/pkg/defaults"
	"github.com/NVIDIA/logfan/pkg/event"
	"github.com/NVIDIA/logfan/pkg/pipeline"
)

func emitCmd() *cli.Command {
	return &cli.Command{
		Name:      "emit",
		Usage:     "Push one event through the configured sinks",
		ArgsUsage: "<message template>",
		Description: `Build the sink pipeline from configuration, log a single event and
drain the sinks. Webhook and Kafka deliveries happen inline even when the
configuration makes them asynchronous. Delivery failures are reported and
make the command fail.

Examples:

  logfan emit -s fatal -p Message=hello "Testing FTL: {Message}"
  logfan emit -s error --source Worker.Background --failure "disk full" "Background job failed"`,
		Flags: []cli.Flag{
			configFlag(),
			severityFlag(),
			propertyFlag(),
			sourceFlag(),
			failureFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			sev, err := parseSeverity(cmd, event.Information)
			if err != nil {
				return err
			}
			template, err := templateArg(cmd)
			if err != nil {
				return err
			}
			attrs, err := eventAttrs(cmd)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			// One event, then exit: deliver inline so failures reach the
			// exit status instead of only the self-log.
			cfg.Slack.Async = false
			cfg.Kafka.Async = false

			selfLog := cmd.Root().ErrWriter
			if selfLog == nil {
				selfLog = os.Stderr
			}
			p, err := pipeline.Build(ctx, cfg,
				pipeline.WithConsoleWriter(writerOf(cmd)),
				pipeline.WithSelfLog(selfLog),
			)
			if err != nil {
				return fmt.Errorf("failed to build pipeline: %w", err)
			}

			r := slog.NewRecord(time.Now(), sev.Level(), template, 0)
			r.AddAttrs(attrs...)
			emitErr := p.Router().Handle(ctx, r)

			closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), defaults.SinkCloseTimeout)
			defer cancel()
			closeErr := p.Close(closeCtx)

			slog.Debug("event emitted", "severity", sev.String(), "sinks", p.SinkNames())
			if err := stderrors.Join(emitErr, closeErr); err != nil {
				return fmt.Errorf("failed to emit event: %w", err)
			}
			return nil
		},
	}
}
