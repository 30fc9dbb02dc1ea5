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
	"log/slog"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/logfan/pkg/event"
	"github.com/NVIDIA/logfan/pkg/notify"
)

func renderCmd() *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "Print the webhook payload a sample event renders to",
		ArgsUsage: "<message template>",
		Description: `Render an event into the chat webhook payload without sending it.
Username, icon and the property allow-list come from the slack section of
the configuration unless overridden by flags.

Example:

  logfan render -s fatal -p SessionId=abc123 -p Message=hello \
    --failure "Something bad just happened..." "Testing FTL: {Message}"`,
		Flags: []cli.Flag{
			configFlag(),
			severityFlag(),
			propertyFlag(),
			sourceFlag(),
			failureFlag(),
			&cli.StringFlag{
				Name:  "username",
				Usage: "Override the payload username",
			},
			&cli.StringFlag{
				Name:  "icon-emoji",
				Usage: "Override the payload icon emoji",
			},
			outputFlag(),
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			sev, err := parseSeverity(cmd, event.Fatal)
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

			username := cfg.Slack.Username
			if cmd.IsSet("username") {
				username = cmd.String("username")
			}
			icon := cfg.Slack.IconEmoji
			if cmd.IsSet("icon-emoji") {
				icon = cmd.String("icon-emoji")
			}

			r := slog.NewRecord(time.Now(), sev.Level(), template, 0)
			r.AddAttrs(attrs...)
			e := event.FromRecord(r, event.NewPropertyBuilder(), nil)

			renderer := notify.NewRenderer(&notify.Options{Properties: cfg.Slack.Properties})
			payload, err := renderer.Render(e, username, icon)
			if err != nil {
				return fmt.Errorf("failed to render payload: %w", err)
			}

			w, closeOut, err := openOutput(cmd)
			if err != nil {
				return err
			}
			defer func() {
				if err := closeOut(); err != nil {
					slog.Warn("failed to close output", "error", err)
				}
			}()

			if _, err := fmt.Fprintln(w, string(payload)); err != nil {
				return fmt.Errorf("failed to write payload: %w", err)
			}
			return nil
		},
	}
}
