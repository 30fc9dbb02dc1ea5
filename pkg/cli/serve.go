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

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/logfan/pkg/api"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the logfan HTTP service",
		Description: `Run the HTTP service exposing GET /log/{message}, which logs a demo
session through the configured sinks, plus /health, /ready and /metrics.`,
		Flags: []cli.Flag{
			configFlag(),
			&cli.IntFlag{
				Name:  "port",
				Usage: "Listen port (overrides configuration and PORT)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.IsSet("port") {
				cfg.Server.Port = int(cmd.Int("port"))
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			return api.Run(ctx, cfg)
		},
	}
}
