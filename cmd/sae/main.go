//
//  Copyright © Siteline Inc. All rights reserved.
//

package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/sitelinehq/assignmentengine/cmd/sae/common"
	"github.com/sitelinehq/assignmentengine/cmd/sae/subcommands/chain"
	"github.com/sitelinehq/assignmentengine/cmd/sae/subcommands/permissions"
	"github.com/sitelinehq/assignmentengine/cmd/sae/subcommands/projects"
	"github.com/sitelinehq/assignmentengine/cmd/sae/subcommands/serve"
	"github.com/sitelinehq/assignmentengine/cmd/sae/version"
	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:    "sae",
		Usage:   "A CLI application for working with the Siteline AssignmentEngine",
		Version: version.GetVersion(),
		Commands: []*cli.Command{
			{
				Name:  "chain",
				Usage: "Resolves the approval chain for a workflow on a project",
				Flags: append(common.CatalogFlags(),
					&cli.StringFlag{
						Name:     "workflow",
						Aliases:  []string{"w"},
						Usage:    "The workflow key to resolve (e.g. 'buyout')",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "project",
						Aliases:  []string{"p"},
						Usage:    "The project code to resolve against",
						Required: true,
					},
				),
				Action: chain.Execute,
			},
			{
				Name:  "resolve",
				Usage: "Resolves a user's effective permissions, optionally scoped to a project",
				Flags: append(common.CatalogFlags(),
					&cli.StringFlag{
						Name:     "user",
						Aliases:  []string{"u"},
						Usage:    "The user email to resolve",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "project",
						Aliases: []string{"p"},
						Usage:   "The project code to scope the resolution to",
					},
				),
				Action: permissions.Execute,
			},
			{
				Name:  "projects",
				Usage: "Lists the project codes accessible to a user",
				Flags: append(common.CatalogFlags(),
					&cli.StringFlag{
						Name:     "user",
						Aliases:  []string{"u"},
						Usage:    "The user email to list projects for",
						Required: true,
					},
				),
				Action: projects.Execute,
			},
			{
				Name:  "serve",
				Usage: "Creates a resolution decision-point service",
				Flags: append(common.CatalogFlags(),
					&cli.IntFlag{
						Name:  "port",
						Usage: "The TCP port to serve on.",
						Value: 9000,
					},
				),
				Action: serve.Execute,
			},
			{
				Name:  "version",
				Usage: "Prints the version",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					fmt.Println(version.GetVersion())
					return nil
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
