//
//  Copyright © Siteline Inc. All rights reserved.
//

package chain

import (
	"context"
	"os"

	clicommon "github.com/sitelinehq/assignmentengine/cmd/sae/common"
	"github.com/sitelinehq/assignmentengine/pkg/common"
	"github.com/urfave/cli/v3"
)

// Execute runs the chain command, resolving the approval chain for a
// workflow on a project and printing the resolved steps as JSON.
func Execute(ctx context.Context, cmd *cli.Command) error {
	engine, err := clicommon.NewCliEngine(cmd, os.Stderr)
	if err != nil {
		return err
	}
	defer engine.Close()

	steps, rerr := engine.ResolveChain(ctx, cmd.String("workflow"), cmd.String("project"))
	if rerr != nil {
		return rerr
	}

	common.PrettyPrint(steps)
	return nil
}
