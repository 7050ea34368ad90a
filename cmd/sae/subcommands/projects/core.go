//
//  Copyright © Siteline Inc. All rights reserved.
//

package projects

import (
	"context"
	"os"

	clicommon "github.com/sitelinehq/assignmentengine/cmd/sae/common"
	"github.com/sitelinehq/assignmentengine/pkg/common"
	"github.com/urfave/cli/v3"
)

// Execute runs the projects command, listing the project codes accessible
// to a user.
func Execute(ctx context.Context, cmd *cli.Command) error {
	engine, err := clicommon.NewCliEngine(cmd, os.Stderr)
	if err != nil {
		return err
	}
	defer engine.Close()

	codes, rerr := engine.GetAccessibleProjects(ctx, cmd.String("user"))
	if rerr != nil {
		return rerr
	}

	common.PrettyPrint(codes)
	return nil
}
