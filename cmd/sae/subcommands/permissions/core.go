//
//  Copyright © Siteline Inc. All rights reserved.
//

package permissions

import (
	"context"
	"os"

	clicommon "github.com/sitelinehq/assignmentengine/cmd/sae/common"
	"github.com/sitelinehq/assignmentengine/pkg/common"
	"github.com/urfave/cli/v3"
)

// Execute runs the resolve command, computing a user's effective
// permissions (optionally scoped to a project) and printing the result as
// JSON.
func Execute(ctx context.Context, cmd *cli.Command) error {
	engine, err := clicommon.NewCliEngine(cmd, os.Stderr)
	if err != nil {
		return err
	}
	defer engine.Close()

	resolved, rerr := engine.ResolvePermissions(ctx, cmd.String("user"), cmd.String("project"))
	if rerr != nil {
		return rerr
	}

	common.PrettyPrint(resolved)
	return nil
}
