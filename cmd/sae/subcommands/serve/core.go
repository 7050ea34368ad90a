//
//  Copyright © Siteline Inc. All rights reserved.
//

package serve

import (
	"context"
	"os"
	"os/signal"

	clicommon "github.com/sitelinehq/assignmentengine/cmd/sae/common"
	"github.com/sitelinehq/assignmentengine/internal/logging"
	"github.com/sitelinehq/assignmentengine/pkg/decisionpoint/rest"
	"github.com/urfave/cli/v3"
)

var logger = logging.GetLogger("assignmentengine")

const agent string = "serve"

// Execute runs the serve command, starting a REST decision point server.
// It shuts down gracefully on interrupt signals.
func Execute(ctx context.Context, cmd *cli.Command) error {
	port := cmd.Int("port")

	engine, err := clicommon.NewCliEngine(cmd, os.Stdout)
	if err != nil {
		return err
	}
	defer engine.Close()

	server, err := rest.CreateServer(engine, port)
	if err != nil {
		return err
	}

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	logger.Info(agent, "shutdown", "Shutting down server...")

	err = server.Stop(ctx)
	if err != nil {
		return err
	}

	logger.Info(agent, "shutdown", "Server exited gracefully.")
	return nil
}
