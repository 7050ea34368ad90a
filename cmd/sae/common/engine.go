package common

import (
	"fmt"
	"io"

	"github.com/sitelinehq/assignmentengine/pkg/core"
	"github.com/sitelinehq/assignmentengine/pkg/core/auditlog"
	"github.com/sitelinehq/assignmentengine/pkg/core/capability"
	"github.com/sitelinehq/assignmentengine/pkg/core/catalog"
	"github.com/sitelinehq/assignmentengine/pkg/core/catalog/local"
	"github.com/sitelinehq/assignmentengine/pkg/core/catalog/sqlite"
	"github.com/sitelinehq/assignmentengine/pkg/core/options"
	"github.com/sitelinehq/assignmentengine/pkg/core/rolemap"
	"github.com/urfave/cli/v3"
)

// NewCliEngine creates a new Engine instance configured from CLI command
// flags. The catalog comes from --bundle (YAML) or --db (sqlite), the
// role-group and capability tables from their optional table files, and
// audit records go to the provided writer.
func NewCliEngine(cmd *cli.Command, auditOut io.Writer) (core.Engine, error) {
	bundlePath := cmd.String("bundle")
	dbPath := cmd.String("db")

	var factory catalog.Factory
	switch {
	case bundlePath != "" && dbPath != "":
		return nil, fmt.Errorf("--bundle and --db are mutually exclusive")
	case bundlePath != "":
		bundle, err := local.LoadBundle(bundlePath)
		if err != nil {
			return nil, err
		}
		factory = local.NewFactory(bundle)
	case dbPath != "":
		factory = sqlite.NewFactory(dbPath)
	default:
		return nil, fmt.Errorf("either --bundle or --db must be specified")
	}

	roles := rolemap.DefaultTable()
	if path := cmd.String("roles"); path != "" {
		var err error
		if roles, err = rolemap.Load(path); err != nil {
			return nil, err
		}
	}

	capabilities := capability.NewTable()
	if path := cmd.String("capabilities"); path != "" {
		var err error
		if capabilities, err = capability.Load(path); err != nil {
			return nil, err
		}
	}

	return core.NewEngine(
		options.WithCatalog(factory),
		options.WithRoleGroupTable(roles),
		options.WithCapabilityTable(capabilities),
		options.WithAuditLog(auditlog.NewIoWriterFactory(auditOut)))
}

// CatalogFlags returns the flags shared by every subcommand that opens a
// catalog.
func CatalogFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "bundle",
			Aliases: []string{"b"},
			Usage:   "Load the catalog bundle from YAML `FILE`",
		},
		&cli.StringFlag{
			Name:  "db",
			Usage: "Read the catalog from sqlite `FILE`",
		},
		&cli.StringFlag{
			Name:  "roles",
			Usage: "Load the role-to-group table from YAML `FILE` (default: built-in table)",
		},
		&cli.StringFlag{
			Name:    "capabilities",
			Aliases: []string{"c"},
			Usage:   "Load the tool-capability table from YAML `FILE`",
		},
	}
}
