// Package main is a command line tool that encodes catalog content as SOS
// JSON documents and edits stored settings.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

// Version information (set at build time).
var version = "dev"

const (
	catalogFlag   = "catalog"
	settingsFlag  = "settings"
	prettyFlag    = "pretty"
	offeringFlag  = "offering"
	procedureFlag = "procedure"
	propertyFlag  = "observed-property"
	featureFlag   = "feature"
	sectionsFlag  = "sections"
	validTimeFlag = "valid-time"
	temporalFlag  = "phenomenon-time"
)

var globalFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    catalogFlag,
		Aliases: []string{"c"},
		Value:   "catalog.yaml",
		Usage:   "Catalog file with procedures, features and observations",
		EnvVars: []string{"SOS_CATALOG"},
	},
	&cli.StringFlag{
		Name:    settingsFlag,
		Aliases: []string{"s"},
		Usage:   "YAML settings file; settings are not persisted when empty",
		EnvVars: []string{"SOS_SETTINGS"},
	},
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "sosctl"
	app.Version = version
	app.Usage = "Encode SOS documents and manage settings."
	app.Flags = globalFlags
	app.Commands = []*cli.Command{
		encodeCommand(),
		settingsCommand(),
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
