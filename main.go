// Copyright 2020 the Drone Authors. All rights reserved.
// Use of this source code is governed by the Blue Oak Model License
// that can be found in the LICENSE file.

package main

import (
	"os"

	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/drone/drone-robot/plugin"
)

// usageExitCode is returned for missing or unknown flags.
const usageExitCode = 2

var flags = []cli.Flag{
	&cli.StringFlag{
		Name:    "input-file",
		Aliases: []string{"i"},
		Usage:   "input XML file generated by robot (e.g. robot-result/output.xml)",
	},
	&cli.StringFlag{
		Name:    "output-file",
		Aliases: []string{"o"},
		Usage:   "output JSON file (e.g. output/output.json)",
	},
	&cli.StringFlag{
		Name:  "xslt-file",
		Usage: "optional XSLT stylesheet applied to the input before conversion",
	},
	&cli.StringFlag{
		Name:  "log-level",
		Usage: "log level (debug, info, warn, error)",
	},
	&cli.BoolFlag{
		Name:  "fail-if-no-results",
		Usage: "fail when the report contains no tests",
	},
	&cli.BoolFlag{
		Name:  "failed-tests-fail-build",
		Usage: "fail when any test in the report failed",
	},
}

func main() {
	app := newApp(run)
	if err := app.Run(os.Args); err != nil {
		logrus.Fatal(err)
	}
}

func newApp(action func(plugin.Args, *cli.Context) error) *cli.App {
	app := cli.NewApp()
	app.Name = "drone-robot"
	app.Usage = "convert a Robot Framework output.xml into a JSON run summary"
	app.UsageText = "drone-robot -i <input-xml-file> -o <output-json-file>"
	app.Flags = flags
	app.OnUsageError = func(c *cli.Context, err error, _ bool) error {
		_ = cli.ShowAppHelp(c)
		return cli.Exit(err.Error(), usageExitCode)
	}
	app.Action = func(c *cli.Context) error {
		args, err := loadArgs(c)
		if err != nil {
			return err
		}
		if err := plugin.ValidateInputs(args); err != nil {
			_ = cli.ShowAppHelp(c)
			return cli.Exit(err.Error(), usageExitCode)
		}
		return action(args, c)
	}
	return app
}

// loadArgs reads the PLUGIN_* environment and lets explicit flags win.
func loadArgs(c *cli.Context) (plugin.Args, error) {
	var args plugin.Args
	if err := envconfig.Process("", &args); err != nil {
		return args, err
	}
	if c.IsSet("input-file") {
		args.InputFile = c.String("input-file")
	}
	if c.IsSet("output-file") {
		args.OutputFile = c.String("output-file")
	}
	if c.IsSet("xslt-file") {
		args.XSLTFile = c.String("xslt-file")
	}
	if c.IsSet("log-level") {
		args.Level = c.String("log-level")
	}
	if c.IsSet("fail-if-no-results") {
		args.PluginFailIfNoResults = c.Bool("fail-if-no-results")
	}
	if c.IsSet("failed-tests-fail-build") {
		args.PluginFailedTestsFailBuild = c.Bool("failed-tests-fail-build")
	}
	return args, nil
}

func run(args plugin.Args, c *cli.Context) error {
	if args.Level != "" {
		level, err := logrus.ParseLevel(args.Level)
		if err != nil {
			return cli.Exit(err.Error(), usageExitCode)
		}
		logrus.SetLevel(level)
	}
	return plugin.Exec(c.Context, args)
}
