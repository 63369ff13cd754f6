// Copyright 2020 the Drone Authors. All rights reserved.
// Use of this source code is governed by the Blue Oak Model License
// that can be found in the LICENSE file.

package main

import (
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/urfave/cli/v2"

	"github.com/drone/drone-robot/plugin"
)

// runApp runs the CLI with a recording action and exit handler.
func runApp(t *testing.T, argv ...string) (plugin.Args, bool, int) {
	t.Helper()

	exitCode := -1
	oldExiter, oldErrWriter := cli.OsExiter, cli.ErrWriter
	cli.OsExiter = func(code int) { exitCode = code }
	cli.ErrWriter = io.Discard
	t.Cleanup(func() {
		cli.OsExiter, cli.ErrWriter = oldExiter, oldErrWriter
	})

	var got plugin.Args
	called := false
	app := newApp(func(args plugin.Args, _ *cli.Context) error {
		got, called = args, true
		return nil
	})
	app.Writer = io.Discard
	app.ErrWriter = io.Discard

	_ = app.Run(append([]string{"drone-robot"}, argv...))
	return got, called, exitCode
}

func TestFlagsWinOverEnvironment(t *testing.T) {
	t.Setenv("PLUGIN_INPUT_FILE", "env/output.xml")
	t.Setenv("PLUGIN_OUTPUT_FILE", "env/output.json")
	t.Setenv("PLUGIN_FAILED_TESTS_FAIL_BUILD", "true")

	got, called, _ := runApp(t, "-i", "robot-result/output.xml", "--log-level", "debug")
	if !called {
		t.Fatal("action was not called")
	}

	want := plugin.Args{
		Level:                      "debug",
		InputFile:                  "robot-result/output.xml",
		OutputFile:                 "env/output.json",
		PluginFailedTestsFailBuild: true,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("loadArgs() mismatch (-want +got):\n%s", diff)
	}
}

func TestLongFlags(t *testing.T) {
	got, called, _ := runApp(t, "--input-file", "in.xml", "--output-file", "out.json", "--xslt-file", "strip.xsl", "--fail-if-no-results")
	if !called {
		t.Fatal("action was not called")
	}

	want := plugin.Args{
		InputFile:             "in.xml",
		OutputFile:            "out.json",
		XSLTFile:              "strip.xsl",
		PluginFailIfNoResults: true,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("loadArgs() mismatch (-want +got):\n%s", diff)
	}
}

func TestUsageErrorsExitWithTwo(t *testing.T) {
	tests := []struct {
		name string
		argv []string
	}{
		{name: "MissingOutput", argv: []string{"-i", "in.xml"}},
		{name: "MissingInput", argv: []string{"-o", "out.json"}},
		{name: "UnknownFlag", argv: []string{"-i", "in.xml", "-o", "out.json", "--verbose"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("PLUGIN_INPUT_FILE", "")
			t.Setenv("PLUGIN_OUTPUT_FILE", "")

			_, called, code := runApp(t, tc.argv...)
			if called {
				t.Error("action should not run on usage errors")
			}
			if code != usageExitCode {
				t.Errorf("exit code = %d, want %d", code, usageExitCode)
			}
		})
	}
}
