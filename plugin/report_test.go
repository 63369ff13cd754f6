// Copyright 2020 the Drone Authors. All rights reserved.
// Use of this source code is governed by the Blue Oak Model License
// that can be found in the LICENSE file.

package plugin

import (
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

func TestRenderSummary(t *testing.T) {
	summary := convertFile(t, "../pluginTest/validTestXML/rf3-nested.xml")
	out := renderSummary(summary)

	for _, want := range []string{
		"Valid Login Succeeds",
		"Remember Me Persists",
		"Pay With Card",
		"00:00:48",
		"Pass: 2 | Fail: 1 | Skip: 0",
		"00:01:05",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("renderSummary() missing %q in:\n%s", want, out)
		}
	}
}

func TestLogSummary(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	summary := convertFile(t, "../pluginTest/validTestXML/rf7-legacy.xml")

	logSummary(summary, logrus.NewEntry(logger))

	entries := hook.AllEntries()
	if len(entries) != 2 {
		t.Fatalf("logSummary() logged %d entries, want 2", len(entries))
	}
	if got := entries[0].Data["Total"]; got != 2 {
		t.Errorf("logSummary() Total field = %v, want 2", got)
	}
	if !strings.Contains(entries[1].Message, "Health Endpoint Responds") {
		t.Errorf("logSummary() table missing test name:\n%s", entries[1].Message)
	}
}

func TestCheckResults(t *testing.T) {
	tests := []struct {
		name    string
		summary RunSummary
		args    Args
		errMsg  string
	}{
		{
			name:    "NoOptions",
			summary: RunSummary{Total: 3, Fail: 3},
		},
		{
			name:    "FailedTestsFailBuild",
			summary: RunSummary{Total: 3, Pass: 1, Fail: 2},
			args:    Args{PluginFailedTestsFailBuild: true},
			errMsg:  "2 test(s) failed",
		},
		{
			name:    "FailedTestsFailBuildAllPassed",
			summary: RunSummary{Total: 3, Pass: 3},
			args:    Args{PluginFailedTestsFailBuild: true},
		},
		{
			name:    "FailIfNoResults",
			summary: RunSummary{},
			args:    Args{PluginFailIfNoResults: true},
			errMsg:  "no test results found",
		},
		{
			name:    "NoResultsTolerated",
			summary: RunSummary{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := checkResults(&tc.summary, tc.args)
			if tc.errMsg != "" {
				if err == nil || !strings.Contains(err.Error(), tc.errMsg) {
					t.Errorf("checkResults() expected error %q, got %v", tc.errMsg, err)
				}
			} else if err != nil {
				t.Errorf("checkResults() unexpected error: %v", err)
			}
		})
	}
}
