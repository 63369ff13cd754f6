// Copyright 2020 the Drone Authors. All rights reserved.
// Use of this source code is governed by the Blue Oak Model License
// that can be found in the LICENSE file.

package plugin

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// renderSummary formats the run as an ASCII table.
func renderSummary(summary *RunSummary) string {
	t := table.NewWriter()
	t.SetTitle("Robot Framework Results")
	t.AppendHeader(table.Row{"Test", "Tag", "Status", "Elapsed"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Test", WidthMax: 80, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Elapsed", Align: text.AlignRight},
	})

	for _, record := range summary.TestCaseStats {
		elapsed := ""
		if record.Timing != nil {
			elapsed = record.Timing.ElapsedTime()
		}
		t.AppendRow(table.Row{record.Name, record.Tag, record.Status, elapsed})
	}

	t.AppendFooter(table.Row{
		fmt.Sprintf("Total: %d", summary.Total),
		"",
		fmt.Sprintf("Pass: %d | Fail: %d | Skip: %d", summary.Pass, summary.Fail, summary.Skip),
		summary.ElapsedTime,
	})

	return t.Render()
}

func logSummary(summary *RunSummary, logger *logrus.Entry) {
	logger.WithFields(logrus.Fields{
		"Total":   summary.Total,
		"Pass":    summary.Pass,
		"Fail":    summary.Fail,
		"Skip":    summary.Skip,
		"Elapsed": summary.ElapsedTime,
	}).Info("Test run summary")
	logger.Infof("\n%s", renderSummary(summary))
}

// checkResults applies the build failure options to a converted run.
func checkResults(summary *RunSummary, args Args) error {
	if summary.Total == 0 && args.PluginFailIfNoResults {
		return errors.New("no test results found, failing the build as PLUGIN_FAIL_IF_NO_RESULTS is set to true")
	}
	if summary.Fail > 0 && args.PluginFailedTestsFailBuild {
		return errors.Errorf("%d test(s) failed, failing the build as PLUGIN_FAILED_TESTS_FAIL_BUILD is set to true", summary.Fail)
	}
	return nil
}
