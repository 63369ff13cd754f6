// Copyright 2020 the Drone Authors. All rights reserved.
// Use of this source code is governed by the Blue Oak Model License
// that can be found in the LICENSE file.

package plugin

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// allTestsLabel marks the grand-total record among the total statistics.
const allTestsLabel = "All Tests"

// Convert flattens a parsed Robot Framework report into a RunSummary.
func Convert(doc Node) (*RunSummary, error) {
	robot, ok := doc.Get("robot")
	if !ok || !robot.IsRecord() {
		return nil, &StructuralError{Path: "/", Reason: "missing robot root element"}
	}
	root, ok := robot.Get("suite")
	if !ok {
		return nil, &StructuralError{Path: "robot", Reason: "missing root suite"}
	}

	suites, err := CollectSuites(root)
	if err != nil {
		return nil, err
	}
	logrus.Debugf("Found %d leaf suite(s)", len(suites))

	records := []TestRecord{}
	for _, suite := range suites {
		tests, err := NormalizeSuite(suite)
		if err != nil {
			return nil, err
		}
		records = append(records, tests...)
	}

	stat, found, err := findTotalStat(robot)
	if err != nil {
		return nil, err
	}
	pass, fail, skip, err := totalCounts(stat, found)
	if err != nil {
		return nil, err
	}

	elapsed, err := runElapsed(root)
	if err != nil {
		return nil, err
	}

	return &RunSummary{
		Total:         pass + fail + skip,
		Pass:          pass,
		Fail:          fail,
		Skip:          skip,
		ElapsedTime:   elapsed,
		TestCaseStats: records,
	}, nil
}

// findTotalStat returns the grand-total statistics record. A missing node
// or a list without the "All Tests" record yields ok == false.
func findTotalStat(robot Node) (Node, bool, error) {
	logrus.Debug("Finding total stats")

	stat, ok := robot.Path("statistics", "total", "stat")
	if !ok {
		return Node{}, false, nil
	}
	if !stat.IsSequence() {
		return stat, true, nil
	}

	for i, item := range stat.Items() {
		if !item.IsRecord() {
			return Node{}, false, &StructuralError{
				Path:   fmt.Sprintf("statistics/total/stat[%d]", i),
				Reason: "statistics entry is not a record",
			}
		}
		if item.Text() == allTestsLabel {
			return item, true, nil
		}
	}

	logrus.Warnf("No %q statistics found, reporting zero totals", allTestsLabel)
	return Node{}, false, nil
}

// totalCounts defaults each missing count to zero independently.
func totalCounts(stat Node, found bool) (int, int, int, error) {
	if !found {
		return 0, 0, 0, nil
	}
	pass, err := countAttr(stat, "pass")
	if err != nil {
		return 0, 0, 0, err
	}
	fail, err := countAttr(stat, "fail")
	if err != nil {
		return 0, 0, 0, err
	}
	skip, err := countAttr(stat, "skip")
	if err != nil {
		return 0, 0, 0, err
	}
	return pass, fail, skip, nil
}

func countAttr(stat Node, name string) (int, error) {
	value, ok := stat.Attr(name)
	if !ok {
		return 0, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, &ParseError{Field: "stat/@" + name, Value: value, Err: err}
	}
	return n, nil
}

// runElapsed reads the elapsed time of the whole run from the root suite's
// own status, not from any test.
func runElapsed(root Node) (string, error) {
	if !root.IsRecord() {
		return "", &StructuralError{Path: "robot/suite", Reason: "expected a single root suite"}
	}
	status, ok := root.Get("status")
	if !ok || !status.IsRecord() {
		return "", &MissingFieldError{Field: "status", Element: "root suite"}
	}
	timing, err := parseTiming(status, "root suite")
	if err != nil {
		return "", err
	}
	return timing.ElapsedTime(), nil
}
