// Copyright 2020 the Drone Authors. All rights reserved.
// Use of this source code is governed by the Blue Oak Model License
// that can be found in the LICENSE file.

package plugin

import (
	"fmt"
	"time"
)

const (
	// timestampLayout matches "20240101 10:00:05.500000". Fractional
	// seconds of any precision are accepted on parse.
	timestampLayout = "20060102 15:04:05"

	// notAvailable is written by Robot Framework when a suite never ran.
	notAvailable = "N/A"

	secondsPerDay = 24 * 60 * 60
)

// NormalizeSuite returns one TestRecord per test entry of the suite, in
// source order.
func NormalizeSuite(suite LeafSuite) ([]TestRecord, error) {
	tests, ok := suite.Get("test")
	if !ok {
		return nil, &StructuralError{Path: "suite", Reason: "leaf suite has no tests"}
	}

	items := tests.Items()
	records := make([]TestRecord, 0, len(items))
	for _, test := range items {
		record, err := normalizeTest(test)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func normalizeTest(test Node) (TestRecord, error) {
	name, ok := test.Attr("name")
	if !ok {
		return TestRecord{}, &MissingFieldError{Field: "@name", Element: "test"}
	}
	element := fmt.Sprintf("test %q", name)

	status, ok := test.Get("status")
	if !ok || !status.IsRecord() {
		return TestRecord{}, &MissingFieldError{Field: "status", Element: element}
	}
	result, ok := status.Attr("status")
	if !ok {
		return TestRecord{}, &MissingFieldError{Field: "status/@status", Element: element}
	}

	timing, err := parseTiming(status, element)
	if err != nil {
		return TestRecord{}, err
	}

	return TestRecord{
		Name:    name,
		Tag:     firstTag(test),
		Status:  result,
		Timing:  timing,
		Message: status.Text(),
	}, nil
}

// firstTag prefers the <tags> container over flat <tag> children. Only the
// first tag is kept.
func firstTag(test Node) string {
	if tag, ok := test.Path("tags", "tag"); ok {
		return firstText(tag)
	}
	if tag, ok := test.Get("tag"); ok {
		return firstText(tag)
	}
	return ""
}

func firstText(n Node) string {
	items := n.Items()
	if len(items) == 0 {
		return ""
	}
	return items[0].Text()
}

// parseTiming picks the timing encoding of a status node. An endtime
// attribute selects the start/end encoding, otherwise the status must carry
// a start and a precomputed elapsed value.
func parseTiming(status Node, element string) (Timing, error) {
	if end, ok := status.Attr("endtime"); ok {
		start, ok := status.Attr("starttime")
		if !ok {
			return nil, &MissingFieldError{Field: "status/@starttime", Element: element}
		}
		return NewComputedSpan(start, end)
	}

	start, ok := status.Attr("start")
	if !ok {
		start, ok = status.Attr("starttime")
	}
	if !ok {
		return nil, &MissingFieldError{Field: "status/@start", Element: element}
	}
	elapsed, ok := status.Attr("elapsed")
	if !ok {
		return nil, &MissingFieldError{Field: "status/@elapsed", Element: element}
	}
	return PrecomputedDuration{Start: start, Duration: elapsed}, nil
}

// NewComputedSpan derives the elapsed time between two report timestamps.
// Either timestamp being "N/A" makes the elapsed time "N/A".
func NewComputedSpan(start, end string) (ComputedSpan, error) {
	span := ComputedSpan{Start: start, End: end, Elapsed: notAvailable}
	if start == notAvailable || end == notAvailable {
		return span, nil
	}

	elapsed, err := elapsedBetween(start, end)
	if err != nil {
		return ComputedSpan{}, err
	}
	span.Elapsed = elapsed
	return span, nil
}

func elapsedBetween(start, end string) (string, error) {
	from, err := parseTimestamp("starttime", start)
	if err != nil {
		return "", err
	}
	to, err := parseTimestamp("endtime", end)
	if err != nil {
		return "", err
	}
	// Both ends are truncated to whole seconds before subtracting.
	return formatClock(to.Unix() - from.Unix()), nil
}

func parseTimestamp(field, value string) (time.Time, error) {
	t, err := time.ParseInLocation(timestampLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, &ParseError{Field: field, Value: value, Err: err}
	}
	return t, nil
}

// formatClock renders seconds as HH:MM:SS on a 24 hour clock.
func formatClock(seconds int64) string {
	seconds %= secondsPerDay
	if seconds < 0 {
		seconds += secondsPerDay
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, seconds%3600/60, seconds%60)
}
