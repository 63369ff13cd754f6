// Copyright 2020 the Drone Authors. All rights reserved.
// Use of this source code is governed by the Blue Oak Model License
// that can be found in the LICENSE file.

package plugin

import (
	"bytes"
	"encoding/json"
)

// Timing is the normalized timing of a test or suite. It is either a
// ComputedSpan or a PrecomputedDuration depending on the encoding the
// report used.
type Timing interface {
	StartTime() string
	EndTime() (string, bool)
	ElapsedTime() string
}

// ComputedSpan holds explicit start and end timestamps and the elapsed
// time derived from them.
type ComputedSpan struct {
	Start   string
	End     string
	Elapsed string
}

func (s ComputedSpan) StartTime() string       { return s.Start }
func (s ComputedSpan) EndTime() (string, bool) { return s.End, true }
func (s ComputedSpan) ElapsedTime() string     { return s.Elapsed }

// PrecomputedDuration holds a start timestamp and the duration recorded
// by the report itself.
type PrecomputedDuration struct {
	Start    string
	Duration string
}

func (d PrecomputedDuration) StartTime() string       { return d.Start }
func (d PrecomputedDuration) EndTime() (string, bool) { return "", false }
func (d PrecomputedDuration) ElapsedTime() string     { return d.Duration }

// TestRecord is the canonical summary of one test.
type TestRecord struct {
	Name    string
	Tag     string
	Status  string
	Timing  Timing
	Message string
}

type testRecordJSON struct {
	Name        string  `json:"name"`
	Tag         string  `json:"tag"`
	Status      string  `json:"status"`
	StartTime   string  `json:"start_time"`
	EndTime     *string `json:"end_time,omitempty"`
	ElapsedTime string  `json:"elapsed_time"`
	Message     string  `json:"message"`
}

// MarshalJSON emits end_time only for records that carried an explicit
// end timestamp.
func (r TestRecord) MarshalJSON() ([]byte, error) {
	out := testRecordJSON{
		Name:    r.Name,
		Tag:     r.Tag,
		Status:  r.Status,
		Message: r.Message,
	}
	if r.Timing != nil {
		out.StartTime = r.Timing.StartTime()
		out.ElapsedTime = r.Timing.ElapsedTime()
		if end, ok := r.Timing.EndTime(); ok {
			out.EndTime = &end
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// RunSummary is the flattened result of a whole run.
type RunSummary struct {
	Total         int          `json:"total"`
	Pass          int          `json:"pass"`
	Fail          int          `json:"fail"`
	Skip          int          `json:"skip"`
	ElapsedTime   string       `json:"elapsed_time"`
	TestCaseStats []TestRecord `json:"test_case_stats"`
}
