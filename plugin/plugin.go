// Copyright 2020 the Drone Authors. All rights reserved.
// Use of this source code is governed by the Blue Oak Model License
// that can be found in the LICENSE file.

package plugin

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/wamuir/go-xslt"
)

// Args provides plugin execution arguments.
type Args struct {
	// Level defines the plugin log level.
	Level                      string `envconfig:"PLUGIN_LOG_LEVEL"`
	InputFile                  string `envconfig:"PLUGIN_INPUT_FILE"`
	OutputFile                 string `envconfig:"PLUGIN_OUTPUT_FILE"`
	XSLTFile                   string `envconfig:"PLUGIN_XSLT_FILE"`
	PluginFailIfNoResults      bool   `envconfig:"PLUGIN_FAIL_IF_NO_RESULTS"`
	PluginFailedTestsFailBuild bool   `envconfig:"PLUGIN_FAILED_TESTS_FAIL_BUILD"`
}

// ValidateInputs ensures the required arguments are present.
func ValidateInputs(args Args) error {
	if args.InputFile == "" {
		return errors.New("missing required parameter: input file. Please specify the Robot Framework output.xml to convert")
	}
	if args.OutputFile == "" {
		return errors.New("missing required parameter: output file. Please specify where to write the JSON summary")
	}
	return nil
}

// Exec executes the plugin.
func Exec(ctx context.Context, args Args) error {

	logger := logrus.
		WithField("PLUGIN_INPUT_FILE", args.InputFile).
		WithField("PLUGIN_OUTPUT_FILE", args.OutputFile).
		WithField("PLUGIN_FAIL_IF_NO_RESULTS", args.PluginFailIfNoResults).
		WithField("PLUGIN_FAILED_TESTS_FAIL_BUILD", args.PluginFailedTestsFailBuild)

	logger.Info("Starting plugin execution")

	reportPath, err := findReportFile(args.InputFile)
	if err != nil {
		logger.WithError(err).Error("Failed to find report file")
		return err
	}

	input, err := os.ReadFile(reportPath)
	if err != nil {
		logger.WithError(err).Errorf("Failed to read report file %s", reportPath)
		return errors.Wrap(err, "failed to read report file")
	}

	if args.XSLTFile != "" {
		input, err = applyXSLTTransformation(input, args.XSLTFile, logger)
		if err != nil {
			logger.WithError(err).Error("XSLT transformation of the report failed")
			return err
		}
	}

	summary, err := ConvertReport(input)
	if err != nil {
		logger.WithError(err).Errorf("Failed to convert report file %s", reportPath)
		return errors.Wrap(err, "failed to convert report")
	}

	if err := writeSummary(args.OutputFile, summary); err != nil {
		logger.WithError(err).Error("Failed to write JSON summary")
		return err
	}
	logger.Infof("Saved JSON summary to %s", args.OutputFile)

	logSummary(summary, logger)

	if err := checkResults(summary, args); err != nil {
		logger.Error(err)
		return err
	}

	logger.Info("Plugin execution completed successfully")
	return nil
}

// ConvertReport parses a Robot Framework output.xml document and flattens
// it into a RunSummary.
func ConvertReport(data []byte) (*RunSummary, error) {
	doc, err := parseReport(data)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse report XML")
	}
	return Convert(doc)
}

// findReportFile resolves the report path, which may be a glob pattern
// matching exactly one file.
func findReportFile(reportPath string) (string, error) {

	if len(reportPath) == 0 {
		return "", errors.New("Report path should not be empty")
	}

	files, err := filepath.Glob(reportPath)
	if err != nil {
		return "", errors.Wrapf(err, "invalid report path %q", reportPath)
	}

	switch len(files) {
	case 0:
		return "", errors.Wrapf(os.ErrNotExist, "no report found matching %q", reportPath)
	case 1:
		return files[0], nil
	default:
		return "", errors.Errorf("report path %q matches %d files, expected exactly one", reportPath, len(files))
	}
}

// applyXSLTTransformation runs the report through an XSLT stylesheet before
// it is parsed.
func applyXSLTTransformation(input []byte, xslFilePath string, logger *logrus.Entry) ([]byte, error) {
	// Load the XSLT content
	xsltContent, err := os.ReadFile(xslFilePath)
	if err != nil {
		logger.Errorf("Failed to read XSLT file %s: %v", xslFilePath, err)
		return nil, errors.Wrap(err, "failed to read XSLT file")
	}

	// Create a new stylesheet
	xs, err := xslt.NewStylesheet(xsltContent)
	if err != nil {
		logger.Errorf("Failed to create stylesheet: %v", err)
		return nil, errors.Wrap(err, "failed to create stylesheet")
	}
	defer xs.Close()

	// Apply the XSLT transformation
	transformed, err := xs.Transform(input)
	if err != nil {
		logger.Errorf("Failed to apply XSLT transformation: %v", err)
		return nil, errors.Wrap(err, "failed to apply XSLT transformation")
	}

	logger.Debugf("Applied XSLT stylesheet %s to report", xslFilePath)

	return transformed, nil
}

// encodeSummary renders the summary as JSON indented by four spaces.
func encodeSummary(summary *RunSummary) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(summary); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeSummary writes the summary only once it has been fully encoded.
func writeSummary(path string, summary *RunSummary) error {
	data, err := encodeSummary(summary)
	if err != nil {
		return errors.Wrap(err, "failed to encode JSON summary")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, "failed to write JSON summary")
	}
	return nil
}
