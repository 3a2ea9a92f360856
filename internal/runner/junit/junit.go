// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

// Package junit renders test results as JUnit XML, the least common
// denominator format CI systems ingest for test reporting.
package junit

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/hashicorp/parade/internal/errors"
)

// CaseStatus is the terminal status of a test case.
type CaseStatus string

const (
	Passed  CaseStatus = "passed"
	Failed  CaseStatus = "failed"
	Skipped CaseStatus = "skipped"
)

// Case is a single test within a suite.
type Case struct {
	Name string

	// ClassName groups cases in most CI UIs; conventionally the suite name.
	ClassName string

	Status CaseStatus
	Time   time.Duration

	// Message summarizes a failure or skip reason.
	Message string

	// Output is the captured output of the case.
	Output string
}

// Suite is a group of cases that ran together.
type Suite struct {
	Name  string
	Time  time.Duration
	Cases []Case

	// Err is a suite-level error message for suites that could not run.
	Err string
}

type xmlTestsuites struct {
	XMLName  xml.Name       `xml:"testsuites"`
	Tests    int            `xml:"tests,attr"`
	Failures int            `xml:"failures,attr"`
	Errors   int            `xml:"errors,attr"`
	Skipped  int            `xml:"skipped,attr"`
	Time     string         `xml:"time,attr"`
	Suites   []xmlTestsuite `xml:"testsuite"`
}

type xmlTestsuite struct {
	Name     string        `xml:"name,attr"`
	Tests    int           `xml:"tests,attr"`
	Failures int           `xml:"failures,attr"`
	Errors   int           `xml:"errors,attr"`
	Skipped  int           `xml:"skipped,attr"`
	Time     string        `xml:"time,attr"`
	Error    *xmlMessage   `xml:"error,omitempty"`
	Cases    []xmlTestcase `xml:"testcase"`
}

type xmlTestcase struct {
	Name      string      `xml:"name,attr"`
	ClassName string      `xml:"classname,attr"`
	Time      string      `xml:"time,attr"`
	Failure   *xmlMessage `xml:"failure,omitempty"`
	Skipped   *xmlMessage `xml:"skipped,omitempty"`
	SystemOut string      `xml:"system-out,omitempty"`
}

type xmlMessage struct {
	Message string `xml:"message,attr,omitempty"`
	Body    string `xml:",cdata"`
}

func seconds(d time.Duration) string {
	return fmt.Sprintf("%.3f", d.Seconds())
}

// Write renders the suites as a JUnit XML document.
func Write(ctx context.Context, w io.Writer, suites []Suite) error {
	const op = "junit.Write"
	doc := xmlTestsuites{}

	for _, s := range suites {
		xs := xmlTestsuite{
			Name: s.Name,
			Time: seconds(s.Time),
		}
		if s.Err != "" {
			xs.Errors = 1
			xs.Error = &xmlMessage{Message: "suite did not run", Body: s.Err}
		}
		for _, c := range s.Cases {
			xc := xmlTestcase{
				Name:      c.Name,
				ClassName: c.ClassName,
				Time:      seconds(c.Time),
				SystemOut: c.Output,
			}
			switch c.Status {
			case Failed:
				xs.Failures++
				xc.Failure = &xmlMessage{Message: c.Message, Body: c.Output}
			case Skipped:
				xs.Skipped++
				xc.Skipped = &xmlMessage{Message: c.Message}
			}
			xs.Tests++
			xs.Cases = append(xs.Cases, xc)
		}
		doc.Tests += xs.Tests
		doc.Failures += xs.Failures
		doc.Errors += xs.Errors
		doc.Skipped += xs.Skipped
		doc.Suites = append(doc.Suites, xs)
	}
	var total time.Duration
	for _, s := range suites {
		total += s.Time
	}
	doc.Time = seconds(total)

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return errors.New(ctx, errors.Io, op, "unable to write report", errors.WithWrap(err))
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "\t")
	if err := enc.Encode(doc); err != nil {
		return errors.New(ctx, errors.Encode, op, "unable to encode report", errors.WithWrap(err))
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return errors.New(ctx, errors.Io, op, "unable to write report", errors.WithWrap(err))
	}
	return nil
}

// WriteFile renders the suites to path, creating or truncating it.
func WriteFile(ctx context.Context, path string, suites []Suite) error {
	const op = "junit.WriteFile"
	if path == "" {
		return errors.New(ctx, errors.InvalidParameter, op, "missing path")
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.New(ctx, errors.Io, op, "unable to create report file", errors.WithWrap(err))
	}
	if err := Write(ctx, f, suites); err != nil {
		_ = f.Close()
		return errors.Wrap(ctx, err, op)
	}
	if err := f.Close(); err != nil {
		return errors.New(ctx, errors.Io, op, "unable to close report file", errors.WithWrap(err))
	}
	return nil
}
