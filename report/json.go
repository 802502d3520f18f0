/*
 * Cadence - The resource-oriented smart contract programming language
 *
 * Copyright Flow Foundation
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *   http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */


package report

import (
	"encoding/json"
	"io"

	"github.com/tidwall/pretty"
)

// JSONOptions configure the JSON encoding of reports.
type JSONOptions struct {
	// Indent formats the output over multiple lines.
	Indent bool
	// Color highlights the output for terminals.
	Color bool
}

// MarshalJSON encodes the report.
func MarshalJSON(report *Report, options JSONOptions) ([]byte, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return nil, err
	}

	if options.Indent {
		data = pretty.Pretty(data)
	} else {
		data = pretty.Ugly(data)
	}

	if options.Color {
		data = pretty.Color(data, pretty.TerminalStyle)
	}

	return data, nil
}

// WriteJSON encodes the report to the writer.
func WriteJSON(w io.Writer, report *Report, options JSONOptions) error {
	data, err := MarshalJSON(report, options)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// ReadJSON decodes a report.
func ReadJSON(r io.Reader) (*Report, error) {
	var report Report
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	err := decoder.Decode(&report)
	if err != nil {
		return nil, &InvalidReportError{
			Err: err,
		}
	}
	return &report, nil
}
