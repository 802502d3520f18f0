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

	"github.com/itchyny/gojq"
)

// Query evaluates the jq query against the JSON form of the report
// and returns all emitted values.
func Query(report *Report, query string) ([]any, error) {
	parsed, err := gojq.Parse(query)
	if err != nil {
		return nil, &InvalidQueryError{
			Query: query,
			Err:   err,
		}
	}

	code, err := gojq.Compile(parsed)
	if err != nil {
		return nil, &InvalidQueryError{
			Query: query,
			Err:   err,
		}
	}

	input, err := genericJSON(report)
	if err != nil {
		return nil, err
	}

	var results []any
	iter := code.Run(input)
	for {
		value, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := value.(error); ok {
			if err, ok := err.(*gojq.HaltError); ok && err.Value() == nil {
				break
			}
			return nil, &InvalidQueryError{
				Query: query,
				Err:   err,
			}
		}
		results = append(results, value)
	}

	return results, nil
}

// genericJSON converts the report to the untyped form gojq operates on.
func genericJSON(report *Report) (any, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return nil, err
	}
	var result any
	err = json.Unmarshal(data, &result)
	if err != nil {
		return nil, err
	}
	return result, nil
}
