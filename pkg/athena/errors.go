// Copyright 2026 Glean Analytics
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package athena

import "fmt"

// ConfigError reports a missing or invalid required execution parameter.
// It is fatal to the turn: it bypasses the planner and surfaces directly.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("config error: %s is required", e.Field)
	}
	return fmt.Sprintf("config error: %s: %s", e.Field, e.Reason)
}

// SubmissionError reports that the backend rejected the query before an
// execution was created (malformed request, missing permissions, invalid
// database), or that the request was invalid locally (empty SQL).
type SubmissionError struct {
	Reason string
	Cause  error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("query submission failed: %s", e.Reason)
}

func (e *SubmissionError) Unwrap() error {
	return e.Cause
}

// ErrorKind classifies terminal non-success execution outcomes.
type ErrorKind string

const (
	ErrorKindFailed    ErrorKind = "failed"
	ErrorKindCancelled ErrorKind = "cancelled"
	ErrorKindTimeout   ErrorKind = "timeout"
)

// ExecutionError reports a terminal non-success state of a submitted query.
// The engine never retries; retry, if any, is a planner decision.
type ExecutionError struct {
	Kind             ErrorKind
	QueryExecutionID string
	Reason           string
	Cause            error
}

func (e *ExecutionError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("query %s %s", e.QueryExecutionID, e.Kind)
	}
	return fmt.Sprintf("query %s %s: %s", e.QueryExecutionID, e.Kind, e.Reason)
}

func (e *ExecutionError) Unwrap() error {
	return e.Cause
}
