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

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/athena"
	athenatypes "github.com/aws/aws-sdk-go-v2/service/athena/types"
	"github.com/glean-analytics/glean/internal/log"
	"github.com/glean-analytics/glean/pkg/types"
	"go.uber.org/zap"
)

const (
	// DefaultTimeout bounds the whole submit-poll-fetch cycle.
	DefaultTimeout = 2 * time.Minute

	// DefaultMaxRows caps fetched rows when the request does not set one.
	DefaultMaxRows = 1000

	// pollInitial is the first poll delay; subsequent delays grow by
	// pollFactor up to pollMax.
	pollInitial = 500 * time.Millisecond
	pollFactor  = 1.5
	pollMax     = 5 * time.Second

	// cancelGrace bounds the best-effort StopQueryExecution issued on
	// timeout or caller cancellation. The engine must not block waiting
	// for the cancellation to confirm.
	cancelGrace = 5 * time.Second

	// DefaultCatalog is Athena's default data catalog.
	DefaultCatalog = "AwsDataCatalog"
)

// API is the slice of the Athena service client the engine depends on.
// *athena.Client satisfies it.
type API interface {
	StartQueryExecution(ctx context.Context, params *athena.StartQueryExecutionInput, optFns ...func(*athena.Options)) (*athena.StartQueryExecutionOutput, error)
	GetQueryExecution(ctx context.Context, params *athena.GetQueryExecutionInput, optFns ...func(*athena.Options)) (*athena.GetQueryExecutionOutput, error)
	GetQueryResults(ctx context.Context, params *athena.GetQueryResultsInput, optFns ...func(*athena.Options)) (*athena.GetQueryResultsOutput, error)
	StopQueryExecution(ctx context.Context, params *athena.StopQueryExecutionInput, optFns ...func(*athena.Options)) (*athena.StopQueryExecutionOutput, error)
}

// Engine runs queries against Athena. It holds no per-query state; one
// Engine serves concurrent turns.
type Engine struct {
	client  API
	timeout time.Duration
	maxRows int
}

// Option configures an Engine.
type Option func(*Engine)

// WithTimeout overrides the overall execution timeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithMaxRows overrides the default row cap.
func WithMaxRows(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxRows = n
		}
	}
}

// NewEngine creates a query execution engine over the given client.
func NewEngine(client API, opts ...Option) *Engine {
	e := &Engine{
		client:  client,
		timeout: DefaultTimeout,
		maxRows: DefaultMaxRows,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute submits the request, polls to a terminal state, and returns the
// fully drained result set. Terminal non-success states, timeout, and
// caller cancellation all return *ExecutionError; rejected submissions
// return *SubmissionError; missing required parameters return *ConfigError.
// Partial results are never returned.
func (e *Engine) Execute(ctx context.Context, req Request) (*ResultSet, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	queryID, err := e.submit(ctx, req)
	if err != nil {
		return nil, err
	}

	logger := log.With(zap.String("query_execution_id", queryID))
	if turnID := types.TurnIDFromContext(ctx); turnID != "" {
		logger = logger.With(zap.String("turn_id", turnID))
	}
	logger.Debug("query submitted", zap.String("database", req.Database))

	exec, err := e.poll(ctx, queryID)
	if err != nil {
		return nil, err
	}

	state := exec.Status.State
	switch state {
	case athenatypes.QueryExecutionStateSucceeded:
		// fall through to fetch
	case athenatypes.QueryExecutionStateFailed:
		return nil, &ExecutionError{
			Kind:             ErrorKindFailed,
			QueryExecutionID: queryID,
			Reason:           stateChangeReason(exec),
		}
	case athenatypes.QueryExecutionStateCancelled:
		return nil, &ExecutionError{
			Kind:             ErrorKindCancelled,
			QueryExecutionID: queryID,
			Reason:           "cancelled",
		}
	default:
		return nil, &ExecutionError{
			Kind:             ErrorKindFailed,
			QueryExecutionID: queryID,
			Reason:           "unexpected terminal state " + string(state),
		}
	}

	maxRows := req.MaxRows
	if maxRows <= 0 {
		maxRows = e.maxRows
	}

	rs, err := e.fetch(ctx, queryID, maxRows)
	if err != nil {
		return nil, err
	}
	rs.ScannedBytes = scannedBytes(exec)

	types.EmitProgress(ctx, types.ProgressEvent{
		Stage:            types.StageResultFetch,
		Message:          fmt.Sprintf("Fetched %d rows", len(rs.Rows)),
		QueryExecutionID: queryID,
	})

	logger.Info("query succeeded",
		zap.Int("rows", len(rs.Rows)),
		zap.Int64("scanned_bytes", rs.ScannedBytes))
	return rs, nil
}

func validate(req Request) error {
	if strings.TrimSpace(req.SQL) == "" {
		return &SubmissionError{Reason: "sql is required"}
	}
	if req.Database == "" {
		return &ConfigError{Field: "database"}
	}
	if req.OutputLocation == "" && req.Workgroup == "" {
		return &ConfigError{
			Field:  "output_location",
			Reason: "an S3 output location or a workgroup with one configured is required",
		}
	}
	return nil
}

func (e *Engine) submit(ctx context.Context, req Request) (string, error) {
	catalog := req.Catalog
	if catalog == "" {
		catalog = DefaultCatalog
	}

	input := &athena.StartQueryExecutionInput{
		QueryString: aws.String(req.SQL),
		QueryExecutionContext: &athenatypes.QueryExecutionContext{
			Database: aws.String(req.Database),
			Catalog:  aws.String(catalog),
		},
	}
	if req.Workgroup != "" {
		input.WorkGroup = aws.String(req.Workgroup)
	}
	if req.OutputLocation != "" {
		input.ResultConfiguration = &athenatypes.ResultConfiguration{
			OutputLocation: aws.String(req.OutputLocation),
		}
	}

	types.EmitProgress(ctx, types.ProgressEvent{
		Stage:   types.StageQuerySubmit,
		Message: "Submitting query to Athena",
	})

	out, err := e.client.StartQueryExecution(ctx, input)
	if err != nil {
		return "", &SubmissionError{Reason: err.Error(), Cause: err}
	}
	return aws.ToString(out.QueryExecutionId), nil
}

// poll repeatedly queries execution state until terminal, backing off
// between polls. On timeout or caller cancellation it issues one
// best-effort StopQueryExecution on a detached deadline and returns the
// corresponding ExecutionError.
func (e *Engine) poll(ctx context.Context, queryID string) (*athenatypes.QueryExecution, error) {
	deadline := time.Now().Add(e.timeout)
	delay := pollInitial

	for {
		out, err := e.client.GetQueryExecution(ctx, &athena.GetQueryExecutionInput{
			QueryExecutionId: aws.String(queryID),
		})
		if err != nil {
			if ctx.Err() != nil {
				e.cancel(queryID)
				return nil, &ExecutionError{
					Kind:             ErrorKindCancelled,
					QueryExecutionID: queryID,
					Reason:           "cancelled",
					Cause:            ctx.Err(),
				}
			}
			return nil, &ExecutionError{
				Kind:             ErrorKindFailed,
				QueryExecutionID: queryID,
				Reason:           "state lookup failed: " + err.Error(),
				Cause:            err,
			}
		}

		exec := out.QueryExecution
		if exec == nil || exec.Status == nil {
			return nil, &ExecutionError{
				Kind:             ErrorKindFailed,
				QueryExecutionID: queryID,
				Reason:           "backend returned no execution status",
			}
		}
		state := exec.Status.State
		if isTerminal(state) {
			return exec, nil
		}

		types.EmitProgress(ctx, types.ProgressEvent{
			Stage:            types.StageQueryPoll,
			Message:          "Query " + strings.ToLower(string(state)),
			QueryExecutionID: queryID,
		})

		if time.Now().After(deadline) {
			e.cancel(queryID)
			return nil, &ExecutionError{
				Kind:             ErrorKindTimeout,
				QueryExecutionID: queryID,
				Reason:           "timeout",
			}
		}

		select {
		case <-ctx.Done():
			e.cancel(queryID)
			return nil, &ExecutionError{
				Kind:             ErrorKindCancelled,
				QueryExecutionID: queryID,
				Reason:           "cancelled",
				Cause:            ctx.Err(),
			}
		case <-time.After(delay):
		}

		delay = time.Duration(float64(delay) * pollFactor)
		if delay > pollMax {
			delay = pollMax
		}
	}
}

// cancel issues a best-effort StopQueryExecution. It runs on a fresh
// context so it still works when the caller's context is already done.
func (e *Engine) cancel(queryID string) {
	ctx, cancel := context.WithTimeout(context.Background(), cancelGrace)
	defer cancel()

	if _, err := e.client.StopQueryExecution(ctx, &athena.StopQueryExecutionInput{
		QueryExecutionId: aws.String(queryID),
	}); err != nil {
		log.Warn("stop query execution failed",
			zap.String("query_execution_id", queryID),
			zap.Error(err))
	}
}

// fetch drains all result pages in backend order. Athena prepends a header
// row on the first page; it is skipped. Pages after the first never carry
// the header.
func (e *Engine) fetch(ctx context.Context, queryID string, maxRows int) (*ResultSet, error) {
	types.EmitProgress(ctx, types.ProgressEvent{
		Stage:            types.StageResultFetch,
		Message:          "Fetching results",
		QueryExecutionID: queryID,
	})

	rs := &ResultSet{QueryExecutionID: queryID, Rows: [][]string{}}

	var nextToken *string
	firstPage := true
	for {
		out, err := e.client.GetQueryResults(ctx, &athena.GetQueryResultsInput{
			QueryExecutionId: aws.String(queryID),
			NextToken:        nextToken,
		})
		if err != nil {
			return nil, &ExecutionError{
				Kind:             ErrorKindFailed,
				QueryExecutionID: queryID,
				Reason:           "result fetch failed: " + err.Error(),
				Cause:            err,
			}
		}

		if out.ResultSet == nil {
			break
		}

		if firstPage && out.ResultSet.ResultSetMetadata != nil {
			for _, ci := range out.ResultSet.ResultSetMetadata.ColumnInfo {
				rs.Columns = append(rs.Columns, Column{
					Name: aws.ToString(ci.Name),
					Type: aws.ToString(ci.Type),
				})
			}
		}

		rows := out.ResultSet.Rows
		if firstPage && len(rows) > 0 {
			rows = rows[1:] // header row
		}
		firstPage = false

		for _, row := range rows {
			if len(rs.Rows) >= maxRows {
				rs.Truncated = true
				return rs, nil
			}
			data := make([]string, len(row.Data))
			for i, d := range row.Data {
				data[i] = aws.ToString(d.VarCharValue)
			}
			rs.Rows = append(rs.Rows, data)
		}

		nextToken = out.NextToken
		if nextToken == nil {
			break
		}
	}

	return rs, nil
}

func isTerminal(state athenatypes.QueryExecutionState) bool {
	switch state {
	case athenatypes.QueryExecutionStateSucceeded,
		athenatypes.QueryExecutionStateFailed,
		athenatypes.QueryExecutionStateCancelled:
		return true
	}
	return false
}

func stateChangeReason(exec *athenatypes.QueryExecution) string {
	if exec.Status != nil && exec.Status.StateChangeReason != nil {
		return *exec.Status.StateChangeReason
	}
	return "unknown error"
}

func scannedBytes(exec *athenatypes.QueryExecution) int64 {
	if exec.Statistics != nil && exec.Statistics.DataScannedInBytes != nil {
		return *exec.Statistics.DataScannedInBytes
	}
	return 0
}

// IsExecutionError reports whether err is an ExecutionError of the given
// kind.
func IsExecutionError(err error, kind ErrorKind) bool {
	var execErr *ExecutionError
	return errors.As(err, &execErr) && execErr.Kind == kind
}
