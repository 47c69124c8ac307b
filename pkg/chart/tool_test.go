// Copyright © 2026 Glean Analytics - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package chart

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsathena "github.com/aws/aws-sdk-go-v2/service/athena"
	athenatypes "github.com/aws/aws-sdk-go-v2/service/athena/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glean-analytics/glean/pkg/athena"
	"github.com/glean-analytics/glean/pkg/types"
)

// fakeAthena serves one immediately-succeeded query with a fixed result.
type fakeAthena struct {
	page *awsathena.GetQueryResultsOutput
}

func (f *fakeAthena) StartQueryExecution(ctx context.Context, params *awsathena.StartQueryExecutionInput, optFns ...func(*awsathena.Options)) (*awsathena.StartQueryExecutionOutput, error) {
	return &awsathena.StartQueryExecutionOutput{QueryExecutionId: aws.String("qid-chart")}, nil
}

func (f *fakeAthena) GetQueryExecution(ctx context.Context, params *awsathena.GetQueryExecutionInput, optFns ...func(*awsathena.Options)) (*awsathena.GetQueryExecutionOutput, error) {
	return &awsathena.GetQueryExecutionOutput{
		QueryExecution: &athenatypes.QueryExecution{
			QueryExecutionId: params.QueryExecutionId,
			Status: &athenatypes.QueryExecutionStatus{
				State: athenatypes.QueryExecutionStateSucceeded,
			},
		},
	}, nil
}

func (f *fakeAthena) GetQueryResults(ctx context.Context, params *awsathena.GetQueryResultsInput, optFns ...func(*awsathena.Options)) (*awsathena.GetQueryResultsOutput, error) {
	return f.page, nil
}

func (f *fakeAthena) StopQueryExecution(ctx context.Context, params *awsathena.StopQueryExecutionInput, optFns ...func(*awsathena.Options)) (*awsathena.StopQueryExecutionOutput, error) {
	return &awsathena.StopQueryExecutionOutput{}, nil
}

func page(columns [][2]string, rows ...[]string) *awsathena.GetQueryResultsOutput {
	info := make([]athenatypes.ColumnInfo, len(columns))
	header := make([]athenatypes.Datum, len(columns))
	for i, c := range columns {
		info[i] = athenatypes.ColumnInfo{Name: aws.String(c[0]), Type: aws.String(c[1])}
		header[i] = athenatypes.Datum{VarCharValue: aws.String(c[0])}
	}
	all := []athenatypes.Row{{Data: header}}
	for _, r := range rows {
		data := make([]athenatypes.Datum, len(r))
		for i, v := range r {
			data[i] = athenatypes.Datum{VarCharValue: aws.String(v)}
		}
		all = append(all, athenatypes.Row{Data: data})
	}
	return &awsathena.GetQueryResultsOutput{
		ResultSet: &athenatypes.ResultSet{
			ResultSetMetadata: &athenatypes.ResultSetMetadata{ColumnInfo: info},
			Rows:              all,
		},
	}
}

func chartDefaults() athena.Defaults {
	return athena.Defaults{Database: "sample", OutputLocation: "s3://results/"}
}

func TestToolBuildsBarChart(t *testing.T) {
	api := &fakeAthena{page: page(
		[][2]string{{"category", "varchar"}, {"sales", "double"}},
		[]string{"Technology", "836154.03"},
		[]string{"Furniture", "741999.79"},
	)}
	ct := NewTool(athena.NewEngine(api), chartDefaults())

	res, err := ct.Execute(context.Background(), map[string]interface{}{
		"sql": `SELECT "category", SUM("sales") AS sales FROM t GROUP BY 1`,
	})
	require.NoError(t, err)
	require.True(t, res.Success)

	spec, ok := res.Metadata[MetaSpec].(*Spec)
	require.True(t, ok)
	assert.Equal(t, MarkBar, spec.Mark)
	assert.Equal(t, "category", spec.Encoding.X.Field)
	assert.Equal(t, "sales", spec.Encoding.Y.Field)

	// the result set and SQL travel alongside the spec
	_, ok = res.Metadata[athena.MetaResultSet].(*athena.ResultSet)
	assert.True(t, ok)
	assert.Contains(t, res.Metadata[athena.MetaSQL], "GROUP BY")
}

func TestToolEmitsChartProgress(t *testing.T) {
	api := &fakeAthena{page: page(
		[][2]string{{"category", "varchar"}, {"sales", "double"}},
		[]string{"Technology", "836154.03"},
	)}
	ct := NewTool(athena.NewEngine(api), chartDefaults())

	var stages []types.Stage
	ctx := types.ContextWithProgress(context.Background(), func(e types.ProgressEvent) {
		stages = append(stages, e.Stage)
	})

	res, err := ct.Execute(ctx, map[string]interface{}{"sql": "SELECT 1"})
	require.NoError(t, err)
	require.True(t, res.Success)

	assert.Contains(t, stages, types.StageChart)
}

func TestToolTitleOverride(t *testing.T) {
	api := &fakeAthena{page: page(
		[][2]string{{"region", "varchar"}, {"profit", "double"}},
		[]string{"West", "108418.45"},
	)}
	ct := NewTool(athena.NewEngine(api), chartDefaults())

	res, err := ct.Execute(context.Background(), map[string]interface{}{
		"sql":   "SELECT 1",
		"title": "Profit by region",
	})
	require.NoError(t, err)

	spec := res.Metadata[MetaSpec].(*Spec)
	assert.Equal(t, "Profit by region", spec.Title)
}

func TestToolNoChartIsSuccess(t *testing.T) {
	// single column: nothing to pair, but not an error
	api := &fakeAthena{page: page(
		[][2]string{{"note", "varchar"}},
		[]string{"hello"},
	)}
	ct := NewTool(athena.NewEngine(api), chartDefaults())

	res, err := ct.Execute(context.Background(), map[string]interface{}{"sql": "SELECT 1"})
	require.NoError(t, err)

	assert.True(t, res.Success)
	data := res.Data.(map[string]interface{})
	assert.Nil(t, data["chart"])
	assert.NotContains(t, res.Metadata, MetaSpec)
	assert.Contains(t, res.Metadata, athena.MetaResultSet)
}

func TestToolMissingSQL(t *testing.T) {
	ct := NewTool(athena.NewEngine(&fakeAthena{}), chartDefaults())

	res, err := ct.Execute(context.Background(), map[string]interface{}{})
	require.NoError(t, err)

	assert.False(t, res.Success)
	assert.Equal(t, "INVALID_PARAMS", res.Error.Code)
}
