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
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/glue"
	gluetypes "github.com/aws/aws-sdk-go-v2/service/glue/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGlue struct {
	pages   []*glue.GetTablesOutput
	pageIdx int
	table   *gluetypes.Table
}

func (f *fakeGlue) GetTables(ctx context.Context, params *glue.GetTablesInput, optFns ...func(*glue.Options)) (*glue.GetTablesOutput, error) {
	out := f.pages[f.pageIdx]
	if f.pageIdx < len(f.pages)-1 {
		f.pageIdx++
	}
	return out, nil
}

func (f *fakeGlue) GetTable(ctx context.Context, params *glue.GetTableInput, optFns ...func(*glue.Options)) (*glue.GetTableOutput, error) {
	return &glue.GetTableOutput{Table: f.table}, nil
}

func TestListTablesPaginates(t *testing.T) {
	token := "next"
	api := &fakeGlue{
		pages: []*glue.GetTablesOutput{
			{
				TableList: []gluetypes.Table{
					{Name: aws.String("orders")},
					{Name: aws.String("customers")},
				},
				NextToken: &token,
			},
			{
				TableList: []gluetypes.Table{{Name: aws.String("products")}},
			},
		},
	}

	names, err := NewCatalog(api).ListTables(context.Background(), "sample")
	require.NoError(t, err)
	assert.Equal(t, []string{"orders", "customers", "products"}, names)
}

func TestListTablesRequiresDatabase(t *testing.T) {
	_, err := NewCatalog(&fakeGlue{}).ListTables(context.Background(), "")

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "database", cfgErr.Field)
}

func TestTableSchemaMergesPartitionKeys(t *testing.T) {
	api := &fakeGlue{
		table: &gluetypes.Table{
			Name: aws.String("orders"),
			StorageDescriptor: &gluetypes.StorageDescriptor{
				Columns: []gluetypes.Column{
					{Name: aws.String("order_id"), Type: aws.String("string")},
					{Name: aws.String("sales"), Type: aws.String("double")},
				},
			},
			PartitionKeys: []gluetypes.Column{
				{Name: aws.String("year"), Type: aws.String("int")},
			},
		},
	}

	cols, err := NewCatalog(api).TableSchema(context.Background(), "sample", "orders")
	require.NoError(t, err)

	require.Len(t, cols, 3)
	assert.Equal(t, Column{Name: "order_id", Type: "string"}, cols[0])
	// partition keys come last
	assert.Equal(t, Column{Name: "year", Type: "int"}, cols[2])
}

func TestSchemaText(t *testing.T) {
	text := SchemaText([]Column{
		{Name: "order_id", Type: "string"},
		{Name: "sales", Type: "double"},
	})
	assert.Equal(t, "order_id string\nsales double\n", text)
}
