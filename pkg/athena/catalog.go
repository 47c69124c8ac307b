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
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/glue"
)

// GlueAPI is the slice of the Glue service client the catalog depends on.
// *glue.Client satisfies it.
type GlueAPI interface {
	GetTables(ctx context.Context, params *glue.GetTablesInput, optFns ...func(*glue.Options)) (*glue.GetTablesOutput, error)
	GetTable(ctx context.Context, params *glue.GetTableInput, optFns ...func(*glue.Options)) (*glue.GetTableOutput, error)
}

// Catalog resolves table names and schemas from the Glue Data Catalog.
type Catalog struct {
	client GlueAPI
}

// NewCatalog creates a catalog over the given Glue client.
func NewCatalog(client GlueAPI) *Catalog {
	return &Catalog{client: client}
}

// ListTables returns all table names in the database, in Glue page order.
func (c *Catalog) ListTables(ctx context.Context, database string) ([]string, error) {
	if database == "" {
		return nil, &ConfigError{Field: "database"}
	}

	var names []string
	var nextToken *string
	for {
		out, err := c.client.GetTables(ctx, &glue.GetTablesInput{
			DatabaseName: aws.String(database),
			NextToken:    nextToken,
		})
		if err != nil {
			return nil, fmt.Errorf("glue get_tables failed: %w", err)
		}
		for _, t := range out.TableList {
			names = append(names, aws.ToString(t.Name))
		}
		nextToken = out.NextToken
		if nextToken == nil {
			break
		}
	}
	return names, nil
}

// TableSchema returns the table's columns as name/type pairs, partition
// keys included, in declaration order with partition keys last.
func (c *Catalog) TableSchema(ctx context.Context, database, table string) ([]Column, error) {
	if database == "" {
		return nil, &ConfigError{Field: "database"}
	}
	if table == "" {
		return nil, &ConfigError{Field: "table"}
	}

	out, err := c.client.GetTable(ctx, &glue.GetTableInput{
		DatabaseName: aws.String(database),
		Name:         aws.String(table),
	})
	if err != nil {
		return nil, fmt.Errorf("glue get_table failed: %w", err)
	}

	var cols []Column
	if out.Table != nil {
		if out.Table.StorageDescriptor != nil {
			for _, gc := range out.Table.StorageDescriptor.Columns {
				cols = append(cols, Column{Name: aws.ToString(gc.Name), Type: aws.ToString(gc.Type)})
			}
		}
		for _, gc := range out.Table.PartitionKeys {
			cols = append(cols, Column{Name: aws.ToString(gc.Name), Type: aws.ToString(gc.Type)})
		}
	}
	return cols, nil
}

// SchemaText renders a column list as "name type" lines in declaration
// order, the shape fed back to the planner as context text.
func SchemaText(cols []Column) string {
	var b strings.Builder
	for _, c := range cols {
		fmt.Fprintf(&b, "%s %s\n", c.Name, c.Type)
	}
	return b.String()
}
