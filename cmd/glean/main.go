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
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/glean-analytics/glean/internal/version"
)

var (
	flagDatabase string
	flagProvider string
	flagModel    string
	flagVerbose  bool
	flagNoChart  bool
)

var rootCmd = &cobra.Command{
	Use:     "glean",
	Short:   "Glean - conversational analytics over Amazon Athena",
	Long:    `Glean answers natural-language questions about your data by planning and running Athena SQL, estimating query cost, and suggesting charts.`,
	Version: version.Get(),
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDatabase, "database", "", "Athena database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagProvider, "provider", "", "LLM provider: bedrock or anthropic (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagModel, "model", "", "LLM model identifier (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Verbose logging")
	rootCmd.PersistentFlags().BoolVar(&flagNoChart, "no-chart", false, "Skip chart spec output")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(chatCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
