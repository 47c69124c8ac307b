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
	"strings"

	"github.com/spf13/cobra"

	"github.com/glean-analytics/glean/pkg/types"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a single question and print the answer",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	ag, _, err := buildAgent(ctx)
	if err != nil {
		return err
	}

	prompt := strings.Join(args, " ")
	turn, err := ag.AskWithProgress(ctx, prompt, progressPrinter(os.Stderr))
	if err != nil {
		return err
	}

	renderTurn(os.Stdout, turn)
	return nil
}

// progressPrinter writes one-line progress updates to w, overwriting is
// left to the terminal; plain lines keep output usable when redirected.
func progressPrinter(w *os.File) types.ProgressCallback {
	return func(event types.ProgressEvent) {
		if event.Stage == types.StageDone {
			return
		}
		fmt.Fprintf(w, "… %s\n", event.Message)
	}
}
