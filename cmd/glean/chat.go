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
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/glean-analytics/glean/pkg/prompts"
	"github.com/glean-analytics/glean/pkg/session"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive question-and-answer session",
	RunE:  runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	ag, _, err := buildAgent(ctx)
	if err != nil {
		return err
	}

	sess := session.NewLog()
	fmt.Printf("glean chat — session %s\n", sess.ID())
	fmt.Printf("Example questions:\n%s\n", prompts.ExampleQuestions)
	fmt.Println(`Type a question, or "exit" to quit.`)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\n> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		turnCtx := session.WithSessionID(ctx, sess.ID())
		turn, err := ag.AskWithProgress(turnCtx, line, progressPrinter(os.Stderr))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}
		sess.Append(turn)
		renderTurn(os.Stdout, turn)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	fmt.Printf("\n%d turn(s) this session.\n", sess.Len())
	return nil
}
