// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citation-engine/internal/sequence"
	"github.com/pdiddy/citation-engine/internal/session"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [session-id]",
	Short: "Check whether citation numbers appear in first-use order",
	Long: `Analyze scans the session's citations in document order and reports
whether reference numbers first appear in ascending order. Only meaningful
for numeric-marker styles (Vancouver, IEEE, AMA); author-year documents get
an advisory note instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := engineConfig(cmd)
	store, err := session.NewStore(cfg.Session)
	if err != nil {
		return err
	}
	defer store.Close()

	sess, err := store.Get(context.Background(), args[0])
	if err != nil {
		return err
	}

	analysis := sess.Analyze()

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(analysis)
	}

	if !sequence.Applies(sess.Doc.DetectedStyle) {
		fmt.Printf("note: style %s does not use numeric markers; order is advisory\n", sess.Doc.DetectedStyle)
	}
	if analysis.IsSequential {
		fmt.Println("citations are sequential")
		return nil
	}
	fmt.Printf("citations out of order: %v\n", analysis.OutOfOrder)
	fmt.Printf("expected order: %v\n", analysis.ExpectedOrder)
	fmt.Printf("actual order:   %v\n", analysis.ActualOrder)
	return nil
}

func init() {
	analyzeCmd.Flags().Bool("json", false, "output analysis as JSON")
	rootCmd.AddCommand(analyzeCmd)
}
