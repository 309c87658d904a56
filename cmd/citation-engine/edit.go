// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citation-engine/internal/document"
	"github.com/pdiddy/citation-engine/internal/session"
	"github.com/pdiddy/citation-engine/pkg/types"
)

// --- resequence ---

var resequenceCmd = &cobra.Command{
	Use:   "resequence [session-id]",
	Short: "Renumber references into first-appearance order",
	Long: `Resequence reassigns reference numbers to match the order citations
first use them, then rewrites every dependent citation marker. The operation
is all-or-nothing: if any marker cannot be rewritten safely, nothing changes.
Running it twice in a row is a no-op.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOperation(cmd, args[0], func(ctx context.Context, sess *document.Session, dryRun bool) ([]types.ChangeRecord, error) {
			return sess.Resequence(ctx, dryRun)
		})
	},
}

// --- convert ---

var convertCmd = &cobra.Command{
	Use:   "convert [session-id]",
	Short: "Convert the document to another citation style",
	Long: `Convert rewrites citation markers and reference formatting to the
target style without touching the underlying bibliographic data. Supported
styles: apa, mla, chicago, vancouver, ieee, harvard, ama. References missing
fields the style requires are converted best-effort and flagged for review.
Crossing between numeric and author-year styles resequences afterwards.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		styleCode, _ := cmd.Flags().GetString("style")
		target, ok := types.ParseStyle(styleCode)
		if !ok {
			return fmt.Errorf("unknown style %q: supported styles are %v", styleCode, types.Styles)
		}
		return runOperation(cmd, args[0], func(ctx context.Context, sess *document.Session, dryRun bool) ([]types.ChangeRecord, error) {
			return sess.ConvertStyle(ctx, target, dryRun)
		})
	},
}

// --- delete-ref ---

var deleteRefCmd = &cobra.Command{
	Use:   "delete-ref [session-id]",
	Short: "Delete a reference, orphaning citations that cited only it",
	Long: `Delete-ref removes one reference from the reference list. Citations
that cited it keep their text: a citation whose every target is gone is
flagged orphaned (visible and reversible), and one citing several references
keeps its surviving links. Numbers of the remaining references do not move;
run resequence to close the gap.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		refID, _ := cmd.Flags().GetString("ref")
		if refID == "" {
			return fmt.Errorf("--ref is required")
		}
		return runOperation(cmd, args[0], func(ctx context.Context, sess *document.Session, dryRun bool) ([]types.ChangeRecord, error) {
			return sess.DeleteReference(ctx, refID, dryRun)
		})
	},
}

// runOperation loads the session, runs one mutating operation, persists the
// result unless --dry-run was given, and prints the surfaced change records.
func runOperation(cmd *cobra.Command, sessionID string, op func(context.Context, *document.Session, bool) ([]types.ChangeRecord, error)) error {
	cfg := engineConfig(cmd)
	ctx := context.Background()

	store, err := session.NewStore(cfg.Session)
	if err != nil {
		return err
	}
	defer store.Close()

	sess, err := store.Get(ctx, sessionID)
	if err != nil {
		return err
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	changes, err := op(ctx, sess, dryRun)
	if err != nil {
		return err
	}

	if !dryRun {
		if err := store.Save(ctx, sess); err != nil {
			return err
		}
	}

	return printChanges(cmd, changes, dryRun)
}

func printChanges(cmd *cobra.Command, changes []types.ChangeRecord, dryRun bool) error {
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(changes)
	}

	if len(changes) == 0 {
		fmt.Println("no changes")
		return nil
	}
	for _, c := range changes {
		fmt.Printf("%-9s %s: %q -> %q\n", c.Type, c.CitationID, c.OldText, c.NewText)
	}
	if dryRun {
		fmt.Printf("\n%d change(s) previewed, not applied\n", len(changes))
	} else {
		fmt.Printf("\n%d change(s) applied\n", len(changes))
	}
	return nil
}

func init() {
	convertCmd.Flags().String("style", "", "target citation style")

	deleteRefCmd.Flags().String("ref", "", "ID of the reference to delete")

	for _, c := range []*cobra.Command{resequenceCmd, convertCmd, deleteRefCmd} {
		c.Flags().Bool("dry-run", false, "preview change records without committing")
		c.Flags().Bool("json", false, "output change records as JSON")
		rootCmd.AddCommand(c)
	}
}
