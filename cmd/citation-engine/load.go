// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/citation-engine/internal/document"
	"github.com/pdiddy/citation-engine/internal/poll"
	"github.com/pdiddy/citation-engine/internal/sequence"
	"github.com/pdiddy/citation-engine/internal/session"
	"github.com/pdiddy/citation-engine/pkg/types"
)

var loadCmd = &cobra.Command{
	Use:   "load [document.yaml]",
	Short: "Load an extracted document into a new editing session",
	Long: `Load reads a document YAML file produced by upstream extraction
(citations, references, detected style, body text), validates it, and opens
a session. Malformed records are quarantined and reported rather than
propagated. The document as loaded becomes the immutable baseline every
later change report measures against.

With --wait the command polls for the file with exponential backoff, for
extraction pipelines that write output asynchronously.`,
	Args: cobra.ExactArgs(1),
	RunE: runLoad,
}

func runLoad(cmd *cobra.Command, args []string) error {
	cfg := engineConfig(cmd)
	path := args[0]
	ctx := context.Background()

	if wait, _ := cmd.Flags().GetBool("wait"); wait {
		if err := poll.Wait(ctx, poll.FileExists(path), cfg.Poll.BaseDelay, cfg.Poll.MaxAttempts); err != nil {
			return fmt.Errorf("waiting for %s: %w", path, err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading document: %w", err)
	}
	var doc types.Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing document: %w", err)
	}

	sess, err := document.Load(doc)
	if err != nil {
		return err
	}

	store, err := session.NewStore(cfg.Session)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Save(ctx, sess); err != nil {
		return err
	}

	fmt.Printf("session %s: %d citations, %d references, style %s\n",
		sess.ID, len(sess.Doc.Citations), len(sess.Doc.References), sess.Doc.DetectedStyle)

	for _, q := range sess.Quarantine {
		fmt.Printf("quarantined %s %s: %s\n", q.Kind, q.ID, q.Reason)
	}

	if sequence.Applies(sess.Doc.DetectedStyle) {
		if analysis := sess.Analyze(); !analysis.IsSequential {
			fmt.Printf("warning: citations out of order: %v (run `citation-engine resequence %s`)\n",
				analysis.OutOfOrder, sess.ID)
		}
	}
	return nil
}

func init() {
	loadCmd.Flags().Bool("wait", false, "poll for the document file with backoff before loading")
	rootCmd.AddCommand(loadCmd)
}
