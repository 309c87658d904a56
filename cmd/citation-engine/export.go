// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citation-engine/internal/export"
	"github.com/pdiddy/citation-engine/internal/session"
)

var exportCmd = &cobra.Command{
	Use:   "export [session-id]",
	Short: "Materialize the session as an exported document",
	Long: `Export renders the session's current state to a document file.
Mode "accept" writes the final text with all changes applied
(<name>_corrected.md); mode "track" marks every change inline as a
deletion/insertion pair suitable for round-trip into word-processor
tracked changes (<name>_tracked_changes.md).`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg := engineConfig(cmd)

	mode, _ := cmd.Flags().GetString("mode")
	materializer, err := export.New(export.Mode(mode))
	if err != nil {
		return err
	}

	outDir, _ := cmd.Flags().GetString("output-dir")
	if outDir == "" {
		outDir = cfg.Export.OutputDir
	}

	store, err := session.NewStore(cfg.Session)
	if err != nil {
		return err
	}
	defer store.Close()

	sess, err := store.Get(context.Background(), args[0])
	if err != nil {
		return err
	}

	path, err := export.WriteFile(outDir, materializer, sess.Original, sess.Doc, sess.Changes)
	if err != nil {
		return err
	}
	fmt.Println("Exported to", path)
	return nil
}

func init() {
	exportCmd.Flags().String("mode", "accept", "export mode: accept or track")
	exportCmd.Flags().String("output-dir", "", "directory for exported documents (default from config)")
	rootCmd.AddCommand(exportCmd)
}
