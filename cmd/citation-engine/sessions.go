// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citation-engine/internal/session"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage stored editing sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored sessions, most recently updated first",
	RunE:  runSessionsList,
}

func runSessionsList(cmd *cobra.Command, args []string) error {
	cfg := engineConfig(cmd)
	store, err := session.NewStore(cfg.Session)
	if err != nil {
		return err
	}
	defer store.Close()

	infos, err := store.List(context.Background())
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}

	if len(infos) == 0 {
		fmt.Println("No sessions.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-36s  %-20s  %-10s  %s\n", "Session", "Document", "Style", "Updated")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 90))
	for _, info := range infos {
		name := info.Name
		if name == "" {
			name = info.DocumentID
		}
		if len(name) > 20 {
			name = name[:17] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-36s  %-20s  %-10s  %s\n",
			info.ID, name, info.DetectedStyle, info.UpdatedAt.Format(time.RFC3339))
	}
	return nil
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete [session-id]",
	Short: "Delete a stored session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := engineConfig(cmd)
		store, err := session.NewStore(cfg.Session)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Delete(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Println("Deleted session", args[0])
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status [session-id]",
	Short: "Show a session's stores, quarantine, and pending change set",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
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

	orphaned, review := 0, 0
	for _, c := range sess.Doc.Citations {
		if c.IsOrphaned {
			orphaned++
		}
		if c.NeedsReview {
			review++
		}
	}
	for _, r := range sess.Doc.References {
		if r.NeedsReview {
			review++
		}
	}

	fmt.Printf("session:    %s\n", sess.ID)
	fmt.Printf("document:   %s\n", sess.Doc.ID)
	fmt.Printf("style:      %s\n", sess.Doc.DetectedStyle)
	fmt.Printf("citations:  %d (%d orphaned)\n", len(sess.Doc.Citations), orphaned)
	fmt.Printf("references: %d\n", len(sess.Doc.References))
	fmt.Printf("review:     %d record(s) flagged\n", review)
	fmt.Printf("quarantine: %d record(s)\n", len(sess.Quarantine))
	fmt.Printf("changes:    %d pending\n", len(sess.Changes))
	return nil
}

func init() {
	sessionsListCmd.Flags().Bool("json", false, "output sessions as JSON")

	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(statusCmd)
}
