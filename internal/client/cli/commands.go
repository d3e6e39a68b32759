package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/dmitrijs2005/healthsync/internal/filex"
	"github.com/dmitrijs2005/healthsync/internal/server/models"
	"github.com/spf13/cobra"
)

func (a *App) testCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Check that the store is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dsn, err := a.connString(cmd)
			if err != nil {
				return err
			}
			resp, err := a.client.Test(cmd.Context(), &models.TestRequest{ConnectionString: dsn, Type: a.config.StoreType})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
			return nil
		},
	}
}

func (a *App) pushCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "push",
		Short: "Merge a JSON batch into the store",
		Long:  "push reads a batch with userProfile, foodEntries, workoutEntries, biomarkerEntries and goals from --file (\"-\" for stdin) and merges it into the store.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var batch models.SyncBatch
			if err := readJSONFile(file, cmd.InOrStdin(), &batch); err != nil {
				return err
			}
			dsn, err := a.connString(cmd)
			if err != nil {
				return err
			}
			resp, err := a.client.Sync(cmd.Context(), &models.SyncRequest{ConnectionString: dsn, Type: a.config.StoreType, Data: batch})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, resp.Message)
			fmt.Fprintln(out, "synced:", formatCounts(resp.SyncedCounts))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", "batch JSON file")
	return cmd
}

func (a *App) pullCommand() *cobra.Command {
	var (
		since string
		out   string
	)

	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Fetch records newer than a timestamp",
		Long:  "pull fetches records newer than --since (epoch milliseconds or RFC 3339). The server always reaches back at least its pull floor. Pulled data is written as JSON to --out, or to stdout.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, err := parseSince(since)
			if err != nil {
				return err
			}
			dsn, err := a.connString(cmd)
			if err != nil {
				return err
			}
			resp, err := a.client.Pull(cmd.Context(), &models.PullRequest{ConnectionString: dsn, Type: a.config.StoreType, LastSyncTimestamp: ts})
			if err != nil {
				return err
			}

			summary := cmd.ErrOrStderr()
			if out != "" {
				data, err := json.MarshalIndent(resp.PulledData, "", "  ")
				if err != nil {
					return fmt.Errorf("encode pulled data: %w", err)
				}
				if err := filex.WriteFileAtomic(out, append(data, '\n')); err != nil {
					return fmt.Errorf("write %s: %w", out, err)
				}
				summary = cmd.OutOrStdout()
			} else if err := printJSON(cmd.OutOrStdout(), resp.PulledData); err != nil {
				return err
			}

			fmt.Fprintf(summary, "%s (since %s)\n", resp.Message, formatMillis(ts))
			fmt.Fprintln(summary, "pulled:", formatCounts(resp.PullCounts))
			for _, kind := range sortedKeys(resp.Failures) {
				fmt.Fprintf(summary, "failed %s: %s\n", kind, resp.Failures[kind])
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&since, "since", "0", "last sync time, epoch milliseconds or RFC 3339")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write pulled data to this file")
	return cmd
}

func (a *App) inspectCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show per-table counts and recent rows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dsn, err := a.connString(cmd)
			if err != nil {
				return err
			}
			resp, err := a.client.Inspect(cmd.Context(), &models.InspectRequest{ConnectionString: dsn})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if asJSON {
				return printJSON(w, resp)
			}
			fmt.Fprintln(w, "server time:", resp.ServerTime)
			for _, name := range sortedKeys(resp.Tables) {
				t := resp.Tables[name]
				line := fmt.Sprintf("%-20s %6d rows, %d recent", name, t.Count, len(t.Recent))
				if t.Error != "" {
					line = fmt.Sprintf("%-20s error: %s", name, t.Error)
				}
				fmt.Fprintln(w, strings.TrimRight(line, " "))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw inspection report")
	return cmd
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
