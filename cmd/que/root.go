package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"que/internal/config"
	"que/internal/pbs"
	"que/internal/report"
	"que/internal/telemetry"
	"que/internal/ui"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var exit = os.Exit
var cfgFile string

// summaryTimeLayout matches the timestamp printed next to the summary.
const summaryTimeLayout = "2006-01-02 15:04:05"

var rootCmd = &cobra.Command{
	Use:   "que",
	Short: "Present the scheduler job queue in a clean, readable format",
	Long: `que queries the batch scheduler for the current job queue, filters it
by user, queue, state, and job-name substrings, and renders a color-coded,
column-aligned summary table.

At least one of --user or --queue must be given.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runQue,
}

// Execute runs the root command. Called once from main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'que --help' for usage.")
		exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")

	rootCmd.Flags().StringP("user", "u", "", "View jobs owned by users matching this substring")
	rootCmd.Flags().StringP("queue", "q", "", "View queues matching this substring")
	rootCmd.Flags().StringP("state", "s", "", "View jobs in this state (case-insensitive)")
	rootCmd.Flags().StringP("name", "n", "", "View jobs with names matching this substring")
	rootCmd.Flags().String("input", "", "Read a captured qstat JSON payload instead of invoking qstat")
	rootCmd.Flags().BoolP("watch", "w", false, "Keep the report on screen and refresh it periodically")
	rootCmd.Flags().Bool("no-color", false, "Disable colored output")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("no_color", rootCmd.Flags().Lookup("no-color"))
}

// initConfig reads in the config file and QUE_* environment variables.
func initConfig() {
	config.Load(cfgFile)

	if err := config.ValidateConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exit(1)
	}

	telemetry.InitLogger(viper.GetBool("verbose"))
	if cf := viper.ConfigFileUsed(); cf != "" {
		telemetry.LogDebug("using config file", "path", cf)
	}
}

func runQue(cmd *cobra.Command, args []string) error {
	criteria := report.Criteria{}
	criteria.User, _ = cmd.Flags().GetString("user")
	criteria.Queue, _ = cmd.Flags().GetString("queue")
	criteria.State, _ = cmd.Flags().GetString("state")
	criteria.Name, _ = cmd.Flags().GetString("name")

	if criteria.User == "" && criteria.Queue == "" {
		return errors.New("at least one of --user or --queue is required")
	}

	ui.ConfigureColor(viper.GetBool("no_color"))

	client := pbs.NewClient(viper.GetString("qstat_bin"), viper.GetString("error_log"))
	input, _ := cmd.Flags().GetString("input")
	fetch := func(ctx context.Context) (*pbs.Queue, error) {
		if input != "" {
			return client.Load(input)
		}
		return client.Query(ctx)
	}

	if watch, _ := cmd.Flags().GetBool("watch"); watch {
		return runWatch(cmd, fetch, criteria)
	}

	queue, err := fetch(cmd.Context())
	if err != nil {
		return err
	}

	filtered, widths, err := report.Filter(&queue.Jobs, criteria)
	if err != nil {
		showOffendingJob(cmd, &queue.Jobs, err)
		return err
	}

	summary := report.Summarize(filtered)
	line := ui.SummaryStyle.Render(fmt.Sprintf("%s  %s", time.Now().Format(summaryTimeLayout), summary))
	fmt.Fprintln(cmd.OutOrStdout(), line)

	table, err := report.Render(filtered, widths, report.Options{
		ServerSuffix: viper.GetString("server_suffix"),
	})
	if err != nil {
		showOffendingJob(cmd, &queue.Jobs, err)
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), table)

	// Repeat the summary under large tables so it stays on screen.
	if summary.Total > viper.GetInt("summary_repeat_threshold") {
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}
	return nil
}

// showOffendingJob prints the record behind a schema error so the operator
// can see what the scheduler actually sent.
func showOffendingJob(cmd *cobra.Command, set *pbs.JobSet, err error) {
	var serr *report.SchemaError
	if !errors.As(err, &serr) {
		return
	}
	job := set.Get(serr.JobID)
	if job == nil {
		return
	}
	if dump, merr := json.MarshalIndent(job, "", "  "); merr == nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s:\n%s\n", serr.JobID, dump)
	}
}

// runWatch re-runs the pipeline on an interval and shows it in a live view.
func runWatch(cmd *cobra.Command, fetch func(context.Context) (*pbs.Queue, error), criteria report.Criteria) error {
	suffix := viper.GetString("server_suffix")
	refresh := func() (ui.Snapshot, error) {
		queue, err := fetch(cmd.Context())
		if err != nil {
			return ui.Snapshot{}, err
		}
		filtered, _, err := report.Filter(&queue.Jobs, criteria)
		if err != nil {
			return ui.Snapshot{}, err
		}
		snap := ui.Snapshot{Summary: report.Summarize(filtered).String()}
		for _, id := range filtered.IDs() {
			cells, err := report.RowCells(id, filtered.Get(id), suffix)
			if err != nil {
				return ui.Snapshot{}, err
			}
			snap.Rows = append(snap.Rows, cells)
		}
		return snap, nil
	}

	interval := time.Duration(viper.GetInt("watch_interval")) * time.Second
	return ui.RunWatch(refresh, interval)
}
