package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var snapshotDate string

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Store the daily summary of one day",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer closeApp(ctx, a)

		loc := a.Config.Location()
		day := time.Now().In(loc)
		if snapshotDate != "" {
			day, err = time.ParseInLocation("2006-01-02", snapshotDate, loc)
			if err != nil {
				return fmt.Errorf("invalid --date %q: %w", snapshotDate, err)
			}
		}

		s, err := a.Reporting.Snapshot(ctx, day)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d cattle, %.1f L milk (%.1f L per cow)\n",
			s.Date.In(loc).Format("2006-01-02"), s.TotalCattle, s.TotalMilkLiters, s.AvgMilkPerCow)
		return nil
	},
}

func init() {
	snapshotCmd.Flags().StringVar(&snapshotDate, "date", "", "Day to summarize (YYYY-MM-DD), defaults to today")
	rootCmd.AddCommand(snapshotCmd)
}
