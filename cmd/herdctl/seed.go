package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mamadbah2/herdbook/internal/seed"
)

var (
	seedDays   int
	seedCattle int
	seedValue  uint64
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Wipe the database and generate demo data",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer closeApp(ctx, a)

		s := seed.New(a.Stores, a.Reporting, a.Config.Location(), a.Logger.Named("seed"))
		res, err := s.Run(ctx, seed.Options{
			Days:     seedDays,
			Cattle:   seedCattle,
			Password: a.Config.Auth.SeedPassword,
			Seed:     seedValue,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Users:          %d\n", res.Users)
		fmt.Fprintf(out, "Cattle:         %d\n", res.Cattle)
		fmt.Fprintf(out, "Health records: %d\n", res.HealthRecords)
		fmt.Fprintf(out, "Milk records:   %d\n", res.MilkRecords)
		fmt.Fprintf(out, "Feed usage:     %d\n", res.FeedRecords)
		fmt.Fprintf(out, "Summaries:      %d\n", res.Summaries)
		return nil
	},
}

func init() {
	seedCmd.Flags().IntVar(&seedDays, "days", 150, "Days of milk and feed history")
	seedCmd.Flags().IntVar(&seedCattle, "cattle", 50, "Number of animals")
	seedCmd.Flags().Uint64Var(&seedValue, "seed", 0, "Random seed for a reproducible run")
	rootCmd.AddCommand(seedCmd)
}
