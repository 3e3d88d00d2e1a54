package main

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/gosuri/uiprogress"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/varnamer/api/internal/simulate"
	"github.com/varnamer/api/internal/store"
)

var (
	simDays    int
	simPerDay  int
	simFailure float64
	simSeed    int64
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Generate synthetic activity for the dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Use real dictionary terms as queries when there are any
		var queries []string
		mappings, _, err := store.NewMappingStore(DB).List(ctx, store.ListFilter{}, 100, 0)
		if err != nil {
			return err
		}
		for _, m := range mappings {
			queries = append(queries, m.Korean)
		}

		rows := simulate.Generate(gofakeit.New(simSeed), simulate.Options{
			Days:        viper.GetInt("simulate.days"),
			PerDay:      viper.GetInt("simulate.per_day"),
			FailureRate: simFailure,
			Queries:     queries,
			Now:         time.Now(),
		})
		if len(rows) == 0 {
			fmt.Println("Nothing to generate")
			return nil
		}

		uiprogress.Start()
		bar := uiprogress.AddBar(len(rows)).AppendCompleted().PrependElapsed()
		bar.PrependFunc(func(b *uiprogress.Bar) string {
			return "Simulating: "
		})

		n, err := simulate.Record(ctx, store.NewActivityStore(DB), rows, func() {
			bar.Incr()
		})

		uiprogress.Stop()

		if err != nil {
			return fmt.Errorf("recorded %d of %d activities: %w", n, len(rows), err)
		}
		fmt.Printf("\n✅ %d synthetic activities recorded\n", n)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(simulateCmd)

	simulateCmd.Flags().IntVar(&simDays, "days", 0, "Number of past days to fill (overrides config)")
	simulateCmd.Flags().IntVar(&simPerDay, "per-day", 0, "Activities per day (overrides config)")
	simulateCmd.Flags().Float64Var(&simFailure, "failure-rate", 0.1, "Share of failed activities")
	simulateCmd.Flags().Int64Var(&simSeed, "seed", 0, "Random seed (0 picks one)")

	viper.BindPFlag("simulate.days", simulateCmd.Flags().Lookup("days"))
	viper.BindPFlag("simulate.per_day", simulateCmd.Flags().Lookup("per-day"))
	viper.SetDefault("simulate.days", 7)
	viper.SetDefault("simulate.per_day", 50)
}
