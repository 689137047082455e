package main

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/pthm-cable/ekosystem/telemetry"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Summarize recorded results per species",
	Long: `Read the result log (or the redis list with --redis-addr) and print how often
each species won and the mean length of its wins.`,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var records []telemetry.ResultRecord
	if cfg.Output.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.Output.RedisAddr})
		defer client.Close()
		sink, err := telemetry.NewRedisResultLog(&telemetry.RedisConfig{Client: client, Key: cfg.Output.RedisKey})
		if err != nil {
			return err
		}
		if records, err = sink.History(cmd.Context()); err != nil {
			return err
		}
	} else {
		if records, err = telemetry.NewCSVResultLog(cfg.Output.ResultLog).ReadAll(); err != nil {
			return err
		}
	}

	summary := telemetry.SummarizeResults(records)
	sort.Slice(summary, func(i, j int) bool { return summary[i].Wins > summary[j].Wins })

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "species\twins\tmean turns\tstd turns")
	for _, s := range summary {
		fmt.Fprintf(w, "%s\t%d\t%.1f\t%.1f\n", s.Species, s.Wins, s.MeanTurns, s.StdTurns)
	}
	return w.Flush()
}
