package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stock-ai-predictor",
	Short: "CLI entry point for the stock prediction services",
	Long: `stock-ai-predictor ingests market data, asks a reasoning service for weekly
direction forecasts and scores them against realised prices.

The work is split over three binaries:
  scheduling-service serve   cron publisher and read API
  execution-service serve    stream consumer running the batch jobs
  execution-service run JOB  one synchronous run (daily_update, weekly_prediction, evaluation)
  migrate up|down|version    schema management`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your CLI '%s'", err)
		os.Exit(1)
	}
}
