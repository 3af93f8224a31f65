package main

import "fmt"
import "os"
import "time"

import "github.com/bnclabs/golog"
import "github.com/bnclabs/memservice/bitbucket"
import "github.com/bnclabs/memservice/malloc"
import "github.com/spf13/cobra"

var (
	loglevel string
	logfile  string
)

var rootCmd = &cobra.Command{
	Use:   "chunkpool",
	Short: "Exercise the fixed-chunk memory service",
	Long: `chunkpool drives a memory service with a configurable load of
allocation requests and reports its statistics. It can also print the
default settings used by the service.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setts := map[string]interface{}{
			"log.level":      loglevel,
			"log.file":       logfile,
			"log.flags":      "",
			"log.prefix":     "[%v]",
			"log.timeformat": time.RFC3339Nano,
		}
		log.SetLogger(nil, setts)
		if loglevel != "ignore" {
			malloc.LogComponents("all")
			bitbucket.LogComponents("all")
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&loglevel, "log", "ignore",
		"log level: ignore, fatal, error, warn, info, verbose, debug, trace")
	rootCmd.PersistentFlags().StringVar(&logfile, "logfile", "",
		"log to file, default is console")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
