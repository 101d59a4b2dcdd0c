/*
main.go - Application entry point

PURPOSE:
  Command-line front end of the shift payroll engine. Every command opens
  the SQLite store, builds the session engine and runs one operation;
  `serve` runs the HTTP API instead.

COMMANDS:
  serve                                 HTTP API + month close scheduler
  worker add|list                       Manage workers
  settings set                          Salary settings of a worker
  day set|clear                         Log or clear hours for a date
  override weekend|holiday|reset        Force or reset day classification
  holiday add|list|delete               Custom holidays
  calc --month                          Print the payroll of a month
  export --month --out                  Write the payroll as XLSX
  close --month                         Freeze the payroll of a month

GLOBAL FLAGS:
  --config  YAML config file (default: ~/.shift-payroll.yaml)
  --db      SQLite database path, overrides the config file
            Use ":memory:" for in-memory database

EXAMPLES:
  payroll worker add "Anna Petrova"
  payroll settings set -w anna --shift 09:00-18:00 --salary 80000 --days 20
  payroll day set -w anna 2026-02-02 09:00 15:00
  payroll calc -w anna --month 2026-02

SEE ALSO:
  - serve.go: Server startup
  - commands.go: Worker, day, override, holiday and payroll commands
  - config/config.go: Configuration file
*/
package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/warp/shift-payroll/config"
	"github.com/warp/shift-payroll/session"
	"github.com/warp/shift-payroll/store/sqlite"
)

var (
	cfg    *config.Config
	store  *sqlite.Store
	engine *session.Engine

	configPath string
	dbPath     string
)

var rootCmd = &cobra.Command{
	Use:          "payroll",
	Short:        "Monthly shift payroll with overtime compensation",
	Long:         `Log worked hours per day and compute a monthly payroll with weekend coefficients and carry-forward overtime compensation.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if dbPath != "" {
			cfg.DatabasePath = dbPath
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		store, err = sqlite.New(cfg.DatabasePath)
		if err != nil {
			return err
		}

		engine = session.NewEngine(store, store, store)
		engine.Defaults, err = cfg.Defaults.Settings()
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if store != nil {
			return store.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "Config file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (overrides config)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(workerCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(dayCmd)
	rootCmd.AddCommand(overrideCmd)
	rootCmd.AddCommand(holidayCmd)
	rootCmd.AddCommand(calcCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(closeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
