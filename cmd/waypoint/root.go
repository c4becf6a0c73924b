package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/aretw0/waypoint/internal/cli"
	"github.com/aretw0/waypoint/internal/config"
	"github.com/spf13/cobra"
)

const defaultConfigPath = "waypoint.yaml"

var rootCmd = &cobra.Command{
	Use:   "waypoint",
	Short: "Waypoint keeps resumable workflow sessions",
	Long: `Waypoint saves the progress of multi-step workflows so an interrupted
session can be resumed where it left off, for up to 24 hours.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// errSilentExit makes the process exit with status 1 without printing anything.
var errSilentExit = errors.New("exit status 1")

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errSilentExit) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	flags := rootCmd.PersistentFlags()
	flags.String("config", defaultConfigPath, "Path to the YAML config file")
	flags.String("backend", "", "Storage backend: memory, file, redis or sqlite")
	flags.String("dir", "", "Session directory for the file backend")
	flags.String("redis-addr", "", "Redis address for the redis backend")
	flags.String("sqlite-path", "", "Database path for the sqlite backend")
	flags.String("key", "", "Slot used when no --id is given")
	flags.Duration("expiry", 0, "Maximum age of a resumable session")
	flags.String("log-level", "", "Log level: debug, info, warn or error")
	flags.Bool("debug", false, "Shorthand for --log-level=debug")
}

// loadConfig resolves the configuration: defaults, file, environment, then flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")

	cfg, err := config.Load(path, flags.Changed("config"))
	if err != nil {
		return cfg, err
	}

	if flags.Changed("backend") {
		v, _ := flags.GetString("backend")
		cfg.Backend = config.Backend(v)
	}
	if flags.Changed("dir") {
		cfg.Dir, _ = flags.GetString("dir")
	}
	if flags.Changed("redis-addr") {
		cfg.RedisAddr, _ = flags.GetString("redis-addr")
	}
	if flags.Changed("sqlite-path") {
		cfg.SQLitePath, _ = flags.GetString("sqlite-path")
	}
	if flags.Changed("key") {
		cfg.Key, _ = flags.GetString("key")
	}
	if flags.Changed("expiry") {
		cfg.Expiry, _ = flags.GetDuration("expiry")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if debug, _ := flags.GetBool("debug"); debug {
		cfg.LogLevel = "debug"
	}
	if flags.Changed("port") {
		cfg.Port, _ = flags.GetString("port")
	}

	return cfg, cfg.Validate()
}

// openApp loads the configuration and opens the session store.
func openApp(cmd *cobra.Command) (*cli.App, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger, err := cli.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	return cli.NewApp(cfg, logger)
}
