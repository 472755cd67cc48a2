/*
 * Copyright (c) 2022, Gideon Williams <gideon@gideonw.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package micro

import (
	"fmt"
	"os"
	"strings"

	"github.com/dburkart/micro/cmd/micro/lex"
	"github.com/dburkart/micro/cmd/micro/repl"
	"github.com/dburkart/micro/cmd/micro/serve"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	Version        = "develop"
	CommitHash     = "n/a"
	BuildTimestamp = "n/a"

	rootCmd = &cobra.Command{
		Use:   "micro",
		Short: "Micro is a lexical scanner for a small expression language",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			initLogging()
			initLogLevel()
			initConfig(cmd.Root().PersistentFlags().Lookup("config").Value.String())
			initLogLevel()
			traceConfig()
		},
		Version: Version,
	}
)

func init() {
	// Configure the root binary options
	rootCmd.PersistentFlags().CountP("verbose", "v", "-v for debug logs (-vv for trace)")
	rootCmd.PersistentFlags().Bool("local", true, "Configures the logger to print readable logs")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to the micro config file (default ./config.toml)")
	rootCmd.PersistentFlags().StringP("dialect", "d", "extended", "Language dialect to scan [extended, micro]")

	// Bind viper config to the root flags
	viper.BindPFlag("micro.local", rootCmd.PersistentFlags().Lookup("local"))
	viper.BindPFlag("micro.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("lexer.dialect", rootCmd.PersistentFlags().Lookup("dialect"))
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))

	rootCmd.SetVersionTemplate(fmt.Sprintf("micro version: %s git_commit: %s build_time: %s\n", Version, CommitHash, BuildTimestamp))

	// Bind viper flags to ENV variables
	viper.SetEnvPrefix("MICRO")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	// Register commands on the root binary command
	lex.Command.Version = rootCmd.Version
	repl.Command.Version = rootCmd.Version
	serve.Command.Version = rootCmd.Version
	rootCmd.AddCommand(lex.Command)
	rootCmd.AddCommand(repl.Command)
	rootCmd.AddCommand(serve.Command)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("root command failed")
		os.Exit(1)
	}
}
