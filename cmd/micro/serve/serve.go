/*
 * Copyright (c) 2022, Gideon Williams <gideon@gideonw.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package serve

import (
	"github.com/dburkart/micro/pkg/lexer"
	"github.com/dburkart/micro/pkg/server"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Command = &cobra.Command{
	Use:   "serve",
	Short: "Serve the scanner over HTTP and a line based TCP protocol",

	Run: func(cmd *cobra.Command, args []string) {
		logger := viper.Get("logger").(zerolog.Logger)

		config, err := buildConfig()
		if err != nil {
			logger.Fatal().Err(err).Msg("invalid server configuration")
		}

		srv := server.New(logger, config)

		errs := make(chan error, 3)

		// Serve the tokenize endpoints
		go func() { errs <- srv.ServeHTTP() }()
		go func() { errs <- srv.ServeLines() }()

		// Serve the metrics endpoint
		go func() { errs <- srv.ServeMetrics() }()

		logger.Fatal().Err(<-errs).Msg("server stopped")
	},
}

func buildConfig() (server.Config, error) {
	dialect, err := lexer.DialectByName(viper.GetString("lexer.dialect"))
	if err != nil {
		return server.Config{}, err
	}

	return server.Config{
		Dialect:     dialect,
		HTTPPort:    viper.GetInt("server.port"),
		LinePort:    viper.GetInt("server.line-port"),
		MetricsPort: viper.GetInt("server.prom-port"),
		MaxBody:     viper.GetInt64("server.max-body"),
		MaxLine:     viper.GetInt("server.max-line"),
	}, nil
}

func init() {
	// Flags for this command
	Command.Flags().IntP("port", "p", 8002, "HTTP port for tokenize requests")
	Command.Flags().Int("line-port", 8001, "TCP port for the line protocol")
	Command.Flags().Int("prom-port", 2112, "Set the port for /metrics")
	Command.Flags().Int64("max-body", 1<<20, "Largest accepted HTTP request body in bytes")
	Command.Flags().Int("max-line", 1<<20, "Longest accepted line protocol line in bytes")

	// Bind flags to viper
	viper.BindPFlag("server.port", Command.Flags().Lookup("port"))
	viper.BindPFlag("server.line-port", Command.Flags().Lookup("line-port"))
	viper.BindPFlag("server.prom-port", Command.Flags().Lookup("prom-port"))
	viper.BindPFlag("server.max-body", Command.Flags().Lookup("max-body"))
	viper.BindPFlag("server.max-line", Command.Flags().Lookup("max-line"))
}
