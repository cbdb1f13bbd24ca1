// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package cli implements the presets command line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/z5labs/presets/internal/try"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// EnvPrefix is the prefix of environment variables which
// provide defaults for command line flags, e.g. PRESETS_MERGE.
const EnvPrefix = "PRESETS"

// Execute runs the presets command with the given arguments.
func Execute(ctx context.Context, stdout, stderr io.Writer, args ...string) (err error) {
	defer try.Recover(&err)

	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "presets",
		Short:         "Compose configuration out of reusable presets",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.AddCommand(
		newComposeCmd(),
		newVersionCmd(),
	)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), Version)
			return err
		},
	}
}

// newViper binds every flag of cmd so it can also be set
// through a PRESETS_ prefixed environment variable.
func newViper(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	err := v.BindPFlags(cmd.Flags())
	if err != nil {
		return nil, err
	}
	return v, nil
}
