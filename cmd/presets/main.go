// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Command presets composes configuration out of reusable presets.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/z5labs/presets/internal/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	err := cli.Execute(ctx, os.Stdout, os.Stderr, os.Args[1:]...)
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, err)
	cancel()
	os.Exit(1)
}
