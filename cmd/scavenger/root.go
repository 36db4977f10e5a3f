package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for scavenger.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scavenger",
		Short: "Continuously scavenge a screenshot gallery for sensitive content",
		Long: `scavenger pulls images from a screenshot gallery, extracts their text with
OCR, and flags images that contain sensitive content such as credentials,
API keys, or embedded EXIF metadata.

By default it scrapes the public prnt.sc gallery one screenshot ID at a
time. Point it at a local directory instead with --disk-source-dir for
testing or offline replay.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug-level logging")

	cmd.AddCommand(NewScavengeCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
