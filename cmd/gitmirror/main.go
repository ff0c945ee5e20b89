// Package main implements gitmirror, an interactive CLI that mirrors a
// git repository from a source to a destination, preserving branches and
// tags. Destination branch-protection rules are worked around by pushing
// the source's default branch under a timestamped mirror branch name
// instead of its original name.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/NicabarNimble/go-gitmirror/internal/config"
	"github.com/NicabarNimble/go-gitmirror/internal/gitcmd"
	"github.com/NicabarNimble/go-gitmirror/internal/mirror"
	"github.com/NicabarNimble/go-gitmirror/internal/prompt"
	"github.com/NicabarNimble/go-gitmirror/internal/report"
)

const version = "1.0.0"

type rootOptions struct {
	defaultsPath string
	saveDefaults bool
	yes          bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "gitmirror",
		Short: "Interactive git repository mirroring tool",
		Long: `An interactive tool that mirrors a git repository from a source to a
destination, preserving all branches and tags. The source's default branch
is additionally pushed under a timestamped mirror branch name to bypass
destination-side branch protection.

The tool prompts for both repository URLs and, for HTTPS remotes, for a
username plus password or access token. SSH remotes use the operator's
existing key setup and are never prompted for.`,
		Args:          cobra.NoArgs,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMirror(opts)
		},
	}

	cmd.Flags().StringVar(&opts.defaultsPath, "defaults", "", "JSON file with prompt defaults (optional)")
	cmd.Flags().BoolVar(&opts.saveDefaults, "save-defaults", false, "Write the collected URLs back to the defaults file")
	cmd.Flags().BoolVar(&opts.yes, "yes", false, "Skip the confirmation prompt")

	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runMirror(opts *rootOptions) error {
	if opts.saveDefaults && opts.defaultsPath == "" {
		return fmt.Errorf("--save-defaults requires --defaults")
	}

	if err := gitcmd.CheckInstalled(); err != nil {
		return err
	}

	rep, err := report.New(".", os.Stdout, time.Now())
	if err != nil {
		return err
	}
	defer rep.Close()

	// An interrupt cancels the context, which kills any running git child
	// process; the deferred cleanups below still run.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	defaults := &config.Defaults{}
	if opts.defaultsPath != "" {
		defaults, err = config.LoadDefaults(opts.defaultsPath)
		if err != nil {
			rep.Error("%v", err)
			return err
		}
	}

	collector := prompt.New(os.Stdin, os.Stdout)
	collector.AssumeYes = opts.yes

	cfg, err := collector.Collect(ctx, defaults, rep)
	if err != nil {
		rep.Error("%v", err)
		return err
	}
	defer cfg.Source.Creds.Remove()
	defer cfg.Destination.Creds.Remove()

	if opts.saveDefaults {
		saved := &config.Defaults{SourceURL: cfg.Source.URL, DestinationURL: cfg.Destination.URL}
		if err := config.SaveDefaults(saved, opts.defaultsPath); err != nil {
			rep.Warn("%v", err)
		}
	}

	res, err := mirror.Run(ctx, cfg, rep)
	if err != nil {
		// Fatal workflow failures are already logged by the workflow.
		return err
	}

	rep.Info("mirror run complete; default branch available as %s", res.MirrorBranch)
	fmt.Printf("\nMirror complete.\n  Log:     %s\n  Summary: %s\n", rep.LogPath(), rep.SummaryPath())
	return nil
}
