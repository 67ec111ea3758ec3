// internal/app/app.go
package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"ava/internal/appshell"
	"ava/internal/cli"
	"ava/internal/version"
)

// Exit statuses. A run with failed operations exits with --failed-exit-code.
const (
	ExitOK        = 0
	ExitUsage     = 2
	ExitInput     = 3
	ExitCancelled = appshell.ExitCancelled
)

// exitError carries a status other than ExitUsage out of a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// inputError marks a batch-level failure: unreadable tables, no references,
// an unwritable output directory.
func inputError(err error) error { return &exitError{code: ExitInput, err: err} }

func newRootCmd(stdout, stderr io.Writer, code *int) *cobra.Command {
	root := &cobra.Command{
		Use:   "ava",
		Short: "Apply per-sample variants to reference sequences and extract gene regions",
		Long: `ava: allele variance applicator

Every variant table under --input (named {sample}_{gene}.csv) is applied to a
private copy of its chromosome's reference, and the regions configured for the
gene in --config are written to --output as {chromosome}_{sample}_{gene}.fa.
One status line per operation is printed to stdout.`,
		Version:       version.Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := cli.NewViper(cmd.Flags())
			if err != nil {
				return err
			}
			opts, err := cli.Load(v)
			if err != nil {
				return err
			}
			c, err := runBatch(cmd.Context(), opts, stdout, stderr)
			*code = c
			return err
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetVersionTemplate("ava version {{.Version}}\n")
	cli.Register(root.Flags())
	root.AddCommand(newPrepCmd(stdout, stderr, code), newCollectCmd(stdout, stderr, code))
	return root
}

func newPrepCmd(stdout, stderr io.Writer, code *int) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prep",
		Short: "Strip a substring from variant table file names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := cli.NewViper(cmd.Flags())
			if err != nil {
				return err
			}
			opts, err := cli.LoadPrep(v)
			if err != nil {
				return err
			}
			c, err := runPrep(opts, stdout, stderr)
			*code = c
			return err
		},
	}
	cli.RegisterPrep(cmd.Flags())
	return cmd
}

func newCollectCmd(stdout, stderr io.Writer, code *int) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Regroup outputs into one folder per chromosome and gene, one file per sample",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := cli.NewViper(cmd.Flags())
			if err != nil {
				return err
			}
			opts, err := cli.LoadCollect(v)
			if err != nil {
				return err
			}
			c, err := runCollect(opts, stdout, stderr)
			*code = c
			return err
		},
	}
	cli.RegisterCollect(cmd.Flags())
	return cmd
}

// RunContext parses argv, runs the selected command and returns the exit
// status.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	code := ExitOK
	root := newRootCmd(stdout, stderr, &code)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if len(argv) == 0 {
		argv = []string{"--help"}
	}
	root.SetArgs(argv)

	err := root.ExecuteContext(parent)
	if parent.Err() != nil {
		return ExitCancelled
	}
	if err != nil {
		_, _ = fmt.Fprintln(stderr, "Error:", err)
		var ee *exitError
		if errors.As(err, &ee) {
			return ee.code
		}
		_, _ = fmt.Fprintln(stderr, "Run 'ava --help' for usage.")
		return ExitUsage
	}
	return code
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
