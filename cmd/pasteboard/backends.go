package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/pasteboard/internal/clip"
	"go.klb.dev/pasteboard/internal/platform"
	"go.klb.dev/pasteboard/internal/selector"
)

func newBackendsCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "backends",
		Short: "Show the candidate backends and which one would be bound",
		Long: `Runs backend selection verbosely: prints the platform, every candidate
in priority order, and why each one that was tried was skipped.`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(cmd *cobra.Command, _ []string) error { return runBackends(cmd.OutOrStdout(), v) },
	}

	addSelectionFlags(cmd)
	addDaemonFlags(cmd)
	addLoggingFlags(cmd)
	addConfigFlag(cmd)

	return cmd
}

func runBackends(out io.Writer, v *viper.Viper) error {
	setupLogging(v, slog.LevelWarn)

	s := selector.Build(selectorOptions(v))
	b, attempts := s.Trace()
	defer func() {
		// Built outside the process-wide singleton, so it is ours to close.
		if c, ok := b.(io.Closer); ok {
			_ = c.Close()
		}
	}()

	detected := ""
	if s.Platform() == platform.Detect() {
		detected = " (detected)"
	}

	w := tabwriter.NewWriter(out, 1, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Platform:\t%s%s\n", s.Platform(), detected)
	fmt.Fprintf(w, "Bound:\t%s\n", b.Name())
	fmt.Fprintln(w)
	fmt.Fprintf(w, "\tCANDIDATE\tRESULT\n")
	fmt.Fprintf(w, "\t---------\t------\n")
	for i, c := range s.Eligible() {
		marker, result := "", "not tried"
		if i < len(attempts) {
			marker, result = describeAttempt(attempts[i])
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", marker, c, result)
	}
	return w.Flush()
}

func describeAttempt(a selector.Attempt) (marker, result string) {
	switch {
	case a.Err == nil:
		return "*", "selected"
	case errors.Is(a.Err, clip.ErrBackendUnavailable):
		return "", a.Err.Error()
	default:
		return "", "failed: " + a.Err.Error()
	}
}
