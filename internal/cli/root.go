// Package cli implements the jobportal command tree.
package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"
)

const closeTimeout = 5 * time.Second

// runner carries what every subcommand shares: the lazily built App and the
// output flag.
type runner struct {
	load   Loader
	output string
}

// NewRootCmd builds the full command tree. load is called at most once per
// command execution.
func NewRootCmd(version string, load Loader) *cobra.Command {
	r := &runner{load: load}

	root := &cobra.Command{
		Use:   "jobportal",
		Short: "Job board client",
		Long: "jobportal talks to the job board backend: sign in as an employer or a job seeker, " +
			"manage postings and applications, and serve the local layout shell.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&r.output, "output", "o", formatJSON, "Output format: json | yaml")

	root.AddCommand(newVersionCmd(version))
	root.AddCommand(r.newLoginCmd())
	root.AddCommand(r.newRegisterCmd())
	root.AddCommand(r.newLogoutCmd())
	root.AddCommand(r.newWhoamiCmd())
	root.AddCommand(r.newProfileCmd())
	root.AddCommand(r.newJobsCmd())
	root.AddCommand(r.newApplyCmd())
	root.AddCommand(r.newApplicationsCmd())
	root.AddCommand(r.newServeCmd())

	return root
}

// withApp loads the App, runs fn and closes the App afterwards. Service
// errors are mapped to exit codes.
func (r *runner) withApp(cmd *cobra.Command, fn func(ctx context.Context, app *App, out printer) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	app, err := r.load(ctx)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), closeTimeout)
		defer cancel()
		if err := app.Close(closeCtx); err != nil {
			app.Log.Warn().Err(err).Msg("close")
		}
	}()

	out := printer{w: cmd.OutOrStdout(), format: r.output}
	return fromAPIError(fn(ctx, app, out))
}
