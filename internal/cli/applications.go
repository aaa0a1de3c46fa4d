package cli

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jobportal/portal/internal/core/domain"
	"github.com/jobportal/portal/internal/core/ports"
	"github.com/jobportal/portal/internal/infrastructure/upload"
)

func (r *runner) newApplyCmd() *cobra.Command {
	var (
		resumePath      string
		coverLetter     string
		coverLetterFile string
	)
	cmd := &cobra.Command{
		Use:   "apply <job-id>",
		Short: "Apply to a posting with a resume and a cover letter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if coverLetterFile != "" {
				body, err := os.ReadFile(coverLetterFile)
				if err != nil {
					return exitError(exitUsage, "read cover letter: %s", err.Error())
				}
				coverLetter = string(body)
			}

			in := ports.ApplicationInput{CoverLetter: coverLetter}
			if resumePath != "" {
				file, err := upload.Open(resumePath)
				if err != nil {
					return exitError(exitUsage, "%s", err.Error())
				}
				defer file.Close()
				in.Resume = &file.Upload
			}

			return r.withApp(cmd, func(ctx context.Context, app *App, out printer) error {
				application, err := app.Jobs.Apply(ctx, args[0], in)
				if err != nil {
					return err
				}
				return out.print(application)
			})
		},
	}
	cmd.Flags().StringVar(&resumePath, "resume", "", "Resume file (PDF or Word, at most 5MB)")
	cmd.Flags().StringVar(&coverLetter, "cover-letter", "", "Cover letter text")
	cmd.Flags().StringVar(&coverLetterFile, "cover-letter-file", "", "Read the cover letter from a file")
	cmd.MarkFlagsMutuallyExclusive("cover-letter", "cover-letter-file")
	return cmd
}

type applicationList struct {
	Applications []domain.Application             `json:"applications"`
	Counts       map[domain.ApplicationStatus]int `json:"counts"`
}

func listed(apps []domain.Application, status domain.ApplicationStatus) applicationList {
	counts := domain.CountByStatus(apps)
	if status != "" {
		filtered := make([]domain.Application, 0, len(apps))
		for _, a := range apps {
			if a.Status == status {
				filtered = append(filtered, a)
			}
		}
		apps = filtered
	}
	return applicationList{Applications: apps, Counts: counts}
}

func (r *runner) newApplicationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "applications",
		Aliases: []string{"apps"},
		Short:   "List and triage applications",
	}
	cmd.AddCommand(
		r.newApplicationsListCmd("mine", "List your own applications", func(ctx context.Context, svc ports.JobService, _ []string) ([]domain.Application, error) {
			return svc.MyApplications(ctx)
		}, cobra.NoArgs),
		r.newApplicationsListCmd("all", "List applications across your postings", func(ctx context.Context, svc ports.JobService, _ []string) ([]domain.Application, error) {
			return svc.AllApplications(ctx)
		}, cobra.NoArgs),
		r.newApplicationsListCmd("job <job-id>", "List the applications of one posting", func(ctx context.Context, svc ports.JobService, args []string) ([]domain.Application, error) {
			return svc.JobApplications(ctx, args[0])
		}, cobra.ExactArgs(1)),
		r.newApplicationsStatusCmd(),
	)
	return cmd
}

type listFunc func(ctx context.Context, svc ports.JobService, args []string) ([]domain.Application, error)

func (r *runner) newApplicationsListCmd(use, short string, list listFunc, args cobra.PositionalArgs) *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := parseStatus(status, true)
			if err != nil {
				return err
			}
			return r.withApp(cmd, func(ctx context.Context, app *App, out printer) error {
				apps, err := list(ctx, app.Jobs, args)
				if err != nil {
					return err
				}
				return out.print(listed(apps, filter))
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "Only show applications in this status")
	return cmd
}

type statusSummary struct {
	Applied int                  `json:"applied"`
	Failed  int                  `json:"failed"`
	Results []ports.StatusResult `json:"results"`
}

func (r *runner) newApplicationsStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <application-id>=<status>...",
		Short: "Move applications to a new status",
		Long: "Move one or more applications to a new status. Several changes are applied " +
			"concurrently; changes to the same application keep their order.\n\n" +
			"Statuses: pending, reviewed, shortlisted, accepted, rejected.",
		Example: "  jobportal applications status 65f0c1=reviewed\n" +
			"  jobportal applications status 65f0c1=shortlisted 65f0c2=rejected",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			changes, err := parseChanges(args)
			if err != nil {
				return err
			}
			return r.withApp(cmd, func(ctx context.Context, app *App, out printer) error {
				if len(changes) == 1 {
					application, err := app.Jobs.UpdateApplicationStatus(ctx, changes[0].ApplicationID, changes[0].Status)
					if err != nil {
						return err
					}
					return out.print(application)
				}

				summary := statusSummary{Results: app.Jobs.UpdateApplicationStatuses(ctx, changes)}
				for _, res := range summary.Results {
					if res.Error != "" {
						summary.Failed++
					} else {
						summary.Applied++
					}
				}
				if err := out.print(summary); err != nil {
					return err
				}
				if summary.Failed > 0 {
					return exitError(exitFailure, "%d of %d status changes failed", summary.Failed, len(changes))
				}
				return nil
			})
		},
	}
}

func parseChanges(args []string) ([]ports.StatusChange, error) {
	changes := make([]ports.StatusChange, 0, len(args))
	for _, arg := range args {
		id, raw, ok := strings.Cut(arg, "=")
		if !ok || strings.TrimSpace(id) == "" {
			return nil, exitError(exitUsage, "expected <application-id>=<status>, got %q", arg)
		}
		status, err := parseStatus(raw, false)
		if err != nil {
			return nil, err
		}
		changes = append(changes, ports.StatusChange{ApplicationID: strings.TrimSpace(id), Status: status})
	}
	return changes, nil
}

func parseStatus(raw string, optional bool) (domain.ApplicationStatus, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" && optional {
		return "", nil
	}
	status := domain.ApplicationStatus(raw)
	if !status.Valid() {
		return "", exitError(exitUsage, "%s: %q", domain.ErrInvalidStatus.Error(), raw)
	}
	return status, nil
}
