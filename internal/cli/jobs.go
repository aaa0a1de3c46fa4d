package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jobportal/portal/internal/core/domain"
	"github.com/jobportal/portal/internal/core/ports"
	"github.com/jobportal/portal/internal/core/service"
)

func (r *runner) newJobsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Browse and manage job postings",
	}
	cmd.AddCommand(
		r.newJobsListCmd(),
		r.newJobsShowCmd(),
		r.newJobsPostCmd(),
		r.newJobsUpdateCmd(),
		r.newJobsActiveCmd("activate", true),
		r.newJobsActiveCmd("deactivate", false),
		r.newJobsDeleteCmd(),
		r.newJobsMineCmd(),
	)
	return cmd
}

func (r *runner) newJobsListCmd() *cobra.Command {
	var query ports.JobQuery
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List open postings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, func(ctx context.Context, app *App, out printer) error {
				jobs, err := app.Jobs.ListJobs(ctx, query)
				if err != nil {
					return err
				}
				return out.print(jobs)
			})
		},
	}
	cmd.Flags().StringVar(&query.Search, "search", "", "Match title, company or role")
	cmd.Flags().StringVar(&query.Location, "location", "", "Location substring")
	cmd.Flags().StringVar(&query.JobType, "type", "", "Exact job type, e.g. Full-time")
	return cmd
}

func (r *runner) newJobsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <job-id>",
		Short: "Show one posting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, func(ctx context.Context, app *App, out printer) error {
				job, err := app.Jobs.GetJob(ctx, args[0])
				if err != nil {
					return err
				}
				return out.print(job)
			})
		},
	}
}

func jobFormFlags(cmd *cobra.Command, form *ports.JobForm) {
	cmd.Flags().StringVar(&form.CompanyName, "company", "", "Company name")
	cmd.Flags().StringVar(&form.JobTitle, "title", "", "Job title")
	cmd.Flags().StringVar(&form.Role, "role", "", "Role")
	cmd.Flags().StringVar(&form.Location, "location", "", "Location")
	cmd.Flags().StringVar(&form.Salary, "salary", "", "Salary")
	cmd.Flags().StringVar(&form.JobType, "type", "", "Job type (default Full-time)")
	cmd.Flags().StringVar(&form.Experience, "experience", "", "Experience band, e.g. \"1-3 years\"")
	cmd.Flags().StringVar(&form.Description, "description", "", "Description")
	cmd.Flags().StringVar(&form.Requirements, "requirements", "", "Requirements, one per line")
	cmd.Flags().StringVar(&form.Skills, "skills", "", "Skills, comma separated")
}

func (r *runner) newJobsPostCmd() *cobra.Command {
	var form ports.JobForm
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Publish a new posting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, func(ctx context.Context, app *App, out printer) error {
				job, err := app.Jobs.PostJob(ctx, form)
				if err != nil {
					return err
				}
				return out.print(job)
			})
		},
	}
	jobFormFlags(cmd, &form)
	return cmd
}

// newJobsUpdateCmd sends only the flags that were set.
func (r *runner) newJobsUpdateCmd() *cobra.Command {
	var form ports.JobForm
	cmd := &cobra.Command{
		Use:   "update <job-id>",
		Short: "Change fields of a posting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			update := jobUpdateFrom(cmd, form)
			return r.withApp(cmd, func(ctx context.Context, app *App, out printer) error {
				job, err := app.Jobs.UpdateJob(ctx, args[0], update)
				if err != nil {
					return err
				}
				return out.print(job)
			})
		},
	}
	jobFormFlags(cmd, &form)
	return cmd
}

func jobUpdateFrom(cmd *cobra.Command, form ports.JobForm) ports.JobUpdate {
	set := func(flag string, v string) *string {
		if !cmd.Flags().Changed(flag) {
			return nil
		}
		return &v
	}

	update := ports.JobUpdate{
		CompanyName: set("company", form.CompanyName),
		JobTitle:    set("title", form.JobTitle),
		Role:        set("role", form.Role),
		Location:    set("location", form.Location),
		Salary:      set("salary", form.Salary),
		JobType:     set("type", form.JobType),
		Experience:  set("experience", form.Experience),
		Description: set("description", form.Description),
	}
	if cmd.Flags().Changed("requirements") || cmd.Flags().Changed("skills") {
		draft := service.NormalizeJobForm(form)
		if cmd.Flags().Changed("requirements") {
			update.Requirements = draft.Requirements
		}
		if cmd.Flags().Changed("skills") {
			update.Skills = draft.Skills
		}
	}
	return update
}

func (r *runner) newJobsActiveCmd(use string, active bool) *cobra.Command {
	short := "Reopen a posting"
	if !active {
		short = "Close a posting to new applications"
	}
	return &cobra.Command{
		Use:   use + " <job-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, func(ctx context.Context, app *App, out printer) error {
				job, err := app.Jobs.SetJobActive(ctx, args[0], active)
				if err != nil {
					return err
				}
				return out.print(job)
			})
		},
	}
}

func (r *runner) newJobsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <job-id>",
		Short: "Delete a posting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, func(ctx context.Context, app *App, out printer) error {
				if err := app.Jobs.DeleteJob(ctx, args[0]); err != nil {
					return err
				}
				return out.message("Job %s deleted", args[0])
			})
		},
	}
}

type jobList struct {
	Jobs   []domain.Job     `json:"jobs"`
	Counts domain.JobCounts `json:"counts"`
}

// ownJobs filters by state; counts always cover every posting.
func ownJobs(jobs []domain.Job, state domain.JobState) jobList {
	counts := domain.CountJobs(jobs)
	if state != "" {
		filtered := make([]domain.Job, 0, len(jobs))
		for _, j := range jobs {
			if j.State() == state {
				filtered = append(filtered, j)
			}
		}
		jobs = filtered
	}
	if jobs == nil {
		jobs = []domain.Job{}
	}
	return jobList{Jobs: jobs, Counts: counts}
}

func parseJobState(raw string) (domain.JobState, error) {
	switch state := domain.JobState(strings.ToLower(strings.TrimSpace(raw))); state {
	case "", "all":
		return "", nil
	case domain.JobActive, domain.JobInactive:
		return state, nil
	}
	return "", exitError(exitUsage, "unknown job status %q (active, inactive or all)", raw)
}

func (r *runner) newJobsMineCmd() *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "mine",
		Short: "List the postings you own",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := parseJobState(status)
			if err != nil {
				return err
			}
			return r.withApp(cmd, func(ctx context.Context, app *App, out printer) error {
				jobs, err := app.Jobs.MyJobs(ctx)
				if err != nil {
					return err
				}
				return out.print(ownJobs(jobs, state))
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "Only show active or inactive postings")
	return cmd
}
