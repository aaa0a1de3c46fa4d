package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jobportal/portal/internal/core/ports"
	"github.com/jobportal/portal/internal/infrastructure/upload"
)

func (r *runner) newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or edit the signed-in account",
	}
	cmd.AddCommand(r.newProfileShowCmd(), r.newProfileUpdateCmd(), r.newProfilePictureCmd())
	return cmd
}

func (r *runner) newProfileShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Fetch the full profile from the backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, func(ctx context.Context, app *App, out printer) error {
				profile, err := app.Auth.Profile(ctx)
				if err != nil {
					return err
				}
				return out.print(profile)
			})
		},
	}
}

func (r *runner) newProfileUpdateCmd() *cobra.Command {
	var update ports.ProfileUpdate
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Change name, email or password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, func(ctx context.Context, app *App, out printer) error {
				// Unset name/email keep their stored values.
				if update.Name == "" || update.Email == "" {
					current, err := app.Auth.CurrentUser(ctx)
					if err != nil {
						return err
					}
					if update.Name == "" {
						update.Name = current.Name
					}
					if update.Email == "" {
						update.Email = current.Email
					}
				}
				identity, err := app.Auth.UpdateProfile(ctx, update)
				if err != nil {
					return err
				}
				return out.print(identity)
			})
		},
	}
	cmd.Flags().StringVar(&update.Name, "name", "", "New display name")
	cmd.Flags().StringVar(&update.Email, "email", "", "New email")
	cmd.Flags().StringVar(&update.Password, "password", "", "New password")
	return cmd
}

func (r *runner) newProfilePictureCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "picture <image>",
		Short: "Upload a profile picture (JPEG, PNG or GIF, at most 5MB)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := upload.Open(args[0])
			if err != nil {
				return exitError(exitUsage, "%s", err.Error())
			}
			defer file.Close()

			return r.withApp(cmd, func(ctx context.Context, app *App, out printer) error {
				pic, err := app.Auth.UploadProfilePic(ctx, file.Upload)
				if err != nil {
					return err
				}
				return out.print(ports.ProfilePicData{ProfilePic: pic})
			})
		},
	}
}
