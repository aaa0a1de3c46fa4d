package cli

import (
	"bufio"
	"context"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jobportal/portal/internal/core/domain"
	"github.com/jobportal/portal/internal/core/ports"
	"github.com/jobportal/portal/internal/core/service"
)

type credentialFlags struct {
	role          string
	email         string
	password      string
	passwordStdin bool
}

func (f *credentialFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.role, "role", string(domain.RoleEmployee), "Account kind: admin | employee")
	cmd.Flags().StringVar(&f.email, "email", "", "Account email")
	cmd.Flags().StringVar(&f.password, "password", "", "Account password")
	cmd.Flags().BoolVar(&f.passwordStdin, "password-stdin", false, "Read the password from stdin")
	_ = cmd.MarkFlagRequired("email")
	cmd.MarkFlagsMutuallyExclusive("password", "password-stdin")
}

func (f *credentialFlags) resolve(cmd *cobra.Command) (domain.Role, string, error) {
	role, err := domain.ParseRole(f.role)
	if err != nil {
		return "", "", exitError(exitUsage, "%s", err.Error())
	}
	if !f.passwordStdin {
		return role, f.password, nil
	}
	password, err := readLine(cmd.InOrStdin())
	if err != nil {
		return "", "", err
	}
	return role, password, nil
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (r *runner) newLoginCmd() *cobra.Command {
	var f credentialFlags
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			role, password, err := f.resolve(cmd)
			if err != nil {
				return err
			}
			return r.withApp(cmd, func(ctx context.Context, app *App, out printer) error {
				sess, err := app.Auth.Login(ctx, role, ports.Credentials{Email: f.email, Password: password})
				if err != nil {
					return err
				}
				return out.print(sess.Identity)
			})
		},
	}
	f.register(cmd)
	return cmd
}

func (r *runner) newRegisterCmd() *cobra.Command {
	var (
		f    credentialFlags
		name string
	)
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and store the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			role, password, err := f.resolve(cmd)
			if err != nil {
				return err
			}
			return r.withApp(cmd, func(ctx context.Context, app *App, out printer) error {
				sess, err := app.Auth.Register(ctx, role, ports.Registration{
					Name:     name,
					Email:    f.email,
					Password: password,
				})
				if err != nil {
					return err
				}
				return out.print(sess.Identity)
			})
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	return cmd
}

func (r *runner) newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, func(ctx context.Context, app *App, out printer) error {
				app.Auth.Logout(ctx)
				return out.message("Logged out")
			})
		},
	}
}

type whoami struct {
	State string             `json:"state"`
	User  *domain.Identity   `json:"user,omitempty"`
	Token *service.TokenInfo `json:"token,omitempty"`
}

func (r *runner) newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, func(ctx context.Context, app *App, out printer) error {
				user, err := app.Auth.CurrentUser(ctx)
				if err != nil {
					return err
				}
				resp := whoami{State: app.Auth.State(ctx).String(), User: user}
				if app.Store != nil {
					if token, err := app.Store.Token(ctx); err == nil && token != "" {
						resp.Token, _ = service.InspectToken(token, time.Now())
					}
				}
				return out.print(resp)
			})
		},
	}
}
