package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/nhle/taskboard/internal/api"
	"github.com/nhle/taskboard/internal/app"
	"github.com/nhle/taskboard/internal/model"
)

// promptLogin asks for whatever part of the credentials is missing.
func promptLogin(email, password *string) error {
	var fields []huh.Field
	if *email == "" {
		fields = append(fields, huh.NewInput().Title("Email").Value(email))
	}
	if *password == "" {
		fields = append(fields, huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(password))
	}
	if len(fields) == 0 {
		return nil
	}
	return huh.NewForm(huh.NewGroup(fields...)).Run()
}

func loginCmd(env *Env) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" || password == "" {
				if err := promptLogin(&email, &password); err != nil {
					return err
				}
			}
			if err := app.ValidateLogin(email, password); err != nil {
				return err
			}

			sess, client, err := env.session()
			if err != nil {
				return err
			}
			resp, err := client.Login(cmd.Context(), api.Credentials{Email: email, Password: password})
			if err != nil {
				return err
			}
			if err := sess.Begin(resp.Token, resp.User); err != nil {
				return err
			}
			return env.emit(out(cmd), resp.User, func(w io.Writer) {
				fmt.Fprintf(w, "Logged in as %s\n", resp.User.Name())
			})
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password (prompted when empty)")

	return cmd
}

func logoutCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := env.session()
			if err != nil {
				return err
			}
			if err := sess.End(); err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), "Logged out")
			return nil
		},
	}
}

func sendCodeCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "send-code <email>",
		Short: "Mail a registration code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.ValidateEmail(args[0]); err != nil {
				return err
			}
			_, client, err := env.session()
			if err != nil {
				return err
			}
			if err := client.SendCode(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "Verification code sent to %s\n", args[0])
			return nil
		},
	}
}

func registerCmd(env *Env) *cobra.Command {
	var email, password, confirm, code string
	var fromMailbox bool
	var wait time.Duration

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account with a mailed code",
		RunE: func(cmd *cobra.Command, args []string) error {
			if confirm == "" {
				confirm = password
			}
			if code == "" && fromMailbox {
				if err := app.ValidateEmail(email); err != nil {
					return err
				}
				_, client, err := env.session()
				if err != nil {
					return err
				}
				since := time.Now().Add(-time.Minute)
				if err := client.SendCode(cmd.Context(), email); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Waiting for the code mailed to %s\n", email)
				if code, err = env.awaitCode(cmd.Context(), email, since, wait); err != nil {
					return err
				}
			}
			if err := app.ValidateRegistration(email, password, confirm, code); err != nil {
				return err
			}
			_, client, err := env.session()
			if err != nil {
				return err
			}
			u, err := client.Register(cmd.Context(), api.Registration{Email: email, Password: password, Code: code})
			if err != nil {
				return err
			}
			return env.emit(out(cmd), u, func(w io.Writer) {
				fmt.Fprintf(w, "Registered %s, run taskboard login next\n", u.Email)
			})
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password")
	cmd.Flags().StringVar(&confirm, "confirm", "", "Password again (defaults to --password)")
	cmd.Flags().StringVarP(&code, "code", "c", "", "Verification code from send-code")
	cmd.Flags().BoolVar(&fromMailbox, "from-mailbox", false, "Send a code and read it from the configured inbox")
	cmd.Flags().DurationVar(&wait, "wait", 2*time.Minute, "How long --from-mailbox waits for the mail")

	return cmd
}

func printUser(w io.Writer, u model.User) {
	fmt.Fprintf(w, "%s <%s>\n", u.Name(), u.Email)
	if u.Role != "" {
		fmt.Fprintf(w, "role: %s\n", u.Role)
	}
	if u.AvatarURL != "" {
		fmt.Fprintf(w, "avatar: %s\n", u.AvatarURL)
	}
}

func whoamiCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := env.loggedIn(cmd.Context())
			if err != nil {
				return err
			}
			u, _ := sess.User()
			return env.emit(out(cmd), u, func(w io.Writer) { printUser(w, u) })
		},
	}
}

func profileCmd(env *Env) *cobra.Command {
	var name, avatar string

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Change the display name or avatar",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, client, err := env.loggedIn(cmd.Context())
			if err != nil {
				return err
			}
			cur, _ := sess.User()
			p := api.ProfileUpdate{DisplayName: cur.DisplayName, AvatarURL: cur.AvatarURL}
			if cmd.Flags().Changed("name") {
				p.DisplayName = name
			}
			if cmd.Flags().Changed("avatar") {
				p.AvatarURL = avatar
			}
			u, err := client.UpdateProfile(cmd.Context(), p)
			if err != nil {
				return err
			}
			sess.SetUser(u)
			return env.emit(out(cmd), u, func(w io.Writer) { printUser(w, u) })
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&avatar, "avatar", "", "Avatar URL")

	return cmd
}
