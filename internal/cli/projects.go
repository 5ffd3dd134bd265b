package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nhle/taskboard/internal/api"
	"github.com/nhle/taskboard/internal/app"
	"github.com/nhle/taskboard/internal/model"
)

func parseID(s, what string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", what, s)
	}
	return id, nil
}

func projectsCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := env.loggedIn(cmd.Context())
			if err != nil {
				return err
			}
			list, err := client.ListProjects(cmd.Context())
			if err != nil {
				return err
			}
			return env.emit(out(cmd), list, func(w io.Writer) {
				if len(list) == 0 {
					fmt.Fprintln(w, "No projects")
					return
				}
				for _, p := range list {
					fmt.Fprintf(w, "%4d  %s\n", p.ID, p.Name)
				}
			})
		},
	}

	cmd.AddCommand(projectAddCmd(env))
	cmd.AddCommand(projectRenameCmd(env))
	cmd.AddCommand(projectRemoveCmd(env))

	return cmd
}

func printProject(w io.Writer, verb string, p model.Project) {
	fmt.Fprintf(w, "%s project %d %q\n", verb, p.ID, p.Name)
}

func projectAddCmd(env *Env) *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.ValidateProjectName(args[0]); err != nil {
				return err
			}
			_, client, err := env.loggedIn(cmd.Context())
			if err != nil {
				return err
			}
			p, err := client.CreateProject(cmd.Context(), api.ProjectInput{Name: args[0], Description: description})
			if err != nil {
				return err
			}
			return env.emit(out(cmd), p, func(w io.Writer) { printProject(w, "Created", p) })
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Project description")
	return cmd
}

func projectRenameCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "project")
			if err != nil {
				return err
			}
			if err := app.ValidateProjectName(args[1]); err != nil {
				return err
			}
			_, client, err := env.loggedIn(cmd.Context())
			if err != nil {
				return err
			}
			cur, err := client.GetProject(cmd.Context(), id)
			if err != nil {
				return err
			}
			p, err := client.UpdateProject(cmd.Context(), id, api.ProjectInput{Name: args[1], Description: cur.Description})
			if err != nil {
				return err
			}
			return env.emit(out(cmd), p, func(w io.Writer) { printProject(w, "Renamed", p) })
		},
	}
}

func projectRemoveCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a project and its tasks",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "project")
			if err != nil {
				return err
			}
			_, client, err := env.loggedIn(cmd.Context())
			if err != nil {
				return err
			}
			if err := client.DeleteProject(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "Deleted project %d\n", id)
			return nil
		},
	}
}
