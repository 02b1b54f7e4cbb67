package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func parseID(what, s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, usagef("%s: not a valid id: %s", what, s)
	}
	return id, nil
}

func newListsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lists",
		Short: "Show all lists with their progress",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			lists, err := a.client.Lists(cmd.Context())
			if err != nil {
				return err
			}
			a.out.Panel(listsPanel(a.out, lists))
			return nil
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Create, show, rename, complete and remove lists",
		Args:  cobra.ArbitraryArgs,
		RunE:  groupRunE,
	}

	add := &cobra.Command{
		Use:   "add <name...>",
		Short: "Create a list (name can be multiple words)",
		Args:  minArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			l, err := a.client.CreateList(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			a.out.OK("added list " + strconv.Itoa(l.ID))
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a list and its items",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("show", args[0])
			if err != nil {
				return err
			}
			if err := a.requireSession(); err != nil {
				return err
			}
			l, err := a.client.List(cmd.Context(), id)
			if err != nil {
				return err
			}
			a.out.Panel(listPanel(a.out, l, a.group))
			return nil
		},
	}

	rename := &cobra.Command{
		Use:   "rename <id> <name...>",
		Short: "Rename a list",
		Args:  minArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("rename", args[0])
			if err != nil {
				return err
			}
			if err := a.requireSession(); err != nil {
				return err
			}
			if _, err := a.client.RenameList(cmd.Context(), id, strings.Join(args[1:], " ")); err != nil {
				return err
			}
			a.out.OK("renamed")
			return nil
		},
	}

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a list and its items",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("rm", args[0])
			if err != nil {
				return err
			}
			if err := a.requireSession(); err != nil {
				return err
			}
			if err := a.client.DeleteList(cmd.Context(), id); err != nil {
				return err
			}
			a.out.OK("removed")
			return nil
		},
	}

	var undo bool
	done := &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a list completed",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("done", args[0])
			if err != nil {
				return err
			}
			if err := a.requireSession(); err != nil {
				return err
			}
			if _, err := a.client.SetListCompleted(cmd.Context(), id, !undo); err != nil {
				return err
			}
			if undo {
				a.out.OK("reopened")
			} else {
				a.out.OK("completed")
			}
			return nil
		},
	}
	done.Flags().BoolVar(&undo, "undo", false, "mark the list as not completed")

	cmd.AddCommand(add, show, rename, rm, done)
	return cmd
}
