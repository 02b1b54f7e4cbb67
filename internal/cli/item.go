package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// itemArgs parses the leading <list-id> <item-id> pair.
func itemArgs(what string, args []string) (listID, id int, err error) {
	if listID, err = parseID(what, args[0]); err != nil {
		return 0, 0, err
	}
	if id, err = parseID(what, args[1]); err != nil {
		return 0, 0, err
	}
	return listID, id, nil
}

func newItemCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Add, complete, rename and remove items of a list",
		Args:  cobra.ArbitraryArgs,
		RunE:  groupRunE,
	}

	add := &cobra.Command{
		Use:   "add <list-id> <name...>",
		Short: "Add an item (name can be multiple words)",
		Args:  minArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			listID, err := parseID("add", args[0])
			if err != nil {
				return err
			}
			if err := a.requireSession(); err != nil {
				return err
			}
			it, err := a.client.CreateItem(cmd.Context(), listID, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			a.out.OK("added item " + strconv.Itoa(it.ID))
			return nil
		},
	}

	setCompleted := func(use, short, msg string, completed bool) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <list-id> <item-id>",
			Short: short,
			Args:  exactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				listID, id, err := itemArgs(use, args)
				if err != nil {
					return err
				}
				if err := a.requireSession(); err != nil {
					return err
				}
				if _, err := a.client.SetItemCompleted(cmd.Context(), listID, id, completed); err != nil {
					return err
				}
				a.out.OK(msg)
				return nil
			},
		}
	}

	rename := &cobra.Command{
		Use:   "rename <list-id> <item-id> <name...>",
		Short: "Rename an item",
		Args:  minArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			listID, id, err := itemArgs("rename", args)
			if err != nil {
				return err
			}
			if err := a.requireSession(); err != nil {
				return err
			}
			if _, err := a.client.RenameItem(cmd.Context(), listID, id, strings.Join(args[2:], " ")); err != nil {
				return err
			}
			a.out.OK("renamed")
			return nil
		},
	}

	rm := &cobra.Command{
		Use:   "rm <list-id> <item-id>",
		Short: "Remove an item",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			listID, id, err := itemArgs("rm", args)
			if err != nil {
				return err
			}
			if err := a.requireSession(); err != nil {
				return err
			}
			if err := a.client.DeleteItem(cmd.Context(), listID, id); err != nil {
				return err
			}
			a.out.OK("removed")
			return nil
		},
	}

	cmd.AddCommand(
		add,
		setCompleted("done", "Mark an item completed", "completed", true),
		setCompleted("undone", "Mark an item pending", "reopened", false),
		rename,
		rm,
	)
	return cmd
}
