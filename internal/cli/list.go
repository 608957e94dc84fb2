package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/kanbanwave/pkg/types"
)

func newListCmd(f *rootFlags) *cobra.Command {
	var boardID string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Add, rename, delete, and move lists on a board",
	}
	cmd.PersistentFlags().StringVar(&boardID, "board", "", "board ID (required)")
	_ = cmd.MarkPersistentFlagRequired("board")

	var title string
	add := &cobra.Command{
		Use:   "add",
		Short: "Append a list to the board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, f, func(ctx context.Context, s *session) error {
				l, err := s.svc.CreateList(ctx, boardID, types.ListForm{Title: title})
				if err != nil {
					return err
				}
				if f.jsonMode {
					return printJSON(cmd.OutOrStdout(), l)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created list: %s\n", l.ID)
				return nil
			})
		},
	}
	add.Flags().StringVar(&title, "title", "", "list title (required)")
	_ = add.MarkFlagRequired("title")

	var newTitle string
	rename := &cobra.Command{
		Use:   "rename <list-id>",
		Short: "Change a list's title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, f, func(ctx context.Context, s *session) error {
				l := types.List{ID: args[0], Title: newTitle, BoardID: boardID}
				if err := s.svc.UpdateList(ctx, boardID, l); err != nil {
					return err
				}
				if f.jsonMode {
					return printJSON(cmd.OutOrStdout(), l)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Renamed list: %s\n", l.ID)
				return nil
			})
		},
	}
	rename.Flags().StringVar(&newTitle, "title", "", "new title (required)")
	_ = rename.MarkFlagRequired("title")

	del := &cobra.Command{
		Use:   "delete <list-id>",
		Short: "Delete a list with its cards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, f, func(ctx context.Context, s *session) error {
				if err := s.svc.DeleteList(ctx, boardID, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted list: %s\n", args[0])
				return nil
			})
		},
	}

	var index int
	move := &cobra.Command{
		Use:   "move <list-id>",
		Short: "Move a list to a position on its board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, f, func(ctx context.Context, s *session) error {
				if err := s.svc.ReorderList(ctx, boardID, args[0], index); err != nil {
					return err
				}
				return showBoard(ctx, cmd, f, s, boardID)
			})
		},
	}
	move.Flags().IntVar(&index, "index", 0, "target position, clamped to the list count")

	cmd.AddCommand(add, rename, del, move)
	return cmd
}

// showBoard prints the board's current content.
func showBoard(ctx context.Context, cmd *cobra.Command, f *rootFlags, s *session, boardID string) error {
	bc, err := s.svc.GetBoardContent(ctx, boardID)
	if err != nil {
		return err
	}
	if f.jsonMode {
		return printJSON(cmd.OutOrStdout(), bc)
	}
	return printBoardContent(cmd.OutOrStdout(), bc)
}
