package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/kanbanwave/pkg/types"
)

func newBoardCmd(f *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Create, list, and arrange boards",
	}
	cmd.AddCommand(
		newBoardCreateCmd(f),
		newBoardListCmd(f),
		newBoardShowCmd(f),
		newBoardRenameCmd(f),
		newBoardDeleteCmd(f),
		newBoardMoveCmd(f),
	)
	return cmd
}

func newBoardCreateCmd(f *rootFlags) *cobra.Command {
	var title string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a board at the end of the board order",
		Example: `  kanban board create --title "Project 1"
  kanban board create --title "Scrum Board" --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, f, func(ctx context.Context, s *session) error {
				b, err := s.svc.CreateBoard(ctx, types.BoardForm{Title: title})
				if err != nil {
					return err
				}
				if f.jsonMode {
					return printJSON(cmd.OutOrStdout(), b)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created board: %s\n", b.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "board title (required)")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newBoardListCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List boards in order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, f, func(ctx context.Context, s *session) error {
				boards, err := s.svc.ListBoards(ctx)
				if err != nil {
					return err
				}
				if f.jsonMode {
					return printJSON(cmd.OutOrStdout(), boards)
				}
				return printBoards(cmd.OutOrStdout(), boards)
			})
		},
	}
}

func newBoardShowCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show <board-id>",
		Short: "Show a board with its lists and cards in order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, f, func(ctx context.Context, s *session) error {
				bc, err := s.svc.GetBoardContent(ctx, args[0])
				if err != nil {
					return err
				}
				if f.jsonMode {
					return printJSON(cmd.OutOrStdout(), bc)
				}
				return printBoardContent(cmd.OutOrStdout(), bc)
			})
		},
	}
}

func newBoardRenameCmd(f *rootFlags) *cobra.Command {
	var title string
	cmd := &cobra.Command{
		Use:   "rename <board-id>",
		Short: "Change a board's title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, f, func(ctx context.Context, s *session) error {
				b := types.Board{ID: args[0], Title: title}
				if err := s.svc.UpdateBoard(ctx, b); err != nil {
					return err
				}
				if f.jsonMode {
					return printJSON(cmd.OutOrStdout(), b)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Renamed board: %s\n", b.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "new title (required)")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newBoardDeleteCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <board-id>",
		Short: "Delete a board with all its lists and cards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, f, func(ctx context.Context, s *session) error {
				if err := s.svc.DeleteBoard(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted board: %s\n", args[0])
				return nil
			})
		},
	}
}

func newBoardMoveCmd(f *rootFlags) *cobra.Command {
	var index int
	cmd := &cobra.Command{
		Use:   "move <board-id>",
		Short: "Move a board to a position in the board order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, f, func(ctx context.Context, s *session) error {
				if err := s.svc.ReorderBoard(ctx, args[0], index); err != nil {
					return err
				}
				boards, err := s.svc.ListBoards(ctx)
				if err != nil {
					return err
				}
				if f.jsonMode {
					return printJSON(cmd.OutOrStdout(), boards)
				}
				return printBoards(cmd.OutOrStdout(), boards)
			})
		},
	}
	cmd.Flags().IntVar(&index, "index", 0, "target position, clamped to the board count")
	return cmd
}
