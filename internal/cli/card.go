package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mesh-intelligence/kanbanwave/pkg/types"
)

// cardFields are the editable card flags shared by add and edit.
type cardFields struct {
	title       string
	description string
	writerID    string
	writerName  string
	writerEmail string
	start       string
	due         string
	relative    string
}

func (c *cardFields) register(fs *pflag.FlagSet) {
	fs.StringVar(&c.title, "title", "", "card title")
	fs.StringVar(&c.description, "description", "", "card description")
	fs.StringVar(&c.writerID, "writer-id", "", "writer ID")
	fs.StringVar(&c.writerName, "writer-name", "", "writer name")
	fs.StringVar(&c.writerEmail, "writer-email", "", "writer email")
	fs.StringVar(&c.start, "start", "", "start date (YYYY-MM-DD or RFC 3339)")
	fs.StringVar(&c.due, "due", "", "due date (YYYY-MM-DD or RFC 3339)")
	fs.StringVar(&c.relative, "relative", "", "relative date label, e.g. \"in 3 days\"")
}

// apply copies the flags that were set onto card.
func (c *cardFields) apply(fs *pflag.FlagSet, card *types.Card) error {
	if fs.Changed("title") {
		card.Title = c.title
	}
	if fs.Changed("description") {
		card.Description = c.description
	}
	if fs.Changed("writer-id") {
		card.Writer.ID = c.writerID
	}
	if fs.Changed("writer-name") {
		card.Writer.Name = c.writerName
	}
	if fs.Changed("writer-email") {
		card.Writer.Email = c.writerEmail
	}
	if fs.Changed("start") {
		t, err := parseDate(c.start)
		if err != nil {
			return fmt.Errorf("--start: %w", err)
		}
		card.StartDate = t
	}
	if fs.Changed("due") {
		t, err := parseDate(c.due)
		if err != nil {
			return fmt.Errorf("--due: %w", err)
		}
		card.DueDate = t
	}
	if fs.Changed("relative") {
		if c.relative == "" {
			card.RelativeDate = nil
		} else {
			r := c.relative
			card.RelativeDate = &r
		}
	}
	return nil
}

// parseDate accepts a calendar date or an RFC 3339 timestamp. An empty
// string clears the date.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func newCardCmd(f *rootFlags) *cobra.Command {
	var boardID string
	cmd := &cobra.Command{
		Use:   "card",
		Short: "Add, edit, delete, and move cards",
	}
	cmd.PersistentFlags().StringVar(&boardID, "board", "", "board ID (required)")
	_ = cmd.MarkPersistentFlagRequired("board")

	cmd.AddCommand(
		newCardAddCmd(f, &boardID),
		newCardEditCmd(f, &boardID),
		newCardDeleteCmd(f, &boardID),
		newCardMoveCmd(f, &boardID),
	)
	return cmd
}

func newCardAddCmd(f *rootFlags, boardID *string) *cobra.Command {
	var (
		listID string
		fields cardFields
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append a card to a list",
		Example: `  kanban card add --board B --list L --title "Write docs"
  kanban card add --board B --list L --title "Ship" --due 2026-03-04 --relative "in 3 days"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var c types.Card
			if err := fields.apply(cmd.Flags(), &c); err != nil {
				return err
			}
			return withSession(cmd, f, func(ctx context.Context, s *session) error {
				form := types.CardForm{
					Title:        c.Title,
					Writer:       c.Writer,
					Description:  c.Description,
					StartDate:    c.StartDate,
					DueDate:      c.DueDate,
					RelativeDate: c.RelativeDate,
				}
				card, err := s.svc.CreateCard(ctx, *boardID, listID, form)
				if err != nil {
					return err
				}
				if f.jsonMode {
					return printJSON(cmd.OutOrStdout(), card)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created card: %s\n", card.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&listID, "list", "", "list ID (required)")
	fields.register(cmd.Flags())
	_ = cmd.MarkFlagRequired("list")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newCardEditCmd(f *rootFlags, boardID *string) *cobra.Command {
	var (
		listID string
		fields cardFields
	)
	cmd := &cobra.Command{
		Use:   "edit <card-id>",
		Short: "Change the fields of a card; unset flags keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := fields.apply(cmd.Flags(), &types.Card{}); err != nil {
				return err
			}
			return withSession(cmd, f, func(ctx context.Context, s *session) error {
				card, err := s.svc.Cards().Get(listID, args[0])
				if err != nil {
					return fmt.Errorf("card %s: %w", args[0], err)
				}
				if err := fields.apply(cmd.Flags(), &card); err != nil {
					return err
				}
				if err := s.svc.UpdateCard(ctx, *boardID, listID, card); err != nil {
					return err
				}
				if f.jsonMode {
					return printJSON(cmd.OutOrStdout(), card)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated card: %s\n", card.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&listID, "list", "", "list ID (required)")
	fields.register(cmd.Flags())
	_ = cmd.MarkFlagRequired("list")
	return cmd
}

func newCardDeleteCmd(f *rootFlags, boardID *string) *cobra.Command {
	var listID string
	cmd := &cobra.Command{
		Use:   "delete <card-id>",
		Short: "Delete a card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, f, func(ctx context.Context, s *session) error {
				if err := s.svc.DeleteCard(ctx, *boardID, listID, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted card: %s\n", args[0])
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&listID, "list", "", "list ID (required)")
	_ = cmd.MarkFlagRequired("list")
	return cmd
}

func newCardMoveCmd(f *rootFlags, boardID *string) *cobra.Command {
	var (
		from, to string
		index    int
	)
	cmd := &cobra.Command{
		Use:   "move <card-id>",
		Short: "Move a card within a list or to another list on the board",
		Example: `  kanban card move C --board B --from L1 --index 0
  kanban card move C --board B --from L1 --to L2 --index 3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dst := to
			if dst == "" {
				dst = from
			}
			return withSession(cmd, f, func(ctx context.Context, s *session) error {
				if err := s.svc.ReorderCard(ctx, *boardID, from, dst, args[0], index); err != nil {
					return err
				}
				return showBoard(ctx, cmd, f, s, *boardID)
			})
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "source list ID (required)")
	cmd.Flags().StringVar(&to, "to", "", "destination list ID (default: the source list)")
	cmd.Flags().IntVar(&index, "index", 0, "target position in the destination list")
	_ = cmd.MarkFlagRequired("from")
	return cmd
}
