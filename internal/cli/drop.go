package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/kanbanwave/internal/reconcile"
	"github.com/mesh-intelligence/kanbanwave/pkg/types"
)

// dropOutput is the --json form of a settled drop.
type dropOutput struct {
	Status string             `json:"status"`
	Kind   string             `json:"kind,omitempty"`
	Error  string             `json:"error,omitempty"`
	Board  types.BoardContent `json:"board"`
}

func newDropCmd(f *rootFlags) *cobra.Command {
	var (
		boardID, itemType, itemID, from, to string
		index                               int
	)
	cmd := &cobra.Command{
		Use:   "drop",
		Short: "Apply a drag-and-drop result to a board",
		Long: `Drop applies a drag-and-drop result optimistically: the local view of the
board changes first, then the move is sent to storage. If storage rejects it,
the view is restored and the failure is reported.

Without --to the drag counts as cancelled and nothing changes.`,
		Example: `  kanban drop --board B --type CARD --item C --from L1 --to L2 --index 0
  kanban drop --board B --type LIST --item L --from B --to B --index 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ev := reconcile.DropEvent{
				ItemType:          reconcile.ItemType(strings.ToUpper(itemType)),
				ItemID:            itemID,
				SourceContainerID: from,
			}
			if cmd.Flags().Changed("to") {
				ev.Destination = &reconcile.Destination{ContainerID: to, Index: index}
			}

			return withSession(cmd, f, func(ctx context.Context, s *session) error {
				r := reconcile.New(s.svc, boardID, reconcile.WithLogger(s.logger))
				if err := r.Load(ctx); err != nil {
					return err
				}
				out := r.Drop(ctx, ev)

				if f.jsonMode {
					o := dropOutput{Status: out.Status.String(), Board: r.Content()}
					if !out.Result.OK() {
						o.Kind = out.Result.Kind.String()
						o.Error = out.Result.Err.Error()
					}
					if err := printJSON(cmd.OutOrStdout(), o); err != nil {
						return err
					}
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Drop %s\n", out.Status)
					if err := printBoardContent(cmd.OutOrStdout(), r.Content()); err != nil {
						return err
					}
				}

				if !out.Result.OK() {
					return fmt.Errorf("drop %s (%s): %w", out.Status, out.Result.Kind, out.Result.Err)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&boardID, "board", "", "board ID (required)")
	cmd.Flags().StringVar(&itemType, "type", "", "dragged item type: LIST or CARD (required)")
	cmd.Flags().StringVar(&itemID, "item", "", "dragged item ID (required)")
	cmd.Flags().StringVar(&from, "from", "", "source container: the board for lists, a list for cards")
	cmd.Flags().StringVar(&to, "to", "", "destination container; omit for a cancelled drag")
	cmd.Flags().IntVar(&index, "index", 0, "destination position")
	for _, name := range []string{"board", "type", "item"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}
