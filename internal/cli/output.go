package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/mesh-intelligence/kanbanwave/pkg/types"
)

func printJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func printBoards(w io.Writer, boards []types.Board) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tID\tTITLE")
	for i, b := range boards {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", i, b.ID, b.Title)
	}
	return tw.Flush()
}

// printBoardContent prints each list with its cards indented beneath it.
func printBoardContent(w io.Writer, bc types.BoardContent) error {
	fmt.Fprintf(w, "%s  %s\n", bc.Title, bc.ID)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, l := range bc.Lists {
		fmt.Fprintf(tw, "  [%d]\t%s\t%s\n", i, l.Title, l.ID)
		for j, c := range l.Cards {
			due := ""
			if !c.DueDate.IsZero() {
				due = "due " + c.DueDate.Format("2006-01-02")
			}
			fmt.Fprintf(tw, "      %d.\t%s\t%s\t%s\n", j, c.Title, c.ID, due)
		}
	}
	return tw.Flush()
}
