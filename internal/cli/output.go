package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/mesh-intelligence/coinage/pkg/types"
)

const dateLayout = "2006-01-02"

func printJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return sysError(fmt.Errorf("marshal JSON: %w", err))
	}
	fmt.Fprintln(w, string(out))
	return nil
}

// printNeologisms writes list as a table, or as JSON in --json mode.
func (a *app) printNeologisms(w io.Writer, list []types.Neologism) error {
	if a.flags.jsonMode {
		if list == nil {
			list = []types.Neologism{}
		}
		return printJSON(w, list)
	}
	if len(list) == 0 {
		fmt.Fprintln(w, "No neologisms found.")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tSTATUS\tCREATED")
	for _, n := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", n.ID, n.Name, n.Category, n.Status, n.CreatedAt.Format(dateLayout))
	}
	return tw.Flush()
}

// printNeologism writes one neologism in full.
func (a *app) printNeologism(w io.Writer, n types.Neologism) error {
	if a.flags.jsonMode {
		return printJSON(w, n)
	}
	fmt.Fprintf(w, "ID:          %s\n", n.ID)
	fmt.Fprintf(w, "Name:        %s\n", n.Name)
	fmt.Fprintf(w, "Root words:  %s\n", strings.Join(n.RootWords, ", "))
	fmt.Fprintf(w, "Category:    %s (%s)\n", n.Category, n.CategoryID)
	fmt.Fprintf(w, "Status:      %s\n", n.Status)
	fmt.Fprintf(w, "Definition:  %s\n", n.Definition)
	if n.ImageURL != "" {
		fmt.Fprintf(w, "Image:       %s\n", n.ImageURL)
	}
	fmt.Fprintf(w, "Created:     %s\n", n.CreatedAt.Format(dateLayout))
	return nil
}

func (a *app) printCategories(w io.Writer, list []types.Category) error {
	if a.flags.jsonMode {
		if list == nil {
			list = []types.Category{}
		}
		return printJSON(w, list)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME")
	for _, c := range list {
		fmt.Fprintf(tw, "%s\t%s\n", c.ID, c.Name)
	}
	return tw.Flush()
}
