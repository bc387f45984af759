package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/coinage/internal/catalog"
	"github.com/mesh-intelligence/coinage/pkg/types"
)

type neologismFlags struct {
	name       string
	definition string
	rootWords  string
	category   string
	imageURL   string
	status     string
}

func (f *neologismFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "the coined word")
	cmd.Flags().StringVar(&f.definition, "definition", "", "what the word means")
	cmd.Flags().StringVar(&f.rootWords, "root-words", "", "comma-separated root words")
	cmd.Flags().StringVar(&f.category, "category", "", "category id or name")
	cmd.Flags().StringVar(&f.imageURL, "image-url", "", "illustration URL")
}

func newAddCmd(a *app) *cobra.Command {
	var f neologismFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a neologism",
		Example: `  coinage add --name Doomscrolling --root-words Doom,Scrolling \
    --category Technology --definition "Scrolling through bad news."`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := a.parseStatus(f.status)
			if err != nil {
				return userError(err)
			}
			return a.withCatalog(cmd.Context(), func(cat types.Catalog) error {
				categoryID, err := resolveCategory(cmd.Context(), cat, f.category)
				if err != nil {
					return err
				}
				n, err := cat.AddNeologism(cmd.Context(), types.Draft{
					Name:       strings.TrimSpace(f.name),
					RootWords:  types.SplitRootWords(f.rootWords),
					CategoryID: categoryID,
					Definition: strings.TrimSpace(f.definition),
					ImageURL:   strings.TrimSpace(f.imageURL),
					Status:     status,
				})
				if err != nil {
					return err
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), n)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s: %s\n", n.ID, n.Name)
				return nil
			})
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&f.status, "status", string(types.StatusDraft), "Draft, Ready or Rejected")
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Display a neologism with full details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withCatalog(cmd.Context(), func(cat types.Catalog) error {
				n, err := cat.Neologism(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return a.printNeologism(cmd.OutOrStdout(), n)
			})
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	var query, category, status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List neologisms, newest first",
		Long: `List neologisms, newest first. --query, --category and --status narrow
the list; all given filters must match. "all" disables a filter.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			statusFilter, err := a.parseStatusFilter(status)
			if err != nil {
				return userError(err)
			}
			return a.withCatalog(cmd.Context(), func(cat types.Catalog) error {
				list, err := cat.SearchNeologisms(cmd.Context(), query)
				if err != nil {
					return err
				}
				if category != "" && category != types.FilterAll {
					id, err := resolveCategory(cmd.Context(), cat, category)
					if err != nil {
						return err
					}
					list = catalog.FilterByCategory(list, id)
				}
				list = catalog.FilterByStatus(list, statusFilter)
				return a.printNeologisms(cmd.OutOrStdout(), list)
			})
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "text to match in name, definition or root words")
	cmd.Flags().StringVar(&category, "category", "", "category id or name")
	cmd.Flags().StringVar(&status, "status", "", "Draft, Ready, Rejected or all")
	return cmd
}

func newSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <text>",
		Short: "Search names, definitions and root words, ignoring case",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withCatalog(cmd.Context(), func(cat types.Catalog) error {
				list, err := cat.SearchNeologisms(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return a.printNeologisms(cmd.OutOrStdout(), list)
			})
		},
	}
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Move a neologism to Draft, Ready or Rejected",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := a.parseStatus(args[1])
			if err != nil {
				return userError(err)
			}
			return a.withCatalog(cmd.Context(), func(cat types.Catalog) error {
				ctx := cmd.Context()
				if _, err := cat.Neologism(ctx, args[0]); err != nil {
					return err
				}
				if err := cat.UpdateNeologismStatus(ctx, args[0], status); err != nil {
					return err
				}
				n, err := cat.Neologism(ctx, args[0])
				if err != nil {
					return err
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), n)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", n.Name, n.Status)
				return nil
			})
		},
	}
}

func newEditCmd(a *app) *cobra.Command {
	var f neologismFlags
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a neologism",
		Long:  "Change the given fields of a neologism. Fields without a flag keep their value.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			changed := cmd.Flags().Changed
			return a.withCatalog(cmd.Context(), func(cat types.Catalog) error {
				ctx := cmd.Context()
				n, err := cat.Neologism(ctx, args[0])
				if err != nil {
					return err
				}
				if changed("name") {
					n.Name = strings.TrimSpace(f.name)
				}
				if changed("definition") {
					n.Definition = strings.TrimSpace(f.definition)
				}
				if changed("root-words") {
					n.RootWords = types.SplitRootWords(f.rootWords)
				}
				if changed("image-url") {
					n.ImageURL = strings.TrimSpace(f.imageURL)
				}
				if changed("category") {
					if n.CategoryID, err = resolveCategory(ctx, cat, f.category); err != nil {
						return err
					}
					n.Category = ""
				}
				if changed("status") {
					if n.Status, err = a.parseStatus(f.status); err != nil {
						return err
					}
				}
				if err := cat.UpdateNeologism(ctx, n); err != nil {
					return err
				}
				updated, err := cat.Neologism(ctx, n.ID)
				if err != nil {
					return err
				}
				return a.printNeologism(cmd.OutOrStdout(), updated)
			})
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&f.status, "status", "", "Draft, Ready or Rejected")
	return cmd
}

func newFeaturedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "featured",
		Short: "Show a random Ready neologism",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withCatalog(cmd.Context(), func(cat types.Catalog) error {
				n, ok, err := cat.RandomNeologism(cmd.Context())
				if err != nil {
					return err
				}
				return a.printOptional(cmd, n, ok, "No Ready neologisms to feature.")
			})
		},
	}
}

func newLatestCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "latest",
		Short: "Show the newest neologism",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withCatalog(cmd.Context(), func(cat types.Catalog) error {
				n, ok, err := cat.LatestNeologism(cmd.Context())
				if err != nil {
					return err
				}
				return a.printOptional(cmd, n, ok, "The catalog is empty.")
			})
		},
	}
}

func (a *app) printOptional(cmd *cobra.Command, n types.Neologism, ok bool, empty string) error {
	if !ok {
		if a.flags.jsonMode {
			return printJSON(cmd.OutOrStdout(), nil)
		}
		fmt.Fprintln(cmd.OutOrStdout(), empty)
		return nil
	}
	return a.printNeologism(cmd.OutOrStdout(), n)
}

// parseStatus accepts the workflow states in any case. Lenient catalogs
// take any other value verbatim.
func (a *app) parseStatus(s string) (types.Status, error) {
	st, err := types.ParseStatus(s)
	if err != nil && a.cfg.Validation == types.ValidationLenient {
		return types.Status(s), nil
	}
	return st, err
}

// parseStatusFilter is parseStatus for filters, where "" and "all" match
// everything.
func (a *app) parseStatusFilter(s string) (string, error) {
	if s == "" || strings.EqualFold(s, types.FilterAll) {
		return types.FilterAll, nil
	}
	st, err := a.parseStatus(s)
	return string(st), err
}

// resolveCategory maps a category id or case-insensitive name to its id.
// Unknown values pass through so validation reports them.
func resolveCategory(ctx context.Context, cat types.Catalog, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	cats, err := cat.Categories(ctx)
	if err != nil {
		return "", err
	}
	for _, c := range cats {
		if c.ID == value {
			return c.ID, nil
		}
	}
	for _, c := range cats {
		if strings.EqualFold(c.Name, value) {
			return c.ID, nil
		}
	}
	return value, nil
}
