package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/coinage/pkg/types"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize coinage configuration and storage",
		Long: `Create the configuration directory with a default config.yaml, then open
the catalog once so an empty mirror is seeded with the starter dataset.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ensureDefaultConfigFile(a.configDir); err != nil {
				return sysError(err)
			}

			var neologisms, categories int
			err := a.withCatalog(cmd.Context(), func(cat types.Catalog) error {
				return countCatalog(cmd.Context(), cat, &neologisms, &categories)
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if a.flags.jsonMode {
				return printJSON(out, map[string]any{
					"configDir":  a.configDir,
					"dataDir":    a.cfg.DataDir,
					"backend":    a.cfg.Backend,
					"neologisms": neologisms,
					"categories": categories,
				})
			}
			fmt.Fprintln(out, "Coinage initialized successfully")
			fmt.Fprintln(out, "  config:", a.configDir)
			fmt.Fprintln(out, "  data:  ", a.cfg.DataDir)
			fmt.Fprintf(out, "  catalog: %d neologisms, %d categories\n", neologisms, categories)
			return nil
		},
	}
}

func countCatalog(ctx context.Context, cat types.Catalog, neologisms, categories *int) error {
	list, err := cat.Neologisms(ctx)
	if err != nil {
		return err
	}
	cats, err := cat.Categories(ctx)
	if err != nil {
		return err
	}
	*neologisms, *categories = len(list), len(cats)
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the coinage version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "coinage", Version)
		},
	}
}
