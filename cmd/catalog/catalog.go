// Package catalog implements the entity and source catalog subcommands.
package catalog

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/AyeshaZahid477412/leadgen-admin/internal/conf"
	"github.com/AyeshaZahid477412/leadgen-admin/internal/gateway"
)

// Command creates the catalog command and its subcommands.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the entity and source catalogs",
	}

	var refresh bool
	cmd.PersistentFlags().BoolVar(&refresh, "refresh", false, "Drop the cached catalogs before reading")

	entitiesCmd := &cobra.Command{
		Use:   "entities",
		Short: "List entity schemas",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient(settings)
			if err != nil {
				return err
			}
			if refresh {
				client.InvalidateCatalog()
			}

			entities, err := client.Entities(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
			fmt.Fprintln(w, "ENTITY\tCOLUMNS")
			for _, entity := range entities {
				fmt.Fprintf(w, "%s\t%s\n", entity.Name, strings.Join(entity.Columns, ", "))
			}
			return w.Flush()
		},
	}

	sourcesCmd := &cobra.Command{
		Use:   "sources",
		Short: "List known sources",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient(settings)
			if err != nil {
				return err
			}
			if refresh {
				client.InvalidateCatalog()
			}

			sources, err := client.Sources(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tURL")
			for _, source := range sources {
				fmt.Fprintf(w, "%d\t%s\t%s\n", source.ID, source.Name, source.URL)
			}
			return w.Flush()
		},
	}

	cmd.AddCommand(entitiesCmd, sourcesCmd)
	return cmd
}

func newClient(settings *conf.Settings) (*gateway.Client, error) {
	return gateway.NewClient(gateway.Config{
		BaseURL:  settings.Backend.BaseURL,
		Timeout:  settings.Backend.Timeout,
		CacheTTL: settings.Backend.CacheTTL,
	})
}
