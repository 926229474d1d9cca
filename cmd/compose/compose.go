// Package compose implements the mapping composition subcommand: it seeds
// an editing session from the catalogs, applies the requested selections
// and selector edits, and saves the result.
package compose

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AyeshaZahid477412/leadgen-admin/internal/conf"
	"github.com/AyeshaZahid477412/leadgen-admin/internal/editor"
	"github.com/AyeshaZahid477412/leadgen-admin/internal/gateway"
)

// Command creates the compose command.
func Command(settings *conf.Settings) *cobra.Command {
	var (
		source     string
		pageURL    string
		sourceID   int64
		entities   []string
		fields     []string
		extracts   []string
		containers []string
		disabled   []string
		review     bool
	)

	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Compose and save mappings for one or more entities",
		Example: `  leadgen-admin compose --source Acme --url https://acme.test/companies \
    --entity company \
    --field company:name=h3.title \
    --field company:website=a.site --extract company:website=href`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := gateway.NewClient(gateway.Config{
				BaseURL:  settings.Backend.BaseURL,
				Timeout:  settings.Backend.Timeout,
				CacheTTL: settings.Backend.CacheTTL,
			})
			if err != nil {
				return err
			}

			schemas, err := client.Entities(cmd.Context())
			if err != nil {
				return err
			}
			sources, err := client.Sources(cmd.Context())
			if err != nil {
				return err
			}

			session := editor.NewSession()
			session.LoadCatalog(schemas, sources)

			if sourceID != 0 {
				bound := false
				for _, s := range session.Sources() {
					if s.ID == sourceID {
						session.UseSource(s)
						bound = true
						break
					}
				}
				if !bound {
					return fmt.Errorf("no source with id %d", sourceID)
				}
			}
			if source != "" {
				session.SetSourceName(source)
			}
			if pageURL != "" {
				session.SetURL(pageURL)
			}

			for _, entity := range entities {
				if err := session.ToggleSelection(entity); err != nil {
					return err
				}
			}
			for _, spec := range fields {
				entity, attribute, selector, err := splitEntitySpec(spec)
				if err != nil {
					return err
				}
				if err := session.SetSelector(entity, attribute, selector); err != nil {
					return err
				}
			}
			for _, spec := range extracts {
				entity, attribute, kind, err := splitEntitySpec(spec)
				if err != nil {
					return err
				}
				if err := session.SetExtract(entity, attribute, kind); err != nil {
					return err
				}
			}
			for _, spec := range containers {
				entity, selector, ok := strings.Cut(spec, "=")
				if !ok {
					return fmt.Errorf("invalid container spec %q, expected entity=selector", spec)
				}
				if err := session.SetContainerSelector(entity, selector); err != nil {
					return err
				}
			}
			for _, entity := range disabled {
				if err := session.ToggleEntity(entity); err != nil {
					return err
				}
			}

			if review {
				for _, entity := range session.Selected() {
					rendered, err := session.Review(entity)
					if err != nil {
						return err
					}
					fmt.Println(rendered)
				}
				return nil
			}

			req, err := session.BuildSaveRequest()
			if err != nil {
				return err
			}
			message, err := client.SaveMappings(cmd.Context(), req)
			if err != nil {
				return err
			}
			client.InvalidateCatalog() // a save may create a new source

			if message == "" {
				message = fmt.Sprintf("Saved %d mapping(s)", len(req.EntityMappings))
			}
			fmt.Println(message)
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "Source name (free text)")
	cmd.Flags().StringVar(&pageURL, "url", "", "Source page URL")
	cmd.Flags().Int64Var(&sourceID, "use-source-id", 0, "Bind an existing source by id, filling name and URL")
	cmd.Flags().StringArrayVar(&entities, "entity", nil, "Entity to include in the save (repeatable)")
	cmd.Flags().StringArrayVar(&fields, "field", nil, "Selector as entity:attribute=selector (repeatable)")
	cmd.Flags().StringArrayVar(&extracts, "extract", nil, "Extraction kind as entity:attribute=kind (repeatable)")
	cmd.Flags().StringArrayVar(&containers, "container", nil, "Container selector as entity=selector (repeatable)")
	cmd.Flags().StringArrayVar(&disabled, "disable", nil, "Save the entity's mapping disabled (repeatable)")
	cmd.Flags().BoolVar(&review, "review", false, "Print the drafts as JSON instead of saving")
	return cmd
}

// splitEntitySpec parses "entity:attribute=value".
func splitEntitySpec(spec string) (entity, attribute, value string, err error) {
	key, value, ok := strings.Cut(spec, "=")
	if !ok {
		return "", "", "", fmt.Errorf("invalid spec %q, expected entity:attribute=value", spec)
	}
	entity, attribute, ok = strings.Cut(key, ":")
	if !ok || entity == "" || attribute == "" {
		return "", "", "", fmt.Errorf("invalid spec %q, expected entity:attribute=value", spec)
	}
	return entity, attribute, value, nil
}
