// Package preview implements the sample extraction and raw page preview
// subcommands.
package preview

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AyeshaZahid477412/leadgen-admin/internal/conf"
	"github.com/AyeshaZahid477412/leadgen-admin/internal/editor"
	"github.com/AyeshaZahid477412/leadgen-admin/internal/gateway"
	"github.com/AyeshaZahid477412/leadgen-admin/internal/mapping"
	"github.com/AyeshaZahid477412/leadgen-admin/internal/preview"
)

// Command creates the preview command and its subcommands.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Preview extraction rules before saving",
	}

	cmd.AddCommand(entityCommand(settings), pageCommand(settings))
	return cmd
}

func entityCommand(settings *conf.Settings) *cobra.Command {
	var (
		entity    string
		source    string
		pageURL   string
		container string
		fields    []string
	)

	cmd := &cobra.Command{
		Use:   "entity",
		Short: "Run a sample extraction for a draft mapping",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient(settings)
			if err != nil {
				return err
			}

			draft := editor.EntityDraft{
				EntityName:        entity,
				Enabled:           true,
				ContainerSelector: container,
			}
			for _, spec := range fields {
				attribute, selector, ok := strings.Cut(spec, "=")
				if !ok || strings.TrimSpace(attribute) == "" {
					return fmt.Errorf("invalid field spec %q, expected attribute=selector", spec)
				}
				draft.Fields = append(draft.Fields, editor.FieldDraft{
					Attribute: strings.TrimSpace(attribute),
					Selector:  selector,
					Extract:   mapping.ExtractText,
				})
			}

			result, err := preview.NewOrchestrator(client).Preview(cmd.Context(), draft, source, pageURL)
			if err != nil {
				return err
			}

			fmt.Printf("%d item(s) on the page, showing %d:\n\n", result.TotalItems, len(result.Rows))
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(result.Rows)
		},
	}

	cmd.Flags().StringVar(&entity, "entity", "", "Entity name to extract")
	cmd.Flags().StringVar(&source, "source", "", "Source name")
	cmd.Flags().StringVar(&pageURL, "url", "", "Page URL to extract from")
	cmd.Flags().StringVar(&container, "container", "", "Container selector scoping the field selectors")
	cmd.Flags().StringArrayVar(&fields, "field", nil, "Field mapping as attribute=selector (repeatable)")
	_ = cmd.MarkFlagRequired("entity")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}

func pageCommand(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "page <url>",
		Short: "Fetch a page through the backend and render it as text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pageURL := strings.TrimSpace(args[0])
			lowered := strings.ToLower(pageURL)
			if !strings.HasPrefix(lowered, "http://") && !strings.HasPrefix(lowered, "https://") {
				return fmt.Errorf("url must be http(s), got %q", pageURL)
			}

			client, err := newClient(settings)
			if err != nil {
				return err
			}

			done := make(chan preview.RawResult, 1)
			previewer := preview.NewRawPreviewer(client, settings.Preview.Debounce, func(r preview.RawResult) {
				done <- r
			})
			defer previewer.Stop()

			previewer.SetURL(pageURL)

			select {
			case result := <-done:
				if result.Err != nil {
					return result.Err
				}
				fmt.Println(result.Text)
				return nil
			case <-cmd.Context().Done():
				return cmd.Context().Err()
			}
		},
	}
}

func newClient(settings *conf.Settings) (*gateway.Client, error) {
	return gateway.NewClient(gateway.Config{
		BaseURL:  settings.Backend.BaseURL,
		Timeout:  settings.Backend.Timeout,
		CacheTTL: settings.Backend.CacheTTL,
	})
}
