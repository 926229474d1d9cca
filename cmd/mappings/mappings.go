// Package mappings implements the saved-mapping management subcommands:
// listing, inspection, editing, toggling and deletion.
package mappings

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/AyeshaZahid477412/leadgen-admin/internal/conf"
	"github.com/AyeshaZahid477412/leadgen-admin/internal/errors"
	"github.com/AyeshaZahid477412/leadgen-admin/internal/gateway"
	"github.com/AyeshaZahid477412/leadgen-admin/internal/manager"
	"github.com/AyeshaZahid477412/leadgen-admin/internal/mapping"
)

// Command creates the mappings command and its subcommands.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mappings",
		Short: "Manage saved field mappings",
	}

	cmd.AddCommand(
		listCommand(settings),
		showCommand(settings),
		deleteCommand(settings),
		toggleCommand(settings),
		editCommand(settings),
	)
	return cmd
}

func listCommand(settings *conf.Settings) *cobra.Command {
	var search string
	source := mapping.FilterAllSources

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved mappings with their status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := refreshedManager(cmd, settings)
			if err != nil {
				return err
			}

			records := m.Filter(search, source)
			stats := m.Stats()

			w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tENTITY\tSOURCE\tSTATUS\tFIELDS")
			for i := range records {
				record := &records[i]
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
					record.MappingName,
					record.EntityName,
					mapping.DisplaySourceName(record),
					mapping.Resolve(record),
					len(record.FieldMappings))
			}
			if err := w.Flush(); err != nil {
				return err
			}

			fmt.Printf("\n%d total, %d active, %d disabled, %d broken (refreshed %s)\n",
				stats.Total, stats.Active, stats.Disabled, stats.Broken,
				m.LastRefreshed().Format("15:04:05"))
			return nil
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "Filter by mapping, entity or source name")
	cmd.Flags().StringVar(&source, "source", mapping.FilterAllSources, "Filter by exact source name")
	return cmd
}

func showCommand(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "show <mapping-name>",
		Short: "Show one mapping's field rules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := refreshedManager(cmd, settings)
			if err != nil {
				return err
			}

			record, err := m.Record(args[0])
			if err != nil {
				return err
			}
			rows, err := m.Rows(args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Mapping:   %s\n", record.MappingName)
			fmt.Printf("Entity:    %s\n", record.EntityName)
			fmt.Printf("Source:    %s (id %d)\n", mapping.DisplaySourceName(record), record.SourceID)
			fmt.Printf("Status:    %s\n", mapping.Resolve(record))
			fmt.Printf("Container: %s\n", record.Container())

			w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
			fmt.Fprintln(w, "\nFIELD\tSELECTOR\tEXTRACT")
			for _, row := range rows {
				fmt.Fprintf(w, "%s\t%s\t%s\n", row.FieldName, row.Selector, row.Extract)
			}
			return w.Flush()
		},
	}
}

func deleteCommand(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <mapping-name>",
		Short: "Delete a mapping permanently",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := refreshedManager(cmd, settings)
			if err != nil {
				return err
			}

			err = m.Delete(cmd.Context(), args[0])
			if errors.Is(err, manager.ErrDeclined) {
				fmt.Println("Aborted.")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Printf("Deleted mapping %q\n", args[0])
			return nil
		},
	}
}

func toggleCommand(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <mapping-name>",
		Short: "Flip a mapping's enabled flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := refreshedManager(cmd, settings)
			if err != nil {
				return err
			}

			enabled, err := m.Toggle(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			state := "disabled"
			if enabled {
				state = "enabled"
			}
			fmt.Printf("Mapping %q is now %s\n", args[0], state)
			return nil
		},
	}
}

func editCommand(settings *conf.Settings) *cobra.Command {
	var (
		rename    string
		container string
		sourceID  int64
		enable    bool
		disable   bool
		fields    []string
		extracts  []string
		removes   []string
	)

	cmd := &cobra.Command{
		Use:   "edit <mapping-name>",
		Short: "Edit a mapping's name, container, fields or enabled flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if enable && disable {
				return fmt.Errorf("--enable and --disable are mutually exclusive")
			}

			m, err := refreshedManager(cmd, settings)
			if err != nil {
				return err
			}

			mappingName := args[0]
			record, err := m.Record(mappingName)
			if err != nil {
				return err
			}
			rows, err := m.Rows(mappingName)
			if err != nil {
				return err
			}

			rows, err = applyRowEdits(rows, fields, extracts, removes)
			if err != nil {
				return err
			}

			edited := manager.EditedRecord{
				MappingName:       record.MappingName,
				ContainerSelector: record.Container(),
				SourceID:          record.SourceID,
				Enabled:           record.IsEnabled(),
				Rows:              rows,
			}
			if rename != "" {
				edited.MappingName = rename
			}
			if cmd.Flags().Changed("container") {
				edited.ContainerSelector = container
			}
			if cmd.Flags().Changed("source-id") {
				edited.SourceID = sourceID
			}
			if enable {
				edited.Enabled = true
			}
			if disable {
				edited.Enabled = false
			}

			if err := m.Edit(cmd.Context(), mappingName, edited); err != nil {
				return err
			}
			fmt.Printf("Updated mapping %q\n", edited.MappingName)
			return nil
		},
	}

	cmd.Flags().StringVar(&rename, "rename", "", "New mapping name")
	cmd.Flags().StringVar(&container, "container", "", "Container selector (empty clears it)")
	cmd.Flags().Int64Var(&sourceID, "source-id", 0, "Bind the mapping to another source")
	cmd.Flags().BoolVar(&enable, "enable", false, "Enable the mapping")
	cmd.Flags().BoolVar(&disable, "disable", false, "Disable the mapping")
	cmd.Flags().StringArrayVar(&fields, "field", nil, "Set a field selector as attribute=selector (new fields allowed)")
	cmd.Flags().StringArrayVar(&extracts, "extract", nil, "Set a field extraction kind as attribute=kind")
	cmd.Flags().StringArrayVar(&removes, "remove-field", nil, "Remove a field row by attribute name")
	return cmd
}

// applyRowEdits applies --field, --extract and --remove-field edits to the
// row list. Unknown attributes in --field create new rows; unknown
// attributes elsewhere are an error.
func applyRowEdits(rows []mapping.FieldRow, fields, extracts, removes []string) ([]mapping.FieldRow, error) {
	find := func(attribute string) *mapping.FieldRow {
		for i := range rows {
			if rows[i].FieldName == attribute {
				return &rows[i]
			}
		}
		return nil
	}

	for _, spec := range fields {
		attribute, selector, err := splitSpec(spec)
		if err != nil {
			return nil, err
		}
		if row := find(attribute); row != nil {
			row.Selector = selector
			continue
		}
		rows = append(rows, mapping.NewFieldRow(attribute, selector, mapping.ExtractText))
	}

	for _, spec := range extracts {
		attribute, kind, err := splitSpec(spec)
		if err != nil {
			return nil, err
		}
		row := find(attribute)
		if row == nil {
			return nil, fmt.Errorf("no field row named %q", attribute)
		}
		row.Extract = mapping.NormalizeExtract(kind)
		if !row.Extract.Valid() {
			return nil, fmt.Errorf("unknown extraction kind %q", kind)
		}
	}

	for _, attribute := range removes {
		kept := rows[:0]
		found := false
		for _, row := range rows {
			if row.FieldName == attribute {
				found = true
				continue
			}
			kept = append(kept, row)
		}
		if !found {
			return nil, fmt.Errorf("no field row named %q", attribute)
		}
		rows = kept
	}

	return rows, nil
}

func splitSpec(spec string) (key, value string, err error) {
	key, value, ok := strings.Cut(spec, "=")
	if !ok || strings.TrimSpace(key) == "" {
		return "", "", fmt.Errorf("invalid spec %q, expected key=value", spec)
	}
	return strings.TrimSpace(key), value, nil
}

// stdinConfirmer prompts on stdout and reads a y/N answer from stdin.
func stdinConfirmer(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func refreshedManager(cmd *cobra.Command, settings *conf.Settings) (*manager.Manager, error) {
	client, err := gateway.NewClient(gateway.Config{
		BaseURL:  settings.Backend.BaseURL,
		Timeout:  settings.Backend.Timeout,
		CacheTTL: settings.Backend.CacheTTL,
	})
	if err != nil {
		return nil, err
	}

	m := manager.NewManager(client, manager.ConfirmerFunc(stdinConfirmer))
	if err := m.Refresh(cmd.Context()); err != nil {
		return nil, err
	}
	return m, nil
}
