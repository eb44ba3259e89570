package main

import (
	"github.com/spf13/cobra"
)

// structuralFields lists the editable record fields in display order.
var structuralFields = []string{
	"show", "scene", "take", "slate", "category", "subcategory", "note",
	"wildtrack", "circled",
}

func addFieldFlags(cmd *cobra.Command) {
	for _, field := range structuralFields {
		cmd.Flags().String(field, "", "Set the "+field+" field")
	}
}

// changedFieldValues returns the field flags the caller actually provided,
// so an empty string can still clear a field.
func changedFieldValues(cmd *cobra.Command) map[string]string {
	values := map[string]string{}
	for _, field := range structuralFields {
		if cmd.Flags().Changed(field) {
			value, err := cmd.Flags().GetString(field)
			if err != nil {
				continue
			}
			values[field] = value
		}
	}
	return values
}
