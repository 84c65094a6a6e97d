package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func instructionsCmd() *cobra.Command {
	var schemaPath string
	cmd := &cobra.Command{
		Use:   "instructions",
		Short: "Print the compiled parse instruction of every field",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSchema(schemaPath)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "FIELD\tKIND\tOPTIONAL")
			for name, ins := range s.Registry().All() {
				fmt.Fprintf(tw, "%s\t%s\t%t\n", name, ins.Kind, ins.Optional)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&schemaPath, "schema", "s", "", "schema YAML file")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}
