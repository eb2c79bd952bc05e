package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"livery"
)

func newCheckCmd() *cobra.Command {
	var schemaFile string

	cmd := &cobra.Command{
		Use:   "check [payload files]",
		Short: "Validate theme payload files against a token schema",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := livery.LoadSchemaFile(schemaFile)
			if err != nil {
				return err
			}

			failed := 0
			for _, path := range args {
				if err := checkPayload(schema, path); err != nil {
					failed++
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%s: FAIL\n", path)
					ves := livery.AsValidationErrors(err)
					for _, ve := range ves {
						_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "  %s: want %s, got %v\n", ve.Path, ve.Want, ve.Value)
					}
					if len(ves) == 0 {
						_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "  %v\n", err)
					}
					continue
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: OK\n", path)
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d payload(s) failed validation", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&schemaFile, "schema", "", "schema definition file (toml/json/yaml)")
	_ = cmd.MarkFlagRequired("schema")

	return cmd
}

func checkPayload(schema *livery.Schema, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	payload, err := livery.ParsePayload(data, path)
	if err != nil {
		return err
	}

	_, err = livery.Merge(schema, payload)
	return err
}
