package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/reoring/qskema"
	"github.com/reoring/qskema/schemafile"
)

// errInvalid is returned after the issues were written to stdout.
var errInvalid = errors.New("query did not match the schema")

func decodeCmd() *cobra.Command {
	var (
		schemaPath string
		meta       bool
		failFast   bool
	)
	cmd := &cobra.Command{
		Use:   "decode [query]",
		Short: "Decode a query string into a JSON record",
		Long: `Decode parses the query (or stdin when no argument is given), coerces it
with the schema and prints the validated record as JSON. Validation issues are
printed as JSON and the command exits non-zero.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSchema(schemaPath)
			if err != nil {
				return err
			}
			query, err := queryArg(cmd, args)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if failFast {
				ctx = qskema.WithFailFast(ctx, true)
			}
			out := cmd.OutOrStdout()
			dec, err := s.ParseWithMeta(ctx, query)
			if err != nil {
				if iss, ok := qskema.AsIssues(err); ok {
					if werr := writeJSON(out, map[string]any{"issues": iss}); werr != nil {
						return werr
					}
					return errInvalid
				}
				return err
			}
			data := defined(dec.Value)
			if !meta {
				return writeJSON(out, data)
			}
			return writeJSON(out, map[string]any{"data": data, "presence": presenceJSON(dec.Presence)})
		},
	}
	cmd.Flags().StringVarP(&schemaPath, "schema", "s", "", "schema YAML file")
	cmd.Flags().BoolVar(&meta, "meta", false, "include per-field presence flags")
	cmd.Flags().BoolVar(&failFast, "fail-fast", false, "stop at the first issue")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}

func loadSchema(path string) (*qskema.Schema, error) {
	doc, err := schemafile.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return doc.Schema()
}

func queryArg(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	b, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

// defined drops undefined fields, as JSON.stringify does.
func defined(rec qskema.Record) qskema.Record {
	out := make(qskema.Record, len(rec))
	for k, v := range rec {
		if v != nil {
			out[k] = v
		}
	}
	return out
}

func presenceJSON(pm qskema.PresenceMap) map[string][]string {
	out := make(map[string][]string, len(pm))
	for field, p := range pm {
		var flags []string
		for _, f := range []struct {
			bit  qskema.Presence
			name string
		}{
			{qskema.PresenceSeen, "seen"},
			{qskema.PresenceDuplicate, "duplicate"},
			{qskema.PresenceEmpty, "empty"},
			{qskema.PresenceCoerceFailed, "coerce_failed"},
			{qskema.PresenceDefaulted, "defaulted"},
		} {
			if p.Has(f.bit) {
				flags = append(flags, f.name)
			}
		}
		out[field] = flags
	}
	return out
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
