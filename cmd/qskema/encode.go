package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/reoring/qskema"
)

func encodeCmd() *cobra.Command {
	var (
		schemaPath string
		onto       string
		data       string
	)
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode a JSON object into a query string",
		Long: `Encode reads a flat JSON object (from --data or stdin) and prints it as a
query string. Keys keep their JSON order. null and false remove the key.

With --schema the object is validated first and fields are written in
schema order. With --onto the values are merged into an existing query.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src := []byte(data)
			if data == "" {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				src = b
			}
			entries, err := readEntries(src)
			if err != nil {
				return err
			}
			base := qskema.ParseParams(onto)

			var out *qskema.Params
			if schemaPath == "" {
				out = qskema.MergeSearchParams(base, entries)
			} else {
				s, err := loadSchema(schemaPath)
				if err != nil {
					return err
				}
				rec := make(qskema.Record, len(entries))
				for _, e := range entries {
					rec[e.Key] = e.Value
				}
				valid, err := s.Validate(cmd.Context(), rec)
				if err != nil {
					if iss, ok := qskema.AsIssues(err); ok {
						if werr := writeJSON(cmd.OutOrStdout(), map[string]any{"issues": iss}); werr != nil {
							return werr
						}
						return errInvalid
					}
					return err
				}
				out = s.EncodeOnto(base, valid)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out.String())
			return err
		},
	}
	cmd.Flags().StringVarP(&schemaPath, "schema", "s", "", "validate against this schema YAML file")
	cmd.Flags().StringVar(&onto, "onto", "", "existing query string to merge into")
	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON object (default: stdin)")
	return cmd
}

// readEntries decodes a flat JSON object keeping key order. Integers outside
// the float64-exact range become *big.Int.
func readEntries(src []byte) (qskema.Entries, error) {
	dec := json.NewDecoder(bytes.NewReader(src))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New("encode: input must be a JSON object")
	}
	var out qskema.Entries
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("encode: %w", err)
		}
		key, _ := kt.(string)
		var raw any
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("encode: key %q: %w", key, err)
		}
		v, err := scalar(raw)
		if err != nil {
			return nil, fmt.Errorf("encode: key %q: %w", key, err)
		}
		out = append(out, qskema.Entry{Key: key, Value: v})
	}
	return out, nil
}

const maxSafeInteger = 1<<53 - 1

func scalar(v any) (any, error) {
	switch t := v.(type) {
	case nil, string, bool:
		return t, nil
	case json.Number:
		s := t.String()
		if !strings.ContainsAny(s, ".eE") {
			n, ok := new(big.Int).SetString(s, 10)
			if ok && n.CmpAbs(big.NewInt(maxSafeInteger)) > 0 {
				return n, nil
			}
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, err
		}
		return f, nil
	}
	return nil, fmt.Errorf("nested %T values cannot be encoded", v)
}
