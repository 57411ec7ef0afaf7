package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/litebase/pagedb/pkg/cli/components"
	"github.com/spf13/cobra"
)

func NewQueryCmd() *cobra.Command {
	var jsonOutput bool

	return NewCommand("query <sql> [params]", "Run a query and print its rows").
		WithArgs(cobra.RangeArgs(1, 2)).
		WithConfig(loadConfig).
		WithFlags(func(cmd *cobra.Command) {
			cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the rows as JSON")
		}).
		WithRunE(func(cmd *cobra.Command, args []string) error {
			payload, err := queryPayload(args)

			if err != nil {
				return err
			}

			connection, err := openConnection(cmd)

			if err != nil {
				return err
			}

			defer connection.Close()

			result := connection.Query(payload)

			if result == nil {
				return lastError(connection)
			}

			defer result.Release()

			data, err := result.Bytes()

			if err != nil {
				return err
			}

			if jsonOutput {
				fmt.Fprintln(cmd.OutOrStdout(), string(data))

				return nil
			}

			columns, rows, err := decodeRows(data)

			if err != nil {
				return err
			}

			if len(columns) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No rows")

				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), components.Table(columns, rows))

			return nil
		}).
		Build()
}

// Decode a JSON array of row objects into table cells, keeping the column
// order of the first row.
func decodeRows(data []byte) ([]string, [][]string, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))

	if err := expectDelim(decoder, '['); err != nil {
		return nil, nil, err
	}

	var columns []string
	var rows [][]string

	for decoder.More() {
		if err := expectDelim(decoder, '{'); err != nil {
			return nil, nil, err
		}

		var row []string

		for decoder.More() {
			token, err := decoder.Token()

			if err != nil {
				return nil, nil, err
			}

			if len(rows) == 0 {
				columns = append(columns, token.(string))
			}

			var value json.RawMessage

			if err := decoder.Decode(&value); err != nil {
				return nil, nil, err
			}

			row = append(row, cellText(value))
		}

		if err := expectDelim(decoder, '}'); err != nil {
			return nil, nil, err
		}

		rows = append(rows, row)
	}

	if err := expectDelim(decoder, ']'); err != nil {
		return nil, nil, err
	}

	return columns, rows, nil
}

func cellText(value json.RawMessage) string {
	var text string

	if json.Unmarshal(value, &text) == nil {
		return text
	}

	if string(value) == "null" {
		return components.NullValue
	}

	return string(value)
}

func expectDelim(decoder *json.Decoder, delim json.Delim) error {
	token, err := decoder.Token()

	if err == io.EOF {
		return fmt.Errorf("unexpected end of rows")
	}

	if err != nil {
		return err
	}

	if token != delim {
		return fmt.Errorf("unexpected token %v in rows", token)
	}

	return nil
}
