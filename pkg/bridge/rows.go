package bridge

import (
	"bytes"
	"fmt"
)

// Rows is the cursor a query result is read from. *sql.Rows satisfies it.
type Rows interface {
	Close() error
	Columns() ([]string, error)
	Err() error
	Next() bool
	Scan(dest ...any) error
}

// Serialize every remaining row as a JSON array of objects keyed by column
// name, preserving the column order of the result.
func WriteRows(buffer *bytes.Buffer, rows Rows) error {
	defer rows.Close()

	columns, err := rows.Columns()

	if err != nil {
		return err
	}

	keys := make([][]byte, len(columns))

	for i, column := range columns {
		key := columnJsonBufferPool.Get().(*bytes.Buffer)
		key.Reset()

		err := appendText(key, []byte(column))

		if err != nil {
			columnJsonBufferPool.Put(key)
			return err
		}

		keys[i] = append([]byte{}, key.Bytes()...)
		columnJsonBufferPool.Put(key)
	}

	values := make([]any, len(columns))
	pointers := make([]any, len(columns))

	for i := range values {
		pointers[i] = &values[i]
	}

	buffer.WriteByte('[')

	for row := 0; rows.Next(); row++ {
		err := rows.Scan(pointers...)

		if err != nil {
			return err
		}

		if row > 0 {
			buffer.WriteByte(',')
		}

		buffer.WriteByte('{')

		for i, value := range values {
			if i > 0 {
				buffer.WriteByte(',')
			}

			buffer.Write(keys[i])
			buffer.WriteByte(':')

			err := appendColumnValue(buffer, value)

			if err != nil {
				return newChainError(ErrSerialization, fmt.Sprintf("failed to encode column %s", columns[i]), err)
			}
		}

		buffer.WriteByte('}')
	}

	if err := rows.Err(); err != nil {
		return err
	}

	buffer.WriteByte(']')

	return nil
}
