package bridge

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"golang.org/x/text/encoding/unicode"
)

var columnJsonBufferPool = sync.Pool{
	New: func() any {
		return new(bytes.Buffer)
	},
}

// Append the JSON representation of a column value read from the engine.
// Text is decoded lossily, blobs become arrays of byte values and reals that
// cannot be represented in JSON become null.
func appendColumnValue(buffer *bytes.Buffer, value any) error {
	switch v := value.(type) {
	case nil:
		buffer.WriteString("null")
	case int64:
		buffer.Write(strconv.AppendInt(buffer.AvailableBuffer(), v, 10))
	case int:
		buffer.Write(strconv.AppendInt(buffer.AvailableBuffer(), int64(v), 10))
	case bool:
		if v {
			buffer.WriteByte('1')
		} else {
			buffer.WriteByte('0')
		}
	case float64:
		appendReal(buffer, v)
	case string:
		return appendText(buffer, []byte(v))
	case []byte:
		appendBlob(buffer, v)
	case time.Time:
		return appendText(buffer, []byte(v.Format(time.RFC3339Nano)))
	default:
		return fmt.Errorf("unsupported column value type %T", value)
	}

	return nil
}

func appendBlob(buffer *bytes.Buffer, data []byte) {
	buffer.WriteByte('[')

	for i, b := range data {
		if i > 0 {
			buffer.WriteByte(',')
		}

		buffer.Write(strconv.AppendUint(buffer.AvailableBuffer(), uint64(b), 10))
	}

	buffer.WriteByte(']')
}

func appendReal(buffer *bytes.Buffer, f float64) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		buffer.WriteString("null")
		return
	}

	format := byte('f')

	if abs := math.Abs(f); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}

	b := strconv.AppendFloat(buffer.AvailableBuffer(), f, format, -1, 64)

	if !bytes.ContainsAny(b, ".eE") {
		b = append(b, '.', '0')
	}

	buffer.Write(b)
}

func appendText(buffer *bytes.Buffer, data []byte) error {
	text, err := unicode.UTF8.NewDecoder().Bytes(data)

	if err != nil {
		return err
	}

	encoded, err := json.Marshal(string(text))

	if err != nil {
		return err
	}

	buffer.Write(encoded)

	return nil
}
