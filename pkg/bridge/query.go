package bridge

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/litebase/pagedb/internal/validation"
)

// Query is a statement and its positional parameters as sent by the host.
type Query struct {
	Params []any  `json:"params" validate:"required"`
	SQL    string `json:"sql" validate:"required"`
}

var queryValidationMessages = map[string]string{
	"params.required": "The params field is required",
	"sql.required":    "The sql field is required",
}

// Decode a query envelope. Numbers are kept exact until they are bound.
func DecodeQuery(payload []byte) (*Query, error) {
	decoder := json.NewDecoder(bytes.NewReader(payload))
	decoder.UseNumber()

	query := &Query{}

	err := decoder.Decode(query)

	if err != nil {
		return nil, newChainError(ErrSerialization, "failed to decode query payload", err)
	}

	err = validation.Error(validation.Validate(query, queryValidationMessages))

	if err != nil {
		return nil, newChainError(ErrSerialization, "invalid query payload", err)
	}

	return query, nil
}

// Arguments converts the parameters into values the engine can bind.
func (q *Query) Arguments() ([]any, error) {
	args := make([]any, len(q.Params))

	for i, param := range q.Params {
		value, err := bindValue(param)

		if err != nil {
			return nil, newChainError(
				ErrSerialization,
				fmt.Sprintf("failed to bind parameter %d", i+1),
				err,
			)
		}

		args[i] = value
	}

	return args, nil
}

func bindValue(param any) (any, error) {
	switch value := param.(type) {
	case nil:
		return nil, nil
	case bool:
		if value {
			return int64(1), nil
		}

		return int64(0), nil
	case string:
		return value, nil
	case json.Number:
		if !strings.ContainsAny(value.String(), ".eE") {
			if i, err := value.Int64(); err == nil {
				return i, nil
			}
		}

		return value.Float64()
	case []any, map[string]any:
		data, err := json.Marshal(value)

		if err != nil {
			return nil, err
		}

		return string(data), nil
	}

	return nil, fmt.Errorf("unsupported parameter type %T", param)
}
