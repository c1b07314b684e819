package api

import (
	"bytes"
	"encoding/json"
	"fmt"

	"hourmeter-backend/internal/parse"
)

// meterValue is an hour-meter reading that accepts a JSON number or a string
// such as "150,5".
type meterValue float64

type meterError struct {
	err error
}

func (e *meterError) Error() string { return e.err.Error() }

func (m *meterValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return &meterError{err}
		}
		v, err := parse.Meter(s)
		if err != nil {
			return &meterError{err}
		}
		*m = meterValue(v)
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return &meterError{fmt.Errorf("meter reading %s is not a number", data)}
	}
	*m = meterValue(v)
	return nil
}
