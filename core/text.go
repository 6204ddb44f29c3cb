package core

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Text is a JSON string that also accepts numbers, booleans and null.
// Spreadsheet-backed payloads carry cells like DATA or TRIMESTRE as either.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch val := v.(type) {
	case float64:
		*t = Text(strconv.FormatFloat(val, 'f', -1, 64))
	case bool:
		*t = Text(strconv.FormatBool(val))
	default:
		*t = Text(data)
	}
	return nil
}

func (t Text) String() string { return string(t) }
