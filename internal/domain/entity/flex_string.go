package entity

import (
	"bytes"
	"encoding/json"
	"strings"
)

// FlexString - строковое поле, которое таблица может вернуть как строку, число или bool.
// Ячейки с ID вопроса или баллом приходят из Apps Script без кавычек.
type FlexString string

// UnmarshalJSON принимает строку, число, bool и null
func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}

	if data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = FlexString(str)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err == nil {
		*s = FlexString(num.String())
		return nil
	}

	var b bool
	if err := json.Unmarshal(data, &b); err != nil {
		return err
	}
	if b {
		*s = "true"
	} else {
		*s = "false"
	}
	return nil
}

// String возвращает значение как есть
func (s FlexString) String() string {
	return string(s)
}

// Trimmed возвращает значение без пробелов по краям
func (s FlexString) Trimmed() string {
	return strings.TrimSpace(string(s))
}
