package api

import (
	"bytes"
	"encoding/json"
	"fmt"

	apperrors "github.com/julianstephens/mantenix/internal/errors"
	"github.com/julianstephens/mantenix/internal/logger"
)

// Keys under which list endpoints have been seen to wrap their arrays.
var listKeys = []string{"tasks", "data", "items", "results", "contacts", "reminders", "groups"}

// Keys under which single-record endpoints wrap their object.
var recordKeys = []string{"task", "data", "contact", "reminder", "stats", "item"}

// decodeList accepts a bare array or an object wrapping one. Missing or null
// arrays decode as empty. Records that fail to decode are skipped so one bad
// row does not hide the rest of the list.
func decodeList[T any](op string, data []byte) ([]T, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return []T{}, nil
	}

	switch data[0] {
	case '[':
		return decodeElements[T](op, data)
	case '{':
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return nil, apperrors.Wrap(apperrors.KindMalformed, op, err)
		}
		for _, key := range listKeys {
			raw := bytes.TrimSpace(wrapper[key])
			if len(raw) == 0 || raw[0] != '[' {
				continue
			}
			return decodeElements[T](op, raw)
		}
		return []T{}, nil
	default:
		return nil, apperrors.Wrap(apperrors.KindMalformed, op, errUnexpectedBody(data))
	}
}

func decodeElements[T any](op string, data []byte) ([]T, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, apperrors.Wrap(apperrors.KindMalformed, op, err)
	}
	out := make([]T, 0, len(raws))
	for i, raw := range raws {
		var item T
		if err := json.Unmarshal(raw, &item); err != nil {
			logger.Debug("Skipping undecodable record", "op", op, "index", i, "error", err)
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

// decodeRecord accepts an object or an object wrapping one under a known key.
func decodeRecord(op string, data []byte, out interface{}) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] != '{' {
		return apperrors.Wrap(apperrors.KindMalformed, op, errUnexpectedBody(data))
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return apperrors.Wrap(apperrors.KindMalformed, op, err)
	}
	if _, ok := wrapper["id"]; !ok {
		for _, key := range recordKeys {
			raw := bytes.TrimSpace(wrapper[key])
			if len(raw) > 0 && raw[0] == '{' {
				data = raw
				break
			}
		}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return apperrors.Wrap(apperrors.KindMalformed, op, err)
	}
	return nil
}

func errUnexpectedBody(data []byte) error {
	if len(data) > 32 {
		data = data[:32]
	}
	return fmt.Errorf("unexpected response body %q", data)
}
