package checklist

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DecodeDay parses a stored day record. Failures wrap ErrMalformedRecord and
// carry the reason; callers decide whether to recover by seeding.
// Absent optional fields are filled with empty values.
func DecodeDay(data []byte) (DayRecord, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return DayRecord{}, fmt.Errorf("%w: empty value", ErrMalformedRecord)
	}
	if trimmed[0] != '{' {
		return DayRecord{}, fmt.Errorf("%w: not a JSON object", ErrMalformedRecord)
	}

	var record DayRecord
	if err := json.Unmarshal(trimmed, &record); err != nil {
		return DayRecord{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	record.Tasks = record.Tasks.normalized()
	return record, nil
}

// EncodeDay serializes a day record in its stored form.
func EncodeDay(record DayRecord) ([]byte, error) {
	record.Tasks = record.Tasks.normalized()
	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("marshal day record: %w", err)
	}
	return data, nil
}

// DecodeTemplate parses a stored template. Failures wrap ErrMalformedTemplate.
func DecodeTemplate(data []byte) (Template, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Template{}, fmt.Errorf("%w: not a JSON object", ErrMalformedTemplate)
	}

	var tpl Template
	if err := json.Unmarshal(trimmed, &tpl); err != nil {
		return Template{}, fmt.Errorf("%w: %v", ErrMalformedTemplate, err)
	}
	return tpl.normalized(), nil
}

// EncodeTemplate serializes a template in its stored form.
func EncodeTemplate(tpl Template) ([]byte, error) {
	data, err := json.Marshal(tpl.normalized())
	if err != nil {
		return nil, fmt.Errorf("marshal template: %w", err)
	}
	return data, nil
}

func (t Tasks) normalized() Tasks {
	if t.Morning == nil {
		t.Morning = []TaskItem{}
	}
	if t.Evening == nil {
		t.Evening = []TaskItem{}
	}
	if t.Sunday == nil {
		t.Sunday = []TaskItem{}
	}
	return t
}
