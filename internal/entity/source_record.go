package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// SourceRecord is the native CMS representation of a piece of content.
type SourceRecord struct {
	UUID             string     `json:"uuid"`
	Type             string     `json:"type"`
	Value            []byte     `json:"value,omitempty"`
	Attributes       string     `json:"attributes"`
	WorkflowStatus   string     `json:"workflowStatus"`
	SystemAttributes string     `json:"systemAttributes"`
	UsageTickets     string     `json:"usageTickets"`
	LastModified     *Timestamp `json:"lastModified,omitempty"`
}

// Timestamp accepts both RFC3339 strings and epoch milliseconds.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("Timestamp - UnmarshalJSON - json.Unmarshal: %w", err)
		}
		if s == "" {
			return nil
		}
		parsed, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return fmt.Errorf("Timestamp - UnmarshalJSON - time.Parse: %w", err)
		}
		t.Time = parsed

		return nil
	}

	ms, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return fmt.Errorf("Timestamp - UnmarshalJSON - strconv.ParseInt: %w", err)
	}
	t.Time = time.UnixMilli(ms).UTC()

	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}
