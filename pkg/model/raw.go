package model

import (
	"encoding/json"
	"strconv"
	"strings"
)

// RawEvent is the loosely-structured record a scraper hands over. Every
// field is optional; the empty value means the source did not provide it.
// Fields that sites render inconsistently (venue and organizer arrive as
// plain strings on some sites and as objects on others) use FlexString.
type RawEvent struct {
	ID          string     `json:"id,omitempty"`
	Title       string     `json:"title,omitempty"`
	Description string     `json:"description,omitempty"`
	Date        string     `json:"date,omitempty"`
	EndDate     string     `json:"endDate,omitempty"`
	Time        string     `json:"time,omitempty"`
	Price       FlexString `json:"price,omitempty"`
	Category    string     `json:"category,omitempty"`
	Image       string     `json:"image,omitempty"`
	Link        string     `json:"link,omitempty"`
	Venue       FlexString `json:"venue,omitempty"`
	Organizer   FlexString `json:"organizer,omitempty"`
	DateDisplay string     `json:"dateDisplay,omitempty"`
}

// FlexString decodes a JSON value that may be a string, a number, or an
// object carrying a "name" field. Anything else decodes to empty rather
// than failing the whole record.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = []byte(strings.TrimSpace(string(data)))
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		for _, key := range []string{"name", "title", "value"} {
			if raw, ok := obj[key]; ok {
				var s string
				if json.Unmarshal(raw, &s) == nil {
					*f = FlexString(s)
					return nil
				}
			}
		}
		*f = ""
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			*f = ""
			return nil
		}
		*f = FlexString(strconv.FormatFloat(n, 'f', -1, 64))
	}
	return nil
}

func (f FlexString) String() string { return string(f) }
