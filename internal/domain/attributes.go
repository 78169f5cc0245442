package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// AttributeTypeDID marks a decoded event attribute carrying a DID value.
const AttributeTypeDID = "Did"

// AttributeTypeBalance marks a decoded event attribute carrying an amount.
const AttributeTypeBalance = "Balance"

// EventAttribute is one decoded event argument: a type tag and a free-form
// JSON value, in on-chain order.
type EventAttribute struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// StringValue renders the attribute value as a string. JSON strings are
// unquoted; other shapes are returned as their raw JSON text.
func (a EventAttribute) StringValue() string {
	return gjson.ParseBytes(a.Value).String()
}

// SetStringValue replaces the attribute value with a JSON string.
func (a *EventAttribute) SetStringValue(s string) {
	encoded, _ := json.Marshal(s)
	a.Value = encoded
}

// AttributeList is the ordered decoded argument list of an event, stored as
// a JSON column.
type AttributeList []EventAttribute

// Scan implements sql.Scanner for JSON columns.
func (l *AttributeList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		if len(v) == 0 {
			*l = nil
			return nil
		}
		return json.Unmarshal(v, l)
	case string:
		if v == "" {
			*l = nil
			return nil
		}
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported attribute column type %T", src)
	}
}

// Value implements driver.Valuer for JSON columns.
func (l AttributeList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// DIDValues returns the raw values of every DID-typed attribute, in order.
func (l AttributeList) DIDValues() []string {
	var dids []string
	for _, attr := range l {
		if attr.Type == AttributeTypeDID {
			dids = append(dids, attr.StringValue())
		}
	}
	return dids
}
