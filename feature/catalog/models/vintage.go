package models

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// EmptyRecord is returned in place of a vintage that does not exist.
var EmptyRecord = json.RawMessage(`{}`)

// Vintage is an immutable snapshot of one upstream vintage record.
type Vintage struct {
	ID  string
	Raw json.RawMessage
}

// Validate checks that the record is a JSON object.
func (v Vintage) Validate() error {
	if !gjson.ValidBytes(v.Raw) {
		return fmt.Errorf("vintage %s: payload is not valid JSON", v.ID)
	}
	if !gjson.ParseBytes(v.Raw).IsObject() {
		return fmt.Errorf("vintage %s: payload is not a JSON object", v.ID)
	}
	return nil
}

// Record is one vintage as imported into an upstream.
type Record struct {
	ID      string          `json:"id"`
	WineID  string          `json:"wine_id"`
	Payload json.RawMessage `json:"payload"`
}

// Vintage returns the record as a cached vintage.
func (r Record) Vintage() Vintage {
	return Vintage{ID: r.ID, Raw: r.Payload}
}

// VintageRow is the SQL representation of a vintage.
type VintageRow struct {
	ID      string `gorm:"column:id;primaryKey;size:64"`
	WineID  string `gorm:"column:wine_id;index;size:64"`
	Payload string `gorm:"column:payload;type:text"`
}

// TableName overrides the gorm table name.
func (VintageRow) TableName() string {
	return "vintages"
}

// VintageColumns lists the columns the SQL upstream reads.
var VintageColumns = []string{"id", "wine_id", "payload"}

// Vintage converts the row to a cached vintage.
func (r VintageRow) Vintage() Vintage {
	return Vintage{ID: r.ID, Raw: json.RawMessage(r.Payload)}
}
