package models

import (
	"fmt"

	"cache-service/core/utils"

	"github.com/tidwall/gjson"
)

// Fields locates the projected attributes inside a vintage record. Each value is a gjson path.
type Fields struct {
	TitlePath  string `mapstructure:"title" default:"title"`
	PricePath  string `mapstructure:"price" default:"price"`
	WineIDPath string `mapstructure:"wine_id" default:"wine_id"`
	RatingPath string `mapstructure:"rating" default:"rating"`
}

// DefaultFields returns the paths used when none are configured.
func DefaultFields() Fields {
	return Fields{TitlePath: "title", PricePath: "price", WineIDPath: "wine_id", RatingPath: "rating"}
}

func (f Fields) get(v Vintage, path string) gjson.Result {
	return gjson.GetBytes(v.Raw, path)
}

// Title returns the vintage title, or "" when it has none.
func (f Fields) Title(v Vintage) string {
	r := f.get(v, f.TitlePath)
	if r.Type != gjson.String && r.Type != gjson.Number {
		return ""
	}
	return r.String()
}

// Price returns the vintage price. Missing, unparseable and negative prices are 0.
func (f Fields) Price(v Vintage) float64 {
	r := f.get(v, f.PricePath)
	switch r.Type {
	case gjson.Number, gjson.String:
		if p := r.Float(); p > 0 {
			return p
		}
	}
	return 0
}

// WineID returns the parent wine id, or "0" when the record has none.
func (f Fields) WineID(v Vintage) string {
	r := f.get(v, f.WineIDPath)
	if r.Type != gjson.String && r.Type != gjson.Number {
		return utils.NullID
	}
	id := utils.NormalizeID(r.String())
	if utils.IsNullID(id) {
		return utils.NullID
	}
	return id
}

// Rating returns the vintage rating, or 0 when the record has none.
func (f Fields) Rating(v Vintage) float64 {
	r := f.get(v, f.RatingPath)
	switch r.Type {
	case gjson.Number, gjson.String:
		return r.Float()
	}
	return 0
}

// ParseRecords decodes a JSON array of vintage objects. Every element must carry a string or
// numeric "id"; the wine id is read from the configured path.
func (f Fields) ParseRecords(data []byte) ([]Record, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("records are not valid JSON")
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsArray() {
		return nil, fmt.Errorf("records must be a JSON array")
	}

	var (
		records []Record
		err     error
	)
	doc.ForEach(func(i, elem gjson.Result) bool {
		if !elem.IsObject() {
			err = fmt.Errorf("record %d is not a JSON object", i.Int())
			return false
		}
		id := utils.NormalizeID(utils.ToString(elem.Get("id").Value()))
		if id == "" {
			err = fmt.Errorf("record %d has no id", i.Int())
			return false
		}
		v := Vintage{ID: id, Raw: []byte(elem.Raw)}
		wineID := f.WineID(v)
		if wineID == utils.NullID {
			wineID = ""
		}
		records = append(records, Record{ID: id, WineID: wineID, Payload: v.Raw})
		return true
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}
