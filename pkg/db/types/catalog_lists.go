package dbtypes

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// CategoryRef is one category entry mirrored from the external catalog.
type CategoryRef struct {
	ID          int64  `json:"id,omitempty"`
	Name        string `json:"name"`
	Slug        string `json:"slug,omitempty"`
	Description string `json:"description,omitempty"`
}

// TagRef is one tag entry mirrored from the external catalog.
type TagRef struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

// ImageRef is one image entry mirrored from the external catalog.
type ImageRef struct {
	ID  int64  `json:"id,omitempty"`
	Src string `json:"src"`
	Alt string `json:"alt,omitempty"`
}

// AttributeRef is one attribute entry mirrored from the external catalog.
type AttributeRef struct {
	ID        int64    `json:"id,omitempty"`
	Name      string   `json:"name"`
	Options   []string `json:"options,omitempty"`
	Variation bool     `json:"variation,omitempty"`
}

// The list types serialize to a JSON text column; business logic only ever
// sees the structured slices.

type CategoryList []CategoryRef

type TagList []TagRef

type ImageList []ImageRef

type AttributeList []AttributeRef

func (l *CategoryList) Scan(src any) error  { return scanJSONList(src, l) }
func (l *TagList) Scan(src any) error       { return scanJSONList(src, l) }
func (l *ImageList) Scan(src any) error     { return scanJSONList(src, l) }
func (l *AttributeList) Scan(src any) error { return scanJSONList(src, l) }

func (l CategoryList) Value() (driver.Value, error)  { return jsonListValue(l) }
func (l TagList) Value() (driver.Value, error)       { return jsonListValue(l) }
func (l ImageList) Value() (driver.Value, error)     { return jsonListValue(l) }
func (l AttributeList) Value() (driver.Value, error) { return jsonListValue(l) }

func scanJSONList(src any, dest any) error {
	if src == nil {
		return nil
	}
	switch v := src.(type) {
	case []byte:
		if len(v) == 0 {
			return nil
		}
		return json.Unmarshal(v, dest)
	case string:
		if v == "" {
			return nil
		}
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("json list: unsupported Scan type %T", src)
	}
}

func jsonListValue(list any) (driver.Value, error) {
	encoded, err := json.Marshal(list)
	if err != nil {
		return nil, fmt.Errorf("json list: %w", err)
	}
	return string(encoded), nil
}
