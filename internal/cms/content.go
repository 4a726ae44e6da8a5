// Package cms reads page, article and navigation content from the Builder
// content API.
package cms

import (
	"encoding/json"
	"time"
)

// Content is one entry of a Builder model.
type Content struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ModelID     string `json:"modelId,omitempty"`
	Published   string `json:"published,omitempty"`
	LastUpdated int64  `json:"lastUpdated,omitempty"`
	Data        Data   `json:"data"`
}

// Updated returns LastUpdated as a time. Builder reports milliseconds since the epoch.
func (c *Content) Updated() time.Time {
	if c.LastUpdated == 0 {
		return time.Time{}
	}
	return time.UnixMilli(c.LastUpdated).UTC()
}

// Data is the model-specific payload of a content entry. Fields that are not
// modelled explicitly are kept in Extra.
type Data struct {
	Title       string  `json:"title,omitempty"`
	Description string  `json:"description,omitempty"`
	URL         string  `json:"url,omitempty"`
	Slug        string  `json:"slug,omitempty"`
	Image       string  `json:"image,omitempty"`
	NoIndex     bool    `json:"noIndex,omitempty"`
	Theme       string  `json:"theme,omitempty"`
	Author      string  `json:"author,omitempty"`
	Date        string  `json:"date,omitempty"`
	Links       []Link  `json:"links,omitempty"`
	Blocks      []Block `json:"blocks,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Link is a navigation entry in header and footer models.
type Link struct {
	Text     string `json:"text"`
	URL      string `json:"url"`
	Children []Link `json:"children,omitempty"`
}

type dataAlias Data

var knownDataFields = map[string]bool{
	"title": true, "description": true, "url": true, "slug": true, "image": true,
	"noIndex": true, "theme": true, "author": true, "date": true, "links": true, "blocks": true,
}

func (d *Data) UnmarshalJSON(b []byte) error {
	var known dataAlias
	if err := json.Unmarshal(b, &known); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(b, &all); err != nil {
		return err
	}
	*d = Data(known)
	for k, v := range all {
		if knownDataFields[k] {
			continue
		}
		if d.Extra == nil {
			d.Extra = make(map[string]json.RawMessage)
		}
		d.Extra[k] = v
	}
	return nil
}

func (d Data) MarshalJSON() ([]byte, error) {
	known, err := json.Marshal(dataAlias(d))
	if err != nil || len(d.Extra) == 0 {
		return known, err
	}
	var merged map[string]json.RawMessage
	if err := json.Unmarshal(known, &merged); err != nil {
		return nil, err
	}
	for k, v := range d.Extra {
		if _, ok := merged[k]; !ok {
			merged[k] = v
		}
	}
	return json.Marshal(merged)
}

// Block is one element of a page's block tree.
type Block struct {
	ID               string                       `json:"id,omitempty"`
	TagName          string                       `json:"tagName,omitempty"`
	Component        *BlockComponent              `json:"component,omitempty"`
	Children         []Block                      `json:"children,omitempty"`
	ResponsiveStyles map[string]map[string]string `json:"responsiveStyles,omitempty"`
}

// BlockComponent names the registered component a block renders and its input values.
type BlockComponent struct {
	Name    string         `json:"name"`
	Options map[string]any `json:"options,omitempty"`
}

// Name returns the component name, or "" for plain elements.
func (b *Block) Name() string {
	if b.Component == nil {
		return ""
	}
	return b.Component.Name
}

// Options returns the component input values, never nil.
func (b *Block) Options() map[string]any {
	if b.Component == nil || b.Component.Options == nil {
		return map[string]any{}
	}
	return b.Component.Options
}

// Walk calls fn for every block in the tree in depth-first order.
func Walk(blocks []Block, fn func(*Block)) {
	for i := range blocks {
		fn(&blocks[i])
		Walk(blocks[i].Children, fn)
	}
}
