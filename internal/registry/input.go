// Package registry declares the visual components available to the page
// builder, their editable field schemas, insert menus and design tokens.
//
// A Registry is constructed explicitly and filled from an ordered list of
// descriptors at startup; nothing here is a process-wide singleton.
package registry

import "slices"

// InputType is the editor field type of an Input.
type InputType string

// The field type vocabulary understood by the page builder.
const (
	TypeString   InputType = "string"
	TypeLongText InputType = "longText"
	TypeRichText InputType = "richText"
	TypeHTML     InputType = "html"
	TypeNumber   InputType = "number"
	TypeBoolean  InputType = "boolean"
	TypeFile     InputType = "file"
	TypeObject   InputType = "object"
	TypeList     InputType = "list"
)

var inputTypes = []InputType{
	TypeString, TypeLongText, TypeRichText, TypeHTML, TypeNumber,
	TypeBoolean, TypeFile, TypeObject, TypeList,
}

// Valid reports whether t is part of the vocabulary.
func (t InputType) Valid() bool {
	return slices.Contains(inputTypes, t)
}

// Input is one editable field of a component.
type Input struct {
	Name             string     `json:"name" validate:"required"`
	FriendlyName     string     `json:"friendlyName,omitempty"`
	Type             InputType  `json:"type" validate:"required,inputtype"`
	Required         bool       `json:"required,omitempty"`
	DefaultValue     any        `json:"defaultValue,omitempty"`
	Enum             []string   `json:"enum,omitempty"`
	Min              *float64   `json:"min,omitempty"`
	Max              *float64   `json:"max,omitempty"`
	Step             *float64   `json:"step,omitempty"`
	HelperText       string     `json:"helperText,omitempty"`
	AllowedFileTypes []string   `json:"allowedFileTypes,omitempty"`
	Advanced         bool       `json:"advanced,omitempty"`
	ShowIf           *Condition `json:"showIf,omitempty"`
	SubFields        []Input    `json:"subFields,omitempty" validate:"dive"`
}

// Visible reports whether the input is shown for the given field values.
func (in Input) Visible(values Values) bool {
	if in.ShowIf == nil {
		return true
	}
	return in.ShowIf.Eval(values)
}

// Float returns a pointer to f, for Min, Max and Step.
func Float(f float64) *float64 {
	return &f
}
