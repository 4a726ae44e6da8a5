package commerce

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
)

// ErrUnsupportedType is returned for metafield types without a parser.
var ErrUnsupportedType = errors.New("unsupported metafield type")

// maxReferenceDepth bounds metaobject recursion.
const maxReferenceDepth = 3

// Field is a typed key/value pair as stored on metafields and metaobjects.
type Field struct {
	Key        string               `json:"key"`
	Type       string               `json:"type"`
	Value      string               `json:"value"`
	Reference  *Reference           `json:"reference,omitempty"`
	References *ReferenceConnection `json:"references,omitempty"`
}

// Metafield is a namespaced Field on a product or collection.
type Metafield struct {
	Namespace string `json:"namespace"`
	Field
}

// ReferenceConnection wraps the nodes of a list reference.
type ReferenceConnection struct {
	Nodes []Reference `json:"nodes"`
}

// Reference is the union of node types a reference field can resolve to.
type Reference struct {
	Typename string  `json:"__typename"`
	ID       string  `json:"id"`
	Handle   string  `json:"handle,omitempty"`
	Title    string  `json:"title,omitempty"`
	Type     string  `json:"type,omitempty"`
	URL      string  `json:"url,omitempty"`
	Image    *Image  `json:"image,omitempty"`
	Fields   []Field `json:"fields,omitempty"`
}

// Value is a parsed field. V holds string, int64, float64, bool, time.Time,
// Money, Rating, Measurement, Image, Metaobject, NodeRef, any (json) or []any
// for list types.
type Value struct {
	Type string
	V    any
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.V)
}

// String renders a value as display text. JSON values have no text form and
// render as "".
func (v Value) String() string {
	switch x := v.V.(type) {
	case nil:
		return ""
	case string:
		return x
	case time.Time:
		if v.Type == "date" {
			return x.Format(time.DateOnly)
		}
		return x.Format(time.RFC3339)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case Money:
		return strings.TrimSpace(x.Amount + " " + x.CurrencyCode)
	case Rating:
		return strconv.FormatFloat(x.Value, 'f', -1, 64) + "/" + strconv.FormatFloat(x.ScaleMax, 'f', -1, 64)
	case Measurement:
		return strconv.FormatFloat(x.Value, 'f', -1, 64) + " " + x.Unit
	case Metaobject:
		for _, key := range []string{"name", "title", "label"} {
			if s := x.Fields.String(key); s != "" {
				return s
			}
		}
		return x.Handle
	case NodeRef:
		if x.Title != "" {
			return x.Title
		}
		return x.Handle
	case Image:
		return x.AltText
	case []any:
		parts := make([]string, 0, len(x))
		for _, item := range x {
			if s := (Value{Type: strings.TrimPrefix(v.Type, "list."), V: item}).String(); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		return ""
	default:
		return fmt.Sprint(x)
	}
}

// Group is the parsed fields of one namespace, keyed by field key.
type Group map[string]Value

// String returns the text of key, or "" when absent.
func (g Group) String(key string) string {
	return g[key].String()
}

// Keys returns the field keys in sorted order.
func (g Group) Keys() []string {
	return slices.Sorted(maps.Keys(g))
}

// Metadata maps namespace to its parsed group.
type Metadata map[string]Group

// Rating is a rating metafield.
type Rating struct {
	Value    float64 `json:"value"`
	ScaleMin float64 `json:"scaleMin"`
	ScaleMax float64 `json:"scaleMax"`
}

// Measurement is a dimension, weight or volume.
type Measurement struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// Metaobject is a resolved metaobject reference.
type Metaobject struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Handle string `json:"handle"`
	Fields Group  `json:"fields,omitempty"`
}

// NodeRef is a resolved reference to a product, collection, page, variant or file.
type NodeRef struct {
	Typename string `json:"typename"`
	ID       string `json:"id"`
	Handle   string `json:"handle,omitempty"`
	Title    string `json:"title,omitempty"`
	URL      string `json:"url,omitempty"`
}

type scalarParser func(raw string) (any, error)

var scalarParsers = map[string]scalarParser{
	"single_line_text_field": parseText,
	"multi_line_text_field":  parseText,
	"id":                     parseText,
	"rich_text_field":        parseRichText,
	"url":                    parseURL,
	"link":                   parseJSON,
	"color":                  parseColor,
	"number_integer":         parseInteger,
	"number_decimal":         parseDecimal,
	"boolean":                parseBool,
	"date":                   parseDate,
	"date_time":              parseDateTime,
	"json":                   parseJSON,
	"money":                  parseMoney,
	"rating":                 parseRating,
	"dimension":              parseMeasurement,
	"weight":                 parseMeasurement,
	"volume":                 parseMeasurement,
}

// ParseField converts a raw field into a typed Value.
func ParseField(f Field) (Value, error) {
	return parseField(f, 0)
}

func parseField(f Field, depth int) (Value, error) {
	if elem, ok := strings.CutPrefix(f.Type, "list."); ok {
		items, err := parseList(elem, f, depth)
		if err != nil {
			return Value{}, fmt.Errorf("%s (%s): %w", f.Key, f.Type, err)
		}
		return Value{Type: f.Type, V: items}, nil
	}

	if strings.HasSuffix(f.Type, "_reference") {
		if f.Reference == nil {
			return Value{Type: f.Type, V: f.Value}, nil
		}
		v, err := parseReference(f.Reference, depth)
		if err != nil {
			return Value{}, fmt.Errorf("%s (%s): %w", f.Key, f.Type, err)
		}
		return Value{Type: f.Type, V: v}, nil
	}

	parse, ok := scalarParsers[f.Type]
	if !ok {
		return Value{}, fmt.Errorf("%s: %w: %s", f.Key, ErrUnsupportedType, f.Type)
	}
	v, err := parse(f.Value)
	if err != nil {
		return Value{}, fmt.Errorf("%s (%s): %w", f.Key, f.Type, err)
	}
	return Value{Type: f.Type, V: v}, nil
}

func parseList(elem string, f Field, depth int) ([]any, error) {
	if strings.HasSuffix(elem, "_reference") {
		if f.References == nil {
			var ids []string
			if err := json.Unmarshal([]byte(f.Value), &ids); err != nil {
				return nil, fmt.Errorf("decoding reference ids: %w", err)
			}
			out := make([]any, len(ids))
			for i, id := range ids {
				out[i] = id
			}
			return out, nil
		}
		out := make([]any, 0, len(f.References.Nodes))
		for i := range f.References.Nodes {
			v, err := parseReference(&f.References.Nodes[i], depth)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	}

	parse, ok := scalarParsers[elem]
	if !ok {
		return nil, fmt.Errorf("%w: list.%s", ErrUnsupportedType, elem)
	}
	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(f.Value), &raw); err != nil {
		return nil, fmt.Errorf("decoding list: %w", err)
	}
	out := make([]any, 0, len(raw))
	for _, item := range raw {
		text := string(item)
		var s string
		if json.Unmarshal(item, &s) == nil {
			text = s
		}
		v, err := parse(text)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func parseReference(r *Reference, depth int) (any, error) {
	switch r.Typename {
	case "Metaobject":
		mo := Metaobject{ID: r.ID, Type: r.Type, Handle: r.Handle}
		if depth >= maxReferenceDepth || len(r.Fields) == 0 {
			return mo, nil
		}
		mo.Fields = make(Group, len(r.Fields))
		for _, f := range r.Fields {
			v, err := parseField(f, depth+1)
			if err != nil {
				return nil, fmt.Errorf("metaobject %s: %w", r.Handle, err)
			}
			mo.Fields[f.Key] = v
		}
		return mo, nil
	case "MediaImage":
		if r.Image == nil {
			return nil, fmt.Errorf("media image %s has no image", r.ID)
		}
		return *r.Image, nil
	default:
		return NodeRef{Typename: r.Typename, ID: r.ID, Handle: r.Handle, Title: r.Title, URL: r.URL}, nil
	}
}

func parseText(raw string) (any, error) { return raw, nil }

func parseURL(raw string) (any, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "http", "https", "mailto", "tel", "sms":
		return u.String(), nil
	}
	return nil, fmt.Errorf("unsupported url scheme %q", u.Scheme)
}

var colorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

func parseColor(raw string) (any, error) {
	if !colorPattern.MatchString(raw) {
		return nil, fmt.Errorf("invalid color %q", raw)
	}
	return strings.ToLower(raw), nil
}

func parseInteger(raw string) (any, error) {
	return strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
}

func parseDecimal(raw string) (any, error) {
	return strconv.ParseFloat(strings.TrimSpace(raw), 64)
}

func parseBool(raw string) (any, error) {
	return strconv.ParseBool(strings.TrimSpace(raw))
}

func parseDate(raw string) (any, error) {
	return time.Parse(time.DateOnly, raw)
}

func parseDateTime(raw string) (any, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02T15:04:05", raw)
}

func parseJSON(raw string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, err
	}
	return v, nil
}

func parseMoney(raw string) (any, error) {
	var m struct {
		Amount       string `json:"amount"`
		CurrencyCode string `json:"currency_code"`
	}
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, err
	}
	if _, err := strconv.ParseFloat(m.Amount, 64); err != nil {
		return nil, fmt.Errorf("invalid amount %q", m.Amount)
	}
	return Money{Amount: m.Amount, CurrencyCode: m.CurrencyCode}, nil
}

func parseRating(raw string) (any, error) {
	var r struct {
		Value    string `json:"value"`
		ScaleMin string `json:"scale_min"`
		ScaleMax string `json:"scale_max"`
	}
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return nil, err
	}
	var out Rating
	var err error
	if out.Value, err = strconv.ParseFloat(r.Value, 64); err != nil {
		return nil, fmt.Errorf("rating value: %w", err)
	}
	if out.ScaleMin, err = strconv.ParseFloat(r.ScaleMin, 64); err != nil {
		return nil, fmt.Errorf("rating scale_min: %w", err)
	}
	if out.ScaleMax, err = strconv.ParseFloat(r.ScaleMax, 64); err != nil {
		return nil, fmt.Errorf("rating scale_max: %w", err)
	}
	return out, nil
}

func parseMeasurement(raw string) (any, error) {
	var m Measurement
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, err
	}
	if m.Unit == "" {
		return nil, errors.New("measurement has no unit")
	}
	return m, nil
}

// ParseMetadata parses the metafields of each namespace in groups. A group
// containing a field that fails to parse is logged and replaced by an empty
// group; nil metafields (identifiers with no value) are skipped.
func ParseMetadata(groups []string, metafields []*Metafield, logger *slog.Logger) Metadata {
	if logger == nil {
		logger = slog.Default()
	}
	out := make(Metadata, len(groups))
	for _, ns := range groups {
		group, err := parseGroup(ns, metafields)
		if err != nil {
			logger.Warn("failed to parse metafield group",
				slog.String("namespace", ns),
				slog.String("error", err.Error()),
			)
			group = Group{}
		}
		out[ns] = group
	}
	return out
}

func parseGroup(ns string, metafields []*Metafield) (Group, error) {
	group := Group{}
	for _, mf := range metafields {
		if mf == nil || mf.Namespace != ns {
			continue
		}
		v, err := ParseField(mf.Field)
		if err != nil {
			return nil, err
		}
		group[mf.Key] = v
	}
	return group, nil
}
