package notion

import (
	"encoding/json"
	"fmt"
	"strings"
)

func textSegments(s string) []RichText {
	if s == "" {
		return []RichText{}
	}
	return []RichText{{Text: &TextContent{Content: s}}}
}

// TitleValue builds a title property.
func TitleValue(s string) Property {
	return Property{Type: TypeTitle, Title: textSegments(s)}
}

// RichTextValue builds a rich_text property. An empty string clears the value.
func RichTextValue(s string) Property {
	return Property{Type: TypeRichText, RichText: textSegments(s)}
}

// SelectValue builds a select property. An empty name clears the selection.
func SelectValue(name string) Property {
	p := Property{Type: TypeSelect}
	if name != "" {
		p.Select = &SelectOption{Name: name}
	}
	return p
}

// MultiSelectValue builds a multi_select property from option names.
func MultiSelectValue(names []string) Property {
	opts := make([]SelectOption, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			opts = append(opts, SelectOption{Name: n})
		}
	}
	return Property{Type: TypeMultiSelect, MultiSelect: opts}
}

// URLValue builds a url property. An empty string clears the value.
func URLValue(u string) Property {
	p := Property{Type: TypeURL}
	if u != "" {
		p.URL = &u
	}
	return p
}

// CheckboxValue builds a checkbox property.
func CheckboxValue(b bool) Property {
	return Property{Type: TypeCheckbox, Checkbox: &b}
}

// DateValueOf builds a date property from a YYYY-MM-DD (or ISO 8601) start.
func DateValueOf(start string) Property {
	p := Property{Type: TypeDate}
	if start != "" {
		p.Date = &DateValue{Start: start}
	}
	return p
}

// MarshalJSON writes the property in the shape the write endpoints expect:
// only the value keyed by its type, with explicit null or [] for cleared values.
func (p Property) MarshalJSON() ([]byte, error) {
	switch p.Type {
	case TypeTitle:
		return json.Marshal(map[string]any{TypeTitle: nonNilText(p.Title)})
	case TypeRichText:
		return json.Marshal(map[string]any{TypeRichText: nonNilText(p.RichText)})
	case TypeSelect:
		return json.Marshal(map[string]any{TypeSelect: p.Select})
	case TypeMultiSelect:
		opts := p.MultiSelect
		if opts == nil {
			opts = []SelectOption{}
		}
		return json.Marshal(map[string]any{TypeMultiSelect: opts})
	case TypeURL:
		return json.Marshal(map[string]any{TypeURL: p.URL})
	case TypeCheckbox:
		return json.Marshal(map[string]any{TypeCheckbox: p.Checkbox != nil && *p.Checkbox})
	case TypeDate:
		return json.Marshal(map[string]any{TypeDate: p.Date})
	default:
		return nil, fmt.Errorf("notion: cannot encode property of type %q", p.Type)
	}
}

func nonNilText(rt []RichText) []RichText {
	if rt == nil {
		return []RichText{}
	}
	return rt
}

func plain(rt []RichText) string {
	var b strings.Builder
	for _, seg := range rt {
		if seg.PlainText != "" {
			b.WriteString(seg.PlainText)
		} else if seg.Text != nil {
			b.WriteString(seg.Text.Content)
		}
	}
	return b.String()
}

// PlainText returns the text of a title or rich_text property.
func (p Property) PlainText() string {
	if len(p.Title) > 0 {
		return plain(p.Title)
	}
	return plain(p.RichText)
}

// Text returns the text of a title, rich_text, url or select property.
func (p Property) Text() string {
	if s := p.PlainText(); s != "" {
		return s
	}
	if s := p.URLString(); s != "" {
		return s
	}
	return p.SelectName()
}

// SelectName returns the selected option name, or "".
func (p Property) SelectName() string {
	if p.Select == nil {
		return ""
	}
	return p.Select.Name
}

// Names returns the multi_select option names; never nil.
func (p Property) Names() []string {
	names := make([]string, 0, len(p.MultiSelect))
	for _, o := range p.MultiSelect {
		names = append(names, o.Name)
	}
	return names
}

func (p Property) URLString() string {
	if p.URL == nil {
		return ""
	}
	return *p.URL
}

// Checked returns the checkbox value and whether the property carried one.
func (p Property) Checked() (value, ok bool) {
	if p.Checkbox == nil {
		return false, false
	}
	return *p.Checkbox, true
}

// DateStart returns the start of a date property, or "".
func (p Property) DateStart() string {
	if p.Date == nil {
		return ""
	}
	return p.Date.Start
}

// Title returns the text of the page's title property, whatever it is named.
func (pg Page) Title() string {
	for _, p := range pg.Properties {
		if p.Type == TypeTitle || len(p.Title) > 0 {
			return p.PlainText()
		}
	}
	return ""
}

// Text returns the first non-empty text among the named properties.
func (pg Page) Text(names ...string) string {
	for _, n := range names {
		if s := pg.Properties[n].Text(); s != "" {
			return s
		}
	}
	return ""
}

// OptionalText is Text returning nil instead of "".
func (pg Page) OptionalText(names ...string) *string {
	if s := pg.Text(names...); s != "" {
		return &s
	}
	return nil
}
