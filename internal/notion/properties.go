package notion

import (
	"encoding/json"
	"time"
)

// Property types used by the waitlist database.
const (
	TypeTitle       = "title"
	TypeEmail       = "email"
	TypeDate        = "date"
	TypeCheckbox    = "checkbox"
	TypeSelect      = "select"
	TypeMultiSelect = "multi_select"
	TypeRichText    = "rich_text"
)

type Text struct {
	Content string `json:"content"`
}

type RichText struct {
	Type      string `json:"type,omitempty"`
	Text      *Text  `json:"text,omitempty"`
	PlainText string `json:"plain_text,omitempty"`
}

type SelectOption struct {
	Name string `json:"name"`
}

type Date struct {
	Start string `json:"start"`
}

// Property is a typed page property value. Only the field matching Type is
// meaningful. A select property with a nil Select encodes as an explicit
// null, which clears the value.
type Property struct {
	Type        string         `json:"type"`
	Title       []RichText     `json:"title,omitempty"`
	RichText    []RichText     `json:"rich_text,omitempty"`
	Email       *string        `json:"email,omitempty"`
	Date        *Date          `json:"date,omitempty"`
	Checkbox    *bool          `json:"checkbox,omitempty"`
	Select      *SelectOption  `json:"select,omitempty"`
	MultiSelect []SelectOption `json:"multi_select,omitempty"`
}

func (p Property) MarshalJSON() ([]byte, error) {
	var value any
	switch p.Type {
	case TypeTitle:
		value = nonNil(p.Title)
	case TypeRichText:
		value = nonNil(p.RichText)
	case TypeEmail:
		value = p.Email
	case TypeDate:
		value = p.Date
	case TypeCheckbox:
		value = p.Checkbox != nil && *p.Checkbox
	case TypeSelect:
		value = p.Select
	case TypeMultiSelect:
		value = nonNil(p.MultiSelect)
	default:
		type plain Property
		return json.Marshal(plain(p))
	}
	return json.Marshal(map[string]any{
		"type": p.Type,
		p.Type: value,
	})
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// Properties maps property names to values.
type Properties map[string]Property

func TitleProperty(content string) Property {
	return Property{Type: TypeTitle, Title: textBlocks(content)}
}

// RichTextProperty writes content as plain text. Empty content clears it.
func RichTextProperty(content string) Property {
	return Property{Type: TypeRichText, RichText: textBlocks(content)}
}

func EmailProperty(email string) Property {
	return Property{Type: TypeEmail, Email: &email}
}

func DateProperty(t time.Time) Property {
	return Property{Type: TypeDate, Date: &Date{Start: t.UTC().Format(time.RFC3339Nano)}}
}

func CheckboxProperty(v bool) Property {
	return Property{Type: TypeCheckbox, Checkbox: &v}
}

// SelectProperty sets a category. An empty name clears it.
func SelectProperty(name string) Property {
	p := Property{Type: TypeSelect}
	if name != "" {
		p.Select = &SelectOption{Name: name}
	}
	return p
}

func MultiSelectProperty(names []string) Property {
	opts := make([]SelectOption, len(names))
	for i, n := range names {
		opts[i] = SelectOption{Name: n}
	}
	return Property{Type: TypeMultiSelect, MultiSelect: opts}
}

func textBlocks(content string) []RichText {
	if content == "" {
		return []RichText{}
	}
	return []RichText{{Type: "text", Text: &Text{Content: content}}}
}

// PlainText joins the text of a title or rich text property.
func (p Property) PlainText() string {
	blocks := p.RichText
	if p.Type == TypeTitle {
		blocks = p.Title
	}
	var out string
	for _, b := range blocks {
		switch {
		case b.PlainText != "":
			out += b.PlainText
		case b.Text != nil:
			out += b.Text.Content
		}
	}
	return out
}

// Time parses a date property's start. It returns false when the date is
// absent or unparseable.
func (p Property) Time() (time.Time, bool) {
	if p.Date == nil || p.Date.Start == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02"} {
		if t, err := time.Parse(layout, p.Date.Start); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// SelectName returns the selected category name, or "".
func (p Property) SelectName() string {
	if p.Select == nil {
		return ""
	}
	return p.Select.Name
}

// Names returns the names of a multi-select property.
func (p Property) Names() []string {
	names := make([]string, len(p.MultiSelect))
	for i, o := range p.MultiSelect {
		names[i] = o.Name
	}
	return names
}

// Bool returns the checkbox value.
func (p Property) Bool() bool {
	return p.Checkbox != nil && *p.Checkbox
}

// EmailValue returns the email value, or "".
func (p Property) EmailValue() string {
	if p.Email == nil {
		return ""
	}
	return *p.Email
}
