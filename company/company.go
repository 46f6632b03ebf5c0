// Package company maps company items onto the public provider store, which
// only knows one organisation field. Each company is written as a
// relationship entry whose custom label encodes the company type.
package company

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-contacts/core"
	glog "github.com/goliatone/go-logger/glog"
)

// Prefix marks relationship labels that carry a company. It is stored data
// and must never be translated.
const Prefix = "Organisation:"

type Option func(*Codec)

func WithLogger(logger core.Logger) Option {
	return func(c *Codec) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Codec encodes company types into relationship labels and back.
type Codec struct {
	logger core.Logger
}

func NewCodec(opts ...Option) *Codec {
	_, logger := glog.Resolve("company", nil, nil)
	c := &Codec{logger: glog.Ensure(logger)}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Matches reports whether label was written by Encode.
func Matches(label string) bool {
	return strings.HasPrefix(label, Prefix)
}

// Encode returns "Organisation:<KEY>" or "Organisation:CUSTOM:<value>".
func Encode(contactType core.ContactDataType) string {
	label := Prefix + string(contactType.Key)
	if contactType.IsCustom() && !contactType.IsPlaceholder() {
		label += ":" + contactType.CustomValue
	}
	return label
}

// Decode parses an encoded label. Malformed labels decode to Business and
// are logged.
func (c *Codec) Decode(label string) core.ContactDataType {
	contactType, err := parse(label)
	if err != nil {
		c.logger.Error("failed to decode company label, using business type",
			"label", label,
			"error", err,
		)
		return core.TypeBusiness
	}
	return contactType
}

func parse(label string) (core.ContactDataType, error) {
	if !Matches(label) {
		return core.ContactDataType{}, fmt.Errorf("company: label %q lacks prefix %q", label, Prefix)
	}
	rest := strings.TrimPrefix(label, Prefix)
	name, customValue, _ := strings.Cut(rest, ":")
	key, ok := core.ParseTypeKey(name)
	if !ok {
		return core.ContactDataType{}, fmt.Errorf("company: unknown type key %q", name)
	}
	if key != core.TypeKeyCustom {
		customValue = ""
	}
	contactType, ok := core.TypeFromKey(key, customValue)
	if !ok {
		return core.ContactDataType{}, fmt.Errorf("company: unsupported type key %q", key)
	}
	return contactType, nil
}

// ToRelationship rewrites a company item as the relationship entry stored by
// the provider. The label to store is returned alongside the item.
func ToRelationship(item core.ContactData) (core.ContactData, string) {
	out := item
	out.Category = core.CategoryRelationship
	out.Value = core.Relationship(item.SerializedValue())
	return out, Encode(item.Type)
}

// FromRelationship rebuilds the company item from a relationship entry
// carrying an encoded label.
func (c *Codec) FromRelationship(item core.ContactData, label string) core.ContactData {
	out := item
	out.Category = core.CategoryCompany
	out.Type = c.Decode(label)
	out.Value = core.Company(item.SerializedValue())
	return out
}
