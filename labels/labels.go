// Package labels translates contact-data types to and from the label
// vocabulary of the public provider store.
//
// The provider vocabulary is coarser than the internal one, so decoding is
// lossy. Only the types listed by StableTypes survive an encode/decode round
// trip unchanged.
package labels

import (
	"strings"

	"github.com/goliatone/go-contacts/core"
	glog "github.com/goliatone/go-logger/glog"
)

// Kind names a provider label.
type Kind string

const (
	KindPhoneMobile        Kind = "phone_mobile"
	KindPhoneCompanyMain   Kind = "phone_company_main"
	KindPhoneWorkMobile    Kind = "phone_work_mobile"
	KindMain               Kind = "main"
	KindLocationHome       Kind = "location_home"
	KindLocationWork       Kind = "location_work"
	KindDateBirthday       Kind = "date_birthday"
	KindDateAnniversary    Kind = "date_anniversary"
	KindWebsiteHomePage    Kind = "website_home_page"
	KindOther              Kind = "other"
	KindRelationBrother    Kind = "relation_brother"
	KindRelationSister     Kind = "relation_sister"
	KindRelationChild      Kind = "relation_child"
	KindRelationFather     Kind = "relation_father"
	KindRelationMother     Kind = "relation_mother"
	KindRelationParent     Kind = "relation_parent"
	KindRelationPartner    Kind = "relation_partner"
	KindRelationDomestic   Kind = "relation_domestic_partner"
	KindRelationSpouse     Kind = "relation_spouse"
	KindRelationRelative   Kind = "relation_relative"
	KindRelationFriend     Kind = "relation_friend"
	KindRelationManager    Kind = "relation_manager"
	KindRelationReferredBy Kind = "relation_referred_by"
	KindCustom             Kind = "custom"
)

const customPrefix = string(KindCustom) + ":"

// Label is a provider label. Custom labels carry free text in Value.
type Label struct {
	Kind  Kind
	Value string
}

func Custom(value string) Label {
	return Label{Kind: KindCustom, Value: value}
}

// String returns the stored form of the label: the kind, or "custom:<text>"
// for custom labels.
func (l Label) String() string {
	if l.Kind == KindCustom {
		return customPrefix + l.Value
	}
	return string(l.Kind)
}

// Parse reads the stored form written by String. Unknown kinds are kept as
// is and decode to Other.
func Parse(raw string) Label {
	if strings.HasPrefix(raw, customPrefix) {
		return Custom(strings.TrimPrefix(raw, customPrefix))
	}
	return Label{Kind: Kind(strings.TrimSpace(raw))}
}

var decodeTable = map[Kind]core.ContactDataType{
	KindPhoneMobile:        core.TypeMobile,
	KindPhoneCompanyMain:   core.TypeBusiness,
	KindPhoneWorkMobile:    core.TypeMobileBusiness,
	KindMain:               core.TypeMain,
	KindLocationHome:       core.TypePersonal,
	KindLocationWork:       core.TypeBusiness,
	KindDateBirthday:       core.TypeBirthday,
	KindDateAnniversary:    core.TypeAnniversary,
	KindWebsiteHomePage:    core.TypeMain,
	KindOther:              core.TypeOther,
	KindRelationBrother:    core.TypeRelationshipBrother,
	KindRelationSister:     core.TypeRelationshipSister,
	KindRelationChild:      core.TypeRelationshipChild,
	KindRelationFather:     core.TypeRelationshipFather,
	KindRelationMother:     core.TypeRelationshipMother,
	KindRelationParent:     core.TypeRelationshipParent,
	KindRelationPartner:    core.TypeRelationshipPartner,
	KindRelationDomestic:   core.TypeRelationshipPartner,
	KindRelationSpouse:     core.TypeRelationshipPartner,
	KindRelationRelative:   core.TypeRelationshipRelative,
	KindRelationFriend:     core.TypeRelationshipFriend,
	KindRelationManager:    core.TypeRelationshipWork,
	KindRelationReferredBy: core.TypeOther,
}

// Keep in sync with decodeTable.
var encodeTable = map[core.TypeKey]Kind{
	core.TypeKeyMobile:               KindPhoneMobile,
	core.TypeKeyMobileBusiness:       KindPhoneWorkMobile,
	core.TypeKeyPersonal:             KindLocationHome,
	core.TypeKeyBirthday:             KindDateBirthday,
	core.TypeKeyAnniversary:          KindDateAnniversary,
	core.TypeKeyOther:                KindOther,
	core.TypeKeyRelationshipBrother:  KindRelationBrother,
	core.TypeKeyRelationshipSister:   KindRelationSister,
	core.TypeKeyRelationshipSibling:  KindRelationBrother,
	core.TypeKeyRelationshipChild:    KindRelationChild,
	core.TypeKeyRelationshipFather:   KindRelationFather,
	core.TypeKeyRelationshipMother:   KindRelationMother,
	core.TypeKeyRelationshipParent:   KindRelationParent,
	core.TypeKeyRelationshipPartner:  KindRelationPartner,
	core.TypeKeyRelationshipRelative: KindRelationRelative,
	core.TypeKeyRelationshipFriend:   KindRelationFriend,
	core.TypeKeyRelationshipWork:     KindRelationManager,
}

// StableTypes lists the non-custom types for which
// ToInternalType(ToExternalLabel(t, c, nil)) == t in every category.
// Concrete custom types are stable as well.
func StableTypes() []core.ContactDataType {
	return []core.ContactDataType{
		core.TypeMobile,
		core.TypePersonal,
		core.TypeBusiness,
		core.TypeMobileBusiness,
		core.TypeBirthday,
		core.TypeAnniversary,
		core.TypeMain,
		core.TypeOther,
		core.TypeRelationshipBrother,
		core.TypeRelationshipSister,
		core.TypeRelationshipParent,
		core.TypeRelationshipFather,
		core.TypeRelationshipMother,
		core.TypeRelationshipChild,
		core.TypeRelationshipPartner,
		core.TypeRelationshipRelative,
		core.TypeRelationshipFriend,
		core.TypeRelationshipWork,
	}
}

// ToInternalType decodes a provider label. Unknown labels become Other.
func ToInternalType(label Label) core.ContactDataType {
	if label.Kind == KindCustom {
		return core.CustomType(label.Value)
	}
	if contactType, ok := decodeTable[label.Kind]; ok {
		return contactType
	}
	return core.TypeOther
}

type Option func(*Translator)

func WithLogger(logger core.Logger) Option {
	return func(t *Translator) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// Translator encodes internal types to provider labels.
type Translator struct {
	logger core.Logger
}

func NewTranslator(opts ...Option) *Translator {
	_, logger := glog.Resolve("labels", nil, nil)
	t := &Translator{logger: glog.Ensure(logger)}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	return t
}

var defaultTranslator = NewTranslator()

// ToExternalLabel encodes with a translator that logs nowhere.
func ToExternalLabel(contactType core.ContactDataType, category core.ContactDataCategory, original *Label) Label {
	return defaultTranslator.ToExternalLabel(contactType, category, original)
}

// ToExternalLabel encodes contactType for an item of category. When the
// item's original label already decodes to contactType it is returned
// unchanged, so a precise provider label is not replaced by a generic one.
func (t *Translator) ToExternalLabel(contactType core.ContactDataType, category core.ContactDataCategory, original *Label) Label {
	if original != nil && !contactType.IsPlaceholder() && ToInternalType(*original) == contactType {
		return *original
	}
	return t.encode(contactType, category)
}

func (t *Translator) encode(contactType core.ContactDataType, category core.ContactDataCategory) Label {
	if contactType.IsPlaceholder() {
		t.logger.Warn("placeholder custom type cannot be written, using generic custom label",
			"category", string(category),
		)
		return Custom("custom")
	}
	switch contactType.Key {
	case core.TypeKeyCustom:
		return Custom(contactType.CustomValue)
	case core.TypeKeyBusiness:
		if category == core.CategoryAddress {
			return Label{Kind: KindLocationWork}
		}
		return Label{Kind: KindPhoneCompanyMain}
	case core.TypeKeyMain:
		if category == core.CategoryWebsite {
			return Label{Kind: KindWebsiteHomePage}
		}
		return Label{Kind: KindMain}
	}
	if kind, ok := encodeTable[contactType.Key]; ok {
		return Label{Kind: kind}
	}
	t.logger.Warn("no provider label for contact data type", "type", contactType.String())
	return Label{Kind: KindOther}
}
