package core

import "strings"

// TypeKey is the persisted name of a contact-data type.
type TypeKey string

const (
	TypeKeyPersonal             TypeKey = "PERSONAL"
	TypeKeyBusiness             TypeKey = "BUSINESS"
	TypeKeyMobile               TypeKey = "MOBILE"
	TypeKeyMobileBusiness       TypeKey = "MOBILE_BUSINESS"
	TypeKeyOther                TypeKey = "OTHER"
	TypeKeyBirthday             TypeKey = "BIRTHDAY"
	TypeKeyAnniversary          TypeKey = "ANNIVERSARY"
	TypeKeyMain                 TypeKey = "MAIN"
	TypeKeyCustom               TypeKey = "CUSTOM"
	TypeKeyRelationshipSibling  TypeKey = "RELATIONSHIP_SIBLING"
	TypeKeyRelationshipBrother  TypeKey = "RELATIONSHIP_BROTHER"
	TypeKeyRelationshipSister   TypeKey = "RELATIONSHIP_SISTER"
	TypeKeyRelationshipParent   TypeKey = "RELATIONSHIP_PARENT"
	TypeKeyRelationshipMother   TypeKey = "RELATIONSHIP_MOTHER"
	TypeKeyRelationshipFather   TypeKey = "RELATIONSHIP_FATHER"
	TypeKeyRelationshipChild    TypeKey = "RELATIONSHIP_CHILD"
	TypeKeyRelationshipRelative TypeKey = "RELATIONSHIP_RELATIVE"
	TypeKeyRelationshipPartner  TypeKey = "RELATIONSHIP_PARTNER"
	TypeKeyRelationshipFriend   TypeKey = "RELATIONSHIP_FRIEND"
	TypeKeyRelationshipWork     TypeKey = "RELATIONSHIP_WORK"
)

var typeKeys = []TypeKey{
	TypeKeyPersonal,
	TypeKeyBusiness,
	TypeKeyMobile,
	TypeKeyMobileBusiness,
	TypeKeyOther,
	TypeKeyBirthday,
	TypeKeyAnniversary,
	TypeKeyMain,
	TypeKeyCustom,
	TypeKeyRelationshipSibling,
	TypeKeyRelationshipBrother,
	TypeKeyRelationshipSister,
	TypeKeyRelationshipParent,
	TypeKeyRelationshipMother,
	TypeKeyRelationshipFather,
	TypeKeyRelationshipChild,
	TypeKeyRelationshipRelative,
	TypeKeyRelationshipPartner,
	TypeKeyRelationshipFriend,
	TypeKeyRelationshipWork,
}

// TypeKeys lists every known key.
func TypeKeys() []TypeKey {
	return append([]TypeKey(nil), typeKeys...)
}

// ParseTypeKey matches raw against the known keys, ignoring case.
func ParseTypeKey(raw string) (TypeKey, bool) {
	candidate := TypeKey(strings.ToUpper(strings.TrimSpace(raw)))
	for _, key := range typeKeys {
		if key == candidate {
			return key, true
		}
	}
	return "", false
}

// ContactDataType is the internal semantic sub-classification of an item.
// Values are comparable; CustomValue is only set for custom types.
type ContactDataType struct {
	Key         TypeKey
	CustomValue string

	placeholder bool
}

var (
	TypeMobile               = ContactDataType{Key: TypeKeyMobile}
	TypePersonal             = ContactDataType{Key: TypeKeyPersonal}
	TypeBusiness             = ContactDataType{Key: TypeKeyBusiness}
	TypeMobileBusiness       = ContactDataType{Key: TypeKeyMobileBusiness}
	TypeBirthday             = ContactDataType{Key: TypeKeyBirthday}
	TypeAnniversary          = ContactDataType{Key: TypeKeyAnniversary}
	TypeMain                 = ContactDataType{Key: TypeKeyMain}
	TypeOther                = ContactDataType{Key: TypeKeyOther}
	TypeRelationshipBrother  = ContactDataType{Key: TypeKeyRelationshipBrother}
	TypeRelationshipSister   = ContactDataType{Key: TypeKeyRelationshipSister}
	TypeRelationshipSibling  = ContactDataType{Key: TypeKeyRelationshipSibling}
	TypeRelationshipParent   = ContactDataType{Key: TypeKeyRelationshipParent}
	TypeRelationshipFather   = ContactDataType{Key: TypeKeyRelationshipFather}
	TypeRelationshipMother   = ContactDataType{Key: TypeKeyRelationshipMother}
	TypeRelationshipChild    = ContactDataType{Key: TypeKeyRelationshipChild}
	TypeRelationshipPartner  = ContactDataType{Key: TypeKeyRelationshipPartner}
	TypeRelationshipRelative = ContactDataType{Key: TypeKeyRelationshipRelative}
	TypeRelationshipFriend   = ContactDataType{Key: TypeKeyRelationshipFriend}
	TypeRelationshipWork     = ContactDataType{Key: TypeKeyRelationshipWork}

	// TypeCustom is the "custom, no label chosen yet" placeholder offered to
	// editors. It must be replaced by CustomType before an item is written.
	TypeCustom = ContactDataType{Key: TypeKeyCustom, placeholder: true}
)

var typePriorities = map[TypeKey]int{
	TypeKeyMobile:               100,
	TypeKeyPersonal:             200,
	TypeKeyBusiness:             300,
	TypeKeyMobileBusiness:       310,
	TypeKeyCustom:               410,
	TypeKeyBirthday:             500,
	TypeKeyAnniversary:          600,
	TypeKeyMain:                 700,
	TypeKeyRelationshipBrother:  800,
	TypeKeyRelationshipSister:   802,
	TypeKeyRelationshipSibling:  805,
	TypeKeyRelationshipParent:   810,
	TypeKeyRelationshipFather:   811,
	TypeKeyRelationshipMother:   812,
	TypeKeyRelationshipChild:    820,
	TypeKeyRelationshipPartner:  830,
	TypeKeyRelationshipRelative: 840,
	TypeKeyRelationshipFriend:   850,
	TypeKeyRelationshipWork:     860,
	TypeKeyOther:                9000,
}

// CustomType returns a custom type carrying a user-defined label.
func CustomType(value string) ContactDataType {
	return ContactDataType{Key: TypeKeyCustom, CustomValue: value}
}

// TypeFromKey rebuilds a type from its persisted key. CUSTOM always yields a
// concrete custom type, never the placeholder.
func TypeFromKey(key TypeKey, customValue string) (ContactDataType, bool) {
	if key == TypeKeyCustom {
		return CustomType(customValue), true
	}
	if _, ok := typePriorities[key]; !ok {
		return ContactDataType{}, false
	}
	return ContactDataType{Key: key}, true
}

// IsPlaceholder reports whether t is the TypeCustom placeholder.
func (t ContactDataType) IsPlaceholder() bool {
	return t.placeholder
}

func (t ContactDataType) IsCustom() bool {
	return t.Key == TypeKeyCustom
}

// Priority orders types when duplicates are collapsed; lower wins.
func (t ContactDataType) Priority() int {
	if t.placeholder {
		return 400
	}
	if priority, ok := typePriorities[t.Key]; ok {
		return priority
	}
	return typePriorities[TypeKeyOther]
}

func (t ContactDataType) String() string {
	if t.Key == TypeKeyCustom && !t.placeholder {
		return string(t.Key) + ":" + t.CustomValue
	}
	return string(t.Key)
}
