package core

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// ContactDataCategory is the fixed kind of a contact-data item.
type ContactDataCategory string

const (
	CategoryPhoneNumber  ContactDataCategory = "PHONE_NUMBER"
	CategoryEmail        ContactDataCategory = "EMAIL"
	CategoryAddress      ContactDataCategory = "ADDRESS"
	CategoryWebsite      ContactDataCategory = "WEBSITE"
	CategoryRelationship ContactDataCategory = "RELATIONSHIP"
	CategoryEventDate    ContactDataCategory = "EVENT_DATE"
	CategoryCompany      ContactDataCategory = "COMPANY"
)

var categories = []ContactDataCategory{
	CategoryPhoneNumber,
	CategoryEmail,
	CategoryAddress,
	CategoryWebsite,
	CategoryRelationship,
	CategoryEventDate,
	CategoryCompany,
}

func Categories() []ContactDataCategory {
	return append([]ContactDataCategory(nil), categories...)
}

func ParseCategory(raw string) (ContactDataCategory, error) {
	candidate := ContactDataCategory(strings.ToUpper(strings.TrimSpace(raw)))
	for _, category := range categories {
		if category == candidate {
			return category, nil
		}
	}
	return "", fmt.Errorf("core: unknown contact data category %q", raw)
}

var allowedTypes = map[ContactDataCategory][]ContactDataType{
	CategoryPhoneNumber: {TypeMobile, TypePersonal, TypeBusiness, TypeOther, TypeCustom},
	CategoryEmail:       {TypePersonal, TypeBusiness, TypeOther, TypeCustom},
	CategoryAddress:     {TypePersonal, TypeBusiness, TypeOther, TypeCustom},
	CategoryWebsite:     {TypePersonal, TypeBusiness, TypeOther, TypeCustom},
	CategoryRelationship: {
		TypeRelationshipFather,
		TypeRelationshipMother,
		TypeRelationshipChild,
		TypeRelationshipBrother,
		TypeRelationshipSister,
		TypeRelationshipFriend,
		TypeRelationshipPartner,
		TypeRelationshipRelative,
		TypeRelationshipWork,
		TypeCustom,
		TypeOther,
	},
	CategoryEventDate: {TypeBirthday, TypeAnniversary, TypeOther, TypeCustom},
	CategoryCompany:   {TypeMain, TypeOther, TypeCustom},
}

// AllowedTypes lists the types an editor may pick for the category.
func (c ContactDataCategory) AllowedTypes() []ContactDataType {
	return append([]ContactDataType(nil), allowedTypes[c]...)
}

// DefaultType is the type given to a freshly added item.
func (c ContactDataCategory) DefaultType(sortOrder int) ContactDataType {
	switch c {
	case CategoryPhoneNumber:
		return TypeMobile
	case CategoryRelationship:
		return TypeRelationshipFriend
	case CategoryEventDate:
		return TypeOther
	case CategoryCompany:
		if sortOrder == 0 {
			return TypeMain
		}
		return TypeOther
	default:
		return TypePersonal
	}
}

// ContactDataValue is the per-kind payload of an item.
type ContactDataValue interface {
	Category() ContactDataCategory
	Serialize() string
	IsEmpty() bool
}

type PhoneNumber struct {
	Number    string
	Formatted string
}

func (PhoneNumber) Category() ContactDataCategory { return CategoryPhoneNumber }
func (v PhoneNumber) Serialize() string           { return v.Number }
func (v PhoneNumber) IsEmpty() bool               { return strings.TrimSpace(v.Number) == "" }

type EmailAddress string

func (EmailAddress) Category() ContactDataCategory { return CategoryEmail }
func (v EmailAddress) Serialize() string           { return string(v) }
func (v EmailAddress) IsEmpty() bool               { return strings.TrimSpace(string(v)) == "" }

type PhysicalAddress string

func (PhysicalAddress) Category() ContactDataCategory { return CategoryAddress }
func (v PhysicalAddress) Serialize() string           { return string(v) }
func (v PhysicalAddress) IsEmpty() bool               { return strings.TrimSpace(string(v)) == "" }

type Website string

func (Website) Category() ContactDataCategory { return CategoryWebsite }
func (v Website) Serialize() string           { return string(v) }
func (v Website) IsEmpty() bool               { return strings.TrimSpace(string(v)) == "" }

type Relationship string

func (Relationship) Category() ContactDataCategory { return CategoryRelationship }
func (v Relationship) Serialize() string           { return string(v) }
func (v Relationship) IsEmpty() bool               { return strings.TrimSpace(string(v)) == "" }

type Company string

func (Company) Category() ContactDataCategory { return CategoryCompany }
func (v Company) Serialize() string           { return string(v) }
func (v Company) IsEmpty() bool               { return strings.TrimSpace(string(v)) == "" }

const eventDateLayout = "2006-01-02"

// EventDate holds a calendar date; the zero value is an empty date.
type EventDate struct {
	Date time.Time
}

func (EventDate) Category() ContactDataCategory { return CategoryEventDate }

func (v EventDate) Serialize() string {
	if v.Date.IsZero() {
		return ""
	}
	return v.Date.Format(eventDateLayout)
}

func (v EventDate) IsEmpty() bool { return v.Date.IsZero() }

func ParseEventDate(raw string) (EventDate, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return EventDate{}, nil
	}
	parsed, err := time.Parse(eventDateLayout, raw)
	if err != nil {
		return EventDate{}, fmt.Errorf("core: invalid event date %q: %w", raw, err)
	}
	return EventDate{Date: parsed}, nil
}

// DeserializeValue rebuilds a payload from its serialized form.
func DeserializeValue(category ContactDataCategory, raw string) (ContactDataValue, error) {
	switch category {
	case CategoryPhoneNumber:
		return PhoneNumber{Number: raw, Formatted: raw}, nil
	case CategoryEmail:
		return EmailAddress(raw), nil
	case CategoryAddress:
		return PhysicalAddress(raw), nil
	case CategoryWebsite:
		return Website(raw), nil
	case CategoryRelationship:
		return Relationship(raw), nil
	case CategoryCompany:
		return Company(raw), nil
	case CategoryEventDate:
		return ParseEventDate(raw)
	default:
		return nil, fmt.Errorf("core: unknown contact data category %q", category)
	}
}

// ContactData is one field value of a contact. Mutating methods update
// Status through ModelStatus.TryChangeTo.
type ContactData struct {
	ID        ContactDataID
	SortOrder int
	Category  ContactDataCategory
	Type      ContactDataType
	Value     ContactDataValue
	Status    ModelStatus
}

// NewContactData returns an empty NEW item with an internal id; ids switch
// family only when the owning contact is saved.
func NewContactData(category ContactDataCategory, sortOrder int) ContactData {
	value, _ := DeserializeValue(category, "")
	return ContactData{
		ID:        NewInternalDataID(),
		SortOrder: sortOrder,
		Category:  category,
		Type:      category.DefaultType(sortOrder),
		Value:     value,
		Status:    ModelStatusNew,
	}
}

func (d ContactData) IsMain() bool {
	return d.SortOrder == 0
}

func (d ContactData) IsEmpty() bool {
	return d.Value == nil || d.Value.IsEmpty()
}

// SerializedValue returns the stored form of the payload.
func (d ContactData) SerializedValue() string {
	if d.Value == nil {
		return ""
	}
	return d.Value.Serialize()
}

func (d *ContactData) ChangeValue(value ContactDataValue) error {
	if value == nil {
		return fmt.Errorf("core: contact data value is required")
	}
	if value.Category() != d.Category {
		return fmt.Errorf("core: cannot assign %s value to %s item", value.Category(), d.Category)
	}
	d.Value = value
	d.Status = d.Status.TryChangeTo(ModelStatusChanged)
	return nil
}

func (d *ContactData) ChangeType(t ContactDataType) {
	d.Type = t
	d.Status = d.Status.TryChangeTo(ModelStatusChanged)
}

func (d *ContactData) Delete() {
	d.Status = d.Status.TryChangeTo(ModelStatusDeleted)
}

// OverrideStatus sets the status without transition rules. Stores use it on
// load and after a successful write.
func (d *ContactData) OverrideStatus(status ModelStatus) {
	d.Status = status
}

// ChangeSortOrder moves the item; markChanged controls whether the move
// counts as a modification.
func (d *ContactData) ChangeSortOrder(sortOrder int, markChanged bool) {
	if d.SortOrder == sortOrder {
		return
	}
	d.SortOrder = sortOrder
	if markChanged {
		d.Status = d.Status.TryChangeTo(ModelStatusChanged)
	}
}

func (d *ContactData) ChangeToInternalID() {
	d.ID = NewInternalDataID()
}

func (d *ContactData) ChangeToExternalID() {
	d.ID = NewExternalPlaceholderDataID()
}

// EnforceContinuousSortOrder renumbers the non-deleted items of every
// category so that sort orders start at 0 without gaps.
func EnforceContinuousSortOrder(items []ContactData) {
	byCategory := map[ContactDataCategory][]int{}
	for index, item := range items {
		if item.Status == ModelStatusDeleted {
			continue
		}
		byCategory[item.Category] = append(byCategory[item.Category], index)
	}
	for _, indexes := range byCategory {
		sort.SliceStable(indexes, func(i, j int) bool {
			return items[indexes[i]].SortOrder < items[indexes[j]].SortOrder
		})
		for position, index := range indexes {
			items[index].ChangeSortOrder(position, true)
		}
	}
}
