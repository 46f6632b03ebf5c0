package sqlstore

import (
	"fmt"
	"time"

	"github.com/goliatone/go-contacts/core"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type contactRecord struct {
	bun.BaseModel `bun:"table:contacts,alias:c"`

	ID        string    `bun:"id,pk"`
	FirstName string    `bun:"first_name,notnull"`
	LastName  string    `bun:"last_name,notnull"`
	Nickname  string    `bun:"nickname,notnull"`
	Notes     string    `bun:"notes,notnull"`
	Thumbnail []byte    `bun:"thumbnail"`
	Photo     []byte    `bun:"photo"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

type contactDataRecord struct {
	bun.BaseModel `bun:"table:contact_data,alias:cd"`

	ID         string    `bun:"id,pk"`
	ContactID  string    `bun:"contact_id,notnull"`
	Category   string    `bun:"category,notnull"`
	TypeKey    string    `bun:"type_key,notnull"`
	TypeCustom string    `bun:"type_custom,notnull"`
	Value      string    `bun:"value,notnull"`
	SortOrder  int       `bun:"sort_order,notnull"`
	CreatedAt  time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt  time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

type contactGroupRecord struct {
	bun.BaseModel `bun:"table:contact_groups,alias:cg"`

	ID        string    `bun:"id,pk"`
	Name      string    `bun:"name,notnull"`
	Notes     string    `bun:"notes,notnull"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

type groupMemberRecord struct {
	bun.BaseModel `bun:"table:contact_group_members,alias:cgm"`

	ContactID string `bun:"contact_id,pk"`
	GroupName string `bun:"group_name,pk"`
}

func newContactRecord(id uuid.UUID, contact *core.Contact, now time.Time) *contactRecord {
	record := &contactRecord{
		ID:        id.String(),
		FirstName: contact.FirstName,
		LastName:  contact.LastName,
		Nickname:  contact.Nickname,
		Notes:     contact.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if contact.Image.Status != core.ModelStatusDeleted {
		record.Thumbnail = append([]byte(nil), contact.Image.Thumbnail...)
		record.Photo = append([]byte(nil), contact.Image.Full...)
	}
	return record
}

func newContactDataRecord(contactID string, item core.ContactData, now time.Time) (*contactDataRecord, error) {
	internal, ok := item.ID.(core.InternalDataID)
	if !ok {
		return nil, fmt.Errorf("sqlstore: contact data id %v is not an internal id", item.ID)
	}
	return &contactDataRecord{
		ID:         internal.UUID.String(),
		ContactID:  contactID,
		Category:   string(item.Category),
		TypeKey:    string(item.Type.Key),
		TypeCustom: item.Type.CustomValue,
		Value:      item.SerializedValue(),
		SortOrder:  item.SortOrder,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

func (r *contactRecord) toDomain() *core.Contact {
	if r == nil {
		return nil
	}
	return &core.Contact{
		ID:        core.InternalContactID{UUID: parseUUID(r.ID)},
		Type:      core.ContactTypeSecret,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Nickname:  r.Nickname,
		Notes:     r.Notes,
		Image: core.ContactImage{
			Thumbnail: append([]byte(nil), r.Thumbnail...),
			Full:      append([]byte(nil), r.Photo...),
			Status:    core.ModelStatusUnchanged,
		},
	}
}

// toDomain rebuilds the item. Rows whose category, type or value no longer
// parse report an error so the caller can skip them.
func (r *contactDataRecord) toDomain() (core.ContactData, error) {
	category, err := core.ParseCategory(r.Category)
	if err != nil {
		return core.ContactData{}, err
	}
	dataType, ok := core.TypeFromKey(core.TypeKey(r.TypeKey), r.TypeCustom)
	if !ok {
		return core.ContactData{}, fmt.Errorf("sqlstore: unknown contact data type %q", r.TypeKey)
	}
	value, err := core.DeserializeValue(category, r.Value)
	if err != nil {
		return core.ContactData{}, err
	}
	return core.ContactData{
		ID:        core.InternalDataID{UUID: parseUUID(r.ID)},
		SortOrder: r.SortOrder,
		Category:  category,
		Type:      dataType,
		Value:     value,
		Status:    core.ModelStatusUnchanged,
	}, nil
}
