package core

import (
	"bytes"
	"strings"
)

// ContactImage holds the picture of a contact. An empty image has no bytes.
type ContactImage struct {
	Thumbnail []byte
	Full      []byte
	Status    ModelStatus
}

func (i ContactImage) IsEmpty() bool {
	return len(i.Thumbnail) == 0 && len(i.Full) == 0
}

// Equal compares the image content byte-wise; Status is ignored.
func (i ContactImage) Equal(other ContactImage) bool {
	return bytes.Equal(i.Thumbnail, other.Thumbnail) && bytes.Equal(i.Full, other.Full)
}

func (i ContactImage) clone() ContactImage {
	return ContactImage{
		Thumbnail: cloneBytes(i.Thumbnail),
		Full:      cloneBytes(i.Full),
		Status:    i.Status,
	}
}

// ContactGroupID is keyed by name; Number is the provider group number when
// the group lives in the public store.
type ContactGroupID struct {
	Name   string
	Number int64
}

type ContactGroup struct {
	ID     ContactGroupID
	Notes  string
	Status ModelStatus
}

// Contact is the snapshot the reconciliation engine works on. Callers own it
// for one edit/save cycle.
type Contact struct {
	ID          ContactID
	Type        ContactType
	FirstName   string
	LastName    string
	Nickname    string
	Notes       string
	Image       ContactImage
	ContactData []ContactData
	Groups      []ContactGroup
	IsNew       bool
}

// NewContact returns an empty contact with a fresh internal id.
func NewContact(contactType ContactType) *Contact {
	return &Contact{
		ID:    NewInternalContactID(),
		Type:  contactType,
		Image: ContactImage{Status: ModelStatusUnchanged},
		IsNew: true,
	}
}

func (c *Contact) DisplayName() string {
	if c == nil {
		return ""
	}
	name := strings.TrimSpace(strings.TrimSpace(c.FirstName) + " " + strings.TrimSpace(c.LastName))
	if name != "" {
		return name
	}
	return strings.TrimSpace(c.Nickname)
}

// Clone returns a deep copy of c.
func (c *Contact) Clone() *Contact {
	if c == nil {
		return nil
	}
	cloned := *c
	cloned.Image = c.Image.clone()
	cloned.ContactData = append([]ContactData(nil), c.ContactData...)
	cloned.Groups = append([]ContactGroup(nil), c.Groups...)
	return &cloned
}

// AddData appends a NEW item of the category at the end of its sort order.
func (c *Contact) AddData(category ContactDataCategory) *ContactData {
	next := 0
	for _, item := range c.ContactData {
		if item.Category == category && item.Status != ModelStatusDeleted && item.SortOrder >= next {
			next = item.SortOrder + 1
		}
	}
	c.ContactData = append(c.ContactData, NewContactData(category, next))
	return &c.ContactData[len(c.ContactData)-1]
}

// FindData returns the item with the given id.
func (c *Contact) FindData(id ContactDataID) (*ContactData, bool) {
	for index := range c.ContactData {
		if c.ContactData[index].ID == id {
			return &c.ContactData[index], true
		}
	}
	return nil, false
}

// RemoveData marks the item as deleted. Items that were never persisted are
// dropped from the contact instead.
func (c *Contact) RemoveData(id ContactDataID) bool {
	for index, item := range c.ContactData {
		if item.ID != id {
			continue
		}
		if item.Status == ModelStatusNew {
			c.ContactData = append(c.ContactData[:index], c.ContactData[index+1:]...)
		} else {
			c.ContactData[index].Delete()
		}
		EnforceContinuousSortOrder(c.ContactData)
		return true
	}
	return false
}

// ChangeDataIDs gives every item whose id is not already of family a fresh
// id of that family.
func (c *Contact) ChangeDataIDs(family IDFamily) {
	for index := range c.ContactData {
		item := &c.ContactData[index]
		if item.ID != nil && item.ID.Family() == family {
			continue
		}
		item.ID = NewDataIDForFamily(family)
	}
}

// ChangeImage replaces the image content and tracks the mutation.
func (c *Contact) ChangeImage(thumbnail []byte, full []byte) {
	next := ContactImage{Thumbnail: cloneBytes(thumbnail), Full: cloneBytes(full)}
	status := c.Image.Status
	if status == "" {
		status = ModelStatusUnchanged
	}
	if next.IsEmpty() {
		next.Status = status.TryChangeTo(ModelStatusDeleted)
	} else {
		next.Status = status.TryChangeTo(ModelStatusChanged)
	}
	c.Image = next
}

// ActiveData returns the items that are not marked as deleted.
func (c *Contact) ActiveData() []ContactData {
	out := make([]ContactData, 0, len(c.ContactData))
	for _, item := range c.ContactData {
		if item.Status != ModelStatusDeleted {
			out = append(out, item)
		}
	}
	return out
}

// MarkPersisted consumes the in-memory mutation markers after a successful
// save: deleted items and groups disappear and everything else becomes
// UNCHANGED.
func (c *Contact) MarkPersisted() {
	kept := c.ContactData[:0]
	for _, item := range c.ContactData {
		if item.Status == ModelStatusDeleted {
			continue
		}
		item.OverrideStatus(ModelStatusUnchanged)
		kept = append(kept, item)
	}
	c.ContactData = kept
	groups := c.Groups[:0]
	for _, group := range c.Groups {
		if group.Status == ModelStatusDeleted {
			continue
		}
		group.Status = ModelStatusUnchanged
		groups = append(groups, group)
	}
	c.Groups = groups
	c.Image.Status = ModelStatusUnchanged
	c.IsNew = false
}

func cloneBytes(in []byte) []byte {
	if in == nil {
		return nil
	}
	return append([]byte(nil), in...)
}
