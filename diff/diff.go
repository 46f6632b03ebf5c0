// Package diff computes the field set a save has to write, given the stored
// snapshot of a contact and the edited one.
//
// Items are compared by identity and mutation status, never by content: an
// item that was edited and then reverted by hand is still reported, with its
// latest value. The diff answers "what is the new field set", not "what
// changed inside a field".
package diff

import (
	"fmt"

	"github.com/goliatone/go-contacts/core"
)

// Diff lists the changes between two snapshots. A nil scalar means the field
// did not change; otherwise it points to the new value.
type Diff struct {
	FirstName   *string
	LastName    *string
	Nickname    *string
	Notes       *string
	Image       *core.ContactImage
	ContactData []DataDiff
	Groups      []GroupDiff
}

// DataDiff is the entry of one item. Deleted entries carry the old item.
type DataDiff struct {
	ID      core.ContactDataID
	Item    core.ContactData
	Deleted bool
}

// GroupDiff is the entry of one group membership.
type GroupDiff struct {
	ID      core.ContactGroupID
	Notes   string
	Deleted bool
}

// IsEmpty reports whether applying d would write nothing.
func (d Diff) IsEmpty() bool {
	return d.FirstName == nil &&
		d.LastName == nil &&
		d.Nickname == nil &&
		d.Notes == nil &&
		d.Image == nil &&
		len(d.ContactData) == 0 &&
		len(d.Groups) == 0
}

// Compute diffs the stored snapshot before against the edited after. Both
// snapshots must be non-nil.
//
// For every item id in either snapshot:
//   - only in before, or marked DELETED in after: a deletion entry
//   - only in after, or present in both with a NEW or CHANGED status: a
//     presence entry with the new value
//   - present in both and UNCHANGED: no entry
//
// Groups follow the same rules, keyed by group name.
func Compute(before *core.Contact, after *core.Contact) Diff {
	if before == nil || after == nil {
		panic("diff: both snapshots are required")
	}
	return Diff{
		FirstName:   changedString(before.FirstName, after.FirstName),
		LastName:    changedString(before.LastName, after.LastName),
		Nickname:    changedString(before.Nickname, after.Nickname),
		Notes:       changedString(before.Notes, after.Notes),
		Image:       changedImage(before.Image, after.Image),
		ContactData: dataDiffs(before.ContactData, after.ContactData),
		Groups:      groupDiffs(before.Groups, after.Groups),
	}
}

func dataDiffs(oldItems []core.ContactData, newItems []core.ContactData) []DataDiff {
	oldByID := make(map[core.ContactDataID]core.ContactData, len(oldItems))
	newByID := make(map[core.ContactDataID]core.ContactData, len(newItems))
	keys := make([]core.ContactDataID, 0, len(oldItems)+len(newItems))
	for _, item := range oldItems {
		if _, seen := oldByID[item.ID]; !seen {
			keys = append(keys, item.ID)
		}
		oldByID[item.ID] = item
	}
	for _, item := range newItems {
		_, inOld := oldByID[item.ID]
		if _, seen := newByID[item.ID]; !seen && !inOld {
			keys = append(keys, item.ID)
		}
		newByID[item.ID] = item
	}

	out := make([]DataDiff, 0, len(keys))
	for _, id := range keys {
		oldItem, inOld := oldByID[id]
		newItem, inNew := newByID[id]
		switch {
		case inNew && newItem.Status == core.ModelStatusDeleted:
			out = append(out, DataDiff{ID: id, Item: newItem, Deleted: true})
		case inNew && inOld && newItem.Status == core.ModelStatusUnchanged:
			// untouched
		case inNew:
			out = append(out, DataDiff{ID: id, Item: newItem})
		case inOld:
			out = append(out, DataDiff{ID: id, Item: oldItem, Deleted: true})
		default:
			panic(fmt.Sprintf("diff: contact data %v is in neither snapshot", id))
		}
	}
	return out
}

func groupDiffs(oldGroups []core.ContactGroup, newGroups []core.ContactGroup) []GroupDiff {
	oldByID := make(map[core.ContactGroupID]core.ContactGroup, len(oldGroups))
	newByID := make(map[core.ContactGroupID]core.ContactGroup, len(newGroups))
	keys := make([]core.ContactGroupID, 0, len(oldGroups)+len(newGroups))
	for _, group := range oldGroups {
		key := groupKey(group.ID)
		if _, seen := oldByID[key]; !seen {
			keys = append(keys, key)
		}
		oldByID[key] = group
	}
	for _, group := range newGroups {
		key := groupKey(group.ID)
		_, inOld := oldByID[key]
		if _, seen := newByID[key]; !seen && !inOld {
			keys = append(keys, key)
		}
		newByID[key] = group
	}

	out := make([]GroupDiff, 0, len(keys))
	for _, key := range keys {
		oldGroup, inOld := oldByID[key]
		newGroup, inNew := newByID[key]
		switch {
		case inNew && newGroup.Status == core.ModelStatusDeleted:
			out = append(out, GroupDiff{ID: newGroup.ID, Notes: newGroup.Notes, Deleted: true})
		case inNew && inOld && newGroup.Status == core.ModelStatusUnchanged:
		case inNew:
			out = append(out, GroupDiff{ID: newGroup.ID, Notes: newGroup.Notes})
		case inOld:
			out = append(out, GroupDiff{ID: oldGroup.ID, Notes: oldGroup.Notes, Deleted: true})
		default:
			panic(fmt.Sprintf("diff: group %q is in neither snapshot", key.Name))
		}
	}
	return out
}

// Groups are identified by name; the provider number may be unknown on one
// side.
func groupKey(id core.ContactGroupID) core.ContactGroupID {
	return core.ContactGroupID{Name: id.Name}
}

func changedString(before string, after string) *string {
	if before == after {
		return nil
	}
	return &after
}

func changedImage(before core.ContactImage, after core.ContactImage) *core.ContactImage {
	if before.Equal(after) {
		return nil
	}
	return &after
}
