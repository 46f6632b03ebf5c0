package core

import (
	"fmt"
	"strings"
)

// ModelStatus tracks the mutation state of a contact-data item or image
// between load and save.
type ModelStatus string

const (
	ModelStatusNew       ModelStatus = "NEW"
	ModelStatusChanged   ModelStatus = "CHANGED"
	ModelStatusUnchanged ModelStatus = "UNCHANGED"
	ModelStatusDeleted   ModelStatus = "DELETED"
)

// TryChangeTo returns the status that results from moving s towards target.
// A blocked transition keeps the current status:
//
//	NEW       -> DELETED
//	CHANGED   -> DELETED
//	UNCHANGED -> CHANGED, DELETED
//	DELETED   -> (none)
//
// A NEW item stays NEW when edited, so it is still inserted on save and
// can be dropped outright by Contact.RemoveData. Moving it to DELETED yields
// DELETED; owners drop such items since a store has nothing to delete.
func (s ModelStatus) TryChangeTo(target ModelStatus) ModelStatus {
	if s == target || !target.Valid() {
		return s
	}
	switch s {
	case ModelStatusNew, ModelStatusChanged:
		if target == ModelStatusDeleted {
			return target
		}
		return s
	case ModelStatusUnchanged:
		if target == ModelStatusNew {
			return s
		}
		return target
	default:
		return s
	}
}

// IsChanged reports whether the status requires a write.
func (s ModelStatus) IsChanged() bool {
	return s == ModelStatusNew || s == ModelStatusChanged
}

func (s ModelStatus) Valid() bool {
	switch s {
	case ModelStatusNew, ModelStatusChanged, ModelStatusUnchanged, ModelStatusDeleted:
		return true
	default:
		return false
	}
}

func ParseModelStatus(raw string) (ModelStatus, error) {
	status := ModelStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if !status.Valid() {
		return "", fmt.Errorf("core: unknown model status %q", raw)
	}
	return status, nil
}

// FilterChanged keeps the items whose status is NEW or CHANGED.
func FilterChanged(items []ContactData) []ContactData {
	out := make([]ContactData, 0, len(items))
	for _, item := range items {
		if item.Status.IsChanged() {
			out = append(out, item)
		}
	}
	return out
}
