package command

import (
	"context"
	"net/http"
	"testing"

	"github.com/goliatone/go-contacts/core"
	goerrors "github.com/goliatone/go-errors"
)

func TestMessages_ValidateReturnsRichError(t *testing.T) {
	cases := []struct {
		name  string
		msg   interface{ Validate() error }
		field string
	}{
		{name: "save without contact", msg: SaveContactMessage{}, field: "contact"},
		{name: "delete without ids", msg: DeleteContactsMessage{}, field: "ids"},
		{name: "delete with nil id", msg: DeleteContactsMessage{IDs: []core.ContactID{nil}}, field: "ids"},
		{
			name:  "type change with unknown target",
			msg:   ChangeContactTypeMessage{Contact: core.NewContact(core.ContactTypePublic), Target: "SHARED"},
			field: "target",
		},
		{name: "batch type change without contacts", msg: ChangeContactTypesMessage{Target: core.ContactTypeSecret}, field: "contacts"},
		{name: "schedule without ids", msg: ScheduleBatchDeleteMessage{}, field: "ids"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.msg.Validate()
			var rich *goerrors.Error
			if !goerrors.As(err, &rich) {
				t.Fatalf("expected go-errors envelope, got %T", err)
			}
			if rich.Category != goerrors.CategoryValidation {
				t.Fatalf("expected validation category, got %q", rich.Category)
			}
			if rich.TextCode != core.ContactErrorBadInput {
				t.Fatalf("expected %q text code, got %q", core.ContactErrorBadInput, rich.TextCode)
			}
			if rich.Code != http.StatusBadRequest {
				t.Fatalf("expected %d code, got %d", http.StatusBadRequest, rich.Code)
			}
			validation := rich.AllValidationErrors()
			if len(validation) == 0 || validation[0].Field != tc.field {
				t.Fatalf("expected %s validation field, got %#v", tc.field, validation)
			}
		})
	}
}

func TestSaveContactCommand_NilServiceReturnsRichError(t *testing.T) {
	var cmd *SaveContactCommand
	err := cmd.Execute(context.Background(), SaveContactMessage{})
	if err == nil {
		t.Fatalf("expected command dependency error")
	}

	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected go-errors envelope, got %T", err)
	}
	if rich.Category != goerrors.CategoryInternal {
		t.Fatalf("expected internal category, got %q", rich.Category)
	}
}
