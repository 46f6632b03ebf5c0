package query

import (
	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-contacts/core"
	"github.com/goliatone/go-contacts/diff"
)

var (
	_ gocmd.Querier[LoadContactMessage, *core.Contact]             = (*LoadContactQuery)(nil)
	_ gocmd.Querier[ComputeDiffMessage, diff.Diff]                 = (*ComputeDiffQuery)(nil)
	_ gocmd.Querier[ContactsExistMessage, map[core.ContactID]bool] = (*ContactsExistQuery)(nil)
)
