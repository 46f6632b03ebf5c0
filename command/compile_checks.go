package command

import gocmd "github.com/goliatone/go-command"

var (
	_ gocmd.Commander[SaveContactMessage]         = (*SaveContactCommand)(nil)
	_ gocmd.Commander[DeleteContactsMessage]      = (*DeleteContactsCommand)(nil)
	_ gocmd.Commander[ChangeContactTypeMessage]   = (*ChangeContactTypeCommand)(nil)
	_ gocmd.Commander[ChangeContactTypesMessage]  = (*ChangeContactTypesCommand)(nil)
	_ gocmd.Commander[ScheduleBatchDeleteMessage] = (*ScheduleBatchDeleteCommand)(nil)
)
