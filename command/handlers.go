package command

import (
	"context"

	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-contacts/core"
)

// MutatingService is the write side of core.Service.
type MutatingService interface {
	SaveContact(ctx context.Context, contact *core.Contact) core.ChangeResult
	DeleteContacts(ctx context.Context, ids []core.ContactID) core.BatchChangeResult[core.ContactID]
	ChangeContactType(ctx context.Context, contact *core.Contact, target core.ContactType) core.ChangeResult
	ChangeContactTypes(ctx context.Context, contacts []*core.Contact, target core.ContactType) core.BatchChangeResult[core.ContactID]
}

type BatchDeleteScheduler interface {
	ScheduleBatchDelete(ctx context.Context, ids []core.ContactID) (*core.JobExecutionMessage, error)
}

type SaveContactCommand struct {
	service MutatingService
}

func NewSaveContactCommand(service MutatingService) *SaveContactCommand {
	return &SaveContactCommand{service: service}
}

// Execute stores the ChangeResult in the context collector and returns its
// error form, so failed saves reach both kinds of callers.
func (c *SaveContactCommand) Execute(ctx context.Context, msg SaveContactMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: save service is required")
	}
	result := c.service.SaveContact(ctx, msg.Contact)
	storeResult(ctx, result)
	return result.Err()
}

type DeleteContactsCommand struct {
	service MutatingService
}

func NewDeleteContactsCommand(service MutatingService) *DeleteContactsCommand {
	return &DeleteContactsCommand{service: service}
}

func (c *DeleteContactsCommand) Execute(ctx context.Context, msg DeleteContactsMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: delete service is required")
	}
	result := c.service.DeleteContacts(ctx, msg.IDs)
	storeResult(ctx, result)
	return commandBatchError("delete contacts", result)
}

type ChangeContactTypeCommand struct {
	service MutatingService
}

func NewChangeContactTypeCommand(service MutatingService) *ChangeContactTypeCommand {
	return &ChangeContactTypeCommand{service: service}
}

func (c *ChangeContactTypeCommand) Execute(ctx context.Context, msg ChangeContactTypeMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: type change service is required")
	}
	result := c.service.ChangeContactType(ctx, msg.Contact, msg.Target)
	storeResult(ctx, result)
	return result.Err()
}

type ChangeContactTypesCommand struct {
	service MutatingService
}

func NewChangeContactTypesCommand(service MutatingService) *ChangeContactTypesCommand {
	return &ChangeContactTypesCommand{service: service}
}

func (c *ChangeContactTypesCommand) Execute(ctx context.Context, msg ChangeContactTypesMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: type change service is required")
	}
	result := c.service.ChangeContactTypes(ctx, msg.Contacts, msg.Target)
	storeResult(ctx, result)
	return commandBatchError("change contact types", result)
}

type ScheduleBatchDeleteCommand struct {
	scheduler BatchDeleteScheduler
}

func NewScheduleBatchDeleteCommand(scheduler BatchDeleteScheduler) *ScheduleBatchDeleteCommand {
	return &ScheduleBatchDeleteCommand{scheduler: scheduler}
}

func (c *ScheduleBatchDeleteCommand) Execute(ctx context.Context, msg ScheduleBatchDeleteMessage) error {
	if c == nil || c.scheduler == nil {
		return commandDependencyError("command: batch delete scheduler is required")
	}
	out, err := c.scheduler.ScheduleBatchDelete(ctx, msg.IDs)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
