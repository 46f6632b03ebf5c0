package contacts

import (
	"fmt"

	commanddispatcher "github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-contacts/adapters/gocommand"
	contactscommand "github.com/goliatone/go-contacts/command"
	"github.com/goliatone/go-contacts/core"
	"github.com/goliatone/go-contacts/diff"
	contactsquery "github.com/goliatone/go-contacts/query"
)

// CommandQueryService is what the facade needs from core.Service.
type CommandQueryService interface {
	contactscommand.MutatingService
	contactscommand.BatchDeleteScheduler
	contactsquery.ContactReader
}

type Commands struct {
	SaveContact         *contactscommand.SaveContactCommand
	DeleteContacts      *contactscommand.DeleteContactsCommand
	ChangeContactType   *contactscommand.ChangeContactTypeCommand
	ChangeContactTypes  *contactscommand.ChangeContactTypesCommand
	ScheduleBatchDelete *contactscommand.ScheduleBatchDeleteCommand
}

type Queries struct {
	LoadContact   *contactsquery.LoadContactQuery
	ComputeDiff   *contactsquery.ComputeDiffQuery
	ContactsExist *contactsquery.ContactsExistQuery
}

type Facade struct {
	service  CommandQueryService
	commands Commands
	queries  Queries
}

func NewFacade(service CommandQueryService) (*Facade, error) {
	if service == nil {
		return nil, fmt.Errorf("contacts: command/query service is required")
	}

	facade := &Facade{service: service}
	facade.commands = Commands{
		SaveContact:         contactscommand.NewSaveContactCommand(service),
		DeleteContacts:      contactscommand.NewDeleteContactsCommand(service),
		ChangeContactType:   contactscommand.NewChangeContactTypeCommand(service),
		ChangeContactTypes:  contactscommand.NewChangeContactTypesCommand(service),
		ScheduleBatchDelete: contactscommand.NewScheduleBatchDeleteCommand(service),
	}
	facade.queries = Queries{
		LoadContact:   contactsquery.NewLoadContactQuery(service),
		ComputeDiff:   contactsquery.NewComputeDiffQuery(service),
		ContactsExist: contactsquery.NewContactsExistQuery(service),
	}

	return facade, nil
}

func (f *Facade) Commands() Commands {
	if f == nil {
		return Commands{}
	}
	return f.commands
}

func (f *Facade) Queries() Queries {
	if f == nil {
		return Queries{}
	}
	return f.queries
}

func (f *Facade) Service() CommandQueryService {
	if f == nil {
		return nil
	}
	return f.service
}

// Register adds every handler to the registry and subscribes it to the
// dispatcher. On failure the subscriptions made so far are undone.
func (f *Facade) Register(adapter *gocommand.RegistryAdapter) ([]commanddispatcher.Subscription, error) {
	if f == nil {
		return nil, fmt.Errorf("contacts: facade is nil")
	}
	var subscriptions []commanddispatcher.Subscription
	register := func(subscription commanddispatcher.Subscription, err error) error {
		if err != nil {
			return err
		}
		subscriptions = append(subscriptions, subscription)
		return nil
	}
	steps := []func() error{
		func() error {
			return register(gocommand.RegisterAndSubscribe[contactscommand.SaveContactMessage](adapter, f.commands.SaveContact))
		},
		func() error {
			return register(gocommand.RegisterAndSubscribe[contactscommand.DeleteContactsMessage](adapter, f.commands.DeleteContacts))
		},
		func() error {
			return register(gocommand.RegisterAndSubscribe[contactscommand.ChangeContactTypeMessage](adapter, f.commands.ChangeContactType))
		},
		func() error {
			return register(gocommand.RegisterAndSubscribe[contactscommand.ChangeContactTypesMessage](adapter, f.commands.ChangeContactTypes))
		},
		func() error {
			return register(gocommand.RegisterAndSubscribe[contactscommand.ScheduleBatchDeleteMessage](adapter, f.commands.ScheduleBatchDelete))
		},
		func() error {
			return register(gocommand.RegisterAndSubscribeQuery[contactsquery.LoadContactMessage, *core.Contact](adapter, f.queries.LoadContact))
		},
		func() error {
			return register(gocommand.RegisterAndSubscribeQuery[contactsquery.ComputeDiffMessage, diff.Diff](adapter, f.queries.ComputeDiff))
		},
		func() error {
			return register(gocommand.RegisterAndSubscribeQuery[contactsquery.ContactsExistMessage, map[core.ContactID]bool](
				adapter,
				f.queries.ContactsExist,
			))
		},
	}
	for _, step := range steps {
		if err := step(); err != nil {
			for _, subscription := range subscriptions {
				if subscription != nil {
					subscription.Unsubscribe()
				}
			}
			return nil, err
		}
	}
	return subscriptions, nil
}
