// Package contacts wires the contact reconciliation engine: the core service,
// its command and query handlers, and the embedded schema.
package contacts

import "github.com/goliatone/go-contacts/core"

type Config = core.Config

type Option = core.Option

type Service = core.Service

type ServiceDependencies = core.ServiceDependencies

type Contact = core.Contact
type ContactID = core.ContactID
type ContactType = core.ContactType
type ContactData = core.ContactData
type ContactGroup = core.ContactGroup
type ContactStore = core.ContactStore

type ChangeResult = core.ChangeResult
type BatchChangeResult = core.BatchChangeResult[core.ContactID]

const (
	ContactTypeSecret = core.ContactTypeSecret
	ContactTypePublic = core.ContactTypePublic
)

var (
	WithLogger            = core.WithLogger
	WithLoggerProvider    = core.WithLoggerProvider
	WithMetricsRecorder   = core.WithMetricsRecorder
	WithErrorFactory      = core.WithErrorFactory
	WithErrorMapper       = core.WithErrorMapper
	WithPersistenceClient = core.WithPersistenceClient
	WithRepositoryFactory = core.WithRepositoryFactory
	WithConfigProvider    = core.WithConfigProvider
	WithOptionsResolver   = core.WithOptionsResolver
	WithSecretStore       = core.WithSecretStore
	WithPublicStore       = core.WithPublicStore
	WithValidator         = core.WithValidator
	WithJobEnqueuer       = core.WithJobEnqueuer
)

func DefaultConfig() Config {
	return core.DefaultConfig()
}

func NewService(cfg Config, opts ...Option) (*Service, error) {
	return core.NewService(cfg, opts...)
}

func Setup(cfg Config, opts ...Option) (*Service, error) {
	return core.Setup(cfg, opts...)
}
