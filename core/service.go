package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"
)

var (
	ErrStoreNotConfigured    = errors.New("core: contact store is not configured")
	ErrJobQueueNotConfigured = errors.New("core: job enqueuer is not configured")
)

// Service is the entry point of the reconciliation engine. It owns the save,
// type change and delete flows over the configured stores.
type Service struct {
	config            Config
	logger            Logger
	loggerProvider    LoggerProvider
	metricsRecorder   MetricsRecorder
	errorFactory      ErrorFactory
	errorMapper       ErrorMapper
	persistenceClient any
	repositoryFactory any
	configProvider    ConfigProvider
	optionsResolver   OptionsResolver
	secretStore       ContactStore
	publicStore       ContactStore
	validator         Validator
	jobEnqueuer       JobEnqueuer
	saver             *SaveService
	typeChanger       *TypeChangeService
}

type ServiceDependencies struct {
	Logger            Logger
	LoggerProvider    LoggerProvider
	MetricsRecorder   MetricsRecorder
	ErrorFactory      ErrorFactory
	ErrorMapper       ErrorMapper
	PersistenceClient any
	RepositoryFactory any
	ConfigProvider    ConfigProvider
	OptionsResolver   OptionsResolver
	SecretStore       ContactStore
	PublicStore       ContactStore
	Validator         Validator
	JobEnqueuer       JobEnqueuer
}

func NewService(cfg Config, opts ...Option) (*Service, error) {
	builder := defaultServiceBuilder(cfg)
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&builder)
	}

	provider, logger := glog.Resolve("contacts", builder.loggerProvider, builder.logger)
	logger = glog.Ensure(logger)
	if provider != nil {
		if named := provider.GetLogger("contacts"); named != nil {
			logger = glog.Ensure(named)
		}
	}

	if builder.errorFactory == nil {
		builder.errorFactory = goerrors.New
	}
	if builder.metricsRecorder == nil {
		builder.metricsRecorder = NopMetricsRecorder{}
	}
	if builder.errorMapper == nil {
		builder.errorMapper = defaultErrorMapper
	}
	if builder.configProvider == nil {
		builder.configProvider = NewCfgxConfigProvider(nil)
	}
	if builder.optionsResolver == nil {
		builder.optionsResolver = GoOptionsResolver{}
	}
	if builder.validator == nil {
		builder.validator = DefaultValidator{}
	}

	defaults := DefaultConfig()
	loaded, err := builder.configProvider.Load(context.Background(), defaults)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}
	finalConfig, err := builder.optionsResolver.Resolve(defaults, loaded, builder.runtimeConfig)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}

	if builder.secretStore == nil && builder.repositoryFactory != nil {
		if configurer, ok := builder.repositoryFactory.(ExistenceCacheConfigurer); ok {
			configurer.ConfigureExistenceCache(finalConfig.Reconcile.CacheTTL())
		}
		if storeFactory, ok := builder.repositoryFactory.(RepositoryStoreFactory); ok {
			store, buildErr := storeFactory.BuildStores(builder.persistenceClient)
			if buildErr != nil {
				return nil, mapBuildError(builder.errorMapper, buildErr)
			}
			builder.secretStore = store
		} else if store, ok := builder.repositoryFactory.(ContactStore); ok {
			builder.secretStore = store
		}
	}

	service := &Service{
		config:            finalConfig,
		logger:            logger,
		loggerProvider:    provider,
		metricsRecorder:   builder.metricsRecorder,
		errorFactory:      builder.errorFactory,
		errorMapper:       builder.errorMapper,
		persistenceClient: builder.persistenceClient,
		repositoryFactory: builder.repositoryFactory,
		configProvider:    builder.configProvider,
		optionsResolver:   builder.optionsResolver,
		secretStore:       builder.secretStore,
		publicStore:       builder.publicStore,
		validator:         builder.validator,
		jobEnqueuer:       builder.jobEnqueuer,
	}

	if builder.secretStore != nil || builder.publicStore != nil {
		saver, saveErr := NewSaveService(
			builder.secretStore,
			builder.publicStore,
			WithSaveValidator(builder.validator),
			WithSaveLogger(service.namedLogger("save")),
			WithSaveAccount(finalConfig.Public.Account),
		)
		if saveErr != nil {
			return nil, mapBuildError(builder.errorMapper, saveErr)
		}
		typeChanger, typeErr := NewTypeChangeService(
			saver,
			WithTypeChangeLogger(service.namedLogger("migration")),
			WithGroupPreparation(finalConfig.Migration.GroupCreationEnabled()),
			WithTypeChangeAccount(finalConfig.Public.Account),
		)
		if typeErr != nil {
			return nil, mapBuildError(builder.errorMapper, typeErr)
		}
		service.saver = saver
		service.typeChanger = typeChanger
	}
	return service, nil
}

func Setup(cfg Config, opts ...Option) (*Service, error) {
	return NewService(cfg, opts...)
}

func mapBuildError(mapper ErrorMapper, err error) error {
	if err == nil {
		return nil
	}
	if mapper == nil {
		return err
	}
	mapped := mapper(err)
	if mapped == nil {
		return err
	}
	return mapped
}

func (s *Service) Config() Config {
	if s == nil {
		return Config{}
	}
	return s.config
}

func (s *Service) Dependencies() ServiceDependencies {
	if s == nil {
		return ServiceDependencies{}
	}
	return ServiceDependencies{
		Logger:            s.logger,
		LoggerProvider:    s.loggerProvider,
		MetricsRecorder:   s.metricsRecorder,
		ErrorFactory:      s.errorFactory,
		ErrorMapper:       s.errorMapper,
		PersistenceClient: s.persistenceClient,
		RepositoryFactory: s.repositoryFactory,
		ConfigProvider:    s.configProvider,
		OptionsResolver:   s.optionsResolver,
		SecretStore:       s.secretStore,
		PublicStore:       s.publicStore,
		Validator:         s.validator,
		JobEnqueuer:       s.jobEnqueuer,
	}
}

func (s *Service) LoadContact(ctx context.Context, id ContactID) (contact *Contact, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"contact_id": ContactIDString(id)}
	defer func() {
		s.observeOperation(ctx, startedAt, "load_contact", err, fields)
	}()

	if s == nil || s.saver == nil {
		err = s.mapError(ErrStoreNotConfigured)
		return nil, err
	}
	contact, err = s.saver.LoadContact(ctx, id)
	if err != nil {
		err = s.mapError(err)
		return nil, err
	}
	return contact, nil
}

func (s *Service) ContactsExist(ctx context.Context, ids []ContactID) (existing map[ContactID]bool, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"count": len(ids)}
	defer func() {
		s.observeOperation(ctx, startedAt, "contacts_exist", err, fields)
	}()

	if s == nil || s.saver == nil {
		err = s.mapError(ErrStoreNotConfigured)
		return nil, err
	}
	existing, err = s.saver.ContactsExist(ctx, ids)
	if err != nil {
		err = s.mapError(err)
		return nil, err
	}
	return existing, nil
}

func (s *Service) SaveContact(ctx context.Context, contact *Contact) (result ChangeResult) {
	startedAt := time.Now().UTC()
	fields := contactFields(contact)
	defer func() {
		fields["outcome"] = string(result.Outcome)
		if len(result.Warnings) > 0 {
			fields["warnings"] = changeErrorStrings(result.Warnings)
		}
		s.observeOperation(ctx, startedAt, "save_contact", result.Err(), fields)
	}()

	if s == nil || s.saver == nil {
		return Failure(ChangeErrorUnableToSaveContact)
	}
	return s.saver.SaveContact(ctx, contact)
}

func (s *Service) SaveContacts(ctx context.Context, contacts []*Contact) (result BatchChangeResult[ContactID]) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"count": len(contacts)}
	defer func() {
		fields["failed"] = len(result.Failed)
		s.observeOperation(ctx, startedAt, "save_contacts", batchErr(result), fields)
	}()

	if s == nil || s.saver == nil {
		result = NewBatchChangeResult[ContactID]()
		for _, contact := range contacts {
			if contact != nil && contact.ID != nil {
				result.AddFailure(contact.ID, ChangeErrorUnableToSaveContact)
			}
		}
		return result
	}
	return s.saver.SaveContacts(ctx, contacts)
}

func (s *Service) DeleteContacts(ctx context.Context, ids []ContactID) (result BatchChangeResult[ContactID]) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"count": len(ids)}
	defer func() {
		fields["failed"] = len(result.Failed)
		s.observeOperation(ctx, startedAt, "delete_contacts", batchErr(result), fields)
	}()

	if s == nil || s.saver == nil {
		result = NewBatchChangeResult[ContactID]()
		for _, id := range ids {
			if id != nil {
				result.AddFailure(id, ChangeErrorUnableToDeleteContact)
			}
		}
		return result
	}
	return s.saver.DeleteContacts(ctx, ids)
}

func (s *Service) ChangeContactType(ctx context.Context, contact *Contact, target ContactType) (result ChangeResult) {
	startedAt := time.Now().UTC()
	fields := contactFields(contact)
	fields["target_type"] = string(target)
	defer func() {
		fields["outcome"] = string(result.Outcome)
		if len(result.Warnings) > 0 {
			fields["warnings"] = changeErrorStrings(result.Warnings)
		}
		s.observeOperation(ctx, startedAt, "change_contact_type", result.Err(), fields)
	}()

	if s == nil || s.typeChanger == nil {
		return Failure(ChangeErrorUnableToSaveContact)
	}
	return s.typeChanger.ChangeType(ctx, contact, target)
}

func (s *Service) ChangeContactTypes(
	ctx context.Context,
	contacts []*Contact,
	target ContactType,
) (result BatchChangeResult[ContactID]) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"count": len(contacts), "target_type": string(target)}
	defer func() {
		fields["failed"] = len(result.Failed)
		s.observeOperation(ctx, startedAt, "change_contact_types", batchErr(result), fields)
	}()

	if s == nil || s.typeChanger == nil {
		result = NewBatchChangeResult[ContactID]()
		for _, contact := range contacts {
			if contact != nil && contact.ID != nil {
				result.AddFailure(contact.ID, ChangeErrorUnableToSaveContact)
			}
		}
		return result
	}
	return s.typeChanger.ChangeTypes(ctx, contacts, target)
}

// ScheduleBatchDelete enqueues a background batch delete of ids.
func (s *Service) ScheduleBatchDelete(ctx context.Context, ids []ContactID) (msg *JobExecutionMessage, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"count": len(ids)}
	defer func() {
		if msg != nil {
			fields["idempotency_key"] = msg.IdempotencyKey
		}
		s.observeOperation(ctx, startedAt, "schedule_batch_delete", err, fields)
	}()

	if s == nil || s.jobEnqueuer == nil {
		err = s.mapError(ErrJobQueueNotConfigured)
		return nil, err
	}
	msg, err = NewBatchDeleteMessage(ids)
	if err != nil {
		err = s.mapError(err)
		return nil, err
	}
	if err = s.jobEnqueuer.Enqueue(ctx, msg); err != nil {
		err = s.mapError(err)
		return nil, err
	}
	return msg, nil
}

func (s *Service) mapError(err error) error {
	if err == nil {
		return nil
	}
	if s == nil || s.errorMapper == nil {
		return err
	}
	if mapped := s.errorMapper(err); mapped != nil {
		return mapped
	}
	return err
}

func (s *Service) namedLogger(name string) Logger {
	if s.loggerProvider != nil {
		if named := s.loggerProvider.GetLogger(name); named != nil {
			return glog.Ensure(named)
		}
	}
	return s.logger
}

func contactFields(contact *Contact) map[string]any {
	fields := map[string]any{}
	if contact == nil {
		return fields
	}
	fields["contact_id"] = ContactIDString(contact.ID)
	fields["contact_type"] = string(contact.Type)
	return fields
}

func batchErr(result BatchChangeResult[ContactID]) error {
	if len(result.Failed) == 0 {
		return nil
	}
	return fmt.Errorf("core: %d of %d contacts failed", len(result.Failed), result.Attempted())
}
