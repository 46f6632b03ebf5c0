package core

import (
	"context"
	"time"

	glog "github.com/goliatone/go-logger/glog"
)

// ContactReader is the read side of a contact store.
type ContactReader interface {
	LoadContact(ctx context.Context, id ContactID) (*Contact, error)
	// ContactsExist reports, per id, whether the store still holds the
	// contact. Ids the store cannot answer for may be missing from the map.
	ContactsExist(ctx context.Context, ids []ContactID) (map[ContactID]bool, error)
}

// ContactWriter is the write side of a contact store. Create and update
// failures should be *SaveError values so callers can report change codes.
// CreateContact stores the id it assigned in contact.ID. DeleteContacts is
// not atomic and may fail after deleting a prefix of ids.
type ContactWriter interface {
	CreateContact(ctx context.Context, contact *Contact) error
	UpdateContact(ctx context.Context, id ContactID, contact *Contact) error
	DeleteContacts(ctx context.Context, ids []ContactID) error
}

type GroupStore interface {
	CreateMissingGroups(ctx context.Context, groups []ContactGroup, account string) error
}

// ContactStore is everything a backing store offers to the engine.
type ContactStore interface {
	ContactReader
	ContactWriter
	GroupStore
}

type Validator interface {
	Validate(ctx context.Context, contact *Contact) []ValidationError
}

type ValidatorFunc func(ctx context.Context, contact *Contact) []ValidationError

func (f ValidatorFunc) Validate(ctx context.Context, contact *Contact) []ValidationError {
	if f == nil {
		return nil
	}
	return f(ctx, contact)
}

type RepositoryStoreFactory interface {
	BuildStores(persistenceClient any) (ContactStore, error)
}

// ExistenceCacheConfigurer is implemented by store factories that cache
// existence checks. A zero ttl disables caching.
type ExistenceCacheConfigurer interface {
	ConfigureExistenceCache(ttl time.Duration)
}

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger

type JobExecutionMessage struct {
	JobID          string
	ScriptPath     string
	Parameters     map[string]any
	IdempotencyKey string
	DedupPolicy    string
}

type JobNackOptions struct {
	Delay      time.Duration
	Requeue    bool
	DeadLetter bool
	Reason     string
}

type JobEnqueuer interface {
	Enqueue(ctx context.Context, msg *JobExecutionMessage) error
}

type JobDelivery interface {
	Message() *JobExecutionMessage
	Ack(ctx context.Context) error
	Nack(ctx context.Context, opts JobNackOptions) error
}

type JobDequeuer interface {
	Dequeue(ctx context.Context) (JobDelivery, error)
}

type JobWorkerHook interface {
	OnStart(ctx context.Context, event JobWorkerEvent)
	OnSuccess(ctx context.Context, event JobWorkerEvent)
	OnFailure(ctx context.Context, event JobWorkerEvent)
	OnRetry(ctx context.Context, event JobWorkerEvent)
}

type JobWorkerEvent struct {
	Message   *JobExecutionMessage
	Attempt   int
	Delay     time.Duration
	Err       error
	StartedAt time.Time
	Duration  time.Duration
}
