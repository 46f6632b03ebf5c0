package core

import (
	"context"
	"fmt"
	"sync"
)

type stubLogger struct{}

func (stubLogger) Trace(string, ...any) {}
func (stubLogger) Debug(string, ...any) {}
func (stubLogger) Info(string, ...any)  {}
func (stubLogger) Warn(string, ...any)  {}
func (stubLogger) Error(string, ...any) {}
func (stubLogger) Fatal(string, ...any) {}
func (s stubLogger) WithContext(context.Context) Logger {
	return s
}

type stubLoggerProvider struct {
	logger Logger
}

func (s stubLoggerProvider) GetLogger(string) Logger {
	return s.logger
}

type mapRawLoader struct {
	values map[string]any
}

func (l mapRawLoader) LoadRaw(context.Context) (map[string]any, error) {
	if len(l.values) == 0 {
		return map[string]any{}, nil
	}
	out := make(map[string]any, len(l.values))
	for key, value := range l.values {
		out[key] = value
	}
	return out, nil
}

// memoryStore is an in-memory ContactStore with failure injection.
type memoryStore struct {
	mu         sync.Mutex
	family     IDFamily
	contacts   map[ContactID]*Contact
	groups     map[string]ContactGroup
	nextNumber int64

	createErr error
	updateErr error
	groupErr  error
	existErr  error
	// deleteErr makes DeleteContacts fail after deleting deleteAllowed ids.
	deleteErr     error
	deleteAllowed int

	createCalls int
	updateCalls int
	deleteCalls int
	groupCalls  int
	lastCreated *Contact
}

func newMemoryStore(family IDFamily) *memoryStore {
	return &memoryStore{
		family:     family,
		contacts:   map[ContactID]*Contact{},
		groups:     map[string]ContactGroup{},
		nextNumber: 100,
	}
}

func (s *memoryStore) put(contact *Contact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := contact.Clone()
	stored.MarkPersisted()
	s.contacts[stored.ID] = stored
}

func (s *memoryStore) has(id ContactID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.contacts[id]
	return ok
}

func (s *memoryStore) LoadContact(_ context.Context, id ContactID) (*Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	contact, ok := s.contacts[id]
	if !ok {
		return nil, fmt.Errorf("memory store: contact %s not found", ContactIDString(id))
	}
	return contact.Clone(), nil
}

func (s *memoryStore) ContactsExist(_ context.Context, ids []ContactID) (map[ContactID]bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.existErr != nil {
		return nil, s.existErr
	}
	out := make(map[ContactID]bool, len(ids))
	for _, id := range ids {
		_, ok := s.contacts[id]
		out[id] = ok
	}
	return out, nil
}

func (s *memoryStore) CreateContact(_ context.Context, contact *Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createCalls++
	if s.createErr != nil {
		return s.createErr
	}
	if s.family == IDFamilyExternal {
		s.nextNumber++
		contact.ID = ExternalContactID{Number: s.nextNumber}
		for index := range contact.ContactData {
			s.nextNumber++
			contact.ContactData[index].ID = ExternalDataID{Number: s.nextNumber}
		}
	}
	stored := contact.Clone()
	s.lastCreated = contact.Clone()
	stored.MarkPersisted()
	s.contacts[stored.ID] = stored
	return nil
}

func (s *memoryStore) UpdateContact(_ context.Context, id ContactID, contact *Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateCalls++
	if s.updateErr != nil {
		return s.updateErr
	}
	if _, ok := s.contacts[id]; !ok {
		return NewSaveError(fmt.Errorf("memory store: contact missing"), ChangeErrorUnableToResolveExistingContact)
	}
	stored := contact.Clone()
	stored.MarkPersisted()
	s.contacts[id] = stored
	return nil
}

func (s *memoryStore) DeleteContacts(_ context.Context, ids []ContactID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteCalls++
	for index, id := range ids {
		if s.deleteErr != nil && index >= s.deleteAllowed {
			return s.deleteErr
		}
		delete(s.contacts, id)
	}
	return s.deleteErr
}

func (s *memoryStore) CreateMissingGroups(_ context.Context, groups []ContactGroup, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groupCalls++
	if s.groupErr != nil {
		return s.groupErr
	}
	for _, group := range groups {
		if _, ok := s.groups[group.ID.Name]; !ok {
			s.groups[group.ID.Name] = group
		}
	}
	return nil
}

var _ ContactStore = (*memoryStore)(nil)

func publicContact(number int64, data ...ContactData) *Contact {
	return &Contact{
		ID:          ExternalContactID{Number: number},
		Type:        ContactTypePublic,
		FirstName:   "Ada",
		LastName:    "Lovelace",
		ContactData: data,
		Image:       ContactImage{Status: ModelStatusUnchanged},
	}
}

func dataItem(category ContactDataCategory, sortOrder int, value ContactDataValue, status ModelStatus) ContactData {
	item := NewContactData(category, sortOrder)
	item.Value = value
	item.OverrideStatus(status)
	return item
}

type recordingEnqueuer struct {
	mu       sync.Mutex
	messages []*JobExecutionMessage
	err      error
}

func (e *recordingEnqueuer) Enqueue(_ context.Context, msg *JobExecutionMessage) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		return e.err
	}
	e.messages = append(e.messages, msg)
	return nil
}

type recordingDelivery struct {
	msg     *JobExecutionMessage
	attempt int
	acked   bool
	nacked  bool
	nack    JobNackOptions
}

func (d *recordingDelivery) Message() *JobExecutionMessage { return d.msg }

func (d *recordingDelivery) Ack(context.Context) error {
	d.acked = true
	return nil
}

func (d *recordingDelivery) Nack(_ context.Context, opts JobNackOptions) error {
	d.nacked = true
	d.nack = opts
	return nil
}

func (d *recordingDelivery) Attempt() int { return d.attempt }
