package contacts

import (
	"fmt"

	"github.com/goliatone/go-contacts/adapters/gojob"
	"github.com/goliatone/go-contacts/core"
)

// NewBatchDeleteWorker returns a worker that consumes batch delete jobs
// scheduled through service.ScheduleBatchDelete.
func NewBatchDeleteWorker(service *Service, dequeuer core.JobDequeuer, logger core.Logger) (*gojob.Worker, error) {
	if service == nil {
		return nil, fmt.Errorf("contacts: service is required")
	}
	handler, err := core.NewBatchDeleteJobHandler(service)
	if err != nil {
		return nil, err
	}
	worker, err := gojob.NewWorker(dequeuer, logger)
	if err != nil {
		return nil, err
	}
	if err := worker.Register(core.JobIDBatchDelete, handler); err != nil {
		return nil, err
	}
	return worker, nil
}
