package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	JobIDBatchDelete = "contacts.delete.batch"

	batchDeleteIDsParam   = "contact_ids"
	batchDeleteRetryDelay = 30 * time.Second
)

// NewBatchDeleteMessage builds the job message for deleting ids. The
// idempotency key only depends on the set of ids.
func NewBatchDeleteMessage(ids []ContactID) (*JobExecutionMessage, error) {
	raw := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == nil {
			continue
		}
		raw = append(raw, id.String())
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("core: at least one contact id is required for batch delete")
	}
	sorted := append([]string(nil), raw...)
	sort.Strings(sorted)
	sum := sha256.Sum256([]byte(strings.Join(sorted, "\n")))
	return &JobExecutionMessage{
		JobID:          JobIDBatchDelete,
		Parameters:     map[string]any{batchDeleteIDsParam: raw},
		IdempotencyKey: JobIDBatchDelete + ":" + hex.EncodeToString(sum[:]),
		DedupPolicy:    "drop",
	}, nil
}

// BatchDeleteIDs decodes the contact ids carried by a batch delete message.
func BatchDeleteIDs(msg *JobExecutionMessage) ([]ContactID, error) {
	if msg == nil {
		return nil, fmt.Errorf("core: job message is required")
	}
	if msg.JobID != JobIDBatchDelete {
		return nil, fmt.Errorf("core: unexpected job id %q", msg.JobID)
	}
	var raw []string
	switch typed := msg.Parameters[batchDeleteIDsParam].(type) {
	case []string:
		raw = typed
	case []any:
		for _, value := range typed {
			text, ok := value.(string)
			if !ok {
				return nil, fmt.Errorf("core: invalid contact id %v in job", value)
			}
			raw = append(raw, text)
		}
	default:
		return nil, fmt.Errorf("core: job is missing %s", batchDeleteIDsParam)
	}
	ids := make([]ContactID, 0, len(raw))
	for _, value := range raw {
		id, err := ParseContactID(value)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// deliveryAttempt reads the attempt number from deliveries that track it.
func deliveryAttempt(delivery JobDelivery) int {
	if counted, ok := delivery.(interface{ Attempt() int }); ok && counted.Attempt() > 0 {
		return counted.Attempt()
	}
	return 1
}

// BatchDeleteJobHandler consumes batch delete jobs. Deliveries are acked once
// every id is gone and nacked otherwise; a retry deletes the whole batch
// again and reconciles by existence.
type BatchDeleteJobHandler struct {
	service     *Service
	maxAttempts int
	retryDelay  time.Duration
}

func NewBatchDeleteJobHandler(service *Service) (*BatchDeleteJobHandler, error) {
	if service == nil {
		return nil, fmt.Errorf("core: service is required for batch delete jobs")
	}
	return &BatchDeleteJobHandler{
		service:     service,
		maxAttempts: service.config.Jobs.BatchDeleteMaxAttempts,
		retryDelay:  batchDeleteRetryDelay,
	}, nil
}

func (h *BatchDeleteJobHandler) Handle(ctx context.Context, delivery JobDelivery) error {
	if h == nil || h.service == nil {
		return fmt.Errorf("core: batch delete handler is not configured")
	}
	if delivery == nil {
		return fmt.Errorf("core: job delivery is required")
	}
	msg := delivery.Message()
	ids, err := BatchDeleteIDs(msg)
	if err != nil {
		if nackErr := delivery.Nack(ctx, JobNackOptions{DeadLetter: true, Reason: err.Error()}); nackErr != nil {
			return nackErr
		}
		return err
	}

	result := h.service.DeleteContacts(ctx, ids)
	if len(result.Failed) == 0 {
		return delivery.Ack(ctx)
	}

	attempt := deliveryAttempt(delivery)
	opts := JobNackOptions{
		Delay:   h.retryDelay,
		Requeue: true,
		Reason:  strings.Join(changeErrorStrings(result.FlattenedErrors()), ","),
	}
	if h.maxAttempts > 0 && attempt >= h.maxAttempts {
		opts.Requeue = false
		opts.DeadLetter = true
	}
	return delivery.Nack(ctx, opts)
}
