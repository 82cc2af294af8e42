// Package notification contains the NotificationTask aggregate: one
// customer message triggered by a state transition, retried independently
// of the order pipeline. Dispatch order across tasks is not guaranteed;
// each task only progresses monotonically through its own states.
package notification

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

const entityType = "notification"

var (
	// ErrTaskIsNotConstructed is returned when a Task bypassed NewTask or RestoreTask.
	ErrTaskIsNotConstructed = errors.New("Task must be created via NewTask or RestoreTask constructor")
	// ErrRetriesExhausted is returned when a transport failure arrives after
	// the retry budget is spent.
	ErrRetriesExhausted = errors.New("notification retries exhausted")
)

// Channel is the transport a message travels on, chosen from the
// customer's contact preference.
type Channel int

const (
	ChannelUnknown Channel = iota
	ChannelSMS
	ChannelEmail
	ChannelPush
)

func channelStrings() map[Channel]string {
	return map[Channel]string{
		ChannelUnknown: "Unknown",
		ChannelSMS:     "sms",
		ChannelEmail:   "email",
		ChannelPush:    "push",
	}
}

// String returns the wire name of the channel.
func (c Channel) String() string {
	if s, ok := channelStrings()[c]; ok {
		return s
	}
	return "Unknown"
}

// Validate rejects Unknown and out-of-range values.
func (c Channel) Validate() error {
	if c == ChannelUnknown {
		return errs.NewValueIsInvalidError("channel")
	}
	if _, ok := channelStrings()[c]; !ok {
		return errs.NewValueIsInvalidError("channel")
	}
	return nil
}

// Status represents a task's monotonic dispatch progression.
//
//	Pending → Scheduled → Sent → Delivered → Read
//
// Failed is reached when retries are exhausted, Bounced when the provider
// reports a permanent recipient failure.
type Status int

const (
	StatusUnknown Status = iota

	// Pending means the task waits for the dispatch sweep.
	Pending

	// Scheduled means the sweep claimed the task for the current cycle, or
	// a transport failure pushed it to a future attempt.
	Scheduled

	// Sent means the provider accepted the message.
	Sent

	// Delivered means the provider confirmed delivery to the device.
	Delivered

	// Read means the customer opened the message.
	Read

	// Failed is the terminal state after the retry budget is spent.
	Failed

	// Bounced is the terminal state for permanent recipient failures.
	Bounced
)

func statusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown: "Unknown",
		Pending:       "Pending",
		Scheduled:     "Scheduled",
		Sent:          "Sent",
		Delivered:     "Delivered",
		Read:          "Read",
		Failed:        "Failed",
		Bounced:       "Bounced",
	}
}

func transitions() map[Status][]Status {
	return map[Status][]Status{
		Pending:   {Scheduled, Failed},
		Scheduled: {Sent, Scheduled, Failed, Bounced},
		Sent:      {Delivered, Bounced},
		Delivered: {Read},
	}
}

// String returns the human-readable name of the status.
func (s Status) String() string {
	if str, ok := statusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// Validate rejects Unknown and out-of-range values.
func (s Status) Validate() error {
	if s == StatusUnknown {
		return errs.NewValueIsInvalidError("status")
	}
	if _, ok := statusStrings()[s]; !ok {
		return errs.NewValueIsInvalidError("status")
	}
	return nil
}

// IsTerminal reports whether no further transitions are allowed.
func (s Status) IsTerminal() bool {
	return s == Read || s == Failed || s == Bounced
}

// CanTransitionTo reports whether the state machine allows moving to next.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions()[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// TransitionTo validates and performs a transition, returning the new
// status or an InvalidTransitionError with the original state preserved.
func (s Status) TransitionTo(next Status) (Status, error) {
	if err := next.Validate(); err != nil {
		return s, err
	}
	if !s.CanTransitionTo(next) {
		return s, errs.NewInvalidTransitionError("notification", s.String(), next.String())
	}
	return next, nil
}

// Task is one queued customer message. It owns its retry policy; the
// transport provider only reports success or failure per attempt.
type Task struct {
	kernel.EventRecorder

	id          kernel.UUID
	orderID     kernel.UUID
	customerID  kernel.UUID
	channel     Channel
	messageType string
	payload     string
	status      Status

	retryCount    int
	maxRetries    int
	nextAttemptAt time.Time
	externalID    string
	lastError     string

	guard guard.ConstructorGuard
}

// NewTask enqueues a message. messageType names the triggering transition
// template (for example "order_out_for_delivery"); payload is the rendered
// message body.
func NewTask(
	id, orderID, customerID kernel.UUID,
	channel Channel,
	messageType, payload string,
	maxRetries int,
	now time.Time,
) (*Task, error) {
	if err := errors.Join(id.Validate(), orderID.Validate(), customerID.Validate(), channel.Validate()); err != nil {
		return nil, err
	}
	if messageType == "" {
		return nil, errs.NewValueIsRequiredError("messageType")
	}
	if maxRetries < 0 {
		return nil, errs.NewValueIsInvalidError("maxRetries")
	}

	return &Task{
		id:            id,
		orderID:       orderID,
		customerID:    customerID,
		channel:       channel,
		messageType:   messageType,
		payload:       payload,
		status:        Pending,
		maxRetries:    maxRetries,
		nextAttemptAt: now,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

// RestoreTask reconstructs a task from persistence.
func RestoreTask(
	id, orderID, customerID kernel.UUID,
	channel Channel,
	messageType, payload string,
	status Status,
	retryCount, maxRetries int,
	nextAttemptAt time.Time,
	externalID, lastError string,
) (*Task, error) {
	if err := errors.Join(id.Validate(), orderID.Validate(), status.Validate()); err != nil {
		return nil, err
	}

	return &Task{
		id:            id,
		orderID:       orderID,
		customerID:    customerID,
		channel:       channel,
		messageType:   messageType,
		payload:       payload,
		status:        status,
		retryCount:    retryCount,
		maxRetries:    maxRetries,
		nextAttemptAt: nextAttemptAt,
		externalID:    externalID,
		lastError:     lastError,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

// Validate rejects tasks that bypassed the constructors.
func (t *Task) Validate() error {
	if t == nil {
		return ErrTaskIsNotConstructed
	}
	return t.guard.Validate(ErrTaskIsNotConstructed)
}

// ID returns the task's unique identifier.
func (t *Task) ID() kernel.UUID { return t.id }

// OrderID returns the order whose transition triggered the message.
func (t *Task) OrderID() kernel.UUID { return t.orderID }

// CustomerID returns the recipient.
func (t *Task) CustomerID() kernel.UUID { return t.customerID }

// Channel returns the transport channel.
func (t *Task) Channel() Channel { return t.channel }

// MessageType returns the triggering transition template name.
func (t *Task) MessageType() string { return t.messageType }

// Payload returns the rendered message body.
func (t *Task) Payload() string { return t.payload }

// Status returns the current dispatch status.
func (t *Task) Status() Status { return t.status }

// RetryCount returns the number of failed attempts so far.
func (t *Task) RetryCount() int { return t.retryCount }

// MaxRetries returns the configured retry budget.
func (t *Task) MaxRetries() int { return t.maxRetries }

// NextAttemptAt returns the earliest time the sweep may pick the task up.
func (t *Task) NextAttemptAt() time.Time { return t.nextAttemptAt }

// ExternalID returns the provider's message identifier once sent.
func (t *Task) ExternalID() string { return t.externalID }

// LastError returns the most recent transport failure.
func (t *Task) LastError() string { return t.lastError }

// IsDue reports whether the dispatch sweep should pick the task up.
func (t *Task) IsDue(now time.Time) bool {
	return t.status == Pending && !t.nextAttemptAt.After(now)
}

// Claim moves a due pending task into the current dispatch cycle.
func (t *Task) Claim(now time.Time) error {
	if !t.IsDue(now) {
		return errs.NewConcurrencyConflictError("notification task claim", nil)
	}
	return t.transition(Scheduled)
}

// MarkSent records provider acceptance along with its message identifier.
func (t *Task) MarkSent(externalID string) error {
	if externalID == "" {
		return errs.NewValueIsRequiredError("externalID")
	}
	if err := t.transition(Sent); err != nil {
		return err
	}
	t.externalID = externalID
	return nil
}

// MarkDelivered records provider delivery confirmation.
func (t *Task) MarkDelivered() error {
	return t.transition(Delivered)
}

// MarkRead records the customer opening the message.
func (t *Task) MarkRead() error {
	return t.transition(Read)
}

// MarkBounced records a permanent recipient failure; no retry.
func (t *Task) MarkBounced(reason string) error {
	if err := t.transition(Bounced); err != nil {
		return err
	}
	t.lastError = reason
	return nil
}

// RecordTransportFailure handles a failed send: while the retry budget
// lasts the task is pushed back to Pending with exponential backoff
// (base doubled per prior failure), otherwise it is failed for good. The
// owning order is never affected either way.
func (t *Task) RecordTransportFailure(cause string, backoffBase time.Duration, now time.Time) error {
	if t.retryCount >= t.maxRetries {
		if err := t.transition(Failed); err != nil {
			return err
		}
		t.lastError = cause
		return ErrRetriesExhausted
	}

	if t.status != Scheduled {
		return errs.NewInvalidTransitionError("notification", t.status.String(), Pending.String())
	}

	delay := backoffBase << t.retryCount
	t.retryCount++
	t.lastError = cause
	t.nextAttemptAt = now.Add(delay)
	t.status = Pending
	t.RecordTransition(entityType, t.id, Scheduled.String(), Pending.String())
	return nil
}

func (t *Task) transition(next Status) error {
	prior := t.status
	updated, err := t.status.TransitionTo(next)
	if err != nil {
		return err
	}

	t.status = updated
	t.RecordTransition(entityType, t.id, prior.String(), updated.String())
	return nil
}
