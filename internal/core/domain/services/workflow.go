package services

import (
	"circulation/internal/core/domain/model/item"
	"circulation/internal/core/domain/model/kernel"
	"circulation/internal/core/domain/model/order"
	"circulation/internal/core/domain/model/statemachine"
)

// WorkCompleteNotice is the payload handed to the notification collaborator
// when a reproduction order completes its work. Delivery is fire-and-forget
// and happens after the triggering transaction commits.
type WorkCompleteNotice struct {
	OrderID        kernel.UUID
	Assignees      []string
	RequestContext string
}

// TriggerResult reports the outcome of one trigger-and-cascade unit.
// Transition is nil when a non-strict trigger was a no-op. Notice is
// non-nil when the unit requested a work-complete notification.
type TriggerResult struct {
	Transition *statemachine.Transition
	Notice     *WorkCompleteNotice
}

// Triggered reports whether the unit recorded a transition.
func (r *TriggerResult) Triggered() bool {
	return r != nil && r.Transition != nil
}

// WorkflowService executes trigger-and-cascade units over loaded
// aggregates. It evaluates readiness, calls the aggregate's trigger
// operation, and drains the queued follow-up actions so that cross-entity
// cascades (order confirm fanning out item order events, item arrivals
// promoting their order) happen inside the same atomic unit as the
// transition that requested them.
//
// The service mutates only the aggregates handed to it; persisting the
// touched aggregates and committing the surrounding transaction is the
// command handler's job. A cascade failure surfaces as an error and the
// handler rolls the whole unit back, including the original transition.
type WorkflowService struct {
	readiness ReadinessService
}

// NewWorkflowService creates a WorkflowService instance.
func NewWorkflowService() WorkflowService {
	return WorkflowService{readiness: NewReadinessService()}
}

// AvailableOrderEvents returns the order events permitted given the current
// states of its member items.
func (s WorkflowService) AvailableOrderEvents(o *order.Order, items []*item.Item) []statemachine.Event {
	return o.AvailableEvents(s.readiness.Snapshot(o, items))
}

// OrderEventPermitted evaluates the order's permission predicate without
// side effects.
func (s WorkflowService) OrderEventPermitted(o *order.Order, items []*item.Item, event statemachine.Event) bool {
	return o.EventPermitted(event, s.readiness.Snapshot(o, items))
}

// TriggerOrder applies an order event if permitted and drains the cascade.
// A non-permitted event is a quiet no-op with a nil result transition.
func (s WorkflowService) TriggerOrder(o *order.Order, items []*item.Item, event statemachine.Event, md statemachine.Metadata) (*TriggerResult, error) {
	return s.triggerOrder(o, items, event, md, false)
}

// TriggerOrderStrict is TriggerOrder but fails with
// statemachine.ErrTransitionNotPermitted for non-permitted events.
func (s WorkflowService) TriggerOrderStrict(o *order.Order, items []*item.Item, event statemachine.Event, md statemachine.Metadata) (*TriggerResult, error) {
	return s.triggerOrder(o, items, event, md, true)
}

func (s WorkflowService) triggerOrder(o *order.Order, items []*item.Item, event statemachine.Event, md statemachine.Metadata, strict bool) (*TriggerResult, error) {
	readiness := s.readiness.Snapshot(o, items)

	var (
		transition *statemachine.Transition
		followUps  []statemachine.FollowUp
		err        error
	)
	if strict {
		transition, followUps, err = o.TriggerStrict(event, md, readiness)
	} else {
		transition, followUps, err = o.Trigger(event, md, readiness)
	}
	if err != nil {
		return nil, err
	}
	if transition == nil {
		return &TriggerResult{}, nil
	}

	result := &TriggerResult{Transition: transition}
	if err := s.drain(o, items, followUps, result); err != nil {
		return nil, err
	}
	return result, nil
}

// TriggerItem applies an item event if permitted and drains the cascade.
// The scoping order, when given, receives the item-side promotions
// (fulfill-if-ready, membership release) in the same unit.
func (s WorkflowService) TriggerItem(i *item.Item, o *order.Order, items []*item.Item, event statemachine.Event, md statemachine.Metadata) (*TriggerResult, error) {
	return s.triggerItem(i, o, items, event, md, false)
}

// TriggerItemStrict is TriggerItem but fails with
// statemachine.ErrTransitionNotPermitted for non-permitted events.
func (s WorkflowService) TriggerItemStrict(i *item.Item, o *order.Order, items []*item.Item, event statemachine.Event, md statemachine.Metadata) (*TriggerResult, error) {
	return s.triggerItem(i, o, items, event, md, true)
}

func (s WorkflowService) triggerItem(i *item.Item, o *order.Order, items []*item.Item, event statemachine.Event, md statemachine.Metadata, strict bool) (*TriggerResult, error) {
	var (
		transition *statemachine.Transition
		followUps  []statemachine.FollowUp
		err        error
	)
	if strict {
		transition, followUps, err = i.TriggerStrict(event, md)
	} else {
		transition, followUps, err = i.Trigger(event, md)
	}
	if err != nil {
		return nil, err
	}
	if transition == nil {
		return &TriggerResult{}, nil
	}

	result := &TriggerResult{Transition: transition}
	if err := s.drain(o, items, followUps, result); err != nil {
		return nil, err
	}
	return result, nil
}

// FulfillIfItemsReady promotes a non-reproduction order to fulfilled when
// the fulfill event is currently available and every member item is ready.
// It returns the fulfill transition, or nil when the order was not
// promoted.
func (s WorkflowService) FulfillIfItemsReady(o *order.Order, items []*item.Item, md statemachine.Metadata) (*statemachine.Transition, error) {
	if o.IsReproduction() {
		return nil, nil
	}

	readiness := s.readiness.Snapshot(o, items)
	if !o.EventPermitted(order.EventFulfill, readiness) || !readiness.AllItemsReady {
		return nil, nil
	}

	transition, _, err := o.Trigger(order.EventFulfill, md, readiness)
	if err != nil {
		return nil, err
	}
	return transition, nil
}

// drain processes queued follow-up actions until the queue is empty.
// Cascaded transitions may queue further follow-ups; they are appended and
// handled in the same unit. Errors abort the unit.
func (s WorkflowService) drain(o *order.Order, items []*item.Item, queue []statemachine.FollowUp, result *TriggerResult) error {
	for len(queue) > 0 {
		fu := queue[0]
		queue = queue[1:]

		switch fu.Kind {
		case statemachine.FollowUpTriggerItemEvent:
			target := s.memberItem(items, fu.SubjectID)
			if target == nil || !target.EventPermitted(fu.Event) {
				// Items whose own predicate denies the cascade are left
				// untouched without failing the outer transition.
				continue
			}
			_, more, err := target.TriggerStrict(fu.Event, fu.Metadata)
			if err != nil {
				return err
			}
			queue = append(queue, more...)

		case statemachine.FollowUpNotifyWorkComplete:
			if o != nil {
				result.Notice = &WorkCompleteNotice{
					OrderID:        o.ID(),
					Assignees:      o.Assignees(),
					RequestContext: fu.Metadata.RequestContext,
				}
			}

		case statemachine.FollowUpFulfillOrderIfReady:
			if o == nil || !o.ID().IsEqual(fu.SubjectID) {
				continue
			}
			if _, err := s.FulfillIfItemsReady(o, items, fu.Metadata); err != nil {
				return err
			}

		case statemachine.FollowUpReleaseMembership:
			if o != nil && o.ID().IsEqual(fu.SubjectID) {
				o.DeactivateMembership(fu.ItemID)
			}
		}
	}
	return nil
}

func (s WorkflowService) memberItem(items []*item.Item, id kernel.UUID) *item.Item {
	for _, i := range items {
		if i.ID().IsEqual(id) {
			return i
		}
	}
	return nil
}
