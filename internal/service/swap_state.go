package service

import (
	"fmt"

	"github.com/TheBugSlayer11/Skill-Swap-Platform/internal/apperror"
	"github.com/TheBugSlayer11/Skill-Swap-Platform/internal/broker"
	"github.com/TheBugSlayer11/Skill-Swap-Platform/internal/models"
)

type SwapAction string

const (
	ActionAccept   SwapAction = "accept"
	ActionReject   SwapAction = "reject"
	ActionCancel   SwapAction = "cancel"
	ActionComplete SwapAction = "complete"
)

// SwapActions lists every action in a stable order.
var SwapActions = []SwapAction{ActionAccept, ActionReject, ActionCancel, ActionComplete}

// party names who may perform a transition.
type party int

const (
	partyReceiver party = iota + 1
	partyRequester
	partyEither
)

type transitionKey struct {
	from   models.SwapStatus
	action SwapAction
}

type transitionRule struct {
	to    models.SwapStatus
	actor party
	event broker.EventType
}

// transitions is the complete swap state machine. Any pair absent here is invalid.
var transitions = map[transitionKey]transitionRule{
	{models.SwapPending, ActionAccept}:    {to: models.SwapAccepted, actor: partyReceiver, event: broker.EventSwapAccepted},
	{models.SwapPending, ActionReject}:    {to: models.SwapRejected, actor: partyReceiver, event: broker.EventSwapRejected},
	{models.SwapPending, ActionCancel}:    {to: models.SwapCancelled, actor: partyRequester, event: broker.EventSwapCancelled},
	{models.SwapAccepted, ActionCancel}:   {to: models.SwapCancelled, actor: partyEither, event: broker.EventSwapCancelled},
	{models.SwapAccepted, ActionComplete}: {to: models.SwapCompleted, actor: partyEither, event: broker.EventSwapCompleted},
}

// authorize is the single policy check consulted by every transition path.
// Non-parties are always rejected; parties are rejected when the rule for the
// current status names the other side.
func authorize(swap *models.SwapRequest, actingUserID string, action SwapAction) error {
	if !swap.IsParty(actingUserID) {
		return apperror.Forbidden("only the requester or receiver can act on this swap")
	}

	rule, ok := transitions[transitionKey{swap.Status, action}]
	if !ok {
		// No rule: the state check reports it.
		return nil
	}

	switch rule.actor {
	case partyReceiver:
		if actingUserID != swap.ReceiverID {
			return apperror.Forbidden(fmt.Sprintf("only the receiver can %s a %s swap", action, swap.Status))
		}
	case partyRequester:
		if actingUserID != swap.RequesterID {
			return apperror.Forbidden(fmt.Sprintf("only the requester can %s a %s swap", action, swap.Status))
		}
	}
	return nil
}

// nextStatus looks up the transition table.
func nextStatus(from models.SwapStatus, action SwapAction) (transitionRule, error) {
	if from.IsTerminal() {
		return transitionRule{}, apperror.InvalidState(fmt.Sprintf("cannot %s: swap is already %s", action, from))
	}
	rule, ok := transitions[transitionKey{from, action}]
	if !ok {
		return transitionRule{}, apperror.InvalidState(fmt.Sprintf("cannot %s a swap that is %s", action, from))
	}
	return rule, nil
}
