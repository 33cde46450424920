package statemachine

import (
	"errors"

	"food-delivery-client/models"
)

// Actor identifies who is requesting a transition
const (
	ActorRestaurant = "restaurant"
	ActorDriver     = "driver"
)

// Transition defines a valid state change and who can perform it
type Transition struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor string
}

// validTransitions is the authoritative state machine definition. The client
// only ever offers forward movement: the restaurant works an order up to
// ready, the driver takes over once the platform has confirmed assignment.
var validTransitions = []Transition{
	// Restaurant works the kitchen side
	{From: models.StatusPending, To: models.StatusConfirmed, Actor: ActorRestaurant},
	{From: models.StatusConfirmed, To: models.StatusPreparing, Actor: ActorRestaurant},
	{From: models.StatusPreparing, To: models.StatusReady, Actor: ActorRestaurant},
	// Driver takes the order out; assignment sets CONFIRMED server-side
	{From: models.StatusConfirmed, To: models.StatusPickedUp, Actor: ActorDriver},
	{From: models.StatusPickedUp, To: models.StatusDelivered, Actor: ActorDriver},
}

// transitionKey is used to look up valid transitions quickly
type transitionKey struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor string
}

// Build a lookup map for O(1) validation
var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// NextAction returns the single forward status an actor may request from the
// given status. The second return is false when no action should be offered
// (terminal states, or states owned by the other side).
func NextAction(status models.OrderStatus, actor string) (models.OrderStatus, bool) {
	for _, t := range validTransitions {
		if t.From == status && t.Actor == actor {
			return t.To, true
		}
	}
	return "", false
}

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	var nexts []models.OrderStatus
	seen := map[models.OrderStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// CanTransition checks if a given actor can move from one state to another
func CanTransition(from, to models.OrderStatus, actor string) error {
	key := transitionKey{From: from, To: to, Actor: actor}
	if transitionMap[key] {
		return nil
	}
	return errors.New(
		"invalid transition: " + string(from) + " -> " + string(to) +
			" is not allowed for actor '" + actor + "'. " +
			"Valid transitions from " + string(from) + " are: " + describeValidFrom(from),
	)
}

func describeValidFrom(status models.OrderStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	result := ""
	for i, s := range nexts {
		if i > 0 {
			result += ", "
		}
		result += string(s)
	}
	return result
}
