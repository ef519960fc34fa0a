package ports

// AnyTopic subscribes to every published topic.
const AnyTopic = "*"

// Topics published by the application services.
const (
	OrderCreatedTopic   = "order.created"
	OrderExecutedTopic  = "order.executed"
	OrderCompletedTopic = "order.completed"
	OrderCancelledTopic = "order.cancelled"
	SwapInitiatedTopic  = "swap.initiated"
	SwapCompletedTopic  = "swap.completed"
	SwapFailedTopic     = "swap.failed"
	SwapCancelledTopic  = "swap.cancelled"
)

// PubSub defines the methods of the in-process pubsub service used to notify
// ledger events to interested subscribers.
type PubSub interface {
	// Subscribe adds a new subscription for the requested topic and returns
	// its id.
	Subscribe(topic string, handler func(event interface{})) string
	// Unsubscribe removes the subscription with the given id for a topic.
	Unsubscribe(topic, id string)
	// Publish delivers an event to all the subscribers of a topic.
	Publish(topic string, event interface{})
}
