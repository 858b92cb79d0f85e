/*
Package events provides an in-process publish/subscribe broker for
control-plane events.

The state watcher publishes an event after each class refresh and when it
observes a node flip between online and offline or a resource degrade.
Interested components (reconcilers, operators, debugging tools) subscribe
to react without polling the cache:

	broker := events.NewBroker()
	broker.Start()
	defer broker.Stop()

	sub := broker.Subscribe()
	go func() {
		for event := range sub {
			// react to event
		}
	}()

Delivery is best effort: a subscriber whose buffer is full misses events
rather than blocking the broker. Subscribers that need a complete picture
should re-read the state cache, which always holds the latest snapshot.
*/
package events
