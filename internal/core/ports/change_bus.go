package ports

import "go.trai.ch/rcache/internal/core/domain"

// ChangeListener receives structural change notifications.
// Both methods are called synchronously on the goroutine performing the edit;
// the edit does not proceed until BeforeChange has returned.
//
//go:generate mockgen -source=change_bus.go -destination=mocks/mock_change_bus.go -package=mocks
type ChangeListener interface {
	// BeforeChange is called before the program structure is modified.
	BeforeChange(physical bool)
	// AfterChange is called once the modification is complete.
	AfterChange(physical bool)
}

// Subscription is a live registration on a ChangeBus.
type Subscription interface {
	// Close removes the registration. It is safe to call more than once.
	Close() error
}

// ChangeBus delivers change notifications to subscribed listeners.
type ChangeBus interface {
	// Subscribe registers l for notifications published on topic.
	Subscribe(topic domain.Topic, l ChangeListener) Subscription
	// BeforeChange notifies every listener of topic that a change is about to happen.
	BeforeChange(topic domain.Topic, physical bool)
	// AfterChange notifies every listener of topic that a change has happened.
	AfterChange(topic domain.Topic, physical bool)
}

// ChangeBusFactory creates a fresh bus, one per scope.
type ChangeBusFactory func() ChangeBus
