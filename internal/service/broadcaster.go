package service

import (
	"context"
	"log"
)

// Publisher announces changed live topics (implemented by the change bus
// and the in-process hub; avoids an import cycle with live)
type Publisher interface {
	Publish(ctx context.Context, topic string) error
}

// notify publishes each topic after a committed write. Failures are logged:
// the write already happened and viewers catch up on the next change.
func notify(ctx context.Context, p Publisher, topics ...string) {
	if p == nil {
		return
	}
	for _, topic := range topics {
		if err := p.Publish(ctx, topic); err != nil {
			log.Printf("[publish] topic %s: %v", topic, err)
		}
	}
}
