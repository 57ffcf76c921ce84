package pubsub

import "context"

// Pack is a single message published to a topic. Key is used for partitioning
// and consumer-side deduplication.
type Pack struct {
	Key []byte
	Msg []byte
}

type Publisher interface {
	Publish(ctx context.Context, topic string, pack *Pack) error
	Stop(ctx context.Context) error
}
