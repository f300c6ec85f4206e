package events

import (
	"context"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"

	brcontext "github.com/Ramsey-B/bramble/pkg/context"
	"github.com/Ramsey-B/bramble/pkg/kafka"
)

func TestPublishLogsMarshalFailureAndSkipsEmission(t *testing.T) {
	logged := 0
	log := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) { logged++ })

	producer := kafka.NewProducer(kafka.ProducerConfig{
		Brokers:      []string{"localhost:9092"},
		Topic:        "passport.events",
		BatchSize:    1,
		BatchTimeout: time.Millisecond,
	}, log)
	emitter := NewEmitter(producer, log)

	// a channel has no JSON representation, so Marshal must fail
	emitter.publish(context.Background(), EventTypeMaterialCreated, brcontext.TenantKindSupplier, 10, "material", 100, make(chan int))

	// one log for the marshal failure and nothing else: the event never
	// reached the producer, or a broker error would have logged too
	assert.Equal(t, 1, logged)
}
