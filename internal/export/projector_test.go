package export

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mavidal/fintrack-be/internal/models"
)

// chanPublisher signals each publish on a channel.
type chanPublisher struct {
	calls chan models.User
	err   error
}

func (p *chanPublisher) Publish(_ context.Context, owner models.User) error {
	p.calls <- owner
	return p.err
}

func TestProjectorPublishesEnqueuedOwners(t *testing.T) {
	pub := &chanPublisher{calls: make(chan models.User, 4)}
	p := NewProjector(pub, 4)
	go p.Run()
	defer p.Stop()

	owner := models.User{ID: "u1", Email: "ana@example.com"}
	p.Enqueue(owner)

	select {
	case got := <-pub.calls:
		assert.Equal(t, owner.Email, got.Email)
	case <-time.After(2 * time.Second):
		t.Fatal("projector never published the enqueued owner")
	}
}

func TestProjectorSwallowsPublishFailures(t *testing.T) {
	pub := &chanPublisher{calls: make(chan models.User, 4), err: errors.New("bucket unreachable")}
	p := NewProjector(pub, 4)
	go p.Run()
	defer p.Stop()

	p.Enqueue(models.User{Email: "first@example.com"})
	p.Enqueue(models.User{Email: "second@example.com"})

	// Both publishes run; the first failure does not stop the worker.
	for i := 0; i < 2; i++ {
		select {
		case <-pub.calls:
		case <-time.After(2 * time.Second):
			t.Fatalf("publish %d never happened", i+1)
		}
	}
}

func TestEnqueueNeverBlocksWhenFull(t *testing.T) {
	// No worker running: the queue fills up and further requests drop.
	pub := &chanPublisher{calls: make(chan models.User, 1)}
	p := NewProjector(pub, 1)

	done := make(chan struct{})
	go func() {
		p.Enqueue(models.User{Email: "a@example.com"})
		p.Enqueue(models.User{Email: "b@example.com"})
		p.Enqueue(models.User{Email: "c@example.com"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Enqueue blocked on a full queue")
	}
	require.Len(t, p.queue, 1)
}
