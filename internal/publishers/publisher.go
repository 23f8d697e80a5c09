// Package publishers emits the download-request and pipeline-control
// commands other services consume. Publishers are stateless: each call
// serializes one message and emits it on a fixed routing key. There is
// no retry; failures return synchronously to the caller.
package publishers

import "context"

// Publisher is the slice of the broker the publishers need. Tests
// substitute a recording fake.
type Publisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}
