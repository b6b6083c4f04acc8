package selection

import (
	"context"

	"tableflip.dev/shelf/pkg/store"
)

// Follow republishes on bus every change the store sees on disk, so lists
// written by another shelf process reach this one's subscribers. Writes made
// through this process are seen twice, once from Append and once from the
// watcher; subscribers re-read either way. Follow returns once the watcher is
// running; forwarding stops when ctx is done.
func Follow(ctx context.Context, kv store.KV, bus *Bus) error {
	events, err := kv.Watch(ctx)
	if err != nil {
		return err
	}
	go func() {
		for ev := range events {
			bus.Publish(Change{Key: ev.Key})
		}
	}()
	return nil
}
