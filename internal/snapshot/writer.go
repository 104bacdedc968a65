package snapshot

import (
	"context"
	"log"
	"time"
)

type record struct {
	key  string
	data []byte // nil = delete
}

// Writer applies snapshot writes off the request path. A mutation updates
// in-memory state synchronously and enqueues here; the loop below writes in
// order. A crash drops whatever is still queued, which for one session is at
// most its most recent snapshot.
type Writer struct {
	store   Store
	inbox   chan record
	closeCh chan struct{}
}

func NewWriter(store Store, buf int) *Writer {
	return &Writer{
		store:   store,
		inbox:   make(chan record, buf),
		closeCh: make(chan struct{}),
	}
}

func (w *Writer) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				// flush yang masih buffered lalu exit
				for {
					select {
					case r, ok := <-w.inbox:
						if !ok {
							close(w.closeCh)
							return
						}
						w.apply(r)
					default:
						close(w.closeCh)
						return
					}
				}
			case r, ok := <-w.inbox:
				if !ok {
					close(w.closeCh)
					return
				}
				w.apply(r)
			}
		}
	}()
}

func (w *Writer) apply(r record) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var err error
	if r.data == nil {
		err = w.store.Delete(ctx, r.key)
	} else {
		err = w.store.Save(ctx, r.key, r.data)
	}
	if err != nil {
		// fire-and-forget: log saja, state in-memory tetap benar
		log.Printf("snapshot write %s: %v", r.key, err)
	}
}

func (w *Writer) Enqueue(key string, data []byte) {
	w.inbox <- record{key: key, data: data}
}

// Tutup inbox supaya loop nge-flush sisa record lalu exit rapi.
func (w *Writer) Close() { close(w.inbox) }

// Tunggu sampai loop selesai.
func (w *Writer) WaitClosed() { <-w.closeCh }
