// Package watch delivers debounced change notifications for the board file,
// so an externally edited board shows up without a manual reload.
package watch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

const (
	debounceDelay   = 50 * time.Millisecond
	eventBufferSize = 16
)

// Event signals that the board file changed on disk.
type Event struct {
	Path      string
	Timestamp time.Time
}

// BoardWatcher watches a single board file using fsnotify. Events for other
// files in the same directory are ignored.
type BoardWatcher struct {
	path    string
	watcher *fsnotify.Watcher

	mu          sync.Mutex
	subscribers []chan<- Event
	debounce    *time.Timer

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewBoardWatcher starts watching the directory containing the board file.
// Watching the directory instead of the file survives atomic rename-replace
// saves.
func NewBoardWatcher(path string) (*BoardWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	bw := &BoardWatcher{
		path:    path,
		watcher: watcher,
		ctx:     ctx,
		cancel:  cancel,
	}

	bw.wg.Add(1)
	go bw.run()

	return bw, nil
}

// Watch returns a channel that receives an event whenever the board file
// changes. The channel closes when the watcher or the context stops.
func (bw *BoardWatcher) Watch(ctx context.Context) <-chan Event {
	ch := make(chan Event, eventBufferSize)

	bw.mu.Lock()
	bw.subscribers = append(bw.subscribers, ch)
	bw.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			bw.unsubscribe(ch)
		case <-bw.ctx.Done():
		}
	}()

	return ch
}

// Close stops watching and closes all subscriber channels.
func (bw *BoardWatcher) Close() error {
	bw.cancel()

	bw.mu.Lock()
	if bw.debounce != nil {
		bw.debounce.Stop()
	}
	for _, ch := range bw.subscribers {
		close(ch)
	}
	bw.subscribers = nil
	bw.mu.Unlock()

	err := bw.watcher.Close()
	bw.wg.Wait()
	return err
}

func (bw *BoardWatcher) unsubscribe(ch chan<- Event) {
	bw.mu.Lock()
	defer bw.mu.Unlock()
	for i, sub := range bw.subscribers {
		if sub == ch {
			bw.subscribers = append(bw.subscribers[:i], bw.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

func (bw *BoardWatcher) run() {
	defer bw.wg.Done()

	for {
		select {
		case <-bw.ctx.Done():
			return
		case event, ok := <-bw.watcher.Events:
			if !ok {
				return
			}
			bw.handleEvent(event)
		case err, ok := <-bw.watcher.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("board watcher error")
		}
	}
}

func (bw *BoardWatcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}
	if filepath.Clean(event.Name) != filepath.Clean(bw.path) {
		return
	}

	bw.mu.Lock()
	if bw.debounce != nil {
		bw.debounce.Stop()
	}
	bw.debounce = time.AfterFunc(debounceDelay, bw.notify)
	bw.mu.Unlock()
}

func (bw *BoardWatcher) notify() {
	event := Event{Path: bw.path, Timestamp: time.Now()}

	bw.mu.Lock()
	defer bw.mu.Unlock()
	for _, ch := range bw.subscribers {
		select {
		case ch <- event:
		default:
			// Subscriber is behind; drop rather than block.
		}
	}
	bw.debounce = nil
}
