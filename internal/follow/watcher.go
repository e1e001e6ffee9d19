package follow

import (
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watcher signals possible modifications of a file. A nil value on Events
// means "look again"; a non-nil value is a fatal watch error. Consecutive
// signals are coalesced while the receiver is busy.
type watcher interface {
	Events() <-chan error
	Close() error
}

// loopWatcher runs a watch function in its own goroutine until Close.
type loopWatcher struct {
	events chan error
	stop   chan struct{}
	done   chan struct{}
	once   sync.Once
	// closeErr is set by the watch goroutine before done is closed.
	closeErr error
}

func startLoop(watch func(w *loopWatcher) error) *loopWatcher {
	w := &loopWatcher{
		events: make(chan error, 1),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go func() {
		defer close(w.done)
		defer close(w.events)
		w.closeErr = watch(w)
	}()
	return w
}

func (w *loopWatcher) Events() <-chan error { return w.events }

// Close stops the watch goroutine and waits for it to exit. Close is
// idempotent.
func (w *loopWatcher) Close() error {
	w.once.Do(func() { close(w.stop) })
	<-w.done
	return w.closeErr
}

// signal queues a nil event unless one is already pending.
func (w *loopWatcher) signal() {
	select {
	case w.events <- nil:
	default:
	}
}

// fail delivers err, unless a stop is requested first.
func (w *loopWatcher) fail(err error) {
	select {
	case w.events <- err:
	case <-w.stop:
	}
}

// newPollWatcher stats the file every sleep and signals when its size or
// modification time changes.
func newPollWatcher(path string, sleep time.Duration) (watcher, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	lastSize, lastMod := info.Size(), info.ModTime()

	return startLoop(func(w *loopWatcher) error {
		ticker := time.NewTicker(sleep)
		defer ticker.Stop()
		for {
			select {
			case <-w.stop:
				return nil
			case <-ticker.C:
			}
			info, err := os.Stat(path)
			if err != nil {
				w.fail(err)
				return nil
			}
			if info.Size() != lastSize || !info.ModTime().Equal(lastMod) {
				lastSize, lastMod = info.Size(), info.ModTime()
				w.signal()
			}
		}
	}), nil
}

// newNotifyWatcher signals on fsnotify write events for path. It also wakes
// every sleep, so a missed notification delays output by at most one
// interval.
func newNotifyWatcher(path string, sleep time.Duration) (watcher, error) {
	source, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := source.Add(path); err != nil {
		_ = source.Close()
		return nil, err
	}

	return startLoop(func(w *loopWatcher) error {
		defer source.Close()
		ticker := time.NewTicker(sleep)
		defer ticker.Stop()
		for {
			select {
			case <-w.stop:
				return nil
			case ev, ok := <-source.Events:
				if !ok {
					return nil
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Chmod) {
					w.signal()
				}
			case err, ok := <-source.Errors:
				if !ok {
					return nil
				}
				w.fail(err)
				return nil
			case <-ticker.C:
				w.signal()
			}
		}
	}), nil
}
