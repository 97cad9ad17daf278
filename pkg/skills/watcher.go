package skills

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"

	"github.com/skillhub/skillhub/pkg/logger"
)

// Watcher rescans the corpus whenever a watched root changes and
// delivers each rebuilt snapshot over Updates. A live Registry is
// never mutated; consumers swap to the new instance at their own pace.
type Watcher struct {
	scanner  *Scanner
	watcher  *fsnotify.Watcher
	updates  chan *ScanResult
	debounce time.Duration
}

// NewWatcher creates a Watcher over the scanner's roots. Roots that do
// not exist yet are skipped; create them and restart the watcher to
// pick them up.
func NewWatcher(scanner *Scanner) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create filesystem watcher")
	}

	watched := 0
	for _, root := range scanner.roots {
		if err := fsw.Add(root); err != nil {
			continue
		}
		watched++
	}
	if watched == 0 {
		fsw.Close()
		return nil, errors.New("no scan roots exist to watch")
	}

	return &Watcher{
		scanner:  scanner,
		watcher:  fsw,
		updates:  make(chan *ScanResult, 1),
		debounce: 250 * time.Millisecond,
	}, nil
}

// Updates delivers a fresh ScanResult after each batch of filesystem
// changes. The channel closes when Run returns.
func (w *Watcher) Updates() <-chan *ScanResult {
	return w.updates
}

// Run watches until ctx is cancelled. Bursts of events within the
// debounce window coalesce into a single rescan.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()
	defer close(w.updates)

	log := logger.G(ctx)

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			log.WithField("event", event.String()).Debug("corpus change detected")
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				fire = timer.C
			} else {
				if !timer.Stop() {
					<-timer.C
				}
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			log.WithError(err).Warn("filesystem watcher error")

		case <-fire:
			timer = nil
			fire = nil

			result, err := w.scanner.Scan(ctx)
			if err != nil {
				log.WithError(err).Error("rescan failed, keeping previous registry")
				continue
			}

			select {
			case w.updates <- result:
			default:
				// Drop the pending stale snapshot in favor of this one.
				select {
				case <-w.updates:
				default:
				}
				w.updates <- result
			}
		}
	}
}
