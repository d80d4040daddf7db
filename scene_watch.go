package lightstore

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// SceneWatcher hot-reloads one scene file. On every settled write it parses
// the file again and delivers the new SceneDef on Reloads; the host applies
// it inside its own tick (this package never mutates stores from the
// watcher goroutine, keeping the single-writer contract intact).
type SceneWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	log     Logger

	Reloads chan *SceneDef
	Errors  chan error

	closeCh chan struct{}
	once    sync.Once
}

func WatchScene(path string, log Logger) (*SceneWatcher, error) {
	if log == nil {
		log = NewNopLogger()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory, not the file: editors replace files on save.
	if err := w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()
		return nil, err
	}

	sw := &SceneWatcher{
		path:    path,
		watcher: w,
		log:     log,
		Reloads: make(chan *SceneDef, 1),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
	}
	go sw.run()
	return sw, nil
}

// Close stops the watcher. Reloads and Errors are closed by the watcher
// goroutine once it has wound down, so a reload already in flight drains
// instead of racing the shutdown.
func (sw *SceneWatcher) Close() error {
	var err error
	sw.once.Do(func() {
		close(sw.closeCh)
		err = sw.watcher.Close()
	})
	return err
}

func (sw *SceneWatcher) run() {
	// Only this goroutine sends on Reloads/Errors, so only it may close them.
	defer close(sw.Errors)
	defer close(sw.Reloads)

	var lastReload time.Time
	for {
		select {
		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != filepath.Clean(sw.path) {
				continue
			}
			// Debounce: editors fire several events per save.
			now := time.Now()
			if now.Sub(lastReload) < 100*time.Millisecond {
				continue
			}
			lastReload = now

			def, err := LoadSceneFile(sw.path)
			if err != nil {
				sw.log.Warnf("scene reload skipped: %v", err)
				continue
			}
			sw.log.Infof("scene %s reloaded (%d lights)", sw.path, len(def.Lights))
			select {
			case sw.Reloads <- def:
			default:
				// Host has not drained the previous reload; drop it, the
				// next save wins anyway.
			}
		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			select {
			case sw.Errors <- err:
			default:
			}
		case <-sw.closeCh:
			return
		}
	}
}
