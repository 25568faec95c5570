package config

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/lixenwraith/cellframe/core"
)

// DebounceDelay coalesces the burst of events an editor save produces
var DebounceDelay = 100 * time.Millisecond

// Watch reloads the file at path whenever it is written or replaced and hands
// the result to onChange. Files that fail to load are logged and skipped.
// The watcher is registered before Watch returns and runs until ctx is done.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: create watcher: %w", err)
	}

	// Watch the directory: editors often save by renaming a temp file over the target
	abs, err := filepath.Abs(path)
	if err != nil {
		watcher.Close()
		return fmt.Errorf("config: resolve %s: %w", path, err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return fmt.Errorf("config: watch %s: %w", path, err)
	}

	core.Go("config watch", func() {
		defer watcher.Close()

		timer := time.NewTimer(DebounceDelay)
		timer.Stop()
		pending := false

		for {
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if !timer.Stop() && pending {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(DebounceDelay)
				pending = true
			case <-timer.C:
				if !pending {
					continue
				}
				pending = false
				cfg, err := Load(path)
				if err != nil {
					log.Printf("config: reload skipped: %v", err)
					continue
				}
				log.Printf("config: reloaded %s", path)
				onChange(cfg)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("config: watcher error: %v", err)
			}
		}
	})
	return nil
}
