package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDelay is how long the settings file must stay quiet before it is
// read. A burst of saves is reloaded once.
const reloadDelay = 100 * time.Millisecond

// settingsWatcher reloads the settings file when it changes on disk and
// hands the result to post. The directory is watched rather than the file
// so editors that save by renaming are still seen.
type settingsWatcher struct {
	watcher *fsnotify.Watcher
	path    string
	delay   time.Duration
	post    func(interface{})
	done    chan struct{}
}

func watchSettings(path string, post func(interface{})) (*settingsWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(path), err)
	}
	sw := &settingsWatcher{
		watcher: w,
		path:    filepath.Clean(path),
		delay:   reloadDelay,
		post:    post,
		done:    make(chan struct{}),
	}
	go sw.loop()
	return sw, nil
}

func (sw *settingsWatcher) loop() {
	defer close(sw.done)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case ev, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != sw.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			// Coalesce: every change restarts the quiet period
			if timer == nil {
				timer = time.NewTimer(sw.delay)
			} else {
				timer.Reset(sw.delay)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			sw.reload()
		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			sw.post(watchFailed{err})
		}
	}
}

func (sw *settingsWatcher) reload() {
	s, err := LoadSettings(sw.path)
	if err != nil {
		sw.post(watchFailed{err})
		return
	}
	sw.post(settingsChanged{s})
}

// Close stops the watcher and waits for its goroutine to exit.
func (sw *settingsWatcher) Close() error {
	err := sw.watcher.Close()
	<-sw.done
	return err
}
