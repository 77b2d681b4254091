package config

import (
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watcher reloads the configuration when the config file changes on disk.
// Only a subset of settings can take effect without a restart; the callback
// decides what to apply.
type Watcher struct {
	loader  *Loader
	watcher *fsnotify.Watcher
	logger  zerolog.Logger
	done    chan struct{}
}

// Watch starts watching the loader's config file and invokes onChange with
// each successfully reloaded config.
func Watch(loader *Loader, logger zerolog.Logger, onChange func(*Config)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	path := loader.GetConfigPath()
	if err := fsw.Add(path); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		loader:  loader,
		watcher: fsw,
		logger:  logger,
		done:    make(chan struct{}),
	}

	go w.run(onChange)

	logger.Info().Str("path", path).Msg("Watching config file")
	return w, nil
}

func (w *Watcher) run(onChange func(*Config)) {
	defer close(w.done)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			cfg, err := w.loader.Load()
			if err != nil {
				w.logger.Warn().Err(err).Msg("Config reload failed, keeping current config")
				continue
			}
			if err := cfg.Validate(); err != nil {
				w.logger.Warn().Err(err).Msg("Reloaded config is invalid, keeping current config")
				continue
			}

			w.logger.Info().Msg("Config reloaded")
			onChange(cfg)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn().Err(err).Msg("Config watcher error")
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	return err
}
