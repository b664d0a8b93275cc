package arena

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/milk9111/rpgcore/ai"
	"github.com/milk9111/rpgcore/prefabs"
	"github.com/sirupsen/logrus"
)

var ErrNoWatchDirs = errors.New("arena: no prefab directories to watch")

// Watch starts watching the prefab override directory. Changes are applied
// at the start of the next Tick.
func (a *Arena) Watch() error {
	if a.watcher != nil {
		return nil
	}
	dirs := prefabs.WatchDirs()
	if len(dirs) == 0 {
		return ErrNoWatchDirs
	}
	w, err := prefabs.NewWatcher(dirs...)
	if err != nil {
		return fmt.Errorf("arena: watch prefabs: %w", err)
	}
	a.watcher = w
	a.log.WithField("dirs", dirs).Info("arena: watching prefabs")
	return nil
}

func (a *Arena) Close() error {
	if a.watcher == nil {
		return nil
	}
	err := a.watcher.Close()
	a.watcher = nil
	return err
}

func (a *Arena) applyReloads() {
	if a.watcher == nil {
		return
	}
	for {
		select {
		case file, ok := <-a.watcher.Events:
			if !ok {
				a.watcher = nil
				return
			}
			a.reloadFile(file)
		case err, ok := <-a.watcher.Errors:
			if ok {
				a.log.WithError(err).Warn("arena: prefab watcher")
			}
		default:
			return
		}
	}
}

func (a *Arena) reloadFile(file string) {
	name, ok := prefabs.RelativeName(file)
	if !ok {
		return
	}
	if strings.HasPrefix(name, "archetypes/") {
		a.logReload(a.Reload(strings.TrimSuffix(path.Base(name), path.Ext(name))))
		return
	}
	// fsm and script edits may touch any archetype
	for _, archetype := range a.registry.Names() {
		a.logReload(a.Reload(archetype))
	}
}

func (a *Arena) logReload(err error) {
	if err != nil {
		a.log.WithError(err).Warn("arena: reload failed, keeping previous")
	}
}

// Reload recompiles one archetype and pushes its new tuning to the live
// enemies of that archetype. Their current state is kept.
func (a *Arena) Reload(archetype string) error {
	arch, err := a.registry.Reload(archetype)
	if err != nil {
		return err
	}
	tuning := ai.Tuning(arch.Spec.Tuning)
	n := 0
	for _, en := range a.Enemies() {
		if en.Archetype != arch.Spec.Name {
			continue
		}
		en.Retune(tuning)
		n++
	}
	a.log.WithFields(logrus.Fields{"archetype": arch.Spec.Name, "retuned": n}).Info("arena: archetype reloaded")
	return nil
}
