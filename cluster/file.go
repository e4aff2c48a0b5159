package cluster

import (
	"context"
	"fmt"
	"github.com/fsnotify/fsnotify"
	"github.com/go-logr/logr"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/file"
	"path/filepath"
)

// FileDiscovery maintains a Membership from a json file
//   {"nodes": [{"id": "a", "host": "10.0.0.1", "port": 8080}]}
// and reloads it whenever the file changes.
type FileDiscovery struct {
	*Membership
	path   string
	logger logr.Logger
}

// NewFileDiscovery loads the initial members from path.
func NewFileDiscovery(
	path   string,
	logger logr.Logger,
) (*FileDiscovery, error) {
	if logger.GetSink() == nil {
		logger = logr.Discard()
	}
	nodes, err := loadNodes(path)
	if err != nil {
		return nil, err
	}
	return &FileDiscovery{
		Membership: NewMembership(nodes...),
		path:       path,
		logger:     logger.WithName("cluster"),
	}, nil
}

// Reload reads the members from the file.
func (f *FileDiscovery) Reload() error {
	nodes, err := loadNodes(f.path)
	if err != nil {
		return err
	}
	if f.Update(nodes) {
		f.logger.Info("membership changed", "path", f.path, "nodes", len(nodes))
	}
	return nil
}

// Watch reloads the members on changes to the file until ctx is done.
// The directory is watched so files replaced by rename are detected.
func (f *FileDiscovery) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("cluster: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(f.path)); err != nil {
		return fmt.Errorf("cluster: watch %s: %w", f.path, err)
	}
	target := filepath.Clean(f.path)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			if err := f.Reload(); err != nil {
				f.logger.Error(err, "unable to reload membership", "path", f.path)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			f.logger.Error(err, "membership watcher failed", "path", f.path)
		}
	}
}

func loadNodes(path string) ([]Node, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), json.Parser()); err != nil {
		return nil, fmt.Errorf("cluster: load %s: %w", path, err)
	}
	var nodes []Node
	if err := k.Unmarshal("nodes", &nodes); err != nil {
		return nil, fmt.Errorf("cluster: load %s: %w", path, err)
	}
	return nodes, nil
}
