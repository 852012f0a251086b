// Package watch decides when a watched tree needs a re-crawl. An fsnotify
// observer feeds a channel that the owner polls once per tick.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/glyph-dev/glyph/internal/config"
	"github.com/glyph-dev/glyph/internal/fileutil"
	"github.com/glyph-dev/glyph/internal/ignore"
	"golang.org/x/sync/errgroup"
)

// Op is the type of a file change.
type Op int

const (
	OpCreate Op = iota
	OpWrite
	OpRemove
	OpRename
)

// String returns the string representation of the operation.
func (op Op) String() string {
	switch op {
	case OpCreate:
		return "create"
	case OpWrite:
		return "write"
	case OpRemove:
		return "remove"
	case OpRename:
		return "rename"
	default:
		return "unknown"
	}
}

// Change is one relevant file system event.
type Change struct {
	Path string
	Op   Op
	Time time.Time
}

// Options configures a Trigger.
type Options struct {
	// Debounce is the quiet period after the last change. Default: 500ms.
	Debounce time.Duration

	// Extensions limits relevant files; empty means every file.
	Extensions []string

	// Ignore rules are added to the built-in exclusions.
	Ignore []string

	// BufferSize of the change channel. Default: 256.
	BufferSize int
}

// Trigger watches a tree and reports, via Poll, when a re-crawl is due.
// Poll must only be called by the single owner; the pump goroutine is the
// only other party and talks through the channel.
type Trigger struct {
	root     string
	watcher  *fsnotify.Watcher
	matcher  *ignore.Matcher
	exts     map[string]bool
	debounce time.Duration

	changes chan Change
	group   *errgroup.Group
	cancel  context.CancelFunc
	once    sync.Once

	// pump goroutine only
	hashes map[string]string

	// owner only
	last    time.Time
	pending bool
}

// New starts watching root recursively.
func New(root string, opts Options) (*Trigger, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = config.DefaultDebounce
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = 256
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	exts := make(map[string]bool, len(opts.Extensions))
	for _, ext := range opts.Extensions {
		exts[strings.ToLower(ext)] = true
	}

	t := &Trigger{
		root:     root,
		watcher:  watcher,
		matcher:  ignore.NewMatcher(opts.Ignore),
		exts:     exts,
		debounce: opts.Debounce,
		changes:  make(chan Change, opts.BufferSize),
		hashes:   make(map[string]string),
	}

	if err := t.addRecursive(root); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", root, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	group, ctx := errgroup.WithContext(ctx)
	t.cancel = cancel
	t.group = group
	group.Go(func() error {
		return t.pump(ctx)
	})

	slog.Debug("watch.start", "root", root, "debounce", opts.Debounce)
	return t, nil
}

// Root returns the watched directory.
func (t *Trigger) Root() string {
	return t.root
}

// Poll drains pending changes without blocking and reports true exactly
// once per burst, when at least the debounce window has passed since the
// last relevant change was seen.
func (t *Trigger) Poll(now time.Time) bool {
drain:
	for {
		select {
		case change, ok := <-t.changes:
			if !ok {
				break drain
			}
			slog.Debug("watch.event", "path", change.Path, "op", change.Op.String())
			t.last = now
			t.pending = true
		default:
			break drain
		}
	}

	if t.pending && now.Sub(t.last) >= t.debounce {
		t.pending = false
		return true
	}
	return false
}

// Close stops the pump goroutine and releases the watcher.
func (t *Trigger) Close() error {
	var err error
	t.once.Do(func() {
		t.cancel()
		closeErr := t.watcher.Close()
		waitErr := t.group.Wait()
		close(t.changes)
		err = errors.Join(closeErr, waitErr)
	})
	return err
}

func (t *Trigger) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != t.root && t.ignored(path, true) {
			return filepath.SkipDir
		}
		return t.watcher.Add(path)
	})
}

func (t *Trigger) ignored(path string, isDir bool) bool {
	rel, err := filepath.Rel(t.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return true
	}
	return t.matcher.ShouldIgnore(filepath.ToSlash(rel), isDir)
}

func (t *Trigger) pump(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-t.watcher.Events:
			if !ok {
				return nil
			}
			change, relevant := t.classify(event)
			if !relevant {
				continue
			}
			select {
			case t.changes <- change:
			default:
				// Buffer full: a re-crawl is already pending.
			}
		case err, ok := <-t.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watch.error", "root", t.root, "err", err)
		}
	}
}

// classify filters an event down to changes that can affect the graph.
func (t *Trigger) classify(event fsnotify.Event) (Change, bool) {
	change := Change{Path: event.Name, Time: time.Now()}

	switch {
	case event.Has(fsnotify.Create):
		change.Op = OpCreate
	case event.Has(fsnotify.Write):
		change.Op = OpWrite
	case event.Has(fsnotify.Remove):
		change.Op = OpRemove
	case event.Has(fsnotify.Rename):
		change.Op = OpRename
	default:
		return change, false
	}

	if change.Op == OpCreate {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if t.ignored(event.Name, true) {
				return change, false
			}
			if err := t.addRecursive(event.Name); err != nil {
				slog.Warn("watch.add_failed", "path", event.Name, "err", err)
			}
			return change, true
		}
	}

	if t.ignored(event.Name, false) {
		return change, false
	}
	if len(t.exts) > 0 && !t.exts[strings.ToLower(filepath.Ext(event.Name))] {
		return change, false
	}

	switch change.Op {
	case OpRemove, OpRename:
		delete(t.hashes, event.Name)
	default:
		hash, err := fileutil.HashFile(event.Name)
		if err != nil {
			return change, true
		}
		if t.hashes[event.Name] == hash {
			return change, false
		}
		t.hashes[event.Name] = hash
	}
	return change, true
}
