package catalog

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/go-git/go-billy/v6"
	"github.com/go-git/go-billy/v6/memfs"
	"github.com/go-git/go-billy/v6/osfs"
	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing/cache"
	"github.com/go-git/go-git/v6/plumbing/object"
	"github.com/go-git/go-git/v6/storage/filesystem"
	"github.com/go-git/go-git/v6/storage/memory"
	"github.com/pelletier/go-toml/v2"

	"github.com/golemdb/golemdb-sql-go/core"
	golemerrors "github.com/golemdb/golemdb-sql-go/errors"
)

// author identifies the catalog store as the committer of every DDL commit.
var author = object.Signature{
	Name:  "golemdb-sql",
	Email: "catalog@golemdb-sql.local",
}

// Store is a persistent, per-schema_id registry of schema definitions,
// backed by a git repository so every DDL mutation leaves a commit (spec
// §4.2). It is safe for concurrent use.
type Store struct {
	repo *git.Repository
	wt   *git.Worktree
	fs   billy.Filesystem
	mu   sync.RWMutex
}

// OpenFileStore opens (or initializes) a file-backed catalog store rooted at
// baseDir. If baseDir does not yet contain a repository, one is created.
func OpenFileStore(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, golemerrors.OperationalError(err, "creating catalog directory %s", baseDir)
	}
	root := osfs.New(baseDir)
	gitDir, err := root.Chroot(".git")
	if err != nil {
		return nil, golemerrors.OperationalError(err, "opening catalog directory %s", baseDir)
	}

	storer := filesystem.NewStorageWithOptions(
		gitDir,
		cache.NewObjectLRUDefault(),
		filesystem.Options{ExclusiveAccess: true},
	)

	repo, err := git.Open(storer, root)
	if err != nil {
		repo, err = git.Init(storer, git.WithWorkTree(root))
		if err != nil {
			return nil, golemerrors.OperationalError(err, "initializing catalog repository at %s", baseDir)
		}
	}

	return newStore(repo, root)
}

// OpenMemoryStore opens a store backed entirely by in-memory storage,
// useful for tests and for connections that never persist across process
// restarts.
func OpenMemoryStore() (*Store, error) {
	wt := memfs.New()
	storer := memory.NewStorage()

	repo, err := git.Init(storer, git.WithWorkTree(wt))
	if err != nil {
		return nil, golemerrors.OperationalError(err, "initializing in-memory catalog repository")
	}
	return newStore(repo, wt)
}

func newStore(repo *git.Repository, fs billy.Filesystem) (*Store, error) {
	wt, err := repo.Worktree()
	if err != nil {
		return nil, golemerrors.OperationalError(err, "obtaining catalog worktree")
	}
	return &Store{repo: repo, wt: wt, fs: fs}, nil
}

func schemaFileName(schemaID string) string {
	return schemaID + ".toml"
}

// Load reads the schema identified by schemaID. A schema with no persisted
// file yet returns an empty Schema, not an error (spec §4.2).
func (s *Store) Load(schemaID string) (*core.Schema, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadLocked(schemaID)
}

func (s *Store) loadLocked(schemaID string) (*core.Schema, error) {
	f, err := s.fs.Open(schemaFileName(schemaID))
	if err != nil {
		return &core.Schema{ID: schemaID}, nil
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, golemerrors.InternalError("reading catalog file for schema %q: %v", schemaID, err)
	}

	var schema core.Schema
	if err := toml.Unmarshal(data, &schema); err != nil {
		return nil, golemerrors.InternalError("catalog file for schema %q is corrupt: %v", schemaID, err)
	}
	schema.ID = schemaID
	return &schema, nil
}

// saveLocked writes the schema atomically (temp file + rename); ApplyDDL
// stages and commits it afterwards. Caller must hold s.mu.
func (s *Store) saveLocked(schema *core.Schema) error {
	data, err := toml.Marshal(schema)
	if err != nil {
		return golemerrors.InternalError("encoding schema %q: %v", schema.ID, err)
	}

	name := schemaFileName(schema.ID)
	tmp := name + ".tmp"

	w, err := s.fs.Create(tmp)
	if err != nil {
		return golemerrors.OperationalError(err, "creating temp catalog file for schema %q", schema.ID)
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return golemerrors.OperationalError(err, "writing temp catalog file for schema %q", schema.ID)
	}
	if err := w.Close(); err != nil {
		return golemerrors.OperationalError(err, "closing temp catalog file for schema %q", schema.ID)
	}

	if err := s.fs.Rename(tmp, name); err != nil {
		return golemerrors.OperationalError(err, "renaming catalog file for schema %q", schema.ID)
	}

	return nil
}

// ApplyDDL loads the named schema, applies mutate, persists the result, and
// commits the change with the given message. mutate is the only sanctioned
// way to change a persisted schema (spec §4.2's "mutated only via
// apply_ddl").
func (s *Store) ApplyDDL(schemaID string, message string, mutate func(*core.Schema) error) (*core.Schema, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	schema, err := s.loadLocked(schemaID)
	if err != nil {
		return nil, err
	}

	if err := mutate(schema); err != nil {
		return nil, err
	}

	if err := s.saveLocked(schema); err != nil {
		return nil, err
	}

	name := schemaFileName(schemaID)
	if _, err := s.wt.Add(name); err != nil {
		return nil, golemerrors.OperationalError(err, "staging catalog file for schema %q", schemaID)
	}

	sig := author
	sig.When = time.Now()
	if _, err := s.wt.Commit(commitMessage(schemaID, message), &git.CommitOptions{
		Author:    &sig,
		Committer: &sig,
	}); err != nil {
		return nil, golemerrors.OperationalError(err, "committing catalog change for schema %q", schemaID)
	}

	return schema, nil
}

func commitMessage(schemaID, message string) string {
	if message == "" {
		return fmt.Sprintf("catalog(%s): update", schemaID)
	}
	return fmt.Sprintf("catalog(%s): %s", schemaID, message)
}

// Snapshot serializes the current on-disk form of a schema without going
// through Load's TOML round-trip, used by remote export.
func (s *Store) Snapshot(schemaID string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := s.fs.Open(schemaFileName(schemaID))
	if err != nil {
		return nil, golemerrors.ProgrammingError("schema %q has no persisted catalog file", schemaID)
	}
	defer f.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, f); err != nil {
		return nil, golemerrors.InternalError("reading catalog file for schema %q: %v", schemaID, err)
	}
	return buf.Bytes(), nil
}
