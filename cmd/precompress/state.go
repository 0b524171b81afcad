package main

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/dmitrymomot/staticfiles/pkg/precompressed"
)

// discardEntry identifies the source version whose sibling was not smaller.
type discardEntry struct {
	Size    int64 `json:"size"`
	ModTime int64 `json:"mtime"`
}

// discards remembers siblings removed for not being smaller than their
// source, so unchanged sources are not compressed again on the next run.
// A discards with an empty path records nothing.
type discards struct {
	path string
	root string

	mu   sync.Mutex
	prev map[string]discardEntry
	next map[string]discardEntry
}

// key is the sibling path relative to root, so the state survives running
// from another working directory.
func (d *discards) key(path string, alg precompressed.Algorithm) string {
	sibling := precompressed.SiblingPath(path, alg)
	if rel, err := filepath.Rel(d.root, sibling); err == nil {
		return filepath.ToSlash(rel)
	}
	return sibling
}

func loadDiscards(path, root string) (*discards, error) {
	d := &discards{
		path: path,
		root: root,
		prev: make(map[string]discardEntry),
		next: make(map[string]discardEntry),
	}
	if path == "" {
		return d, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return d, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}
	if err := json.Unmarshal(data, &d.prev); err != nil {
		return nil, fmt.Errorf("failed to decode state file %s: %w", path, err)
	}
	return d, nil
}

// unchanged reports whether the sibling of path was discarded for exactly
// this version of the source. Matching entries are carried into the next state.
func (d *discards) unchanged(path string, alg precompressed.Algorithm, info fs.FileInfo) bool {
	if d.path == "" {
		return false
	}
	key := d.key(path, alg)
	entry := discardEntry{Size: info.Size(), ModTime: info.ModTime().UnixNano()}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.prev[key] != entry {
		return false
	}
	d.next[key] = entry
	return true
}

func (d *discards) record(path string, alg precompressed.Algorithm, info fs.FileInfo) {
	if d.path == "" {
		return
	}
	d.mu.Lock()
	d.next[d.key(path, alg)] = discardEntry{Size: info.Size(), ModTime: info.ModTime().UnixNano()}
	d.mu.Unlock()
}

// save replaces the state file with the entries seen during this run.
func (d *discards) save() error {
	if d.path == "" {
		return nil
	}
	d.mu.Lock()
	data, err := json.Marshal(d.next)
	d.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(d.path), 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	if err := os.WriteFile(d.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	return nil
}

// defaultStateFile places the state of root in the user cache directory,
// outside the served tree.
func defaultStateFile(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	cache, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256([]byte(abs))
	return filepath.Join(cache, "staticfiles-precompress", hex.EncodeToString(sum[:8])+".json"), nil
}
