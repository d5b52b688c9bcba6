package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"game-interactor/effects/contract"
)

//go:embed definitions.json
var builtinDefinitions []byte

type source interface {
	Load() ([]byte, error)
	Path() string
}

type fileSource struct {
	path string
}

// Load reads the file, converting YAML overlays to JSON so every source
// shares one decoder.
func (f fileSource) Load() ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(f.path)) {
	case ".yaml", ".yml":
		return yamlToJSON(data)
	default:
		return data, nil
	}
}

func (f fileSource) Path() string {
	return f.path
}

type builtinSource struct{}

func (builtinSource) Load() ([]byte, error) {
	return append([]byte(nil), builtinDefinitions...), nil
}

func (builtinSource) Path() string {
	return "builtin:definitions.json"
}

func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}
	return json.Marshal(doc)
}

// Resolver merges the built-in catalog with optional overlays into a stable
// lookup table. Call Reload to pick up on-disk changes.
type Resolver struct {
	mu        sync.RWMutex
	sources   []source
	removable map[contract.Kind]bool
	entries   map[string]Entry
}

// DefaultPaths returns the canonical overlay locations relative to the module
// root. Missing files are ignored by Load.
func DefaultPaths() []string {
	return []string{
		filepath.Join("config", "interactions", "definitions.json"),
		filepath.Join("config", "interactions", "definitions.yaml"),
	}
}

// Load constructs a Resolver over the built-in catalog followed by the given
// overlay paths, validated against reg.
func Load[W any](reg contract.Registry[W], paths ...string) (*Resolver, error) {
	sources := []source{builtinSource{}}
	for _, path := range paths {
		trimmed := strings.TrimSpace(path)
		if trimmed == "" {
			continue
		}
		sources = append(sources, fileSource{path: trimmed})
	}
	return newResolver(reg, sources...)
}

func newResolver[W any](reg contract.Registry[W], sources ...source) (*Resolver, error) {
	index, err := reg.Index()
	if err != nil {
		return nil, fmt.Errorf("catalog: invalid registry: %w", err)
	}
	removable := make(map[contract.Kind]bool, len(index))
	for kind, def := range index {
		removable[kind] = def.Removable()
	}
	r := &Resolver{
		sources:   append([]source(nil), sources...),
		removable: removable,
		entries:   make(map[string]Entry),
	}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload re-parses all catalog sources. Later sources override earlier ones
// entry by entry.
func (r *Resolver) Reload() error {
	if r == nil {
		return nil
	}
	entries := make(map[string]Entry)
	for _, src := range r.sources {
		data, err := src.Load()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("catalog: failed loading %s: %w", src.Path(), err)
		}
		documents, err := decodeEntries(data)
		if err != nil {
			return fmt.Errorf("catalog: failed parsing %s: %w", src.Path(), err)
		}
		seen := make(map[string]struct{}, len(documents))
		for _, doc := range documents {
			entry, err := r.resolveDocument(doc)
			if err != nil {
				return fmt.Errorf("catalog: %s: %w", src.Path(), err)
			}
			if _, dup := seen[entry.ID]; dup {
				return fmt.Errorf("catalog: duplicate id %q in %s", entry.ID, src.Path())
			}
			seen[entry.ID] = struct{}{}
			entries[entry.ID] = entry
		}
	}

	r.mu.Lock()
	r.entries = entries
	r.mu.Unlock()
	return nil
}

func (r *Resolver) resolveDocument(doc EntryDocument) (Entry, error) {
	id := strings.TrimSpace(doc.ID)
	if id == "" {
		return Entry{}, errors.New("entry missing id")
	}
	kind := contract.Kind(strings.TrimSpace(doc.Kind))
	if kind == "" {
		return Entry{}, fmt.Errorf("entry %q missing kind", id)
	}
	removable, ok := r.removable[kind]
	if !ok {
		return Entry{}, fmt.Errorf("%w: entry %q references %q", ErrUnknownKind, id, kind)
	}

	def := doc.Definition
	if len(def.Params) > contract.ParamCount {
		return Entry{}, fmt.Errorf("entry %q declares %d params; at most %d are allowed", id, len(def.Params), contract.ParamCount)
	}
	if len(def.Defaults) > contract.ParamCount {
		return Entry{}, fmt.Errorf("entry %q declares %d defaults; at most %d are allowed", id, len(def.Defaults), contract.ParamCount)
	}
	for _, spec := range def.Params {
		if spec.Min != nil && spec.Max != nil && *spec.Min > *spec.Max {
			return Entry{}, fmt.Errorf("entry %q param %q has min above max", id, spec.Name)
		}
	}
	if def.DurationTicks < 0 {
		return Entry{}, fmt.Errorf("entry %q sets negative durationTicks", id)
	}
	if def.DurationTicks > 0 && !removable {
		return Entry{}, fmt.Errorf("entry %q sets durationTicks but kind %q is not removable", id, kind)
	}

	entry := Entry{
		ID:         id,
		Kind:       kind,
		Removable:  removable,
		Definition: def,
		Blocks:     doc.Blocks,
	}
	if _, err := entry.Params(nil); err != nil {
		return Entry{}, fmt.Errorf("entry %q defaults: %w", id, err)
	}
	return entry, nil
}

// Resolve returns the catalog entry for the provided id.
func (r *Resolver) Resolve(id string) (Entry, bool) {
	if r == nil {
		return Entry{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[id]
	if !ok {
		return Entry{}, false
	}
	return entry.clone(), true
}

// Entries returns a cloned snapshot of the catalog keyed by id.
func (r *Resolver) Entries() map[string]Entry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]Entry, len(r.entries))
	for id, entry := range r.entries {
		out[id] = entry.clone()
	}
	return out
}

// IDs returns the catalog ids in lexical order.
func (r *Resolver) IDs() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (e *EntryDocument) UnmarshalJSON(data []byte) error {
	type rawEntry EntryDocument
	var alias rawEntry
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	var blocks map[string]json.RawMessage
	if err := json.Unmarshal(data, &blocks); err != nil {
		return err
	}
	delete(blocks, "id")
	delete(blocks, "kind")
	delete(blocks, "definition")
	if len(blocks) == 0 {
		blocks = nil
	}
	alias.Blocks = blocks
	*e = EntryDocument(alias)
	return nil
}

func decodeEntries(data []byte) ([]EntryDocument, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}
	switch trimmed[0] {
	case '[':
		var entries []EntryDocument
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, err
		}
		return entries, nil
	case '{':
		var object map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &object); err != nil {
			return nil, err
		}
		ids := make([]string, 0, len(object))
		for id := range object {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		entries := make([]EntryDocument, 0, len(ids))
		for _, id := range ids {
			var entry EntryDocument
			if err := json.Unmarshal(object[id], &entry); err != nil {
				return nil, fmt.Errorf("entry %q: %w", id, err)
			}
			if entry.ID == "" {
				entry.ID = id
			} else if entry.ID != id {
				return nil, fmt.Errorf("entry id %q does not match key %q", entry.ID, id)
			}
			entries = append(entries, entry)
		}
		return entries, nil
	default:
		return nil, fmt.Errorf("unexpected json token %q", string(trimmed[:1]))
	}
}
