package emotions

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Info describes one label.
type Info struct {
	Label       Label  `json:"label"`
	Description string `json:"description"`
	Emoji       string `json:"emoji"`
}

// Registry holds the known labels and their descriptions.
type Registry struct {
	mu     sync.RWMutex
	labels map[Label]Info
}

// NewRegistry creates a registry preloaded with the built-in vocabulary.
func NewRegistry() *Registry {
	r := &Registry{labels: make(map[Label]Info)}
	for _, info := range builtIn {
		r.Register(info)
	}
	return r
}

var builtIn = []Info{
	{Neutral, "calm default face", "😐"},
	{Happy, "playing, greeting, celebrating", "😄"},
	{Angry, "jumping or attacking", "😠"},
	{Sleepy, "stretching or resting", "😴"},
	{Scared, "retreating", "😨"},
	{Shocked, "defending", "😱"},
	{Surprised, "searching or startled", "😮"},
	{Winking, "idle mischief", "😉"},
	{Cool, "idle and relaxed", "😎"},
}

// Register adds or replaces a label.
func (r *Registry) Register(info Info) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.labels[info.Label] = info
}

// Get looks up a label.
func (r *Registry) Get(label Label) (Info, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	info, ok := r.labels[label]
	if !ok {
		return Info{}, fmt.Errorf("%w: %s", ErrNotFound, label)
	}
	return info, nil
}

// Parse resolves a case-insensitive name to a known label.
func (r *Registry) Parse(name string) (Label, error) {
	label := Label(strings.ToLower(strings.TrimSpace(name)))
	if _, err := r.Get(label); err != nil {
		return "", err
	}
	return label, nil
}

// List returns all registered labels, sorted alphabetically.
func (r *Registry) List() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Info, 0, len(r.labels))
	for _, info := range r.labels {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// Count returns the number of registered labels.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.labels)
}

var defaultRegistry = NewRegistry()

// Parse resolves name against the built-in vocabulary.
func Parse(name string) (Label, error) {
	return defaultRegistry.Parse(name)
}

// Known returns the built-in vocabulary.
func Known() []Info {
	return defaultRegistry.List()
}
