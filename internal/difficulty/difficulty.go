// Package difficulty maps difficulty tags to their gameplay parameters.
package difficulty

import (
	"strings"
	"time"
)

// Tags for the three fixed profiles.
const (
	Easy   = "easy"
	Medium = "medium"
	Hard   = "hard"
)

// Profile is an immutable set of difficulty parameters.
type Profile struct {
	Tag           string
	Label         string        // Display name
	SpawnInterval time.Duration // Time between two spawned balls
	FallDuration  time.Duration // Time a ball needs from the top edge to the bottom edge
}

var profiles = [...]Profile{
	{Tag: Easy, Label: "Easy", SpawnInterval: 1200 * time.Millisecond, FallDuration: 2500 * time.Millisecond},
	{Tag: Medium, Label: "Medium", SpawnInterval: 800 * time.Millisecond, FallDuration: 1800 * time.Millisecond},
	{Tag: Hard, Label: "Hard", SpawnInterval: 500 * time.Millisecond, FallDuration: 1200 * time.Millisecond},
}

// aliases maps the Spanish menu tags onto profiles.
var aliases = map[string]string{
	"facil":   Easy,
	"fácil":   Easy,
	"dificil": Medium,
	"difícil": Medium,
	"experto": Hard,
}

// Lookup returns the profile for tag. Unknown tags fall back to the easy
// profile and report ok=false so callers can log the misconfiguration.
func Lookup(tag string) (p Profile, ok bool) {
	key := strings.ToLower(strings.TrimSpace(tag))
	if alias, found := aliases[key]; found {
		key = alias
	}
	for _, p := range profiles {
		if p.Tag == key {
			return p, true
		}
	}
	return profiles[0], false
}

// Get is Lookup without the ok flag.
func Get(tag string) Profile {
	p, _ := Lookup(tag)
	return p
}

// All returns the profiles ordered from easiest to hardest.
func All() []Profile {
	out := make([]Profile, len(profiles))
	copy(out, profiles[:])
	return out
}

// Tags returns the canonical tags ordered from easiest to hardest.
func Tags() []string {
	tags := make([]string, len(profiles))
	for i, p := range profiles {
		tags[i] = p.Tag
	}
	return tags
}
