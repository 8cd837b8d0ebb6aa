// Package naming allocates collision free identifiers for one shader
// generation pass.
package naming

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DefaultMaxSuffix bounds the numeric suffixes tried before giving up.
const DefaultMaxSuffix = 4096

// ErrCollisionUnresolvable is returned when every disambiguated form of a
// candidate name is already taken.
var ErrCollisionUnresolvable = errors.New("name collision unresolvable")

// Rules are the identifier rules of a target language.
// [*syntax.Syntax] implements Rules.
type Rules interface {
	// IsRestricted reports whether name is a keyword or built-in identifier.
	IsRestricted(name string) bool
	// MakeValidName turns an arbitrary string into a legal identifier.
	MakeValidName(name string) string
}

// Allocator hands out unique names. Once a name is allocated or reserved
// it is never returned again by the same Allocator.
//
// An Allocator is not safe for concurrent use. Each generation pass owns one.
type Allocator struct {
	rules     Rules
	used      map[string]struct{}
	order     []string
	maxSuffix int
}

// New returns an Allocator that avoids the restricted names of rules.
func New(rules Rules) *Allocator {
	return &Allocator{
		rules:     rules,
		used:      make(map[string]struct{}),
		maxSuffix: DefaultMaxSuffix,
	}
}

// SetMaxSuffix sets the largest numeric suffix tried by Allocate. Values
// below zero are treated as zero.
func (a *Allocator) SetMaxSuffix(n int) { a.maxSuffix = max(n, 0) }

// Reserve marks names as taken without allocating them. Used for names
// declared by stage scaffolding and helper functions.
func (a *Allocator) Reserve(names ...string) {
	for _, name := range names {
		a.take(name)
	}
}

// IsRestricted reports whether name is a restricted identifier of the target
// language. Reserved and allocated names are not restricted, see [Allocator.IsUsed].
func (a *Allocator) IsRestricted(name string) bool { return a.rules.IsRestricted(name) }

// IsUsed reports whether name was reserved or allocated.
func (a *Allocator) IsUsed(name string) bool {
	_, ok := a.used[name]
	return ok
}

// Names returns the allocated and reserved names in order of allocation.
func (a *Allocator) Names() []string { return append([]string(nil), a.order...) }

// Allocate returns a unique identifier for candidate and reserves it.
//
// The candidate is first made a valid identifier and returned as is when
// free. Otherwise the owner name is prefixed ("owner_candidate"), then the
// type is appended ("owner_candidate_type") and at last a numeric suffix is
// appended, counting up from 1. owner and typ may be empty to skip a step.
func (a *Allocator) Allocate(candidate, owner, typ string) (string, error) {
	name := a.rules.MakeValidName(candidate)
	if a.isFree(name) {
		return a.take(name), nil
	}
	if owner != "" {
		prefix := a.rules.MakeValidName(owner) + "_"
		if !strings.HasPrefix(name, prefix) {
			name = a.rules.MakeValidName(prefix + name)
			if a.isFree(name) {
				return a.take(name), nil
			}
		}
	}
	if typ != "" {
		name = a.rules.MakeValidName(name + "_" + typ)
		if a.isFree(name) {
			return a.take(name), nil
		}
	}
	for i := 1; i <= a.maxSuffix; i++ {
		suffixed := name + "_" + strconv.Itoa(i)
		if a.isFree(suffixed) {
			return a.take(suffixed), nil
		}
	}
	return "", fmt.Errorf("%w: %q owned by %q after %d suffixes", ErrCollisionUnresolvable, candidate, owner, a.maxSuffix)
}

func (a *Allocator) isFree(name string) bool {
	return !a.IsUsed(name) && !a.rules.IsRestricted(name)
}

func (a *Allocator) take(name string) string {
	if !a.IsUsed(name) {
		a.used[name] = struct{}{}
		a.order = append(a.order, name)
	}
	return name
}
