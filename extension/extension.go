package extension

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zostay/go-cef/field"
)

// Errors returned by Extension methods.
var (
	// ErrInvalidKey is returned (wrapped in a *KeyError) when a key contains
	// anything other than letters and digits.
	ErrInvalidKey = errors.New("invalid extension key")

	// ErrNoSuchKey is returned by Get when the key is not set.
	ErrNoSuchKey = errors.New("no such extension key")
)

// KeyError reports a problem with a single extension key.
type KeyError struct {
	Key string
	Err error
}

// Error returns the error message.
func (e *KeyError) Error() string {
	return fmt.Sprintf("extension key %q: %v", e.Key, e.Err)
}

// Unwrap returns the underlying error.
func (e *KeyError) Unwrap() error {
	return e.Err
}

// Pair is a single key=value entry.
type Pair struct {
	Key   string
	Value string
}

// Extension is an ordered list of key=value pairs. The zero value is an empty
// extension ready to use. Set and Delete never modify pairs in place, so a
// copied Extension does not see them, but use Clone before calling Add on a
// copy.
type Extension struct {
	pairs []Pair
}

// New returns an extension holding the given pairs. It fails on the first
// invalid key.
func New(pairs ...Pair) (*Extension, error) {
	e := &Extension{pairs: make([]Pair, 0, len(pairs))}
	for _, p := range pairs {
		if err := e.Add(p.Key, p.Value); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func checkKey(key string) error {
	if !field.IsValidExtensionKey(key) {
		return &KeyError{key, ErrInvalidKey}
	}
	return nil
}

// Add appends a pair, even if the key is already present.
func (e *Extension) Add(key, value string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	e.pairs = append(e.pairs, Pair{key, value})
	return nil
}

// Set replaces the value of the first pair with the given key and removes any
// other pairs with that key. If the key is not present, the pair is appended.
func (e *Extension) Set(key, value string) error {
	if err := checkKey(key); err != nil {
		return err
	}

	found := false
	kept := make([]Pair, 0, len(e.pairs)+1)
	for _, p := range e.pairs {
		if p.Key != key {
			kept = append(kept, p)
			continue
		}
		if !found {
			kept = append(kept, Pair{key, value})
			found = true
		}
	}
	e.pairs = kept

	if !found {
		e.pairs = append(e.pairs, Pair{key, value})
	}
	return nil
}

// Get returns the value of the first pair with the given key or ErrNoSuchKey.
func (e *Extension) Get(key string) (string, error) {
	for _, p := range e.pairs {
		if p.Key == key {
			return p.Value, nil
		}
	}
	return "", ErrNoSuchKey
}

// Delete removes every pair with the given key and returns how many were
// removed.
func (e *Extension) Delete(key string) int {
	n := 0
	kept := make([]Pair, 0, len(e.pairs))
	for _, p := range e.pairs {
		if p.Key == key {
			n++
			continue
		}
		kept = append(kept, p)
	}
	e.pairs = kept
	return n
}

// Len returns the number of pairs.
func (e *Extension) Len() int {
	return len(e.pairs)
}

// Keys returns the keys in order, including duplicates.
func (e *Extension) Keys() []string {
	ks := make([]string, len(e.pairs))
	for i, p := range e.pairs {
		ks[i] = p.Key
	}
	return ks
}

// Pairs returns a copy of the pairs in order.
func (e *Extension) Pairs() []Pair {
	return append([]Pair(nil), e.pairs...)
}

// Clone returns a deep copy of the extension.
func (e *Extension) Clone() *Extension {
	return &Extension{pairs: e.Pairs()}
}

// Format renders the pairs as space-separated key=value entries. Values are
// escaped with field.EscapeExtensionValue.
func (e *Extension) Format() (string, error) {
	return e.FormatWith(nil)
}

// FormatWith is Format using the given escaper. A nil escaper escapes without
// logging.
func (e *Extension) FormatWith(esc *field.Escaper) (string, error) {
	if esc == nil {
		esc = field.NewEscaper()
	}

	buf := &strings.Builder{}
	for i, p := range e.pairs {
		if err := checkKey(p.Key); err != nil {
			return "", err
		}

		v, err := esc.EscapeExtensionValue(p.Value)
		if err != nil {
			return "", &KeyError{p.Key, err}
		}

		if i > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(p.Key)
		buf.WriteByte('=')
		buf.WriteString(v)
	}

	return buf.String(), nil
}
