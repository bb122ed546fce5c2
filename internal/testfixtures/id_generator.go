package testfixtures

import (
	"fmt"
	"sync"
)

// SequentialIDs returns a generator producing "prefix1", "prefix2", ... so
// tests can assert on exact identifiers. The generator is safe for
// concurrent use.
func SequentialIDs(prefix string) func() string {
	var (
		mu   sync.Mutex
		next int
	)
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		next++
		return fmt.Sprintf("%s%d", prefix, next)
	}
}
