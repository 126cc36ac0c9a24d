package testutil

import (
	"context"
	"testing"

	"github.com/skillsy/skillsy-api/component"
)

// Start starts c and registers its Stop as a test cleanup. A start error
// fails the test immediately.
func Start(t testing.TB, c component.Component) {
	t.Helper()
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("start %s: %v", c.Name(), err)
	}
	t.Cleanup(func() {
		if err := c.Stop(context.Background()); err != nil {
			t.Errorf("stop %s: %v", c.Name(), err)
		}
	})
}
