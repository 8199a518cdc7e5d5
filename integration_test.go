//go:build integration

package imagine_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/adamwoolhether/imagine"
	"github.com/adamwoolhether/imagine/config"
	"github.com/adamwoolhether/imagine/observe"
)

// Runs against the live service. Needs IMAGINE_AUTH_TOKEN and, for
// Dialect B, IMAGINE_BASE_URL and IMAGINE_DIALECT=b.
func TestIntegration_GenerationLifecycle(t *testing.T) {
	if os.Getenv("IMAGINE_AUTH_TOKEN") == "" {
		t.Skip("IMAGINE_AUTH_TOKEN not set")
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}

	c, err := cfg.NewClient(imagine.WithObserver(observe.Slog(nil)))
	if err != nil {
		t.Fatalf("building client: %v", err)
	}

	ctx, cancel := context.WithTimeout(t.Context(), 5*time.Minute)
	defer cancel()

	sub, err := c.SubmitGeneration(ctx, "a red dog, watercolor", imagine.GenerationOptions{})
	if err != nil {
		t.Fatalf("submitting generation: %v", err)
	}
	t.Logf("handle: %s", sub.Handle)

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		res, err := c.FetchResult(ctx, sub.Handle)
		if err != nil {
			t.Fatalf("fetching result: %v", err)
		}

		switch res.Status() {
		case "done", "completed", "finished":
			t.Logf("result: %v", res.Fields)
			return
		case "failed":
			t.Fatalf("job failed: %v", res.Fields)
		}

		select {
		case <-ctx.Done():
			t.Fatalf("gave up waiting: %v", ctx.Err())
		case <-ticker.C:
		}
	}
}
