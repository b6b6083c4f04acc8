package report

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/shelf/pkg/app"
	"tableflip.dev/shelf/pkg/catalog"
	"tableflip.dev/shelf/pkg/store"
)

type basePath string

func (b basePath) BasePath() string { return string(b) }

func TestReportDefaultsToAWeek(t *testing.T) {
	color.NoColor = true
	kv, err := store.Load(basePath(t.TempDir()))
	if err != nil {
		t.Fatal(err)
	}
	svc := app.New(kv, catalog.SourceFor(""), nil)
	svc.Now = func() time.Time { return time.Date(2024, 10, 17, 12, 0, 0, 0, time.UTC) }
	ctx := context.Background()
	if _, err := svc.AddToCart(ctx, 7); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	r := &Report{Service: svc, Out: &buf}
	if err := r.Do(ctx); err != nil {
		t.Fatalf("Do() = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Published since 2024-10-10", "5 entries", "Automobile", "Business", "Lifestyle"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}
}
