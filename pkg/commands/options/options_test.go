package options

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func TestGetWindow(t *testing.T) {
	tests := map[string]struct {
		within  string
		want    time.Duration
		wantErr bool
	}{
		"empty":    {within: "", want: 0},
		"week":     {within: "1w", want: 7 * 24 * time.Hour},
		"compound": {within: "1d12h", want: 36 * time.Hour},
		"bad unit": {within: "3q", wantErr: true},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			o := &WindowOptions{Within: tc.within}
			got, err := o.GetWindow()
			if (err != nil) != tc.wantErr {
				t.Fatalf("GetWindow(%q) error = %v, wantErr %v", tc.within, err, tc.wantErr)
			}
			if got != tc.want {
				t.Fatalf("GetWindow(%q) = %v, want %v", tc.within, got, tc.want)
			}
		})
	}
}

func TestHandleError(t *testing.T) {
	var buf bytes.Buffer
	prev := color.Output
	color.Output = &buf
	t.Cleanup(func() { color.Output = prev })

	boom := errors.New("boom")

	plain := &OutputOptions{}
	if err := plain.HandleError(boom); !errors.Is(err, boom) {
		t.Fatalf("HandleError() = %v, want %v", err, boom)
	}

	js := &OutputOptions{JSON: true}
	if err := js.HandleError(boom); err != nil {
		t.Fatalf("HandleError() with JSON = %v, want nil", err)
	}
	if got, want := buf.String(), "{\"error\":\"boom\"}\n"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
	if err := js.HandleError(nil); err != nil {
		t.Fatalf("HandleError(nil) = %v", err)
	}
}

func TestLocaleFlagCompletion(t *testing.T) {
	cmd := &cobra.Command{Use: "shelf", Run: func(*cobra.Command, []string) {}}
	AddGlobalArgs(cmd, &GlobalOptions{})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{cobra.ShellCompNoDescRequestCmd, "--locale", ""})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("complete: %v", err)
	}
	for _, want := range []string{"en\n", "es\n"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("expected %q among completions:\n%s", want, out.String())
		}
	}
}
