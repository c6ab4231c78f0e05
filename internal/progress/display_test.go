// Package progress_test tests progress display rendering, item counters, checkmarks, and spinner lifecycle.
// Related: internal/progress/display.go, internal/progress/formatter.go
// Tags: progress, display, rendering, spinner, tty
package progress_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geotagx/geotagx-validator/internal/progress"
)

var plainCaps = progress.TerminalCapabilities{}

func TestDisplay_StartNonTTY(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	d := progress.NewDisplay(&buf, plainCaps)

	require.NoError(t, d.Start(progress.Item{Name: "flood-watch", Number: 2, Total: 3}))
	d.Phase("resolving-cross-references")
	assert.Equal(t, "[2/3] Validating flood-watch\n", buf.String())
}

func TestDisplay_StartRejectsInvalidItem(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	d := progress.NewDisplay(&buf, plainCaps)
	assert.Error(t, d.Start(progress.Item{Name: "x", Number: 4, Total: 3}))
	assert.Empty(t, buf.String())
}

func TestDisplay_Complete(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		caps     progress.TerminalCapabilities
		errs     int
		warnings int
		want     string
	}{
		"valid ascii": {
			caps: plainCaps,
			want: "[OK] [1/1] flood: valid\n",
		},
		"valid with warning": {
			caps:     plainCaps,
			warnings: 1,
			want:     "[OK] [1/1] flood: valid, 1 warning\n",
		},
		"errors ascii": {
			caps:     plainCaps,
			errs:     2,
			warnings: 3,
			want:     "[FAIL] [1/1] flood: 2 errors, 3 warnings\n",
		},
		"unicode without color": {
			caps: progress.TerminalCapabilities{SupportsUnicode: true},
			errs: 1,
			want: "✗ [1/1] flood: 1 error\n",
		},
		"unicode with color": {
			caps: progress.TerminalCapabilities{SupportsUnicode: true, SupportsColor: true},
			want: "\033[32m✓\033[0m [1/1] flood: valid\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			d := progress.NewDisplay(&buf, tt.caps)
			d.Complete(progress.Item{Name: "flood", Number: 1, Total: 1}, tt.errs, tt.warnings)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestDisplay_Fail(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	d := progress.NewDisplay(&buf, plainCaps)
	d.Fail(progress.Item{Name: "broken", Number: 1, Total: 2}, errors.New("failed to parse project.json"))
	assert.Equal(t, "[FAIL] [1/2] broken failed: failed to parse project.json\n", buf.String())
}

func TestDisplay_SpinnerLifecycle(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	d := progress.NewDisplay(&buf, progress.TerminalCapabilities{IsTTY: true, SupportsUnicode: true, Width: 80})
	item := progress.Item{Name: "flood", Number: 1, Total: 1}

	require.NoError(t, d.Start(item))
	d.Phase("validating-documents")
	d.Complete(item, 0, 0)
	d.StopSpinner()

	assert.Contains(t, buf.String(), "[1/1] flood: valid\n")
}
