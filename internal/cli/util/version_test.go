// Package util_test tests version output in plain and boxed form.
// Related: internal/cli/util/version.go
// Tags: util, version, cli
package util

import (
	"bytes"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/geotagx/geotagx-validator/internal/build"
	"github.com/geotagx/geotagx-validator/internal/cli/shared"
)

func TestPrintPlainVersion(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printPlainVersion(&buf)
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "geotagx-validator "+build.Version+"\n"))
	assert.Contains(t, out, "commit: "+build.Commit)
	assert.Contains(t, out, "go: "+runtime.Version())
	assert.Contains(t, out, "source: "+SourceURL)
}

func TestPrintPrettyVersion(t *testing.T) {
	t.Parallel()

	tests := map[string]int{
		"wide terminal":   120,
		"narrow terminal": 40,
		"tiny terminal":   10,
	}

	for name, width := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			printPrettyVersion(&buf, width)
			out := buf.String()

			assert.Contains(t, out, shared.Tagline)
			assert.Contains(t, out, shared.BoxTopLeft)
			assert.Contains(t, out, shared.BoxBottomRight)
			assert.Contains(t, out, "Version")
			assert.Contains(t, out, build.BuildDate)
		})
	}
}

func TestTruncateCommit(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "abc", truncateCommit("abc"))
	assert.Equal(t, "0123abcd", truncateCommit("0123abcdef99"))
}

func TestVersionCommand_PlainWhenNotTerminal(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	defer versionCmd.SetOut(nil)

	versionCmd.Run(versionCmd, nil)
	assert.True(t, strings.HasPrefix(buf.String(), "geotagx-validator "))
}
