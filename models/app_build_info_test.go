package models

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppBuildInfo(t *testing.T) {
	empty := NewAppBuildInfo("", "", "")
	assert.False(t, empty.Known())

	var b bytes.Buffer
	empty.Print(&b)
	assert.Equal(t, "Build version: N/A\nBuild date: N/A\nBuild commit: N/A\n", b.String())

	info := NewAppBuildInfo("v1.2.0", "2026-10-01", "abc123")
	assert.True(t, info.Known())

	b.Reset()
	info.Print(&b)
	assert.Contains(t, b.String(), "Build version: v1.2.0\n")
	assert.Contains(t, b.String(), "Build commit: abc123\n")
}
