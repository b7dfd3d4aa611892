package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveVersion_ReleaseOverride(t *testing.T) {
	orig := version
	version = "1.2.3"
	defer func() { version = orig }()

	assert.Equal(t, "1.2.3", resolveVersion())
}

func TestVersionCmd_Output(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	defer versionCmd.SetOut(nil)

	versionCmd.Run(versionCmd, nil)

	assert.True(t, strings.HasPrefix(buf.String(), "podscout "), "got %q", buf.String())
}
