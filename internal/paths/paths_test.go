package paths_test

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pbitools/tmdlsync/internal/paths"
)

func TestAppDir(t *testing.T) {
	home, _ := os.UserHomeDir()
	assert.True(t, strings.HasPrefix(paths.AppDir(), home))
	assert.True(t, strings.HasSuffix(paths.AppDir(), ".tmdlsync"))
}

func TestConfigFile(t *testing.T) {
	assert.True(t, strings.HasSuffix(paths.ConfigFile(), "config.yaml"))
}
