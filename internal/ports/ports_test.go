package ports_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pbitools/tmdlsync/internal/ports"
)

const windowsNetstat = `
Active Connections

  Proto  Local Address          Foreign Address        State           PID
  TCP    0.0.0.0:135            0.0.0.0:0              LISTENING       1020
  TCP    127.0.0.1:49670        0.0.0.0:0              LISTENING       18332
  TCP    127.0.0.1:56120        0.0.0.0:0              LISTENING       18332
  TCP    127.0.0.1:49670        127.0.0.1:50012        ESTABLISHED     18332
  TCP    192.168.1.5:139        0.0.0.0:0              LISTENING       4
  TCP    [::1]:49671            [::]:0                 LISTENING       18332
  UDP    127.0.0.1:1900         *:*                                    3212
`

const linuxNetstat = `
Active Internet connections (servers and established)
Proto Recv-Q Send-Q Local Address           Foreign Address         State
tcp        0      0 127.0.0.1:49670         0.0.0.0:*               LISTEN
tcp        0      0 127.0.0.1:631           0.0.0.0:*               LISTEN
tcp        0      0 0.0.0.0:22              0.0.0.0:*               LISTEN
tcp        0      0 127.0.0.1:49670         127.0.0.1:41234         ESTABLISHED
tcp6       0      0 ::1:56121               :::*                    LISTEN
`

func TestParseListeners(t *testing.T) {
	t.Run("windows format", func(t *testing.T) {
		got := ports.ParseListeners(windowsNetstat)
		assert.Equal(t, []int{49670, 49671, 56120}, got)
	})

	t.Run("linux format", func(t *testing.T) {
		got := ports.ParseListeners(linuxNetstat)
		assert.Equal(t, []int{631, 49670, 56121}, got)
	})

	t.Run("non-loopback listeners are excluded", func(t *testing.T) {
		got := ports.ParseListeners(windowsNetstat)
		assert.NotContains(t, got, 135)
		assert.NotContains(t, got, 139)
	})

	t.Run("established connections are excluded", func(t *testing.T) {
		out := "  TCP    127.0.0.1:50012   127.0.0.1:49670   ESTABLISHED   1\n"
		assert.Empty(t, ports.ParseListeners(out))
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, ports.ParseListeners(""))
	})
}

func TestCandidates(t *testing.T) {
	got := ports.Candidates([]int{631, 8080, 49000, 49670, 49999, 50000, 56000, 56999, 57000})
	assert.Equal(t, []int{49000, 49670, 49999, 56000, 56999}, got)
}

func TestIsPowerBICandidate(t *testing.T) {
	assert.True(t, ports.IsPowerBICandidate(49670))
	assert.True(t, ports.IsPowerBICandidate(56121))
	assert.False(t, ports.IsPowerBICandidate(8080))
	assert.False(t, ports.IsPowerBICandidate(50000))
}
