// Package ports discovers local ports a running Power BI Desktop instance
// may be listening on, by parsing the OS network-connection listing.
package ports

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"runtime"
	"sort"
	"strconv"
	"strings"
)

// loopbackAddr matches a loopback local address with its port in netstat
// output, covering both the Windows ("127.0.0.1:49670", "[::1]:49670") and
// Unix ("::1:49670") spellings.
var loopbackAddr = regexp.MustCompile(`(?:127\.0\.0\.1:|\[::1\]:|(?:^|\s)::1:)(\d+)`)

// ParseListeners extracts loopback listener ports from netstat-style
// output. Lines without a LISTEN/LISTENING state are ignored. The result is
// sorted and de-duplicated.
func ParseListeners(output string) []int {
	seen := make(map[int]bool)
	for _, line := range strings.Split(output, "\n") {
		if !strings.Contains(line, "LISTEN") {
			continue
		}
		m := loopbackAddr.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		port, err := strconv.Atoi(m[1])
		if err != nil || port == 0 {
			continue
		}
		seen[port] = true
	}

	ports := make([]int, 0, len(seen))
	for p := range seen {
		ports = append(ports, p)
	}
	sort.Ints(ports)
	return ports
}

// IsPowerBICandidate reports whether the port falls in the ranges Power BI
// Desktop's embedded Analysis Services instance is known to use.
func IsPowerBICandidate(port int) bool {
	return (port >= 49000 && port <= 49999) || (port >= 56000 && port <= 56999)
}

// Candidates filters ports down to Power BI candidates.
func Candidates(ports []int) []int {
	var out []int
	for _, p := range ports {
		if IsPowerBICandidate(p) {
			out = append(out, p)
		}
	}
	return out
}

// Detect runs the platform's network-listing command and returns all
// loopback listener ports.
func Detect(ctx context.Context) ([]int, error) {
	name, args := netstatCommand()
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		return nil, fmt.Errorf("running %s: %w", name, err)
	}
	return ParseListeners(string(out)), nil
}

func netstatCommand() (string, []string) {
	if runtime.GOOS == "windows" {
		return "netstat", []string{"-ano"}
	}
	return "netstat", []string{"-an"}
}
