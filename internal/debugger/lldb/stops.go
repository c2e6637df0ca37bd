package lldb

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Melamoto/dexter/internal/trace"
)

// lldb batch output, one stop:
//
//	frame #0: 0x0000000100003f64 a.out`init_vla(size=23) at test.c:5:12
//
// followed by "frame variable" lines:
//
//	(int) size = 23
var (
	frameRe = regexp.MustCompile(
		"frame #0: 0x[0-9a-fA-F]+ [^`]*`([^ (]+)[^:\\n]* at ([^\\s:]+):([0-9]+)(?::([0-9]+))?")
	watchRe  = regexp.MustCompile(`^\([^)]*\)\s+(\S[^=]*?)\s*=\s*(.*)$`)
	exitedRe = regexp.MustCompile(`Process \d+ exited with status = `)
)

// parseStops reconstructs up to maxSteps stops from an lldb batch session
// transcript. Watch lines between two frame lines attach to the stop whose
// frame precedes them.
func parseStops(transcript string, maxSteps int) []*trace.Step {
	var stops []*trace.Step
	var current *trace.Step

	for _, line := range strings.Split(transcript, "\n") {
		if exitedRe.MatchString(line) {
			break
		}

		if m := frameRe.FindStringSubmatch(line); m != nil {
			if len(stops) == maxSteps {
				break
			}
			current = &trace.Step{
				Function: m[1],
				Location: trace.Location{
					Path:   m[2],
					Line:   atoi(m[3]),
					Column: atoi(m[4]),
				},
			}
			stops = append(stops, current)
			continue
		}

		if current == nil {
			continue
		}
		if m := watchRe.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			if current.Watches == nil {
				current.Watches = make(map[string]string)
			}
			current.Watches[m[1]] = m[2]
		}
	}
	return stops
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
