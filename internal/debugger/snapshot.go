package debugger

import (
	"fmt"
	"strings"
)

// Snapshot is a presentation value describing one discovered backend at the
// moment a listing was requested. Snapshots are built fresh per listing and
// never cached.
type Snapshot struct {
	OptionName string
	FullName   string
	Available  bool

	// Version holds the engine's version text, line by line, when the
	// backend is available.
	Version []string

	// Error and ErrorTrace hold the loading failure, line by line, when it
	// is not.
	Error      []string
	ErrorTrace []string
}

// ListSnapshots loads every discovered backend in key order and captures
// its availability. A backend whose construction fails becomes a failed
// entry; nothing a single backend does can abort the listing.
func ListSnapshots(ctx *Context) []Snapshot {
	var snaps []Snapshot
	for _, key := range Keys() {
		snaps = append(snaps, snapshotOf(key, ctx))
	}
	return snaps
}

func snapshotOf(key string, ctx *Context) Snapshot {
	snap := Snapshot{OptionName: key}

	b, err := Load(key, ctx, nil)
	if err != nil {
		snap.FullName = "[" + key + "]"
		snap.Error = splitOrBlank(err.Error())
		snap.ErrorTrace = snap.Error
		return snap
	}

	snap.FullName = "[" + b.Name() + "]"
	snap.Available = b.IsAvailable()
	if snap.Available {
		snap.Version = splitOrBlank(b.Version())
	} else {
		snap.Error = splitOrBlank(b.LoadingError())
		if tr := b.LoadingErrorTrace(); tr != "" {
			snap.ErrorTrace = strings.Split(tr, "\n")
		}
	}
	return snap
}

func splitOrBlank(s string) []string {
	if s == "" {
		return []string{""}
	}
	return strings.Split(s, "\n")
}

// FormatSnapshots renders snapshots as aligned, color-tagged rows. Key and
// name columns are padded to the widest entry. Verbose mode appends the
// full multi-line version or error detail indented beneath each row.
func FormatSnapshots(snaps []Snapshot, verbose bool) string {
	maxKey, maxName := 0, 0
	for _, s := range snaps {
		if len(s.OptionName) > maxKey {
			maxKey = len(s.OptionName)
		}
		if len(s.FullName) > maxName {
			maxName = len(s.FullName)
		}
	}

	var rows []string
	for _, s := range snaps {
		key := fmt.Sprintf("%-*s", maxKey, s.OptionName)
		name := fmt.Sprintf("%-*s", maxName, s.FullName)

		var row string
		if s.Available {
			row = fmt.Sprintf("<b>%s %s</> <g>YES</> <b>(%s)</>",
				key, name, s.Version[0])
		} else {
			row = fmt.Sprintf("<y>%s %s</> <r>NO</>  <y>(%s)</>",
				key, name, s.Error[0])
		}

		if verbose {
			var detail []string
			if s.Available {
				if len(s.Version) > 1 {
					detail = s.Version
				}
			} else {
				detail = s.ErrorTrace
			}
			if len(detail) > 0 {
				var b strings.Builder
				for _, line := range detail {
					fmt.Fprintf(&b, "        %s\n", strings.TrimRight(line, " \t"))
				}
				row = row + "\n\n" + b.String()
			}
		}
		rows = append(rows, row)
	}
	return "\n" + strings.Join(rows, "\n") + "\n\n"
}
