package lint

import "regexp"

var (
	// nodeDefRe matches label-form node definitions like A[Start].
	nodeDefRe = regexp.MustCompile(`\w+\[[^\]]*\]`)

	// identRe extracts the leading identifier of a connector segment.
	identRe = regexp.MustCompile(`\w+`)
)

// CountNodes estimates the number of distinct nodes for reporting on the
// success path. The count is the number of label-form definitions in the
// whole document plus the number of distinct identifiers appearing on
// either side of a connector. A node written both ways is counted twice;
// the formula is intentionally approximate and must never feed a
// validation decision.
func CountNodes(text string, lines []Line) int {
	defs := len(nodeDefRe.FindAllString(text, -1))

	endpoints := make(map[string]struct{})
	for _, line := range lines {
		if !line.Content() || !connectorRe.MatchString(line.Trimmed) {
			continue
		}
		for _, seg := range splitConnectors(line.Trimmed) {
			if id := identRe.FindString(seg); id != "" {
				endpoints[id] = struct{}{}
			}
		}
	}

	return defs + len(endpoints)
}
