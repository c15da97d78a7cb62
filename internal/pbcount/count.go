// Package pbcount derives vote and point tallies from a VOTES table and
// formats numbers for diagnostic messages.
package pbcount

import (
	"sort"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/flpb/pbvalidate/internal/pbfile"
	"github.com/flpb/pbvalidate/internal/pbreport"
)

// splitBallot splits a vote (or points) cell on commas, trimming
// whitespace and dropping empty tokens.
func splitBallot(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// VotesPerProject tallies, for every ballot in votes, one vote for each
// project_id the ballot names.
func VotesPerProject(votes pbfile.Table) map[string]int {
	counts := make(map[string]int)
	for _, voterID := range votes.Order {
		for _, projectID := range splitBallot(votes.Rows[voterID]["vote"]) {
			counts[projectID]++
		}
	}
	return counts
}

// PointsPerProject sums, for every ballot, the points cell aligned
// position-by-position with the vote cell. A ballot with an empty or
// absent points cell is skipped silently. A ballot whose non-empty
// points list length does not match its vote list length is skipped for
// scoring purposes and reported.
func PointsPerProject(votes pbfile.Table) (map[string]int, []pbreport.Diagnostic) {
	totals := make(map[string]int)
	var diags []pbreport.Diagnostic

	for _, voterID := range votes.Order {
		row := votes.Rows[voterID]
		projectIDs := splitBallot(row["vote"])
		points := splitBallot(row["points"])

		if len(points) == 0 {
			continue
		}
		if len(points) != len(projectIDs) {
			diags = append(diags, pbreport.Errorf("vote/points length mismatch",
				"voter %q has %d points but %d votes", voterID, len(points), len(projectIDs)))
			continue
		}

		for i, projectID := range projectIDs {
			n, err := strconv.Atoi(points[i])
			if err != nil {
				diags = append(diags, pbreport.Errorf("different values in scores",
					"voter %q has a non-integer point value %q for project %q", voterID, points[i], projectID))
				continue
			}
			totals[projectID] += n
		}
	}

	return totals, diags
}

// SortProjectsByResults returns project ids ordered by resultField
// descending, breaking ties by ascending project id. Rows whose
// resultField does not parse as an integer sort as zero.
func SortProjectsByResults(projects pbfile.Table, resultField string) []string {
	ids := make([]string, len(projects.Order))
	copy(ids, projects.Order)

	value := func(id string) int {
		n, _ := strconv.Atoi(projects.Rows[id][resultField])
		return n
	}

	sort.SliceStable(ids, func(i, j int) bool {
		vi, vj := value(ids[i]), value(ids[j])
		if vi != vj {
			return vi > vj
		}
		return ids[i] < ids[j]
	})

	return ids
}

// FormatInt renders n with thousands separators, e.g. 1,234,567.
func FormatInt(n int) string {
	return humanize.Comma(int64(n))
}
