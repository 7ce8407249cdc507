package parsers

import (
	"regexp"
	"strings"
)

// Promise is a Brainstorm cluster's rated potential.
type Promise string

const (
	PromiseHigh   Promise = "HIGH"
	PromiseMedium Promise = "MEDIUM"
	PromiseLow    Promise = "LOW"
)

// Rank gives the ordinal weight spec.md §4.4.14 assigns each
// promise level, used when fewer than 2 valid scorers are available.
func (p Promise) Rank() int {
	switch p {
	case PromiseHigh:
		return 12
	case PromiseMedium:
		return 8
	case PromiseLow:
		return 4
	default:
		return 0
	}
}

// Cluster is one parsed "CLUSTER n:" block from the curator's reply.
type Cluster struct {
	Number  int
	Name    string
	Theme   string
	Promise Promise
	IdeaIDs []string
}

var clusterHeaderRe = regexp.MustCompile(`(?i)^CLUSTER\s+(\d+)\s*:?\s*$`)

// ParseClusters extracts every "CLUSTER n:" block. knownIDs is the set of
// valid idea ids; unresolved ids are dropped, and clusters left with zero
// ideas afterward are dropped entirely.
func ParseClusters(text string, knownIDs map[string]bool) []Cluster {
	lines := strings.Split(text, "\n")
	var clusters []Cluster
	var cur *Cluster

	flush := func() {
		if cur == nil {
			return
		}
		if len(cur.IdeaIDs) > 0 {
			clusters = append(clusters, *cur)
		}
	}

	for _, raw := range lines {
		l := NormalizeLine(raw)
		if l == "" {
			continue
		}
		if m := clusterHeaderRe.FindStringSubmatch(l); m != nil {
			flush()
			n := 0
			for _, c := range m[1] {
				n = n*10 + int(c-'0')
			}
			cur = &Cluster{Number: n, Promise: PromiseMedium}
			continue
		}
		if cur == nil {
			continue
		}
		if m := clusterFieldRe.FindStringSubmatch(l); m != nil {
			applyClusterField(cur, strings.ToLower(m[1]), strings.TrimSpace(m[2]), knownIDs)
			continue
		}
		if m := ideasFieldRe.FindStringSubmatch(l); m != nil {
			cur.IdeaIDs = filterKnownIDs(splitCSV(m[1]), knownIDs)
		}
		if m := promiseFieldRe.FindStringSubmatch(l); m != nil {
			cur.Promise = classifyPromise(m[1])
		}
	}
	flush()
	return clusters
}

var clusterFieldRe = regexp.MustCompile(`(?i)^(Name|Theme)\s*:\s*(.*)$`)
var ideasFieldRe = regexp.MustCompile(`(?i)^Ideas\s*:\s*(.*)$`)
var promiseFieldRe = regexp.MustCompile(`(?i)^Promise\s*:\s*(\w+)\s*$`)

func applyClusterField(c *Cluster, field, value string, knownIDs map[string]bool) {
	switch field {
	case "name":
		c.Name = value
	case "theme":
		c.Theme = value
	}
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func filterKnownIDs(ids []string, known map[string]bool) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if known[id] {
			out = append(out, id)
		}
	}
	return out
}

func classifyPromise(v string) Promise {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case string(PromiseHigh):
		return PromiseHigh
	case string(PromiseLow):
		return PromiseLow
	default:
		return PromiseMedium
	}
}

// EffectiveMaxClusters applies spec.md §4.4.14's small-pool adjustment:
// when fewer than 10 ideas were generated in total, the configured
// maxClusters is lowered to max(3, floor(totalIdeas/2)).
func EffectiveMaxClusters(totalIdeas, maxClusters int) int {
	if totalIdeas >= 10 {
		return maxClusters
	}
	floor := totalIdeas / 2
	if floor < 3 {
		floor = 3
	}
	if floor < maxClusters {
		return floor
	}
	return maxClusters
}
