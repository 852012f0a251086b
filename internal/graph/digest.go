package graph

import (
	"encoding/hex"
	"sort"
	"strconv"

	"github.com/glyph-dev/glyph/internal/flow"
	"github.com/zeebo/xxh3"
)

// Digest fingerprints a crawl result. Edge order within a node does not
// matter, so two crawls of an unchanged tree produce the same digest.
func Digest(g flow.Graph, sources flow.SourceMap) string {
	h := xxh3.New()

	for _, id := range g.Keys() {
		_, _ = h.WriteString(id)
		_, _ = h.WriteString("\x00")

		edges := make([]string, 0, len(g[id]))
		for _, e := range g[id] {
			edges = append(edges, e.Target+"\x01"+e.Label)
		}
		sort.Strings(edges)
		for _, e := range edges {
			_, _ = h.WriteString(e)
			_, _ = h.WriteString("\x02")
		}
		_, _ = h.WriteString("\n")
	}

	ids := make([]string, 0, len(sources))
	for id := range sources {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		loc := sources[id]
		_, _ = h.WriteString(id + "\x00" + loc.Path + "\x00" + strconv.Itoa(loc.Line) + "\n")
	}

	return hex.EncodeToString(h.Sum(nil))
}
