package viz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/curtisalleynesr/reactphysics3d/internal/scalar"
)

// EnergyGraph plots a metric series as an ascii line chart.
func EnergyGraph(series []scalar.Real, caption string) string {
	if len(series) == 0 {
		return ""
	}
	data := make([]float64, len(series))
	for i, v := range series {
		data[i] = float64(v)
	}
	graph := asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(70),
		asciigraph.Caption(caption),
	)
	return graphStyle.Render(graph)
}

// Summary renders a key/value report in the house style, keys sorted.
func Summary(title string, values map[string]scalar.Real) string {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render(title))
	sb.WriteString("\n")

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		sb.WriteString(labelStyle.Render(k))
		sb.WriteString(valueStyle.Render(fmt.Sprintf("%.6f", float64(values[k]))))
		sb.WriteString("\n")
	}
	return sb.String()
}
