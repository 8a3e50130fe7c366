package survey

import "github.com/KaramelBytes/segmap-cli/internal/numeric"

// Palette holds the fixed chart colors.
type Palette struct {
	Clusters map[int]string
	Series   []string
}

// DefaultPalette returns the standard cluster and series colors.
func DefaultPalette() Palette {
	return Palette{
		Clusters: map[int]string{
			1: "#1F77B4",
			2: "#FF7F0E",
			3: "#2CA02C",
			4: "#D62728",
			5: "#A855F7",
			6: "#FACC15",
			7: "#EC4899",
		},
		Series: []string{
			"#1F77B4", "#FF7F0E", "#2CA02C", "#D62728", "#9467BD",
			"#8C564B", "#E377C2", "#7F7F7F", "#BCBD22", "#17BECF",
			"#F97316", "#14B8A6", "#A855F7", "#22C55E", "#3B82F6",
		},
	}
}

// ClusterColor returns the fixed color for id, cycling the series palette
// by (id-1) mod len for ids outside the fixed map.
func (p Palette) ClusterColor(id int) string {
	if c, ok := p.Clusters[id]; ok {
		return c
	}
	n := len(p.Series)
	if n == 0 {
		return ""
	}
	i := (id - 1) % n
	if i < 0 {
		i += n
	}
	return p.Series[i]
}

// ModelColor hashes model into the series palette.
func (p Palette) ModelColor(model string) string {
	if len(p.Series) == 0 {
		return ""
	}
	return p.Series[numeric.HashString(model)%uint32(len(p.Series))]
}

// ModelColors maps every model to its hashed series color.
func (p Palette) ModelColors(models []string) map[string]string {
	out := make(map[string]string, len(models))
	for _, m := range models {
		out[m] = p.ModelColor(m)
	}
	return out
}
