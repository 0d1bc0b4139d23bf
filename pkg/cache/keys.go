package cache

import "encoding/json"

// Keyer derives cache keys.
type Keyer interface {
	// ChartKey identifies a rendered chart by its options.
	ChartKey(options any) string

	// ArtifactKey identifies one export of a chart.
	ArtifactKey(chartKey string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the export parameters that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Kind          string   `json:"kind"`
	Theme         string   `json:"theme"`
	Palette       []string `json:"palette,omitempty"` // theme colours, which config can override
	SeparateUnits bool     `json:"separate_units,omitempty"`
	Period        string   `json:"period,omitempty"`
	ExportType    string   `json:"export_type,omitempty"`
	Scale         float64  `json:"scale,omitempty"`
	Font          string   `json:"font,omitempty"`
}

// DefaultKeyer hashes its inputs with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ChartKey implements Keyer. Options that cannot be marshalled hash as
// their type only, which never collides with a real chart.
func (DefaultKeyer) ChartKey(options any) string {
	data, err := json.Marshal(options)
	if err != nil {
		return hashKey("chart", "unmarshalable")
	}
	return "chart:" + Hash(data)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(chartKey string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+opts.Kind, chartKey, opts)
}
