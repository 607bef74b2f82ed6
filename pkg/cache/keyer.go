package cache

// Keyer generates cache keys for each entry kind.
type Keyer interface {
	// ArtifactKey identifies an encoded output of a scene.
	ArtifactKey(configHash string, opts ArtifactKeyOpts) string

	// PreviewKey identifies a thumbnail of an encoded output.
	PreviewKey(artifactHash string, width int) string
}

// ArtifactKeyOpts are the encoding settings that change artifact bytes.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	DPI    float64 `json:"dpi"`
}

// DefaultKeyer produces "kind:sha256" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

func (DefaultKeyer) ArtifactKey(configHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", configHash, opts)
}

func (DefaultKeyer) PreviewKey(artifactHash string, width int) string {
	return hashKey("preview", artifactHash, width)
}
