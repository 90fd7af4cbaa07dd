package cache

// Keyer derives cache keys. Implementations must be deterministic.
type Keyer interface {
	// SceneKey identifies a computed scene.
	SceneKey(docHash string, opts SceneKeyOpts) string
	// ArtifactKey identifies a rendered artifact of a scene.
	ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string
}

// SceneKeyOpts are the inputs besides the document that change a scene.
type SceneKeyOpts struct {
	Kind   string `json:"kind"`
	Config any    `json:"config,omitempty"`
}

// ArtifactKeyOpts are the inputs besides the scene that change an artifact.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Scale  float64 `json:"scale,omitempty"`
}

// DefaultKeyer produces "scene:<sha256>" and "artifact:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// SceneKey implements Keyer.
func (DefaultKeyer) SceneKey(docHash string, opts SceneKeyOpts) string {
	return hashKey("scene", docHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", sceneHash, opts)
}
