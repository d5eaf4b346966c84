package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Hash returns the hex SHA-256 of data. Source text and graph JSON are
// addressed by it.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// stageKey joins a stage name with the hash of its inputs: "graph:<sha256>".
func stageKey(stage, inputHash string, opts any) string {
	data, _ := json.Marshal([]any{inputHash, opts})
	return stage + ":" + Hash(data)
}

// GraphKeyOpts are the extraction options that affect a graph.
type GraphKeyOpts struct {
	MaxLineBytes int `json:"max_line_bytes"`
}

// ArtifactKeyOpts are the render options that affect an artifact.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	Detailed bool    `json:"detailed,omitempty"`
	Free     bool    `json:"free,omitempty"`
	Scale    float64 `json:"scale,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// GraphKey keys an extracted graph by the hash of its source text.
	GraphKey(sourceHash string, opts GraphKeyOpts) string

	// ArtifactKey keys a rendered artifact by the hash of its graph JSON.
	ArtifactKey(graphHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces unprefixed keys of the form "kind:sha256".
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// GraphKey implements Keyer.
func (DefaultKeyer) GraphKey(sourceHash string, opts GraphKeyOpts) string {
	return stageKey("graph", sourceHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return stageKey("artifact", graphHash, opts)
}
