package sink

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/blueprint/pkg/scene"
)

// RenderJSON encodes the scene with its commands in draw order.
func RenderJSON(sc *scene.Scene) ([]byte, error) {
	out := *sc
	out.Commands = sc.Ordered()
	if out.Commands == nil {
		out.Commands = []scene.Command{}
	}
	return json.MarshalIndent(out, "", "  ")
}

// ParseJSON decodes a scene produced by [RenderJSON].
func ParseJSON(data []byte) (*scene.Scene, error) {
	var sc scene.Scene
	if err := json.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	for i, c := range sc.Commands {
		if !c.Valid() {
			return nil, fmt.Errorf("decode scene: command %d must carry exactly one primitive", i)
		}
	}
	return &sc, nil
}
