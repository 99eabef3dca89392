package minnows

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dekarrin/minnowquest/server/dao/inmem"
)

const testWorldTOML = `
format = "minnow"
type = "data"

[world]
start = "cove"

[[room]]
label = "cove"
name = "Cove"
description = "A quiet cove."

[[command]]
pattern = "listen"
say = "Waves, mostly."

[[command]]
pattern = "wave"

[[command]]
pattern = "sing"
say = "You sing a note."
state = {mood = "melodic"}
`

// newTestService returns a Service on in-memory persistence whose worlds
// directory holds only the default world.
func newTestService(t *testing.T) Service {
	t.Helper()

	worldsDir := t.TempDir()
	worldFile := filepath.Join(worldsDir, DefaultWorld+".mqw")
	if err := os.WriteFile(worldFile, []byte(testWorldTOML), 0644); err != nil {
		t.Fatalf("writing test world: %v", err)
	}

	return New(inmem.NewDatastore(), worldsDir)
}
