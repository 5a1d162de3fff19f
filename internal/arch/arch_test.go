package arch

import (
	"bytes"
	"encoding/json"
	"io"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type pkg struct {
	ImportPath string
	Imports    []string
}

const mod = "fastadiff/"

// Layering, bottom up: fasta, seqset, engine, pipeline; writers and liftover
// beside pipeline; appcore and app on top. Storage backends know nothing of
// FASTA, and pkg/api depends on nothing internal.
var bans = map[string][]string{
	mod + "internal/fasta": {
		mod + "internal/seqset", mod + "internal/engine", mod + "internal/pipeline",
		mod + "internal/writers", mod + "internal/source", mod + "internal/app", mod + "cmd/",
	},
	mod + "internal/seqset": {
		mod + "internal/engine", mod + "internal/pipeline", mod + "internal/writers",
		mod + "internal/source", mod + "internal/app", mod + "cmd/",
	},
	mod + "internal/engine": {
		mod + "internal/pipeline", mod + "internal/writers", mod + "internal/liftover",
		mod + "internal/progress", mod + "internal/source", mod + "internal/config",
		mod + "internal/app", mod + "cmd/",
	},
	mod + "internal/pipeline": {
		mod + "internal/writers", mod + "internal/progress", mod + "internal/source",
		mod + "internal/config", mod + "internal/app", mod + "cmd/",
	},
	mod + "internal/writers": {
		mod + "internal/pipeline", mod + "internal/source", mod + "internal/app", mod + "cmd/",
	},
	mod + "internal/liftover": {
		mod + "internal/pipeline", mod + "internal/writers", mod + "internal/app", mod + "cmd/",
	},
	mod + "internal/source": {
		mod + "internal/fasta", mod + "internal/seqset", mod + "internal/engine",
		mod + "internal/app", mod + "cmd/",
	},
	mod + "pkg/api": {mod + "internal/"},
}

func TestImportBoundaries(t *testing.T) {
	cmd := exec.Command("go", "list", "-json", "./...")
	cmd.Dir = "../.."
	var out bytes.Buffer
	cmd.Stdout = &out
	require.NoError(t, cmd.Run(), "go list")
	dec := json.NewDecoder(&out)

	var violations []string
	for {
		var p pkg
		if err := dec.Decode(&p); err == io.EOF {
			break
		} else {
			require.NoError(t, err, "decode")
		}
		for prefix, forbidden := range bans {
			if !strings.HasPrefix(p.ImportPath, prefix) {
				continue
			}
			for _, dep := range p.Imports {
				for _, ban := range forbidden {
					if strings.HasPrefix(dep, ban) {
						violations = append(violations, p.ImportPath+" → "+dep)
					}
				}
			}
		}
	}
	require.Empty(t, violations, "import boundary violations:\n  %s", strings.Join(violations, "\n  "))
}
