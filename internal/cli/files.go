package cli

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	cverrors "github.com/matzehuels/cubicleview/pkg/errors"
)

// readGraph reads the single graph file named by args.
func readGraph(args []string) (string, []byte, error) {
	if err := cverrors.ValidateGraphFiles(args); err != nil {
		return "", nil, err
	}
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil, cverrors.Wrap(cverrors.ErrCodeFileNotFound, err, "graph file %s not found", path)
		}
		return "", nil, cverrors.Wrap(cverrors.ErrCodeInvalidInput, err, "cannot read %s", path)
	}
	return path, data, nil
}

// outputBase returns the path prefix for files rendered from path: the
// output flag when set, else path without its extension.
func outputBase(path, output string) string {
	if output != "" {
		return output
	}
	return path[:len(path)-len(filepath.Ext(path))]
}
