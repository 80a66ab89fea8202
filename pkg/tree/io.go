package tree

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/mindgraft/pkg/errors"
)

// ReadJSON decodes a tree document from r.
//
// The input must be a single JSON object:
//
//	{
//	  "id": "r", "topic": "Root", "summary": "...", "image_url": null,
//	  "children": [{"id": "a", "topic": "A", "summary": ""}]
//	}
//
// A JSON null decodes to a nil tree without error. The decoded document is
// validated with [Validate]; structural problems are reported as
// INVALID_DOCUMENT errors naming the offending node path.
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Node, error) {
	var root *Node
	if err := json.NewDecoder(r).Decode(&root); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode tree document")
	}
	if err := Validate(root); err != nil {
		return nil, err
	}
	return root, nil
}

// ImportJSON reads a tree document from the file at path.
//
// ImportJSON returns the same validation errors as [ReadJSON]. File errors
// are wrapped with the path for context.
func ImportJSON(path string) (*Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
