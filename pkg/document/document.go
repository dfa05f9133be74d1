// Package document reads the YAML or JSON documents given to
// graphdiff into generic values the comparison engine can map.
package document

import (
	"io"
	"io/ioutil"
	"os"

	"github.com/Jeffail/gabs"
	"github.com/ghodss/yaml"
	"github.com/pkg/errors"

	fluxerr "github.com/fluxcd/graphdiff/pkg/errors"
)

// Stdin is the path which stands for standard input.
const Stdin = "-"

// Parse decodes a YAML or JSON document. Mappings become
// map[string]interface{}, sequences []interface{}, and numbers
// float64, as they would decoding JSON.
func Parse(bytes []byte) (interface{}, error) {
	var doc interface{}
	if err := yaml.Unmarshal(bytes, &doc); err != nil {
		return nil, errors.Wrap(err, "parsing document")
	}
	return doc, nil
}

// Load reads and parses the document at path, or from stdin if path
// is Stdin.
func Load(path string, stdin io.Reader) (interface{}, error) {
	var (
		bytes []byte
		err   error
	)
	if path == Stdin {
		bytes, err = ioutil.ReadAll(stdin)
	} else {
		bytes, err = ioutil.ReadFile(path)
	}
	if os.IsNotExist(err) {
		return nil, &fluxerr.Error{
			Type: fluxerr.Missing,
			Err:  err,
			Help: "Error: " + err.Error() + "\n\nPlease check the path of the document to compare.\n",
		}
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	doc, err := Parse(bytes)
	return doc, errors.Wrapf(err, "loading %s", path)
}

// Select returns the part of doc at the dot-separated path, or nil
// if there is nothing there. An empty path selects the whole
// document.
func Select(doc interface{}, path string) (interface{}, error) {
	if path == "" || doc == nil {
		return doc, nil
	}
	container, err := gabs.Consume(doc)
	if err != nil {
		return nil, errors.Wrapf(err, "selecting %s", path)
	}
	return container.Path(path).Data(), nil
}
