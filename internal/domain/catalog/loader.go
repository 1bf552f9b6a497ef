package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a catalog file.
type Format string

// Supported formats.
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Base names looked up by LoadDir.
const (
	hobbiesBaseName = "hobbies"
	stepUpsBaseName = "stepups"
)

var extensions = []struct {
	ext    string
	format Format
}{
	{".yaml", FormatYAML},
	{".yml", FormatYAML},
	{".json", FormatJSON},
}

// LoadDir reads hobbies.{yaml,yml,json} and stepups.{yaml,yml,json} from dir.
func LoadDir(dir string) (*Catalog, error) {
	hobbiesData, hobbiesFormat, err := readCatalogFile(dir, hobbiesBaseName)
	if err != nil {
		return nil, err
	}
	stepUpsData, stepUpsFormat, err := readCatalogFile(dir, stepUpsBaseName)
	if err != nil {
		return nil, err
	}
	return Parse(hobbiesData, hobbiesFormat, stepUpsData, stepUpsFormat)
}

func readCatalogFile(dir, base string) ([]byte, Format, error) {
	for _, e := range extensions {
		path := filepath.Join(dir, base+e.ext)
		data, err := os.ReadFile(path) //nolint:gosec // path is built from operator config
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, "", fmt.Errorf("%w: read %s: %w", ErrLoadCatalog, path, err)
		}
		return data, e.format, nil
	}
	return nil, "", fmt.Errorf("%w: no %s catalog in %s", ErrLoadCatalog, base, dir)
}

func decode(data []byte, format Format, v any) error {
	switch Format(strings.ToLower(string(format))) {
	case FormatYAML:
		return yaml.Unmarshal(data, v)
	case FormatJSON:
		return json.Unmarshal(data, v)
	default:
		return fmt.Errorf("unsupported catalog format %q", format)
	}
}
