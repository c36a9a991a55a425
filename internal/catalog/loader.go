package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"slices"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"beneficios/internal/eligibility/models"
	dErrors "beneficios/pkg/domain-errors"
)

// LoadDir reads every .json, .yaml and .yml file under dir and builds a
// catalog from them. See LoadFS.
func LoadDir(dir string) (*Catalog, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeConfiguration, fmt.Sprintf("catalog dir %s", dir))
	}
	if !info.IsDir() {
		return nil, dErrors.New(dErrors.CodeConfiguration, fmt.Sprintf("catalog dir %s is not a directory", dir))
	}
	return LoadFS(os.DirFS(dir))
}

// LoadFS walks fsys in lexical order. A file holds either one benefit or a
// list of benefits; files are concatenated in walk order, which becomes the
// catalog order. Other files are ignored.
func LoadFS(fsys fs.FS) (*Catalog, error) {
	var files []string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isCatalogFile(p) {
			return nil
		}
		files = append(files, p)
		return nil
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeConfiguration, "walk catalog")
	}
	slices.Sort(files)

	var benefits []models.Benefit
	for _, name := range files {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeConfiguration, fmt.Sprintf("read %s", name))
		}
		parsed, err := Parse(name, data)
		if err != nil {
			return nil, err
		}
		benefits = append(benefits, parsed...)
	}
	return New(benefits)
}

// Parse decodes one catalog file. The format is picked from the extension.
func Parse(name string, data []byte) ([]models.Benefit, error) {
	var (
		benefits []models.Benefit
		err      error
	)
	switch strings.ToLower(path.Ext(name)) {
	case ".json":
		benefits, err = parseJSON(data)
	case ".yaml", ".yml":
		benefits, err = parseYAML(data)
	default:
		err = errors.New("unsupported catalog file type")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeConfiguration, fmt.Sprintf("parse %s: %v", name, err))
	}
	return benefits, nil
}

// parseJSON rejects keys the model does not know: a misspelled
// "eligibilityRules" would otherwise load a benefit with no rules.
func parseJSON(data []byte) ([]models.Benefit, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()
	if trimmed[0] == '[' {
		var list []models.Benefit
		if err := dec.Decode(&list); err != nil {
			return nil, err
		}
		return list, nil
	}
	var one models.Benefit
	if err := dec.Decode(&one); err != nil {
		return nil, err
	}
	return []models.Benefit{one}, nil
}

// parseYAML peeks at the document root to pick list or single benefit, then
// decodes again with KnownFields so unknown keys fail like in JSON.
func parseYAML(data []byte) ([]models.Benefit, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if doc.Content[0].Kind == yaml.SequenceNode {
		var list []models.Benefit
		if err := dec.Decode(&list); err != nil {
			return nil, err
		}
		return list, nil
	}
	var one models.Benefit
	if err := dec.Decode(&one); err != nil {
		return nil, err
	}
	return []models.Benefit{one}, nil
}

func isCatalogFile(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}
