package loader

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"routeros/internal/config"
	"routeros/internal/types"
	"slices"
	"strings"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
	"github.com/jmespath/go-jmespath"
	"github.com/klauspost/compress/zstd"
	log "github.com/sirupsen/logrus"
)

type Format int

const (
	FormatYAML Format = iota + 1
	FormatJSON
)

const zstdExt = ".zst"

// FormatFromPath picks the decoder from the file extension. A trailing .zst means the
// document is zstd-compressed, e.g. routers.yml.zst.
func FormatFromPath(path string) (format Format, compressed bool, err error) {
	name := strings.ToLower(path)
	if strings.HasSuffix(name, zstdExt) {
		compressed = true
		name = strings.TrimSuffix(name, zstdExt)
	}
	switch filepath.Ext(name) {
	case ".yml", ".yaml":
		format = FormatYAML
	case ".json":
		format = FormatJSON
	default:
		err = types.Err(types.ErrInvalidSource, nil, "unsupported config file %s", path)
	}
	return
}

// ReadFile reads and decodes a configuration document.
func ReadFile(path string) (map[string]any, error) {
	format, compressed, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, types.Err(types.ErrInvalidSource, err, "")
	}
	if compressed {
		if data, err = decompress(data); err != nil {
			return nil, types.Err(types.ErrInvalidSource, err, "decompress %s", path)
		}
	}
	return Decode(data, format)
}

func decompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(data, nil)
}

// Decode parses data into a generic document. JSON numbers are kept as json.Number so
// that integers and floats stay distinguishable.
func Decode(data []byte, format Format) (map[string]any, error) {
	var doc map[string]any
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, types.Err(types.ErrInvalidSource, err, "")
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			return nil, types.Err(types.ErrInvalidSource, err, "")
		}
	default:
		return nil, types.Err(types.ErrInvalidSource, nil, "unknown format %d", format)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return doc, nil
}

// Select narrows doc with a JMESPath expression, e.g. "routers.core" or
// "routers[?name=='edge'] | [0]". An empty expression returns doc unchanged.
func Select(doc map[string]any, expression string) (map[string]any, error) {
	if expression == "" {
		return doc, nil
	}
	v, err := jmespath.Search(expression, doc)
	if err != nil {
		return nil, types.Err(types.ErrInvalidSource, fmt.Errorf("jmespath: %w", err), "")
	}
	if v == nil {
		return nil, types.Err(types.ErrInvalidSource, nil, "selector %q matched nothing", expression)
	}
	section, ok := v.(map[string]any)
	if !ok {
		return nil, types.Err(types.ErrInvalidSource, nil, "selector %q must yield an object, got %s", expression, types.TypeName(v))
	}
	return section, nil
}

// ApplyDocument writes every entry of section into store. A null value deletes the parameter.
// Entries are validated first and nothing is written if any of them fails.
func ApplyDocument(store *config.Store, section map[string]any) error {
	names := make([]string, 0, len(section))
	for k := range section {
		names = append(names, k)
	}
	slices.Sort(names)

	type entry struct {
		param types.Param
		value types.Value
	}
	var (
		entries []entry
		errs    []error
	)
	for _, name := range names {
		if section[name] == nil {
			param, err := types.ParseParam(name)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			entries = append(entries, entry{param: param})
			continue
		}
		param, v, err := config.CheckAny(name, section[name])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		entries = append(entries, entry{param: param, value: v})
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	for _, e := range entries {
		var err error
		if e.value.IsValid() {
			_, err = store.Set(e.param, e.value)
		} else {
			_, err = store.Delete(e.param)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// LoadFile reads path, narrows it with selector and applies the result to store.
func LoadFile(store *config.Store, path, selector string) error {
	doc, err := ReadFile(path)
	if err != nil {
		return err
	}
	section, err := Select(doc, selector)
	if err != nil {
		return err
	}
	if err := ApplyDocument(store, section); err != nil {
		return fmt.Errorf("config file %s: %w", path, err)
	}
	log.WithFields(log.Fields{
		"path":     path,
		"selector": selector,
		"count":    len(section),
	}).Info("loaded router config")
	return nil
}
