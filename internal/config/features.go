package config

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dloss/drilldown/internal/ctxlog"
	"github.com/dloss/drilldown/internal/resources"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// featureFile is the top-level structure of a features file.
type featureFile struct {
	Features []*featureBlock `hcl:"feature,block"`
	Records  []*recordBlock  `hcl:"record,block"`
}

type featureBlock struct {
	Path       string        `hcl:"path,label"`
	Key        string        `hcl:"key"`
	Title      string        `hcl:"title"`
	Permission string        `hcl:"permission,optional"`
	Icon       string        `hcl:"icon,optional"`
	Detail     bool          `hcl:"detail,optional"`
	Levels     []*levelBlock `hcl:"level,block"`
	Wizard     *wizardBlock  `hcl:"wizard,block"`
}

type levelBlock struct {
	Kind       string   `hcl:"kind,label"`
	Collection string   `hcl:"collection"`
	Limit      int      `hcl:"limit,optional"`
	Latency    string   `hcl:"latency,optional"`
	Nested     bool     `hcl:"nested,optional"`
	Columns    []string `hcl:"columns,optional"`
}

type wizardBlock struct {
	Kind    string   `hcl:"kind,optional"`
	Recipes []string `hcl:"recipes,optional"`
	Fields  []string `hcl:"fields"`
}

type recordBlock struct {
	Collection string            `hcl:"collection,label"`
	ID         string            `hcl:"id,label"`
	Name       string            `hcl:"name,optional"`
	Kind       string            `hcl:"kind,optional"`
	Status     string            `hcl:"status,optional"`
	Age        string            `hcl:"age,optional"`
	Icon       string            `hcl:"icon,optional"`
	Parent     string            `hcl:"parent,optional"`
	Numeric    bool              `hcl:"numeric,optional"`
	Labels     []string          `hcl:"labels,optional"`
	Fields     map[string]string `hcl:"fields,optional"`
}

// Features is the decoded content of a features file.
type Features struct {
	Features []resources.Feature
	Records  map[string][]resources.Record
}

// LoadFeatures parses a features file. Expressions may reference the process
// environment as env.NAME.
func LoadFeatures(ctx context.Context, path string, catalog *resources.Catalog) (*Features, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read features file %s: %w", path, err)
	}
	return ParseFeatures(ctx, src, path, environ(), catalog)
}

// ParseFeatures decodes src. Catalog-backed levels are bound to catalog.
func ParseFeatures(ctx context.Context, src []byte, filename string, env map[string]string, catalog *resources.Catalog) (*Features, error) {
	logger := ctxlog.FromContext(ctx)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	var parsed featureFile
	diags = gohcl.DecodeBody(file.Body, evalContext(env), &parsed)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	out := &Features{Records: map[string][]resources.Record{}}
	for _, fb := range parsed.Features {
		f, err := translateFeature(fb, catalog)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		out.Features = append(out.Features, f)
	}
	for _, rb := range parsed.Records {
		r, err := translateRecord(rb)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		out.Records[rb.Collection] = append(out.Records[rb.Collection], r)
	}

	logger.Debug("Features file loaded.", "file", filename, "features", len(out.Features), "collections", len(out.Records))
	return out, nil
}

// Apply seeds catalog with the records and adds the features to registry.
func (f *Features) Apply(catalog *resources.Catalog, registry *resources.Registry) {
	collections := make([]string, 0, len(f.Records))
	for name := range f.Records {
		collections = append(collections, name)
	}
	sort.Strings(collections)
	for _, name := range collections {
		catalog.Put(name, f.Records[name]...)
	}
	for _, feature := range f.Features {
		registry.Add(feature)
	}
}

func translateFeature(fb *featureBlock, catalog *resources.Catalog) (resources.Feature, error) {
	key, size := utf8.DecodeRuneInString(fb.Key)
	if key == utf8.RuneError || size != len(fb.Key) {
		return resources.Feature{}, fmt.Errorf("feature %q: key must be a single character, got %q", fb.Path, fb.Key)
	}
	if len(fb.Levels) == 0 && !fb.Detail {
		return resources.Feature{}, fmt.Errorf("feature %q: needs at least one level or a detail panel", fb.Path)
	}

	f := resources.Feature{
		Key:        key,
		Path:       fb.Path,
		Title:      fb.Title,
		Permission: fb.Permission,
		Icon:       fb.Icon,
		Detail:     fb.Detail,
	}
	for i, lb := range fb.Levels {
		src := &resources.CatalogSource{
			Catalog:    catalog,
			Collection: lb.Collection,
			Kind:       lb.Kind,
			Limit:      lb.Limit,
			Nested:     lb.Nested || i > 0,
		}
		if lb.Latency != "" {
			d, err := time.ParseDuration(lb.Latency)
			if err != nil {
				return resources.Feature{}, fmt.Errorf("feature %q level %q: invalid latency: %w", fb.Path, lb.Kind, err)
			}
			src.Latency = d
		}
		for _, col := range lb.Columns {
			width := 16
			if col == "NAME" {
				width = 28
			}
			src.Columns = append(src.Columns, resources.TableColumn{Name: col, Width: width})
		}
		f.Masters = append(f.Masters, src)
	}
	if fb.Wizard != nil {
		if len(fb.Levels) == 0 {
			return resources.Feature{}, fmt.Errorf("feature %q: a wizard needs a level to create records in", fb.Path)
		}
		kind := fb.Wizard.Kind
		if kind == "" {
			kind = fb.Levels[0].Kind
		}
		f.Wizard = &resources.Wizard{
			Collection: fb.Levels[0].Collection,
			Kind:       kind,
			Recipes:    fb.Wizard.Recipes,
			Fields:     fb.Wizard.Fields,
		}
	}
	return f, nil
}

func translateRecord(rb *recordBlock) (resources.Record, error) {
	r := resources.Record{
		ID:     rb.ID,
		Name:   rb.Name,
		Kind:   rb.Kind,
		Status: rb.Status,
		Age:    rb.Age,
		Icon:   rb.Icon,
		Labels: rb.Labels,
	}
	if rb.Numeric {
		n, err := strconv.Atoi(rb.ID)
		if err != nil {
			return resources.Record{}, fmt.Errorf("record %s %q: numeric id: %w", rb.Collection, rb.ID, err)
		}
		r.ID = n
	}
	if r.Name == "" {
		r.Name = rb.ID
	}
	if rb.Parent != "" {
		r.Parent = rb.Parent
	}
	names := make([]string, 0, len(rb.Fields))
	for name := range rb.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		r.Fields = append(r.Fields, resources.Field{Name: name, Value: rb.Fields[name]})
	}
	return r, nil
}

func evalContext(env map[string]string) *hcl.EvalContext {
	vars := make(map[string]cty.Value, len(env))
	for k, v := range env {
		vars[k] = cty.StringVal(v)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": cty.ObjectVal(vars)},
	}
}

func environ() map[string]string {
	env := map[string]string{}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			env[k] = v
		}
	}
	return env
}
