package resources

import (
	"sort"
	"strconv"
	"strings"
)

// Feature is one top-level drilldown: a bookmark root, its per-level sources
// and the optional terminal detail panel.
type Feature struct {
	Key   rune
	Path  string
	Title string
	// Permission prefixes the create and delete checks.
	Permission string
	Masters    []Source
	Detail     bool
	// Wizard describes the create flow; nil disables New.
	Wizard *Wizard
	Icon   string
}

// Wizard is a create flow: an optional recipe step followed by a form.
type Wizard struct {
	Collection string
	Kind       string
	Recipes    []string
	Fields     []string
}

// Steps is the number of wizard levels.
func (w *Wizard) Steps() int {
	if w == nil {
		return 0
	}
	if len(w.Recipes) > 0 {
		return 2
	}
	return 1
}

// DefaultRegistry returns the built-in features backed by catalog.
func DefaultRegistry(catalog *Catalog) *Registry {
	return NewRegistry(
		Feature{
			Key:        'U',
			Path:       "security/users",
			Title:      "Users",
			Permission: "nexus:users",
			Icon:       "user",
			Masters: []Source{
				&CatalogSource{Catalog: catalog, Collection: CollectionUsers, Kind: "User", Limit: userPage},
				&CatalogSource{Catalog: catalog, Collection: CollectionRoles, Kind: "Role", Nested: true},
			},
			Detail: true,
			Wizard: &Wizard{Collection: CollectionUsers, Kind: "User", Fields: []string{"Name", "Email"}},
		},
		Feature{
			Key:        'R',
			Path:       "repository/repositories",
			Title:      "Repositories",
			Permission: "nexus:repositories",
			Icon:       "repository",
			Masters: []Source{
				&CatalogSource{
					Catalog: catalog, Collection: CollectionRepositories, Kind: "Repository",
					Columns: []TableColumn{{Name: "NAME", Width: 24}, {Name: "KIND", Width: 8}, {Name: "Type", Width: 8}, {Name: "STATUS", Width: 8}},
				},
			},
			Detail: true,
			Wizard: &Wizard{
				Collection: CollectionRepositories,
				Kind:       "Repository",
				Recipes:    []string{"maven2 (hosted)", "maven2 (proxy)", "npm (hosted)", "npm (group)", "docker (hosted)"},
				Fields:     []string{"Name", "Blob store"},
			},
		},
		Feature{
			Key:        'T',
			Path:       "system/tasks",
			Title:      "Tasks",
			Permission: "nexus:tasks",
			Icon:       "task",
			Masters: []Source{
				&CatalogSource{
					Catalog: catalog, Collection: CollectionTasks, Kind: "Task",
					Columns: []TableColumn{{Name: "ID", Width: 4}, {Name: "NAME", Width: 24}, {Name: "STATUS", Width: 10}, {Name: "AGE", Width: 6}},
				},
				&CatalogSource{Catalog: catalog, Collection: CollectionRuns, Kind: "Run", Nested: true},
			},
			Detail: true,
		},
	)
}

// Build turns the answers of a finished wizard into a record. The recipe
// prefix up to the first space becomes the record kind.
func (w *Wizard) Build(recipe string, values map[string]string) Record {
	r := Record{
		Name:   strings.TrimSpace(values["Name"]),
		Kind:   w.Kind,
		Status: "Active",
		Age:    "0m",
	}
	if recipe != "" {
		kind, variant, _ := strings.Cut(recipe, " ")
		r.Kind = kind
		r.Status = "Online"
		if variant = strings.Trim(variant, "()"); variant != "" {
			r.Fields = append(r.Fields, Field{Name: "Type", Value: variant})
		}
	}
	for _, name := range w.Fields {
		if name == "Name" {
			continue
		}
		if v := strings.TrimSpace(values[name]); v != "" {
			r.Fields = append(r.Fields, Field{Name: name, Value: v})
		}
	}
	return r
}

type Registry struct {
	features []Feature
	byKey    map[rune]int
	byPath   map[string]int
}

func NewRegistry(features ...Feature) *Registry {
	r := &Registry{byKey: map[rune]int{}, byPath: map[string]int{}}
	for _, f := range features {
		r.Add(f)
	}
	return r
}

// Add registers f, replacing any feature with the same hotkey or path.
func (r *Registry) Add(f Feature) {
	if idx, ok := r.byPath[f.Path]; ok {
		old := r.features[idx]
		delete(r.byKey, old.Key)
		r.features[idx] = f
		r.byKey[f.Key] = idx
		return
	}
	if idx, ok := r.byKey[f.Key]; ok {
		delete(r.byPath, r.features[idx].Path)
		r.features[idx] = f
		r.byPath[f.Path] = idx
		return
	}
	r.features = append(r.features, f)
	r.byKey[f.Key] = len(r.features) - 1
	r.byPath[f.Path] = len(r.features) - 1
}

func (r *Registry) FeatureByKey(key rune) (Feature, bool) {
	idx, ok := r.byKey[key]
	if !ok {
		return Feature{}, false
	}
	return r.features[idx], true
}

// FeatureByPath looks a feature up by bookmark root. A "=filter" suffix is
// ignored.
func (r *Registry) FeatureByPath(path string) (Feature, bool) {
	if i := strings.IndexByte(path, '='); i >= 0 {
		path = path[:i]
	}
	idx, ok := r.byPath[path]
	if !ok {
		return Feature{}, false
	}
	return r.features[idx], true
}

func (r *Registry) Features() []Feature {
	copyList := make([]Feature, len(r.features))
	copy(copyList, r.features)
	return copyList
}

func defaultSort(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Name < records[j].Name
	})
}

// statusWeight returns a severity weight for sorting: lower = more problematic.
func statusWeight(status string) int {
	switch status {
	case "Failed", "Locked", "Offline":
		return 0
	case "Degraded", "Warning", "Disabled":
		return 1
	case "Pending", "Running", "Unknown", "Terminating":
		return 2
	case "Active", "Online", "Healthy", "Succeeded":
		return 3
	default:
		return 4
	}
}

// problemSort sorts records by status severity (most problematic first), then by name.
func problemSort(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		wi := statusWeight(records[i].Status)
		wj := statusWeight(records[j].Status)
		if wi != wj {
			return wi < wj
		}
		return records[i].Name < records[j].Name
	})
}

// parseAge converts an age string like "3m", "6h", "2d" to minutes for comparison.
func parseAge(age string) int {
	age = strings.TrimSpace(age)
	if age == "" {
		return 0
	}
	suffix := age[len(age)-1]
	num, err := strconv.Atoi(age[:len(age)-1])
	if err != nil {
		return 0
	}
	switch suffix {
	case 'm':
		return num
	case 'h':
		return num * 60
	case 'd':
		return num * 60 * 24
	default:
		return 0
	}
}

// ageSort sorts records newest first (smallest parsed age), then by name.
func ageSort(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		ai := parseAge(records[i].Age)
		aj := parseAge(records[j].Age)
		if ai != aj {
			return ai < aj
		}
		return records[i].Name < records[j].Name
	})
}

var sortModes = []string{"name", "status", "age"}

// cycleSortMode advances to the next mode in the given slice.
func cycleSortMode(current string, modes []string) string {
	for idx, m := range modes {
		if m == current {
			return modes[(idx+1)%len(modes)]
		}
	}
	return modes[0]
}
