package templates

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/joseph-ayodele/poster-outreach/constants"
	"github.com/joseph-ayodele/poster-outreach/internal/common"
	"github.com/joseph-ayodele/poster-outreach/internal/entity"
)

// Registry is a read-only, ordered set of templates fixed at construction.
type Registry struct {
	order []string
	byID  map[string]entity.EmailTemplate
}

// NewRegistry holds the built-ins plus extra. An extra template with a
// built-in id replaces it in place; new ids are listed after the built-ins.
func NewRegistry(extra ...entity.EmailTemplate) (*Registry, error) {
	r := &Registry{byID: make(map[string]entity.EmailTemplate)}
	for _, t := range append(Builtins(), extra...) {
		if err := Validate(t); err != nil {
			return nil, err
		}
		if _, ok := r.byID[t.ID]; !ok {
			r.order = append(r.order, t.ID)
		}
		r.byID[t.ID] = t
	}
	return r, nil
}

var defaultRegistry = func() *Registry {
	r, err := NewRegistry()
	if err != nil {
		panic(err)
	}
	return r
}()

// Default returns the registry holding only the built-ins.
func Default() *Registry { return defaultRegistry }

// Lookup finds a built-in template.
func Lookup(id string) (entity.EmailTemplate, bool) { return defaultRegistry.Lookup(id) }

// List describes the built-in templates.
func List() []entity.TemplateInfo { return defaultRegistry.List() }

func (r *Registry) Lookup(id string) (entity.EmailTemplate, bool) {
	t, ok := r.byID[id]
	return t, ok
}

func (r *Registry) List() []entity.TemplateInfo {
	out := make([]entity.TemplateInfo, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, entity.TemplateInfo{ID: id, Name: DisplayName(id)})
	}
	return out
}

// Render looks up id and renders it against rec.
func (r *Registry) Render(id string, rec entity.EventRecord) (entity.RenderedEmail, error) {
	t, ok := r.Lookup(id)
	if !ok {
		return entity.RenderedEmail{}, fmt.Errorf("%w: %q", ErrUnknownTemplate, id)
	}
	return Render(t, rec)
}

// Validate checks that t has an id, a known role and only placeholders
// naming record fields.
func Validate(t entity.EmailTemplate) error {
	if strings.TrimSpace(t.ID) == "" {
		return &TemplateError{Reason: "missing id"}
	}
	if t.Role != constants.RoleArtist && t.Role != constants.RoleVenue {
		return &TemplateError{Template: t.ID, Reason: fmt.Sprintf("unknown recipient role %q", t.Role)}
	}
	names, err := Placeholders(t)
	if err != nil {
		return err
	}
	known := entity.NewEventRecord().Fields()
	for _, n := range names {
		if _, ok := known[n]; !ok {
			return &TemplateError{Template: t.ID, Field: n, Reason: "unknown placeholder"}
		}
	}
	return nil
}

type fileTemplate struct {
	ID      string `yaml:"id" toml:"id"`
	Role    string `yaml:"role" toml:"role"`
	Subject string `yaml:"subject" toml:"subject"`
	Body    string `yaml:"body" toml:"body"`
}

type templateFile struct {
	Templates []fileTemplate `yaml:"templates" toml:"templates"`
}

// LoadFile reads extra templates from a .yaml/.yml or .toml file.
func LoadFile(path string) ([]entity.EmailTemplate, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, common.WrapError(err, "read templates")
	}
	var tf templateFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &tf); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".toml":
		if _, err := toml.Decode(string(raw), &tf); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("templates file %s: unsupported extension", path)
	}

	out := make([]entity.EmailTemplate, 0, len(tf.Templates))
	for _, ft := range tf.Templates {
		t := entity.EmailTemplate{
			ID:      strings.TrimSpace(ft.ID),
			Role:    constants.RecipientRole(strings.ToLower(strings.TrimSpace(ft.Role))),
			Subject: ft.Subject,
			Body:    ft.Body,
		}
		if err := Validate(t); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		out = append(out, t)
	}
	return out, nil
}
