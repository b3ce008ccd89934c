// Package templates renders event records into outreach emails.
package templates

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/joseph-ayodele/poster-outreach/constants"
	"github.com/joseph-ayodele/poster-outreach/internal/common"
	"github.com/joseph-ayodele/poster-outreach/internal/entity"
)

// ErrUnknownTemplate is returned when no template has the requested id.
var ErrUnknownTemplate = fmt.Errorf("unknown template: %w", common.ErrNotFound)

// TemplateError reports a template that cannot be rendered against a record.
type TemplateError struct {
	Template string
	Field    string // offending placeholder, if any
	Reason   string
}

func (e *TemplateError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("template %q: %s {%s}", e.Template, e.Reason, e.Field)
	}
	return fmt.Sprintf("template %q: %s", e.Template, e.Reason)
}

// segment is literal text or, when field is set, a placeholder.
type segment struct {
	text  string
	field string
}

// parse splits s into literal and {field} segments. "{{" and "}}" escape braces.
func parse(s string) ([]segment, error) {
	var (
		segs []segment
		lit  strings.Builder
	)
	flush := func() {
		if lit.Len() > 0 {
			segs = append(segs, segment{text: lit.String()})
			lit.Reset()
		}
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '{' && i+1 < len(s) && s[i+1] == '{':
			lit.WriteByte('{')
			i++
		case c == '}' && i+1 < len(s) && s[i+1] == '}':
			lit.WriteByte('}')
			i++
		case c == '{':
			end := strings.IndexByte(s[i+1:], '}')
			if end < 0 {
				return nil, fmt.Errorf("unclosed '{' at offset %d", i)
			}
			name := s[i+1 : i+1+end]
			if !isIdent(name) {
				return nil, fmt.Errorf("invalid placeholder {%s}", name)
			}
			flush()
			segs = append(segs, segment{field: name})
			i += end + 1
		default:
			lit.WriteByte(c)
		}
	}
	flush()
	return segs, nil
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}

// Placeholders lists the distinct fields referenced by t, subject first.
func Placeholders(t entity.EmailTemplate) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	for _, src := range []string{t.Subject, t.Body} {
		segs, err := parse(src)
		if err != nil {
			return nil, &TemplateError{Template: t.ID, Reason: err.Error()}
		}
		for _, sg := range segs {
			if sg.field == "" {
				continue
			}
			if _, ok := seen[sg.field]; !ok {
				seen[sg.field] = struct{}{}
				out = append(out, sg.field)
			}
		}
	}
	return out, nil
}

// Render fills t from rec. Every placeholder is checked against the record's
// field set before anything is substituted.
func Render(t entity.EmailTemplate, rec entity.EventRecord) (entity.RenderedEmail, error) {
	fields := rec.Fields()

	subject, err := parse(t.Subject)
	if err != nil {
		return entity.RenderedEmail{}, &TemplateError{Template: t.ID, Reason: err.Error()}
	}
	body, err := parse(t.Body)
	if err != nil {
		return entity.RenderedEmail{}, &TemplateError{Template: t.ID, Reason: err.Error()}
	}
	for _, segs := range [][]segment{subject, body} {
		for _, sg := range segs {
			if sg.field == "" {
				continue
			}
			if _, ok := fields[sg.field]; !ok {
				return entity.RenderedEmail{}, &TemplateError{Template: t.ID, Field: sg.field, Reason: "unknown placeholder"}
			}
		}
	}

	var to string
	switch t.Role {
	case constants.RoleArtist:
		to = rec.ArtistEmail
	case constants.RoleVenue:
		to = rec.VenueEmail
	default:
		return entity.RenderedEmail{}, &TemplateError{Template: t.ID, Reason: fmt.Sprintf("unknown recipient role %q", t.Role)}
	}

	return entity.RenderedEmail{
		To:      to,
		Subject: fill(subject, fields),
		Body:    fill(body, fields),
	}, nil
}

func fill(segs []segment, fields map[string]string) string {
	var b strings.Builder
	for _, sg := range segs {
		if sg.field != "" {
			b.WriteString(fields[sg.field])
		} else {
			b.WriteString(sg.text)
		}
	}
	return b.String()
}

// DisplayName turns an id like "good_artist" into "Good Artist".
func DisplayName(id string) string {
	words := strings.FieldsFunc(id, func(r rune) bool { return r == '_' || r == '-' || r == ' ' })
	for i, w := range words {
		r := []rune(strings.ToLower(w))
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
