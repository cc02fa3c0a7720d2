package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/vrushalikudande/portfolio/internal/content"
	"github.com/vrushalikudande/portfolio/internal/view"
)

//go:embed templates/*.html
var templateFiles embed.FS

//go:embed static/*
var staticFiles embed.FS

// sectionTemplates maps every section to the fragment that renders it.
var sectionTemplates = [...]string{
	view.SectionHome:       "section-home",
	view.SectionAbout:      "section-about",
	view.SectionSkills:     "section-skills",
	view.SectionProjects:   "section-projects",
	view.SectionArticles:   "section-articles",
	view.SectionExperience: "section-experience",
	view.SectionContact:    "section-contact",
}

var skillGradients = map[string]string{
	"cyan":   "from-cyan-500 to-blue-500",
	"green":  "from-green-500 to-emerald-500",
	"blue":   "from-blue-500 to-indigo-500",
	"purple": "from-purple-500 to-pink-500",
	"amber":  "from-amber-500 to-orange-500",
	"red":    "from-red-500 to-pink-500",
}

type navItem struct {
	Section view.Section
	Active  bool
}

type skillBar struct {
	content.Skill
	Percent  int
	Gradient string
}

// page is the data every page template receives.
type page struct {
	Content     *content.Content
	State       view.State
	Sections    []view.Section
	SectionHTML template.HTML
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"dict":       dict,
		"formatTime": view.FormatTime,
		"formatDate": view.FormatDate,
		"navItem": func(sec view.Section, st view.State) navItem {
			return navItem{Section: sec, Active: st.Is(sec)}
		},
		"skillBar": func(sk content.Skill, levels map[string]int) skillBar {
			pct, ok := levels[sk.Key]
			if !ok {
				pct = sk.Value
			}
			g, ok := skillGradients[sk.Color]
			if !ok {
				g = skillGradients["cyan"]
			}
			return skillBar{Skill: sk, Percent: pct, Gradient: g}
		},
	}
}

// dict builds a map from alternating keys and values so a template can pass
// several values to a fragment.
func dict(kv ...any) (map[string]any, error) {
	if len(kv)%2 != 0 {
		return nil, fmt.Errorf("dict: odd number of arguments")
	}
	m := make(map[string]any, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", kv[i])
		}
		m[k] = kv[i+1]
	}
	return m, nil
}

func parseTemplates() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(templateFuncs()).ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	for _, name := range sectionTemplates {
		if tmpl.Lookup(name) == nil {
			return nil, fmt.Errorf("parse templates: missing %q", name)
		}
	}
	return tmpl, nil
}

// renderSection renders the fragment of st's active section. A section
// outside the fixed set renders nothing.
func (s *Server) renderSection(p page) (template.HTML, error) {
	sec := p.State.ActiveSection
	if !sec.Valid() {
		return "", nil
	}
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, sectionTemplates[sec], p); err != nil {
		return "", fmt.Errorf("render section %s: %w", sec, err)
	}
	return template.HTML(buf.String()), nil
}

func (s *Server) page(st view.State) (page, error) {
	p := page{Content: s.opts.Content, State: st, Sections: view.Sections()}
	html, err := s.renderSection(p)
	if err != nil {
		return page{}, err
	}
	p.SectionHTML = html
	return p, nil
}
