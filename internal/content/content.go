// Package content loads the display data of the portfolio: profile text,
// skills, projects, experience, articles and outbound links.
package content

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"gopkg.in/yaml.v3"
)

//go:embed content.yaml
var defaultDocument []byte

type Site struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Icon        string `yaml:"icon"`
	Banner      string `yaml:"banner"`
	Prompt      string `yaml:"prompt"`
}

type Profile struct {
	Name         string        `yaml:"name"`
	Initials     string        `yaml:"initials"`
	Role         string        `yaml:"role"`
	Avatar       string        `yaml:"avatar"`
	Availability string        `yaml:"availability"`
	Tagline      string        `yaml:"tagline"`
	Highlights   []string      `yaml:"highlights"`
	TaglineHTML  template.HTML `yaml:"-"`
}

type Stat struct {
	Icon  string `yaml:"icon"`
	Value string `yaml:"value"`
	Label string `yaml:"label"`
}

// Featured is a home page teaser. It either opens Link or switches to Section.
type Featured struct {
	Title   string   `yaml:"title"`
	Summary string   `yaml:"summary"`
	Tags    []string `yaml:"tags"`
	Icon    string   `yaml:"icon"`
	Link    string   `yaml:"link"`
	Section string   `yaml:"section"`
}

type Education struct {
	Period string `yaml:"period"`
	Text   string `yaml:"text"`
}

type About struct {
	Paragraphs     []string        `yaml:"paragraphs"`
	Philosophy     []string        `yaml:"philosophy"`
	Education      []Education     `yaml:"education"`
	ParagraphsHTML []template.HTML `yaml:"-"`
}

// Skill is a proficiency level. Only skills with Bar set get a progress bar.
type Skill struct {
	Key   string `yaml:"key"`
	Label string `yaml:"label"`
	Value int    `yaml:"value"`
	Icon  string `yaml:"icon"`
	Color string `yaml:"color"`
	Bar   bool   `yaml:"bar"`
}

type TechGroup struct {
	Title string   `yaml:"title"`
	Items []string `yaml:"items"`
}

type Project struct {
	Title           string        `yaml:"title"`
	Description     string        `yaml:"description"`
	Tags            []string      `yaml:"tags"`
	Image           string        `yaml:"image"`
	Code            string        `yaml:"code"`
	DescriptionHTML template.HTML `yaml:"-"`
}

type Experience struct {
	Title        string   `yaml:"title"`
	Company      string   `yaml:"company"`
	Period       string   `yaml:"period"`
	Description  string   `yaml:"description"`
	Achievements []string `yaml:"achievements"`
}

type Blog struct {
	Title           string        `yaml:"title"`
	Link            string        `yaml:"link"`
	Host            string        `yaml:"host"`
	Description     string        `yaml:"description"`
	DescriptionHTML template.HTML `yaml:"-"`
}

type Upcoming struct {
	Title string `yaml:"title"`
	Icon  string `yaml:"icon"`
	Text  string `yaml:"text"`
}

type Articles struct {
	Blog     Blog       `yaml:"blog"`
	Upcoming []Upcoming `yaml:"upcoming"`
}

type Contact struct {
	Email    string `yaml:"email"`
	Location string `yaml:"location"`
	Phone    string `yaml:"phone"`
	Pitch    string `yaml:"pitch"`
}

// Link is an external profile or document opened in a new browsing context.
type Link struct {
	Name    string `yaml:"name"`
	Label   string `yaml:"label"`
	Display string `yaml:"display"`
	URL     string `yaml:"url"`
}

// Content is everything the page displays.
type Content struct {
	Site       Site         `yaml:"site"`
	Profile    Profile      `yaml:"profile"`
	Stats      []Stat       `yaml:"stats"`
	Featured   []Featured   `yaml:"featured"`
	About      About        `yaml:"about"`
	Skills     []Skill      `yaml:"skills"`
	Tech       []TechGroup  `yaml:"tech"`
	Projects   []Project    `yaml:"projects"`
	Experience []Experience `yaml:"experience"`
	Articles   Articles     `yaml:"articles"`
	Contact    Contact      `yaml:"contact"`
	Links      []Link       `yaml:"links"`

	links map[string]Link
}

// Default returns the embedded portfolio content.
func Default() (*Content, error) {
	return Parse(defaultDocument)
}

// Parse decodes a YAML content document, validates it and renders its
// markdown fields.
func Parse(doc []byte) (*Content, error) {
	var c Content
	if err := yaml.Unmarshal(doc, &c); err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	if err := c.render(goldmark.New()); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Content) validate() error {
	if c.Profile.Name == "" {
		return fmt.Errorf("content: profile name is required")
	}
	seen := make(map[string]bool, len(c.Skills))
	for _, s := range c.Skills {
		if s.Key == "" {
			return fmt.Errorf("content: skill %q has no key", s.Label)
		}
		if seen[s.Key] {
			return fmt.Errorf("content: duplicate skill %q", s.Key)
		}
		seen[s.Key] = true
		if s.Value < 0 || s.Value > 100 {
			return fmt.Errorf("content: skill %q has proficiency %d outside 0-100", s.Key, s.Value)
		}
	}
	c.links = make(map[string]Link, len(c.Links))
	for _, l := range c.Links {
		if l.Name == "" || l.URL == "" {
			return fmt.Errorf("content: link %q needs a name and url", l.Label)
		}
		if _, dup := c.links[l.Name]; dup {
			return fmt.Errorf("content: duplicate link %q", l.Name)
		}
		c.links[l.Name] = l
	}
	for _, f := range c.Featured {
		if f.Link != "" {
			if _, ok := c.links[f.Link]; !ok {
				return fmt.Errorf("content: featured %q refers to unknown link %q", f.Title, f.Link)
			}
		}
	}
	for _, p := range c.Projects {
		if p.Code != "" {
			if _, ok := c.links[p.Code]; !ok {
				return fmt.Errorf("content: project %q refers to unknown link %q", p.Title, p.Code)
			}
		}
	}
	if b := c.Articles.Blog.Link; b != "" {
		if _, ok := c.links[b]; !ok {
			return fmt.Errorf("content: blog refers to unknown link %q", b)
		}
	}
	return nil
}

func (c *Content) render(md goldmark.Markdown) error {
	var err error
	if c.Profile.TaglineHTML, err = markdown(md, c.Profile.Tagline); err != nil {
		return err
	}
	c.About.ParagraphsHTML = make([]template.HTML, len(c.About.Paragraphs))
	for i, p := range c.About.Paragraphs {
		if c.About.ParagraphsHTML[i], err = markdown(md, p); err != nil {
			return err
		}
	}
	for i := range c.Projects {
		if c.Projects[i].DescriptionHTML, err = markdown(md, c.Projects[i].Description); err != nil {
			return err
		}
	}
	if c.Articles.Blog.DescriptionHTML, err = markdown(md, c.Articles.Blog.Description); err != nil {
		return err
	}
	return nil
}

// markdown renders src. goldmark drops raw HTML unless configured otherwise, so the result is
// safe to emit unescaped.
func markdown(md goldmark.Markdown, src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// SkillLevels maps skill keys to their percentage.
func (c *Content) SkillLevels() map[string]int {
	out := make(map[string]int, len(c.Skills))
	for _, s := range c.Skills {
		out[s.Key] = s.Value
	}
	return out
}

// SkillBars returns the skills shown as progress bars, in document order.
func (c *Content) SkillBars() []Skill {
	var out []Skill
	for _, s := range c.Skills {
		if s.Bar {
			out = append(out, s)
		}
	}
	return out
}

// Link looks up an outbound link by name.
func (c *Content) Link(name string) (Link, bool) {
	l, ok := c.links[name]
	return l, ok
}
