package content

import (
	"strings"
	"testing"
)

func TestDefaultContent(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if c.Profile.Name != "Vrushali Kudande" {
		t.Fatalf("name = %q", c.Profile.Name)
	}

	levels := c.SkillLevels()
	want := map[string]int{
		"kubernetes": 85, "docker": 92, "terraform": 88, "aws": 90,
		"gcp": 88, "ansible": 94, "puppet": 85, "bash": 90,
	}
	if len(levels) != len(want) {
		t.Fatalf("got %d skills, want %d", len(levels), len(want))
	}
	for k, v := range want {
		if levels[k] != v {
			t.Errorf("skill %s = %d, want %d", k, levels[k], v)
		}
	}
	if bars := c.SkillBars(); len(bars) != 6 || bars[0].Key != "docker" {
		t.Fatalf("unexpected skill bars: %+v", bars)
	}

	for _, name := range []string{"github", "linkedin", "upwork", "resume", "blog"} {
		l, ok := c.Link(name)
		if !ok || !strings.HasPrefix(l.URL, "https://") {
			t.Errorf("link %q missing or not https: %+v", name, l)
		}
	}
	if _, ok := c.Link("myspace"); ok {
		t.Error("unknown link resolved")
	}
	if len(c.Projects) != 5 || len(c.Experience) != 2 {
		t.Fatalf("projects=%d experience=%d", len(c.Projects), len(c.Experience))
	}
}

func TestMarkdownRendered(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if !strings.Contains(string(c.Profile.TaglineHTML), "<strong>infrastructure automation</strong>") {
		t.Fatalf("tagline not rendered: %s", c.Profile.TaglineHTML)
	}
	if len(c.About.ParagraphsHTML) != len(c.About.Paragraphs) {
		t.Fatal("about paragraphs not rendered")
	}
}

func TestParseRejectsRawHTML(t *testing.T) {
	c, err := Parse([]byte(`
profile:
  name: Test
  tagline: "<script>alert(1)</script> hello"
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if strings.Contains(string(c.Profile.TaglineHTML), "<script>") {
		t.Fatalf("raw html leaked: %s", c.Profile.TaglineHTML)
	}
}

func TestParseValidation(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"bad yaml", "profile: [", "decode content"},
		{"no name", "profile: {role: x}", "profile name"},
		{"skill range", "profile: {name: a}\nskills: [{key: go, value: 101}]", "outside 0-100"},
		{"negative skill", "profile: {name: a}\nskills: [{key: go, value: -1}]", "outside 0-100"},
		{"duplicate skill", "profile: {name: a}\nskills: [{key: go, value: 1}, {key: go, value: 2}]", "duplicate skill"},
		{"link without url", "profile: {name: a}\nlinks: [{name: gh}]", "needs a name and url"},
		{"dangling featured", "profile: {name: a}\nfeatured: [{title: x, link: nope}]", "unknown link"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}
