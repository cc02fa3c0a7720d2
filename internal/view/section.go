package view

// Section is one of the mutually exclusive content views.
type Section int

const (
	SectionHome Section = iota
	SectionAbout
	SectionSkills
	SectionProjects
	SectionArticles
	SectionExperience
	SectionContact
)

var sectionIDs = [...]string{
	SectionHome:       "home",
	SectionAbout:      "about",
	SectionSkills:     "skills",
	SectionProjects:   "projects",
	SectionArticles:   "articles",
	SectionExperience: "experience",
	SectionContact:    "contact",
}

var sectionLabels = [...]string{
	SectionHome:       "Home",
	SectionAbout:      "About",
	SectionSkills:     "Skills",
	SectionProjects:   "Projects",
	SectionArticles:   "Articles",
	SectionExperience: "Experience",
	SectionContact:    "Contact",
}

// Sections lists every section in navigation order.
func Sections() []Section {
	out := make([]Section, len(sectionIDs))
	for i := range sectionIDs {
		out[i] = Section(i)
	}
	return out
}

// ParseSection maps an identifier such as "skills" to its Section.
func ParseSection(id string) (Section, bool) {
	for i, s := range sectionIDs {
		if s == id {
			return Section(i), true
		}
	}
	return 0, false
}

// Valid reports whether s is one of the seven sections.
func (s Section) Valid() bool {
	return s >= SectionHome && int(s) < len(sectionIDs)
}

// String returns the identifier used in URLs.
func (s Section) String() string {
	if !s.Valid() {
		return ""
	}
	return sectionIDs[s]
}

// Label is the navigation text.
func (s Section) Label() string {
	if !s.Valid() {
		return ""
	}
	return sectionLabels[s]
}
