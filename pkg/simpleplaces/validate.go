package simpleplaces

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"
)

// TrashedSuffix marks posts moved to the trash by the legacy editor.
const TrashedSuffix = "__trashed"

var (
	slugPattern  = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	phonePattern = regexp.MustCompile(`^tel:\+?[0-9]+$`)
)

// Issue is one validation finding.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidationResult is the outcome of Validate. Warnings are completeness and
// link-format hints and never affect OK.
type ValidationResult struct {
	OK       bool    `json:"ok"`
	Issues   []Issue `json:"issues"`
	Warnings []Issue `json:"warnings"`
}

// ValidSlug accepts "cafe-central", "__trashed" and "cafe-central__trashed".
func ValidSlug(slug string) bool {
	if slug == TrashedSuffix {
		return true
	}
	return slugPattern.MatchString(strings.TrimSuffix(slug, TrashedSuffix))
}

// ValidPhone accepts "" (no phone) and tel: followed by an optional plus and
// digits.
func ValidPhone(phone string) bool {
	return phone == "" || phonePattern.MatchString(phone)
}

// Validate checks a normalized post. Every violation is reported; content
// fields are never required.
func Validate(p Post) ValidationResult {
	v := &validator{issues: []Issue{}, warnings: []Issue{}}

	switch {
	case p.Slug == "":
		v.issue("slug", "slug is required")
	case !ValidSlug(p.Slug):
		v.issue("slug", "slug must be lowercase letters and digits separated by single hyphens")
	}

	for _, lang := range Languages {
		c, ok := p.Content[lang]
		if !ok {
			continue
		}
		prefix := "content." + string(lang)
		for i, para := range c.Description {
			if strings.TrimSpace(para) == "" {
				v.issue(fmt.Sprintf("%s.description.%d", prefix, i), "paragraph must not be empty")
			}
		}
		if c.Name == "" {
			v.warn(prefix+".name", "name is empty")
		}
		if len(c.Description) == 0 {
			v.warn(prefix+".description", "description is empty")
		}
	}
	for _, lang := range unsupportedLanguages(p.Content) {
		v.issue("content."+string(lang), "unsupported language")
	}

	v.contact("contact", p.Contact)

	seen := make(map[string]int, len(p.Media))
	for i, m := range p.Media {
		path := fmt.Sprintf("media.%d", i)
		if strings.TrimSpace(m) == "" {
			v.issue(path, "media entry must not be empty")
			continue
		}
		if first, dup := seen[m]; dup {
			v.issue(path, fmt.Sprintf("duplicate of media.%d", first))
			continue
		}
		seen[m] = i
	}

	for i, c := range p.Categories {
		if strings.TrimSpace(c) == "" {
			v.issue(fmt.Sprintf("categories.%d", i), "category must not be empty")
		}
	}

	for i, loc := range p.Locations {
		v.contact(fmt.Sprintf("locations.%d", i), loc.ContactBlock)
	}

	return ValidationResult{
		OK:       len(v.issues) == 0,
		Issues:   v.issues,
		Warnings: v.warnings,
	}
}

type validator struct {
	issues   []Issue
	warnings []Issue
}

func (v *validator) issue(path, msg string) {
	v.issues = append(v.issues, Issue{Path: path, Message: msg})
}

func (v *validator) warn(path, msg string) {
	v.warnings = append(v.warnings, Issue{Path: path, Message: msg})
}

func (v *validator) contact(prefix string, c ContactBlock) {
	if !ValidPhone(c.Phone) {
		v.issue(prefix+".phone", "phone must be tel: followed by digits, e.g. tel:+56912345678")
	}
	// Link format is advisory.
	if c.Website != "" && !validWebURL(c.Website) {
		v.warn(prefix+".website", "website is not an absolute http(s) URL")
	}
	if c.ReservationLink != "" && !validWebURL(c.ReservationLink) {
		v.warn(prefix+".reservation_link", "reservation link is not an absolute http(s) URL")
	}
}

func validWebURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func unsupportedLanguages(content map[Language]LocalizedContent) []Language {
	var out []Language
	for lang := range content {
		if !supported(lang) {
			out = append(out, lang)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func supported(lang Language) bool {
	for _, l := range Languages {
		if l == lang {
			return true
		}
	}
	return false
}
