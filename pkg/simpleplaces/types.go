package simpleplaces

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Language is a supported content language.
type Language string

const (
	LangES Language = "es"
	LangEN Language = "en"
)

// Languages lists the supported languages in canonical order. Every Post
// carries one LocalizedContent block per entry.
var Languages = []Language{LangES, LangEN}

// ParseLanguage converts an untrusted language code.
func ParseLanguage(s string) (Language, bool) {
	l := Language(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Languages {
		if l == known {
			return l, true
		}
	}
	return "", false
}

// CategorySource tells which representation produced Post.Categories.
type CategorySource string

const (
	// CategoryFromLink is the relational taxonomy.
	CategoryFromLink CategorySource = "link"
	// CategoryFromLegacyText is the free-text category of each language
	// block. It is a migration shim used only when a post has no links.
	CategoryFromLegacyText CategorySource = "legacy_text"
)

// LocalizedContent is the per-language part of a post. Every field is
// optional.
type LocalizedContent struct {
	Name        string   `json:"name"`
	Subtitle    string   `json:"subtitle"`
	Description []string `json:"description"`
	Info        string   `json:"info,omitempty"`
	Category    string   `json:"category,omitempty"`
}

// ContactBlock holds the contact fields of a post or of one branch.
// An empty string means the field is absent.
type ContactBlock struct {
	Website           string `json:"website,omitempty"`
	WebsiteLabel      string `json:"website_label,omitempty"`
	Social            string `json:"social,omitempty"`
	SocialLabel       string `json:"social_label,omitempty"`
	Email             string `json:"email,omitempty"`
	Phone             string `json:"phone,omitempty"`
	Address           string `json:"address,omitempty"`
	PhotoCredit       string `json:"photo_credit,omitempty"`
	ReservationLink   string `json:"reservation_link,omitempty"`
	ReservationPolicy string `json:"reservation_policy,omitempty"`
	InterestingFact   string `json:"interesting_fact,omitempty"`
	Hours             string `json:"hours,omitempty"`
}

// LocationOverride is the contact information of one branch.
type LocationOverride struct {
	Name string `json:"name,omitempty"`
	ContactBlock
}

// Post is the canonical content document.
type Post struct {
	Slug           string                        `json:"slug"`
	Content        map[Language]LocalizedContent `json:"content"`
	Contact        ContactBlock                  `json:"contact"`
	Media          []string                      `json:"media"`
	Categories     []string                      `json:"categories"`
	CategorySource CategorySource                `json:"category_source,omitempty"`
	Locations      []LocationOverride            `json:"locations"`
}

// Localized returns the block for lang, or an empty block.
func (p *Post) Localized(lang Language) LocalizedContent {
	if c, ok := p.Content[lang]; ok {
		return c
	}
	return emptyLocalized()
}

// MediaOrderSpec is an operator-curated ordering for one named media set,
// scoped by a language or device key. It need not list every file.
type MediaOrderSpec struct {
	Set       string    `json:"set"`
	Key       string    `json:"key"`
	Order     []string  `json:"order"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SliderItem is one entry of a tenant-scoped, named slider.
type SliderItem struct {
	ID       uuid.UUID `json:"id"`
	ImageURL string    `json:"image_url"`
	Href     string    `json:"href,omitempty"`
	Position int       `json:"position"`
	Active   bool      `json:"active"`
	Language Language  `json:"language,omitempty"`
}

func emptyLocalized() LocalizedContent {
	return LocalizedContent{Description: []string{}}
}
