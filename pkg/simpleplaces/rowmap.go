package simpleplaces

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/simple-places/internal/textfold"
	"github.com/tendant/simple-places/pkg/simpleplaces/tenant"
	"golang.org/x/exp/slices"
)

// MapRow rebuilds the canonical post from a joined relational row. Missing
// relations yield empty values; both language blocks are always present.
func MapRow(row JoinedRow) Post {
	p := Post{
		Slug:      row.Post.Slug,
		Content:   make(map[Language]LocalizedContent, len(Languages)),
		Contact:   contactFromPostRecord(row.Post),
		Media:     mapImages(row.Images),
		Locations: mapLocations(row.Locations),
	}

	for _, lang := range Languages {
		p.Content[lang] = emptyLocalized()
	}
	seen := make(map[Language]bool, len(Languages))
	for _, tr := range row.Translations {
		lang, ok := ParseLanguage(tr.Lang)
		if !ok || seen[lang] {
			continue
		}
		seen[lang] = true
		p.Content[lang] = LocalizedContent{
			Name:        deref(tr.Name),
			Subtitle:    deref(tr.Subtitle),
			Description: append([]string{}, tr.Description...),
			Info:        deref(tr.Info),
			Category:    deref(tr.Category),
		}
	}

	p.Categories, p.CategorySource = deriveCategories(row.CategoryLinks, p.Content)
	return NormalizePost(p)
}

func mapImages(images []ImageRecord) []string {
	sorted := slices.Clone(images)
	slices.SortStableFunc(sorted, func(a, b ImageRecord) int { return a.Position - b.Position })

	out := make([]string, 0, len(sorted))
	for _, img := range sorted {
		out = append(out, img.URL)
	}
	return out
}

func mapLocations(locations []LocationRecord) []LocationOverride {
	sorted := slices.Clone(locations)
	slices.SortStableFunc(sorted, func(a, b LocationRecord) int { return a.Position - b.Position })

	out := make([]LocationOverride, 0, len(sorted))
	for _, l := range sorted {
		out = append(out, LocationOverride{
			Name: deref(l.Name),
			ContactBlock: ContactBlock{
				Website:           deref(l.Website),
				WebsiteLabel:      deref(l.WebsiteLabel),
				Social:            deref(l.Instagram),
				SocialLabel:       deref(l.InstagramLabel),
				Email:             deref(l.Email),
				Phone:             deref(l.Phone),
				Address:           deref(l.Address),
				PhotoCredit:       deref(l.PhotoCredit),
				ReservationLink:   deref(l.BookingURL),
				ReservationPolicy: deref(l.BookingPolicy),
				InterestingFact:   deref(l.FunFact),
				Hours:             deref(l.Hours),
			},
		})
	}
	return out
}

func contactFromPostRecord(r PostRecord) ContactBlock {
	return ContactBlock{
		Website:           deref(r.Website),
		WebsiteLabel:      deref(r.WebsiteLabel),
		Social:            deref(r.Instagram),
		SocialLabel:       deref(r.InstagramLabel),
		Email:             deref(r.Email),
		Phone:             deref(r.Phone),
		Address:           deref(r.Address),
		PhotoCredit:       deref(r.PhotoCredit),
		ReservationLink:   deref(r.BookingURL),
		ReservationPolicy: deref(r.BookingPolicy),
		InterestingFact:   deref(r.FunFact),
		Hours:             deref(r.Hours),
	}
}

// deriveCategories prefers taxonomy links. The free-text category of the
// language blocks predates the taxonomy and is read only when a post has no
// links at all.
func deriveCategories(links []CategoryLinkRecord, content map[Language]LocalizedContent) ([]string, CategorySource) {
	if len(links) > 0 {
		labels := make([]string, 0, len(links))
		for _, l := range links {
			if label := CategoryLabel(l.Category); label != "" {
				labels = append(labels, label)
			}
		}
		return labels, CategoryFromLink
	}

	var legacy []string
	for _, lang := range Languages {
		if c := strings.TrimSpace(content[lang].Category); c != "" {
			legacy = append(legacy, c)
		}
	}
	if len(legacy) == 0 {
		return []string{}, ""
	}
	return legacy, CategoryFromLegacyText
}

// CategoryLabel is the display label of a category: Spanish label, then
// English label, then the slug.
func CategoryLabel(c CategoryRecord) string {
	for _, l := range []*string{c.LabelES, c.LabelEN} {
		if v := strings.TrimSpace(deref(l)); v != "" {
			return v
		}
	}
	return strings.TrimSpace(c.Slug)
}

// RowFromPost is the inverse of MapRow for writes. Positions follow list
// order and each category label becomes a link to the category with the
// matching slug; repositories create missing categories.
func RowFromPost(p Post, id uuid.UUID, tenantID tenant.ID, now time.Time) JoinedRow {
	c := p.Contact
	row := JoinedRow{
		Post: PostRecord{
			ID:             id,
			TenantID:       tenantID,
			Slug:           p.Slug,
			Website:        ptr(c.Website),
			WebsiteLabel:   ptr(c.WebsiteLabel),
			Instagram:      ptr(c.Social),
			InstagramLabel: ptr(c.SocialLabel),
			Email:          ptr(c.Email),
			Phone:          ptr(c.Phone),
			Address:        ptr(c.Address),
			PhotoCredit:    ptr(c.PhotoCredit),
			BookingURL:     ptr(c.ReservationLink),
			BookingPolicy:  ptr(c.ReservationPolicy),
			FunFact:        ptr(c.InterestingFact),
			Hours:          ptr(c.Hours),
			CreatedAt:      now,
			UpdatedAt:      now,
		},
		Images:        make([]ImageRecord, 0, len(p.Media)),
		Locations:     make([]LocationRecord, 0, len(p.Locations)),
		Translations:  make([]TranslationRecord, 0, len(Languages)),
		CategoryLinks: make([]CategoryLinkRecord, 0, len(p.Categories)),
	}

	for i, m := range p.Media {
		row.Images = append(row.Images, ImageRecord{URL: m, Position: i})
	}
	for i, l := range p.Locations {
		row.Locations = append(row.Locations, LocationRecord{
			ID:             uuid.New(),
			Position:       i,
			Name:           ptr(l.Name),
			Website:        ptr(l.Website),
			WebsiteLabel:   ptr(l.WebsiteLabel),
			Instagram:      ptr(l.Social),
			InstagramLabel: ptr(l.SocialLabel),
			Email:          ptr(l.Email),
			Phone:          ptr(l.Phone),
			Address:        ptr(l.Address),
			PhotoCredit:    ptr(l.PhotoCredit),
			BookingURL:     ptr(l.ReservationLink),
			BookingPolicy:  ptr(l.ReservationPolicy),
			FunFact:        ptr(l.InterestingFact),
			Hours:          ptr(l.Hours),
		})
	}
	for _, lang := range Languages {
		lc, ok := p.Content[lang]
		if !ok {
			continue
		}
		row.Translations = append(row.Translations, TranslationRecord{
			Lang:        string(lang),
			Name:        ptr(lc.Name),
			Subtitle:    ptr(lc.Subtitle),
			Description: append([]string{}, lc.Description...),
			Info:        ptr(lc.Info),
			Category:    ptr(lc.Category),
		})
	}
	seen := make(map[string]bool, len(p.Categories))
	for _, label := range p.Categories {
		slug := textfold.Slug(label)
		if slug == "" || seen[slug] {
			continue
		}
		seen[slug] = true
		row.CategoryLinks = append(row.CategoryLinks, CategoryLinkRecord{
			Category: CategoryRecord{
				ID:       uuid.New(),
				TenantID: tenantID,
				Slug:     slug,
				LabelES:  ptr(label),
			},
		})
	}
	return row
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func ptr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
