package simpleplaces

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Submission is a raw editorial submission as decoded from JSON or YAML.
// Shapes are not trusted: a field holding the wrong type is treated as empty.
type Submission map[string]any

var (
	schemePattern     = regexp.MustCompile(`(?i)^([a-z][a-z0-9+.\-]*://|mailto:|tel:)`)
	bareDomainPattern = regexp.MustCompile(`(?i)^([a-z0-9]([a-z0-9\-]*[a-z0-9])?\.)+[a-z]{2,}(:[0-9]+)?(/\S*)?$`)
)

// DecodeSubmission decodes a JSON document into a Submission. It fails only
// when data is not a JSON object.
func DecodeSubmission(data []byte) (Submission, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSubmission, err)
	}
	return SubmissionFrom(raw)
}

// SubmissionFrom accepts an already decoded document, such as YAML decoded
// into any, when it is an object.
func SubmissionFrom(raw any) (Submission, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, ErrMalformedSubmission
	}
	return Submission(obj), nil
}

// NormalizeJSON decodes data and normalizes it. It fails only when data is
// not a JSON object.
func NormalizeJSON(data []byte) (Post, error) {
	sub, err := DecodeSubmission(data)
	if err != nil {
		return Post{}, err
	}
	return Normalize(sub), nil
}

// Normalize rewrites a raw submission into canonical form.
func Normalize(s Submission) Post {
	return NormalizePost(decodeSubmission(s))
}

// NormalizePost canonicalizes an already typed post. It is idempotent.
func NormalizePost(p Post) Post {
	out := Post{
		Slug:           strings.TrimSpace(p.Slug),
		Content:        make(map[Language]LocalizedContent, len(Languages)),
		Contact:        normalizeContact(p.Contact),
		Media:          dedupeNonEmpty(p.Media),
		Categories:     dedupeNonEmpty(p.Categories),
		CategorySource: p.CategorySource,
		Locations:      make([]LocationOverride, 0, len(p.Locations)),
	}
	for _, lang := range Languages {
		out.Content[lang] = normalizeLocalized(p.Content[lang])
	}
	for _, loc := range p.Locations {
		out.Locations = append(out.Locations, LocationOverride{
			Name:         strings.TrimSpace(loc.Name),
			ContactBlock: normalizeContact(loc.ContactBlock),
		})
	}
	return out
}

func normalizeLocalized(c LocalizedContent) LocalizedContent {
	return LocalizedContent{
		Name:        strings.TrimSpace(c.Name),
		Subtitle:    strings.TrimSpace(c.Subtitle),
		Description: nonEmpty(c.Description),
		Info:        strings.TrimSpace(c.Info),
		Category:    strings.TrimSpace(c.Category),
	}
}

func normalizeContact(c ContactBlock) ContactBlock {
	return ContactBlock{
		Website:           NormalizeURL(c.Website),
		WebsiteLabel:      strings.TrimSpace(c.WebsiteLabel),
		Social:            strings.TrimSpace(c.Social),
		SocialLabel:       strings.TrimSpace(c.SocialLabel),
		Email:             strings.TrimSpace(c.Email),
		Phone:             NormalizePhone(c.Phone),
		Address:           strings.TrimSpace(c.Address),
		PhotoCredit:       strings.TrimSpace(c.PhotoCredit),
		ReservationLink:   NormalizeURL(c.ReservationLink),
		ReservationPolicy: strings.TrimSpace(c.ReservationPolicy),
		InterestingFact:   strings.TrimSpace(c.InterestingFact),
		Hours:             strings.TrimSpace(c.Hours),
	}
}

// NormalizeURL prefixes bare domains such as "example.com/menu" with
// https://. Values that already carry a scheme, and values that look like
// neither, are returned trimmed but otherwise unchanged.
func NormalizeURL(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || schemePattern.MatchString(s) {
		return s
	}
	if bareDomainPattern.MatchString(s) {
		return "https://" + s
	}
	return s
}

// NormalizePhone rewrites a phone number as tel: followed by digits, keeping
// a plus sign only when it precedes every digit. "+56 9 1234 5678" becomes
// "tel:+56912345678". Blank input yields "".
//
// Input without digits still yields "tel:" so that validation reports it.
func NormalizePhone(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if len(s) >= 4 && strings.EqualFold(s[:4], "tel:") {
		s = s[4:]
	}

	var b strings.Builder
	b.WriteString("tel:")
	leading := true
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
			leading = false
		case r == '+' && leading:
			b.WriteRune(r)
			leading = false
		}
	}
	return b.String()
}

// dedupeNonEmpty trims entries, drops blanks and keeps the first occurrence
// of each value.
func dedupeNonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Lenient decoding of raw submissions.

type contactField struct {
	keys []string
	set  func(*ContactBlock, string)
}

// contactFields maps accepted submission keys, snake_case first, onto
// ContactBlock fields.
var contactFields = []contactField{
	{[]string{"website", "web"}, func(c *ContactBlock, v string) { c.Website = v }},
	{[]string{"website_label", "websiteLabel", "website_text"}, func(c *ContactBlock, v string) { c.WebsiteLabel = v }},
	{[]string{"social", "instagram"}, func(c *ContactBlock, v string) { c.Social = v }},
	{[]string{"social_label", "socialLabel", "instagram_label"}, func(c *ContactBlock, v string) { c.SocialLabel = v }},
	{[]string{"email", "mail"}, func(c *ContactBlock, v string) { c.Email = v }},
	{[]string{"phone", "telephone"}, func(c *ContactBlock, v string) { c.Phone = v }},
	{[]string{"address"}, func(c *ContactBlock, v string) { c.Address = v }},
	{[]string{"photo_credit", "photoCredit"}, func(c *ContactBlock, v string) { c.PhotoCredit = v }},
	{[]string{"reservation_link", "reservationLink", "booking_url"}, func(c *ContactBlock, v string) { c.ReservationLink = v }},
	{[]string{"reservation_policy", "reservationPolicy"}, func(c *ContactBlock, v string) { c.ReservationPolicy = v }},
	{[]string{"interesting_fact", "interestingFact", "fun_fact"}, func(c *ContactBlock, v string) { c.InterestingFact = v }},
	{[]string{"hours", "opening_hours"}, func(c *ContactBlock, v string) { c.Hours = v }},
}

func decodeSubmission(s Submission) Post {
	p := Post{
		Slug:       str(s["slug"]),
		Content:    make(map[Language]LocalizedContent, len(Languages)),
		Media:      strList(s["media"]),
		Categories: strList(s["categories"]),
	}

	nested, _ := s["content"].(map[string]any)
	for _, lang := range Languages {
		block, ok := s[string(lang)].(map[string]any)
		if !ok {
			block, _ = nested[string(lang)].(map[string]any)
		}
		p.Content[lang] = decodeLocalized(block)
	}

	// A nested "contact" object is read first so flat keys can override it.
	if c, ok := s["contact"].(map[string]any); ok {
		decodeContact(c, &p.Contact)
	}
	decodeContact(s, &p.Contact)

	if locs, ok := s["locations"].([]any); ok {
		for _, l := range locs {
			m, ok := l.(map[string]any)
			if !ok {
				continue
			}
			loc := LocationOverride{Name: str(m["name"])}
			decodeContact(m, &loc.ContactBlock)
			p.Locations = append(p.Locations, loc)
		}
	}
	return p
}

func decodeLocalized(m map[string]any) LocalizedContent {
	if m == nil {
		return emptyLocalized()
	}
	return LocalizedContent{
		Name:        str(m["name"]),
		Subtitle:    str(m["subtitle"]),
		Description: strList(m["description"]),
		Info:        firstString(m, "info", "freeform_info", "freeformInfo"),
		Category:    str(m["category"]),
	}
}

func decodeContact(m map[string]any, c *ContactBlock) {
	for _, f := range contactFields {
		for _, k := range f.keys {
			if v, ok := m[k].(string); ok {
				f.set(c, v)
				break
			}
		}
	}
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k].(string); ok {
			return v
		}
	}
	return ""
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func strList(v any) []string {
	switch vv := v.(type) {
	case []string:
		return append([]string(nil), vv...)
	case []any:
		out := make([]string, 0, len(vv))
		for _, e := range vv {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
