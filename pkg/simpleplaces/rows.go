package simpleplaces

import (
	"time"

	"github.com/google/uuid"
	"github.com/tendant/simple-places/pkg/simpleplaces/tenant"
)

// Relational records as read from and written to storage. Nullable columns
// are pointers.

// PostRecord is one row of place_post.
type PostRecord struct {
	ID             uuid.UUID
	TenantID       tenant.ID
	Slug           string
	Website        *string
	WebsiteLabel   *string
	Instagram      *string
	InstagramLabel *string
	Email          *string
	Phone          *string
	Address        *string
	PhotoCredit    *string
	BookingURL     *string
	BookingPolicy  *string
	FunFact        *string
	Hours          *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time
}

// ImageRecord is one row of place_image.
type ImageRecord struct {
	URL      string
	Position int
}

// LocationRecord is one row of place_location.
type LocationRecord struct {
	ID             uuid.UUID
	Position       int
	Name           *string
	Website        *string
	WebsiteLabel   *string
	Instagram      *string
	InstagramLabel *string
	Email          *string
	Phone          *string
	Address        *string
	PhotoCredit    *string
	BookingURL     *string
	BookingPolicy  *string
	FunFact        *string
	Hours          *string
}

// TranslationRecord is one row of place_translation.
type TranslationRecord struct {
	Lang        string
	Name        *string
	Subtitle    *string
	Description []string
	Info        *string
	Category    *string
}

// CategoryRecord is one row of place_category.
type CategoryRecord struct {
	ID       uuid.UUID
	TenantID tenant.ID
	Slug     string
	LabelES  *string
	LabelEN  *string
}

// CategoryLinkRecord is a place_post_category row joined with its category.
type CategoryLinkRecord struct {
	Category CategoryRecord
}

// JoinedRow is a post with all of its one-to-many relations.
type JoinedRow struct {
	Post          PostRecord
	Images        []ImageRecord
	Locations     []LocationRecord
	Translations  []TranslationRecord
	CategoryLinks []CategoryLinkRecord
}
