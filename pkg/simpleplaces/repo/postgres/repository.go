package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/simple-places/pkg/simpleplaces"
	"github.com/tendant/simple-places/pkg/simpleplaces/tenant"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
	Begin(context.Context) (pgx.Tx, error)
}

// Repository implements simpleplaces.Repository using PostgreSQL
type Repository struct {
	db DBTX
}

var _ simpleplaces.Repository = (*Repository)(nil)

// New creates a new PostgreSQL repository
func New(db DBTX) *Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

// Error handling helper
func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			if pgErr.ConstraintName == "place_post_tenant_slug_key" {
				return simpleplaces.ErrPostExists
			}
			return fmt.Errorf("duplicate entry")
		case "23503": // foreign_key_violation
			return fmt.Errorf("referenced record not found")
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}

func (r *Repository) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

const contactColumns = `website, website_label, instagram, instagram_label, email, phone,
	address, photo_credit, booking_url, booking_policy, fun_fact, hours`

// Post operations

func (r *Repository) SavePost(ctx context.Context, row *simpleplaces.JoinedRow) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		p := &row.Post
		query := `
		INSERT INTO place_post (
			id, tenant_id, slug, ` + contactColumns + `, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (tenant_id, slug) DO UPDATE SET
			website = EXCLUDED.website,
			website_label = EXCLUDED.website_label,
			instagram = EXCLUDED.instagram,
			instagram_label = EXCLUDED.instagram_label,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			address = EXCLUDED.address,
			photo_credit = EXCLUDED.photo_credit,
			booking_url = EXCLUDED.booking_url,
			booking_policy = EXCLUDED.booking_policy,
			fun_fact = EXCLUDED.fun_fact,
			hours = EXCLUDED.hours,
			updated_at = EXCLUDED.updated_at,
			deleted_at = NULL
		RETURNING id, created_at`

		err := tx.QueryRow(ctx, query,
			p.ID, string(p.TenantID), p.Slug,
			p.Website, p.WebsiteLabel, p.Instagram, p.InstagramLabel, p.Email, p.Phone,
			p.Address, p.PhotoCredit, p.BookingURL, p.BookingPolicy, p.FunFact, p.Hours,
			p.CreatedAt, p.UpdatedAt,
		).Scan(&p.ID, &p.CreatedAt)
		if err != nil {
			return r.handlePostgresError("save post", err)
		}

		for _, table := range []string{"place_image", "place_location", "place_translation", "place_post_category"} {
			if _, err := tx.Exec(ctx, `DELETE FROM `+table+` WHERE post_id = $1`, p.ID); err != nil {
				return r.handlePostgresError("clear "+table, err)
			}
		}

		for _, img := range row.Images {
			if _, err := tx.Exec(ctx,
				`INSERT INTO place_image (post_id, position, url) VALUES ($1, $2, $3)`,
				p.ID, img.Position, img.URL); err != nil {
				return r.handlePostgresError("insert image", err)
			}
		}

		for _, l := range row.Locations {
			if _, err := tx.Exec(ctx, `
				INSERT INTO place_location (
					id, post_id, position, name, `+contactColumns+`
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
				l.ID, p.ID, l.Position, l.Name,
				l.Website, l.WebsiteLabel, l.Instagram, l.InstagramLabel, l.Email, l.Phone,
				l.Address, l.PhotoCredit, l.BookingURL, l.BookingPolicy, l.FunFact, l.Hours,
			); err != nil {
				return r.handlePostgresError("insert location", err)
			}
		}

		for _, tr := range row.Translations {
			if _, err := tx.Exec(ctx, `
				INSERT INTO place_translation (post_id, lang, name, subtitle, description, info, category)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				p.ID, tr.Lang, tr.Name, tr.Subtitle, nonNil(tr.Description), tr.Info, tr.Category,
			); err != nil {
				return r.handlePostgresError("insert translation", err)
			}
		}

		for i := range row.CategoryLinks {
			c := &row.CategoryLinks[i].Category
			// The no-op update makes RETURNING yield the stored row on conflict.
			err := tx.QueryRow(ctx, `
				INSERT INTO place_category (id, tenant_id, slug, label_es, label_en)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT (tenant_id, slug) DO UPDATE SET slug = EXCLUDED.slug
				RETURNING id, label_es, label_en`,
				c.ID, string(p.TenantID), c.Slug, c.LabelES, c.LabelEN,
			).Scan(&c.ID, &c.LabelES, &c.LabelEN)
			if err != nil {
				return r.handlePostgresError("upsert category", err)
			}
			c.TenantID = p.TenantID

			if _, err := tx.Exec(ctx, `
				INSERT INTO place_post_category (post_id, category_id, position)
				VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
				p.ID, c.ID, i); err != nil {
				return r.handlePostgresError("link category", err)
			}
		}
		return nil
	})
}

func (r *Repository) GetPost(ctx context.Context, tenantID tenant.ID, slug string) (*simpleplaces.JoinedRow, error) {
	query := `
		SELECT id, tenant_id, slug, ` + contactColumns + `, created_at, updated_at, deleted_at
		FROM place_post WHERE tenant_id = $1 AND slug = $2 AND deleted_at IS NULL`

	row, err := scanPost(r.db.QueryRow(ctx, query, string(tenantID), slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, simpleplaces.ErrPostNotFound
		}
		return nil, r.handlePostgresError("get post", err)
	}
	if err := r.loadRelations(ctx, row); err != nil {
		return nil, err
	}
	return row, nil
}

func (r *Repository) ListPosts(ctx context.Context, tenantID tenant.ID) ([]*simpleplaces.JoinedRow, error) {
	query := `
		SELECT id, tenant_id, slug, ` + contactColumns + `, created_at, updated_at, deleted_at
		FROM place_post WHERE tenant_id = $1 AND deleted_at IS NULL
		ORDER BY slug`

	rows, err := r.db.Query(ctx, query, string(tenantID))
	if err != nil {
		return nil, r.handlePostgresError("list posts", err)
	}
	var out []*simpleplaces.JoinedRow
	for rows.Next() {
		row, err := scanPost(rows)
		if err != nil {
			rows.Close()
			return nil, r.handlePostgresError("list posts", err)
		}
		out = append(out, row)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, r.handlePostgresError("list posts", err)
	}

	for _, row := range out {
		if err := r.loadRelations(ctx, row); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *Repository) RenamePost(ctx context.Context, tenantID tenant.ID, from, to string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE place_post SET slug = $3, updated_at = NOW()
		WHERE tenant_id = $1 AND slug = $2 AND deleted_at IS NULL`,
		string(tenantID), from, to)
	if err != nil {
		return r.handlePostgresError("rename post", err)
	}
	if tag.RowsAffected() == 0 {
		return simpleplaces.ErrPostNotFound
	}
	return nil
}

func scanPost(row pgx.Row) (*simpleplaces.JoinedRow, error) {
	var (
		out      simpleplaces.JoinedRow
		p        = &out.Post
		tenantID string
	)
	err := row.Scan(
		&p.ID, &tenantID, &p.Slug,
		&p.Website, &p.WebsiteLabel, &p.Instagram, &p.InstagramLabel, &p.Email, &p.Phone,
		&p.Address, &p.PhotoCredit, &p.BookingURL, &p.BookingPolicy, &p.FunFact, &p.Hours,
		&p.CreatedAt, &p.UpdatedAt, &p.DeletedAt)
	if err != nil {
		return nil, err
	}
	p.TenantID = tenant.ID(tenantID)
	return &out, nil
}

func (r *Repository) loadRelations(ctx context.Context, row *simpleplaces.JoinedRow) error {
	id := row.Post.ID

	images, err := r.db.Query(ctx, `SELECT url, position FROM place_image WHERE post_id = $1 ORDER BY position`, id)
	if err != nil {
		return r.handlePostgresError("load images", err)
	}
	row.Images, err = pgx.CollectRows(images, func(rs pgx.CollectableRow) (simpleplaces.ImageRecord, error) {
		var img simpleplaces.ImageRecord
		err := rs.Scan(&img.URL, &img.Position)
		return img, err
	})
	if err != nil {
		return r.handlePostgresError("load images", err)
	}

	locations, err := r.db.Query(ctx, `
		SELECT id, position, name, `+contactColumns+`
		FROM place_location WHERE post_id = $1 ORDER BY position`, id)
	if err != nil {
		return r.handlePostgresError("load locations", err)
	}
	row.Locations, err = pgx.CollectRows(locations, func(rs pgx.CollectableRow) (simpleplaces.LocationRecord, error) {
		var l simpleplaces.LocationRecord
		err := rs.Scan(&l.ID, &l.Position, &l.Name,
			&l.Website, &l.WebsiteLabel, &l.Instagram, &l.InstagramLabel, &l.Email, &l.Phone,
			&l.Address, &l.PhotoCredit, &l.BookingURL, &l.BookingPolicy, &l.FunFact, &l.Hours)
		return l, err
	})
	if err != nil {
		return r.handlePostgresError("load locations", err)
	}

	translations, err := r.db.Query(ctx, `
		SELECT lang, name, subtitle, description, info, category
		FROM place_translation WHERE post_id = $1 ORDER BY lang`, id)
	if err != nil {
		return r.handlePostgresError("load translations", err)
	}
	row.Translations, err = pgx.CollectRows(translations, func(rs pgx.CollectableRow) (simpleplaces.TranslationRecord, error) {
		var tr simpleplaces.TranslationRecord
		err := rs.Scan(&tr.Lang, &tr.Name, &tr.Subtitle, &tr.Description, &tr.Info, &tr.Category)
		return tr, err
	})
	if err != nil {
		return r.handlePostgresError("load translations", err)
	}

	links, err := r.db.Query(ctx, `
		SELECT c.id, c.tenant_id, c.slug, c.label_es, c.label_en
		FROM place_post_category pc JOIN place_category c ON c.id = pc.category_id
		WHERE pc.post_id = $1 ORDER BY pc.position`, id)
	if err != nil {
		return r.handlePostgresError("load categories", err)
	}
	row.CategoryLinks, err = pgx.CollectRows(links, func(rs pgx.CollectableRow) (simpleplaces.CategoryLinkRecord, error) {
		var (
			c        simpleplaces.CategoryRecord
			tenantID string
		)
		err := rs.Scan(&c.ID, &tenantID, &c.Slug, &c.LabelES, &c.LabelEN)
		c.TenantID = tenant.ID(tenantID)
		return simpleplaces.CategoryLinkRecord{Category: c}, err
	})
	if err != nil {
		return r.handlePostgresError("load categories", err)
	}
	return nil
}

// Media order operations

func (r *Repository) GetMediaOrder(ctx context.Context, tenantID tenant.ID, set, key string) (*simpleplaces.MediaOrderSpec, error) {
	spec := simpleplaces.MediaOrderSpec{Set: set, Key: key}
	err := r.db.QueryRow(ctx, `
		SELECT entries, updated_at FROM media_order
		WHERE tenant_id = $1 AND set_name = $2 AND order_key = $3`,
		string(tenantID), set, key,
	).Scan(&spec.Order, &spec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, simpleplaces.ErrMediaOrderNotFound
		}
		return nil, r.handlePostgresError("get media order", err)
	}
	return &spec, nil
}

func (r *Repository) SetMediaOrder(ctx context.Context, tenantID tenant.ID, spec *simpleplaces.MediaOrderSpec) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO media_order (tenant_id, set_name, order_key, entries, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (tenant_id, set_name, order_key) DO UPDATE SET
			entries = EXCLUDED.entries,
			updated_at = EXCLUDED.updated_at`,
		string(tenantID), spec.Set, spec.Key, nonNil(spec.Order), spec.UpdatedAt)
	if err != nil {
		return r.handlePostgresError("set media order", err)
	}
	return nil
}

// Slider operations

func (r *Repository) ListSlider(ctx context.Context, tenantID tenant.ID, name string) ([]simpleplaces.SliderItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, image_url, href, position, active, language
		FROM slider_item WHERE tenant_id = $1 AND slider_name = $2
		ORDER BY position`, string(tenantID), name)
	if err != nil {
		return nil, r.handlePostgresError("list slider", err)
	}
	items, err := pgx.CollectRows(rows, func(rs pgx.CollectableRow) (simpleplaces.SliderItem, error) {
		var (
			item simpleplaces.SliderItem
			lang string
		)
		err := rs.Scan(&item.ID, &item.ImageURL, &item.Href, &item.Position, &item.Active, &lang)
		item.Language = simpleplaces.Language(lang)
		return item, err
	})
	if err != nil {
		return nil, r.handlePostgresError("list slider", err)
	}
	return items, nil
}

func (r *Repository) ReplaceSlider(ctx context.Context, tenantID tenant.ID, name string, items []simpleplaces.SliderItem) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM slider_item WHERE tenant_id = $1 AND slider_name = $2`,
			string(tenantID), name); err != nil {
			return r.handlePostgresError("clear slider", err)
		}
		for _, item := range items {
			id := item.ID
			if id == uuid.Nil {
				id = uuid.New()
			}
			if _, err := tx.Exec(ctx, `
				INSERT INTO slider_item (id, tenant_id, slider_name, image_url, href, position, active, language)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				id, string(tenantID), name, item.ImageURL, item.Href, item.Position, item.Active, string(item.Language),
			); err != nil {
				return r.handlePostgresError("insert slider item", err)
			}
		}
		return nil
	})
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
