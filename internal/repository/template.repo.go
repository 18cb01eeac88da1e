package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"otp-delivery-service/internal/domain"
	"otp-delivery-service/pkg/cache"
	"otp-delivery-service/pkg/xerrors"
)

const templateCacheTTL = 10 * time.Minute

// TemplateRepo reads CMS-managed message templates, with a redis
// read-through cache in front of the table.
type TemplateRepo struct {
	db    *pgxpool.Pool
	cache *cache.Cache
}

func NewTemplateRepo(db *pgxpool.Pool, c *cache.Cache) *TemplateRepo {
	return &TemplateRepo{db: db, cache: c}
}

func (r *TemplateRepo) GetByRef(ctx context.Context, refNo string) (*domain.Template, error) {
	if r.cache != nil {
		if raw, err := r.cache.Get(ctx, "tmpl", refNo); err == nil && raw != "" {
			var t domain.Template
			if json.Unmarshal([]byte(raw), &t) == nil {
				return &t, nil
			}
		}
	}

	var t domain.Template
	var subject, senderID *string
	var meta []byte
	err := r.db.QueryRow(ctx, `
		SELECT ref_no, body, subject, sender_id, provider_meta
		FROM message_templates
		WHERE ref_no=$1
	`, refNo).Scan(&t.RefNo, &t.Body, &subject, &senderID, &meta)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrTemplateNotFound
	}
	if err != nil {
		return nil, err
	}
	if subject != nil {
		t.Subject = *subject
	}
	if senderID != nil {
		t.SenderID = *senderID
	}
	if len(meta) > 0 {
		_ = json.Unmarshal(meta, &t.Meta)
	}

	if r.cache != nil {
		if raw, err := json.Marshal(&t); err == nil {
			_ = r.cache.Set(ctx, "tmpl", refNo, raw, templateCacheTTL)
		}
	}
	return &t, nil
}
