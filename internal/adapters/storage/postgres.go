package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/mailmint/inbound/internal/core"
	"github.com/mailmint/inbound/internal/utils"
)

// PostgresStore persists processed emails, vendors, and extracted documents
// to Postgres. It implements core.EmailStore.
type PostgresStore struct {
	pool        *pgxpool.Pool
	maxBodySize int
	logger      *zap.Logger
}

// NewPostgresStore connects to Postgres and verifies the connection.
func NewPostgresStore(ctx context.Context, host, port, user, password, dbname string, maxBodySize int, logger *zap.Logger) (*PostgresStore, error) {
	connString := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		user, password, host, port, dbname)

	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return &PostgresStore{pool: pool, maxBodySize: maxBodySize, logger: logger}, nil
}

// SaveResult stores the email record, upserts the vendor keyed by domain, and
// inserts the extracted document when present, all in one transaction.
// Message-id uniqueness is enforced here via ON CONFLICT DO NOTHING; replayed
// deliveries are silently absorbed.
func (s *PostgresStore) SaveResult(ctx context.Context, email *core.ProcessedEmail, result *core.ClassificationResult) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	to := make([]string, len(email.To))
	for i, r := range email.To {
		to[i] = r.Email
	}

	// A zero ReceivedAt means the provider date failed to parse; store NULL.
	var receivedAt *time.Time
	if !email.ReceivedAt.IsZero() {
		receivedAt = &email.ReceivedAt
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO emails
		   (message_id, from_address, from_name, to_addresses, subject, received_at,
		    body_text, body_html, tag, mailbox_hash,
		    classification, confidence, should_process, attachment_count)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 ON CONFLICT (message_id) DO NOTHING`,
		email.MessageID,
		email.From.Email,
		email.From.Name,
		to,
		email.Subject,
		receivedAt,
		utils.SanitizeUTF8(utils.Truncate(email.Content.Text, s.maxBodySize)),
		utils.SanitizeUTF8(utils.Truncate(email.Content.HTML, s.maxBodySize)),
		email.Tag,
		email.MailboxHash,
		string(result.Classification),
		result.Confidence,
		result.ShouldProcess,
		len(email.Attachments),
	)
	if err != nil {
		return fmt.Errorf("failed to insert email: %w", err)
	}

	if result.Extracted != nil {
		var vendorID int64
		err = tx.QueryRow(ctx,
			`INSERT INTO vendors (domain, name, email)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (domain) DO UPDATE SET
			     name = COALESCE(NULLIF(EXCLUDED.name, ''), vendors.name),
			     email = EXCLUDED.email
			 RETURNING id`,
			result.Extracted.Vendor.Domain,
			result.Extracted.Vendor.Name,
			result.Extracted.Vendor.Email,
		).Scan(&vendorID)
		if err != nil {
			return fmt.Errorf("failed to upsert vendor: %w", err)
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO documents (email_message_id, vendor_id, type, amount, currency)
			 VALUES ($1, $2, $3, $4, $5)`,
			email.MessageID,
			vendorID,
			string(result.Extracted.Type),
			result.Extracted.Amount,
			result.Extracted.Currency,
		)
		if err != nil {
			return fmt.Errorf("failed to insert document: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Debug("persisted inbound email",
		zap.String("message_id", email.MessageID),
		zap.String("classification", string(result.Classification)))
	return nil
}

// Close closes the connection pool
func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}
