package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"

	appctx "inventa/internal/core/context"
	"inventa/internal/core/id"
	"inventa/internal/core/tenant"
)

type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionUpdate AuditAction = "update"
	AuditActionDelete AuditAction = "delete"
)

type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// AuditEntry is one row of entity change history. The tenant scope columns
// keep one tenant's history invisible to another. Changes holds the payload
// as stored; for compressed rows it is empty on disk and filled back in
// when read.
type AuditEntry struct {
	ID                id.ID           `db:"id" json:"id"`
	TenantID          string          `db:"tenant_id" json:"tenantId"`
	StageID           string          `db:"stage_id" json:"stageId"`
	EntityType        string          `db:"entity_type" json:"entityType"`
	EntityID          id.ID           `db:"entity_id" json:"entityId"`
	Action            AuditAction     `db:"action" json:"action"`
	Caller            string          `db:"caller" json:"caller,omitempty"`
	Changes           json.RawMessage `db:"changes" json:"changes,omitempty"`
	ChangesCompressed []byte          `db:"changes_compressed" json:"-"`
	CompressionAlgo   CompressionAlgo `db:"compression_algo" json:"-"`
	CreatedAt         time.Time       `db:"created_at" json:"createdAt"`
}

// compressOver is the payload size past which change JSON is stored
// zstd-compressed.
const compressOver = 10 * 1024

// AuditService writes and reads the audit_log table. It goes through the
// transaction manager, so entries written inside a business transaction
// commit or roll back together with it.
type AuditService struct {
	txManager *TxManager
	encoder   *zstd.Encoder
	decoder   *zstd.Decoder
}

func NewAuditService(txManager *TxManager) (*AuditService, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	return &AuditService{txManager: txManager, encoder: encoder, decoder: decoder}, nil
}

// Log inserts one entry. Identifier, timestamp, tenant scope and caller are
// filled from the context when the entry does not carry them.
func (s *AuditService) Log(ctx context.Context, entry AuditEntry) error {
	if entry.TenantID == "" {
		tc := tenant.MustFromContext(ctx)
		entry.TenantID = tc.TenantID
		entry.StageID = tc.StageID
	}
	if entry.Caller == "" {
		entry.Caller = appctx.GetCallerSubject(ctx)
	}
	if id.IsNil(entry.ID) {
		entry.ID = id.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	s.pack(&entry)

	const insert = `
		INSERT INTO audit_log (
			id, tenant_id, stage_id, entity_type, entity_id, action, caller,
			changes, changes_compressed, compression_algo, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := s.txManager.GetQuerier(ctx).Exec(ctx, insert,
		entry.ID, entry.TenantID, entry.StageID,
		entry.EntityType, entry.EntityID, entry.Action, entry.Caller,
		entry.Changes, entry.ChangesCompressed, entry.CompressionAlgo,
		entry.CreatedAt,
	)
	return err
}

// LogChange marshals the change map and records it under the given action.
func (s *AuditService) LogChange(
	ctx context.Context,
	entityType string,
	entityID id.ID,
	action AuditAction,
	changes map[string]any,
) error {
	payload, err := json.Marshal(changes)
	if err != nil {
		return fmt.Errorf("marshal changes: %w", err)
	}
	return s.Log(ctx, AuditEntry{
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Changes:    payload,
	})
}

// GetEntityHistory returns the newest entries for one entity within the
// caller's tenant scope, change payloads decompressed.
func (s *AuditService) GetEntityHistory(
	ctx context.Context,
	entityType string,
	entityID id.ID,
	limit int,
) ([]AuditEntry, error) {
	tc := tenant.MustFromContext(ctx)

	const query = `
		SELECT id, tenant_id, stage_id, entity_type, entity_id, action, caller,
		       changes, changes_compressed, compression_algo, created_at
		FROM audit_log
		WHERE tenant_id = $1 AND stage_id = $2 AND entity_type = $3 AND entity_id = $4
		ORDER BY created_at DESC
		LIMIT $5`

	rows, err := s.txManager.GetQuerier(ctx).Query(ctx, query,
		tc.TenantID, tc.StageID, entityType, entityID, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var e AuditEntry
		if err := rows.Scan(
			&e.ID, &e.TenantID, &e.StageID,
			&e.EntityType, &e.EntityID, &e.Action, &e.Caller,
			&e.Changes, &e.ChangesCompressed, &e.CompressionAlgo, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		if err := s.unpack(&e); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// pack moves large change payloads into the compressed column.
func (s *AuditService) pack(entry *AuditEntry) {
	entry.CompressionAlgo = CompressionNone
	if len(entry.Changes) > compressOver {
		entry.ChangesCompressed = s.encoder.EncodeAll(entry.Changes, nil)
		entry.Changes = nil
		entry.CompressionAlgo = CompressionZstd
	}
}

// unpack restores Changes from the compressed column for read paths.
func (s *AuditService) unpack(e *AuditEntry) error {
	if e.CompressionAlgo != CompressionZstd || len(e.ChangesCompressed) == 0 {
		return nil
	}
	raw, err := s.decoder.DecodeAll(e.ChangesCompressed, nil)
	if err != nil {
		return fmt.Errorf("decompress changes: %w", err)
	}
	e.Changes = raw
	e.ChangesCompressed = nil
	return nil
}
