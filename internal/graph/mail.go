package graph

import (
	"context"

	"github.com/kgraph/extractor-core/internal/schema"
)

// MailWriter writes the Gmail-style Mail family: emails, threads,
// attachments, and their IN_THREAD / HAS_ATTACHMENT edges.
type MailWriter struct {
	open      SessionFactory
	batchSize int
}

func NewMailWriter(open SessionFactory, batchSize int) *MailWriter {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &MailWriter{open: open, batchSize: batchSize}
}

const writeEmailsQuery = `
UNWIND $rows AS row
MERGE (e:Email {message_id: row.message_id})
SET e.thread_id = row.thread_id,
    e.subject = row.subject,
    e.snippet = row.snippet,
    e.body = row.body,
    e.sent_at = row.sent_at,
    e.labels = row.labels,
    e.size_estimate = row.size_estimate,
    e.has_attachments = row.has_attachments,
    e.in_reply_to = row.in_reply_to,
    e.references = row.references,
    e.created_at = row.created_at,
    e.updated_at = row.updated_at,
    e.source_timestamp = row.source_timestamp,
    e.extraction_tier = row.extraction_tier,
    e.extraction_method = row.extraction_method,
    e.confidence = row.confidence,
    e.extractor_version = row.extractor_version
RETURN count(e) AS written_count
`

func (w *MailWriter) WriteEmails(ctx context.Context, emails []schema.Email) (WriteResult, error) {
	return runBatches(ctx, w.open, emails, w.batchSize, writeEmailsQuery, func(batch []schema.Email) []map[string]any {
		rows := make([]map[string]any, len(batch))
		for i, e := range batch {
			rows[i] = merge(map[string]any{
				"message_id":      e.MessageID,
				"thread_id":       e.ThreadID,
				"subject":         e.Subject,
				"snippet":         e.Snippet,
				"body":            e.Body,
				"sent_at":         e.SentAt.UTC().Format(isoLayout),
				"labels":          e.Labels,
				"size_estimate":   e.SizeEstimate,
				"has_attachments": e.HasAttachments,
				"in_reply_to":     e.InReplyTo,
				"references":      e.References,
			}, temporalParams(e.Temporal), provenanceParams(e.Provenance))
		}
		return rows
	})
}

const writeThreadsQuery = `
UNWIND $rows AS row
MERGE (t:Thread {thread_id: row.thread_id})
SET t.subject = row.subject,
    t.message_count = row.message_count,
    t.participant_count = row.participant_count,
    t.first_message_at = row.first_message_at,
    t.last_message_at = row.last_message_at,
    t.labels = row.labels,
    t.created_at = row.created_at,
    t.updated_at = row.updated_at,
    t.source_timestamp = row.source_timestamp,
    t.extraction_tier = row.extraction_tier,
    t.extraction_method = row.extraction_method,
    t.confidence = row.confidence,
    t.extractor_version = row.extractor_version
RETURN count(t) AS written_count
`

func (w *MailWriter) WriteThreads(ctx context.Context, threads []schema.Thread) (WriteResult, error) {
	return runBatches(ctx, w.open, threads, w.batchSize, writeThreadsQuery, func(batch []schema.Thread) []map[string]any {
		rows := make([]map[string]any, len(batch))
		for i, t := range batch {
			rows[i] = merge(map[string]any{
				"thread_id":         t.ThreadID,
				"subject":           t.Subject,
				"message_count":     t.MessageCount,
				"participant_count": t.ParticipantCount,
				"first_message_at":  t.FirstMessageAt.UTC().Format(isoLayout),
				"last_message_at":   t.LastMessageAt.UTC().Format(isoLayout),
				"labels":            t.Labels,
			}, temporalParams(t.Temporal), provenanceParams(t.Provenance))
		}
		return rows
	})
}

const writeAttachmentsQuery = `
UNWIND $rows AS row
MERGE (a:Attachment {attachment_id: row.attachment_id})
SET a.filename = row.filename,
    a.mime_type = row.mime_type,
    a.size = row.size,
    a.content_hash = row.content_hash,
    a.is_inline = row.is_inline,
    a.created_at = row.created_at,
    a.updated_at = row.updated_at,
    a.source_timestamp = row.source_timestamp,
    a.extraction_tier = row.extraction_tier,
    a.extraction_method = row.extraction_method,
    a.confidence = row.confidence,
    a.extractor_version = row.extractor_version
RETURN count(a) AS written_count
`

func (w *MailWriter) WriteAttachments(ctx context.Context, attachments []schema.Attachment) (WriteResult, error) {
	return runBatches(ctx, w.open, attachments, w.batchSize, writeAttachmentsQuery, func(batch []schema.Attachment) []map[string]any {
		rows := make([]map[string]any, len(batch))
		for i, a := range batch {
			rows[i] = merge(map[string]any{
				"attachment_id": a.AttachmentID,
				"filename":      a.Filename,
				"mime_type":     a.MimeType,
				"size":          a.Size,
				"content_hash":  a.ContentHash,
				"is_inline":     a.IsInline,
			}, temporalParams(a.Temporal), provenanceParams(a.Provenance))
		}
		return rows
	})
}

// EmailInThread is the edge between an Email and its Thread.
type EmailInThread struct {
	MessageID string
	ThreadID  string
	schema.Temporal
	schema.Provenance
}

const writeEmailInThreadQuery = `
UNWIND $rows AS row
OPTIONAL MATCH (e:Email {message_id: row.message_id})
OPTIONAL MATCH (t:Thread {thread_id: row.thread_id})
WITH row, e, t
WHERE e IS NOT NULL AND t IS NOT NULL
MERGE (e)-[r:IN_THREAD]->(t)
SET r.created_at = row.created_at,
    r.updated_at = row.updated_at,
    r.source_timestamp = row.source_timestamp,
    r.extraction_tier = row.extraction_tier,
    r.extraction_method = row.extraction_method,
    r.confidence = row.confidence,
    r.extractor_version = row.extractor_version
RETURN count(r) AS written_count
`

func (w *MailWriter) WriteEmailInThreadRelationships(ctx context.Context, edges []EmailInThread) (WriteResult, error) {
	return runBatches(ctx, w.open, edges, w.batchSize, writeEmailInThreadQuery, func(batch []EmailInThread) []map[string]any {
		rows := make([]map[string]any, len(batch))
		for i, e := range batch {
			rows[i] = merge(map[string]any{
				"message_id": e.MessageID,
				"thread_id":  e.ThreadID,
			}, temporalParams(e.Temporal), provenanceParams(e.Provenance))
		}
		return rows
	})
}

// EmailHasAttachment is the edge between an Email and an Attachment.
type EmailHasAttachment struct {
	MessageID    string
	AttachmentID string
	schema.Temporal
	schema.Provenance
}

const writeEmailHasAttachmentQuery = `
UNWIND $rows AS row
OPTIONAL MATCH (e:Email {message_id: row.message_id})
OPTIONAL MATCH (a:Attachment {attachment_id: row.attachment_id})
WITH row, e, a
WHERE e IS NOT NULL AND a IS NOT NULL
MERGE (e)-[r:HAS_ATTACHMENT]->(a)
SET r.created_at = row.created_at,
    r.updated_at = row.updated_at,
    r.source_timestamp = row.source_timestamp,
    r.extraction_tier = row.extraction_tier,
    r.extraction_method = row.extraction_method,
    r.confidence = row.confidence,
    r.extractor_version = row.extractor_version
RETURN count(r) AS written_count
`

func (w *MailWriter) WriteEmailHasAttachmentRelationships(ctx context.Context, edges []EmailHasAttachment) (WriteResult, error) {
	return runBatches(ctx, w.open, edges, w.batchSize, writeEmailHasAttachmentQuery, func(batch []EmailHasAttachment) []map[string]any {
		rows := make([]map[string]any, len(batch))
		for i, e := range batch {
			rows[i] = merge(map[string]any{
				"message_id":    e.MessageID,
				"attachment_id": e.AttachmentID,
			}, temporalParams(e.Temporal), provenanceParams(e.Provenance))
		}
		return rows
	})
}
