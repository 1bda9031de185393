package store

// schemaSQL is the DDL for all tables.
const schemaSQL = `
-- Upload registry: one row per stored PDF and its derived deck
CREATE TABLE IF NOT EXISTS uploads (
    id TEXT PRIMARY KEY,
    filename TEXT NOT NULL,
    pdf_path TEXT NOT NULL,
    pptx_path TEXT,
    status TEXT NOT NULL DEFAULT 'uploaded',
    error TEXT,
    slide_count INTEGER DEFAULT 0,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_uploads_status ON uploads(status);
CREATE INDEX IF NOT EXISTS idx_uploads_created ON uploads(created_at);
`

// Upload status values.
const (
	StatusUploaded   = "uploaded"
	StatusProcessing = "processing"
	StatusDone       = "done"
	StatusFailed     = "failed"
)
