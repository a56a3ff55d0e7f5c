package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS task_records (
	id           TEXT PRIMARY KEY,
	message_id   TEXT NOT NULL DEFAULT '',
	subject      TEXT NOT NULL DEFAULT '',
	content      TEXT NOT NULL DEFAULT '',
	name         TEXT NOT NULL DEFAULT '',
	due          TEXT,
	email_link   TEXT,
	label        TEXT,
	priority     TEXT,
	smart_list   TEXT,
	status       TEXT,
	tag          TEXT,
	extracted_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_task_records_status ON task_records(status);
CREATE INDEX IF NOT EXISTS idx_task_records_priority ON task_records(priority);
CREATE INDEX IF NOT EXISTS idx_task_records_extracted_at ON task_records(extracted_at);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE UNIQUE INDEX IF NOT EXISTS idx_task_records_message_id
	ON task_records(message_id) WHERE message_id != '';

CREATE INDEX IF NOT EXISTS idx_task_records_smart_list
	ON task_records(smart_list);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
