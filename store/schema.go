package store

// Schema contains the complete DDL for both search indexes. Each primary
// table carries a full-text mirror kept in sync by triggers, so the mirror is
// updated inside the same transaction as every insert, update, and delete.
const Schema = `
-- Field-boost store: primary records with serialized field maps
CREATE TABLE IF NOT EXISTS field_boost_index (
    id                 TEXT PRIMARY KEY,
    resource_type      TEXT NOT NULL,
    content            TEXT NOT NULL,
    normalized_content TEXT NOT NULL,
    field_data         TEXT NOT NULL DEFAULT '{}',
    field_names        TEXT NOT NULL DEFAULT '',
    content_length     INTEGER NOT NULL DEFAULT 0,
    field_count        INTEGER NOT NULL DEFAULT 0,
    created_at         INTEGER NOT NULL,
    updated_at         INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_field_boost_type ON field_boost_index(resource_type);

-- Typed side table: one row per non-null field per record
CREATE TABLE IF NOT EXISTS field_specific_index (
    id               TEXT NOT NULL,
    resource_type    TEXT NOT NULL,
    field_name       TEXT NOT NULL,
    field_value      TEXT NOT NULL,
    normalized_value TEXT NOT NULL,
    field_position   INTEGER NOT NULL,
    field_length     INTEGER NOT NULL,
    PRIMARY KEY (id, field_name)
);
CREATE INDEX IF NOT EXISTS idx_field_specific_name ON field_specific_index(field_name);
CREATE INDEX IF NOT EXISTS idx_field_specific_type ON field_specific_index(resource_type);

-- Full-text mirror of the field-boost primary table
CREATE VIRTUAL TABLE IF NOT EXISTS field_boost_fts USING fts5(
    content,
    field_names,
    content='field_boost_index',
    content_rowid='rowid',
    tokenize='unicode61'
);

CREATE TRIGGER IF NOT EXISTS field_boost_ai AFTER INSERT ON field_boost_index BEGIN
    INSERT INTO field_boost_fts(rowid, content, field_names)
    VALUES (new.rowid, new.content, new.field_names);
END;
CREATE TRIGGER IF NOT EXISTS field_boost_ad AFTER DELETE ON field_boost_index BEGIN
    INSERT INTO field_boost_fts(field_boost_fts, rowid, content, field_names)
    VALUES ('delete', old.rowid, old.content, old.field_names);
END;
CREATE TRIGGER IF NOT EXISTS field_boost_au AFTER UPDATE ON field_boost_index BEGIN
    INSERT INTO field_boost_fts(field_boost_fts, rowid, content, field_names)
    VALUES ('delete', old.rowid, old.content, old.field_names);
    INSERT INTO field_boost_fts(rowid, content, field_names)
    VALUES (new.rowid, new.content, new.field_names);
END;

-- Prefix-match store: primary records with extracted words and positions
CREATE TABLE IF NOT EXISTS prefix_match_index (
    id                 TEXT PRIMARY KEY,
    resource_type      TEXT NOT NULL,
    content            TEXT NOT NULL,
    normalized_content TEXT NOT NULL,
    words              TEXT NOT NULL DEFAULT '',
    word_positions     TEXT NOT NULL DEFAULT '[]',
    content_length     INTEGER NOT NULL DEFAULT 0,
    word_count         INTEGER NOT NULL DEFAULT 0,
    created_at         INTEGER NOT NULL,
    updated_at         INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_prefix_match_type ON prefix_match_index(resource_type);

-- Tokenized prefix mirror; prefix= builds indexes for prefix lengths 2-10
CREATE VIRTUAL TABLE IF NOT EXISTS prefix_match_fts USING fts5(
    words,
    content='prefix_match_index',
    content_rowid='rowid',
    tokenize='unicode61',
    prefix='2 3 4 5 6 7 8 9 10'
);

CREATE TRIGGER IF NOT EXISTS prefix_match_ai AFTER INSERT ON prefix_match_index BEGIN
    INSERT INTO prefix_match_fts(rowid, words) VALUES (new.rowid, new.words);
END;
CREATE TRIGGER IF NOT EXISTS prefix_match_ad AFTER DELETE ON prefix_match_index BEGIN
    INSERT INTO prefix_match_fts(prefix_match_fts, rowid, words)
    VALUES ('delete', old.rowid, old.words);
END;
CREATE TRIGGER IF NOT EXISTS prefix_match_au AFTER UPDATE ON prefix_match_index BEGIN
    INSERT INTO prefix_match_fts(prefix_match_fts, rowid, words)
    VALUES ('delete', old.rowid, old.words);
    INSERT INTO prefix_match_fts(rowid, words) VALUES (new.rowid, new.words);
END;
`
