// Package sqlite implements a types.Store on SQLite. The whole DBState is
// replaced inside one transaction on every Write, so a failed Write leaves
// the previous state intact.
package sqlite

// Schema DDL. Story membership is kept in epic_stories with an explicit
// position so that story order survives a round trip. No foreign keys: the
// store persists whatever state it is given, and integrity is enforced by
// the repository above it.
const (
	createMeta = `CREATE TABLE IF NOT EXISTS meta (
    key TEXT PRIMARY KEY,
    value INTEGER NOT NULL
);`

	createEpics = `CREATE TABLE IF NOT EXISTS epics (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT NOT NULL,
    status TEXT NOT NULL
);`

	createStories = `CREATE TABLE IF NOT EXISTS stories (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT NOT NULL,
    status TEXT NOT NULL
);`

	createEpicStories = `CREATE TABLE IF NOT EXISTS epic_stories (
    epic_id INTEGER NOT NULL,
    story_id INTEGER NOT NULL,
    position INTEGER NOT NULL,
    PRIMARY KEY (epic_id, position)
);`
)

// schemaDDL lists the statements run when a Store is opened, in order.
var schemaDDL = []string{
	createMeta,
	createEpics,
	createStories,
	createEpicStories,
}

// metaLastItemID is the meta key holding DBState.LastItemID.
const metaLastItemID = "last_item_id"
