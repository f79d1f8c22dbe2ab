package sqlite

// Catalog DDL. Saved tables are recorded in margins_tables with their shape;
// their chain state lives in margins_chain.
const (
	createTablesCatalog = `CREATE TABLE IF NOT EXISTS margins_tables (
    name TEXT PRIMARY KEY,
    row_levels INTEGER NOT NULL,
    col_levels INTEGER NOT NULL,
    row_names_set INTEGER NOT NULL,
    col_names_set INTEGER NOT NULL,
    saved_at TEXT NOT NULL
);`

	createChainCatalog = `CREATE TABLE IF NOT EXISTS margins_chain (
    table_name TEXT NOT NULL,
    component TEXT NOT NULL,
    label TEXT NOT NULL,
    PRIMARY KEY (table_name, component, label),
    FOREIGN KEY (table_name) REFERENCES margins_tables(name) ON DELETE CASCADE
);`

	idxChainTable = `CREATE INDEX IF NOT EXISTS idx_margins_chain_table ON margins_chain(table_name);`
)

// catalogDDL lists the catalog statements in dependency order.
var catalogDDL = []string{
	createTablesCatalog,
	createChainCatalog,
	idxChainTable,
}
