package ddl

// ColumnDef describes one column. Name is unquoted; quoting happens when
// the statement is rendered.
type ColumnDef struct {
	Name    string
	SQLType string
}

// TableDef is a table name plus its ordered columns. Every column is
// nullable: a missing market-cap value must still load.
type TableDef struct {
	Name    string
	Columns []ColumnDef
}
