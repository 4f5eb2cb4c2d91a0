// Package all wires all built-in storage backends into the storage factory.
//
// Importing it for side effects makes the "sqlite", "postgres" and "mssql"
// kinds available to storage.New:
//
//	import _ "banketl/internal/storage/all"
package all

import (
	_ "banketl/internal/storage/mssql"
	_ "banketl/internal/storage/postgres"
	_ "banketl/internal/storage/sqlite"
)
