package testutil

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lalarentals/users-micro/internal/database"
)

var (
	createTable = regexp.MustCompile(`(?i)CREATE TABLE (?:IF NOT EXISTS )?(\w+)`)
	columnLine  = regexp.MustCompile(`^\s+([a-z_]+)\s`)
)

// mysqlColumns lists the columns of every table in the MySQL schema.  Key
// and constraint lines start with an upper-case keyword and are skipped.
func mysqlColumns(t *testing.T) map[string][]string {
	t.Helper()
	tables := map[string][]string{}
	for _, stmt := range database.Statements(database.Schema()) {
		m := createTable.FindStringSubmatch(stmt)
		if m == nil {
			continue
		}
		for _, line := range strings.Split(stmt, "\n") {
			if c := columnLine.FindStringSubmatch(line); c != nil {
				tables[m[1]] = append(tables[m[1]], c[1])
			}
		}
	}
	require.NotEmpty(t, tables)
	return tables
}

func TestSchemaMatchesMySQL(t *testing.T) {
	db := OpenDB(t)

	for table, want := range mysqlColumns(t) {
		rows, err := db.Query("SELECT name FROM pragma_table_info(?)", table)
		require.NoError(t, err, table)
		var got []string
		for rows.Next() {
			var name string
			require.NoError(t, rows.Scan(&name))
			got = append(got, name)
		}
		require.NoError(t, rows.Err())
		require.NoError(t, rows.Close())

		assert.Equal(t, want, got, "columns of %s", table)
	}
}
