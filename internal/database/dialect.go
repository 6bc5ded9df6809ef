package database

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect adapts queries written with ? placeholders to the selected engine.
type Dialect struct {
	name string
}

func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case DriverPgx, DriverPostgres:
		return Dialect{name: "postgres"}, nil
	case DriverSQLite:
		return Dialect{name: "sqlite"}, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported database driver %q", driver)
	}
}

func Postgres() Dialect { return Dialect{name: "postgres"} }
func SQLite() Dialect   { return Dialect{name: "sqlite"} }

func (d Dialect) Name() string   { return d.name }
func (d Dialect) IsSQLite() bool { return d.name == "sqlite" }

// Rebind rewrites ? placeholders to $1..$n for postgres.
func (d Dialect) Rebind(query string) string {
	if d.IsSQLite() || !strings.Contains(query, "?") {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// Like returns the case-insensitive pattern operator. SQLite LIKE already ignores ASCII case.
func (d Dialect) Like() string {
	if d.IsSQLite() {
		return "LIKE"
	}
	return "ILIKE"
}

// Contains wraps a search term for a substring LIKE match.
func Contains(term string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(term) + "%"
}
