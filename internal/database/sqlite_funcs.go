package database

import (
	"database/sql/driver"
	"strings"

	"modernc.org/sqlite"
)

// The built-in lower() only folds ASCII, so "Ögonsalva" would never match a
// lowercased search pattern. Connections opened after init use this one.
func init() {
	sqlite.MustRegisterDeterministicScalarFunction("lower", 1, unicodeLower)
}

func unicodeLower(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}
