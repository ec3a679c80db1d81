package lookup

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// identPattern accepts plain SQL identifiers. Quoted or schema-qualified
// names are rejected so table configuration can be interpolated into key
// namespaces and identifier placeholders without surprises.
var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Table names the backing lookup table and its columns. It replaces
// runtime-generated model classes with a small value constructed once at
// startup and passed by reference to whatever needs lookups.
type Table struct {
	// Name is the relational table name, e.g. "car_types".
	Name string

	// IDColumn is the integer primary key column. Default: "id".
	IDColumn string

	// NameColumn is the unique name column. Default: "name".
	NameColumn string
}

// NewTable returns a Table for name using the conventional column names.
func NewTable(name string) Table {
	return Table{Name: name, IDColumn: "id", NameColumn: "name"}
}

// Validate checks that the table and column names are usable identifiers.
func (t Table) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.Name, validation.Required, validation.Match(identPattern)),
		validation.Field(&t.IDColumn, validation.Required, validation.Match(identPattern)),
		validation.Field(&t.NameColumn, validation.Required, validation.Match(identPattern)),
	)
}
