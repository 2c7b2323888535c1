// Package calibration defines the magnetiser calibration table and loads it
// from its text representation. It contains:
//
//   - Point: one measured (voltage, field) pair
//   - Table: the ordered calibration curve, read-only once built
//   - Source: where a table comes from (a file or an in-memory literal)
//
// The text format holds one whitespace-separated "voltage field" pair per
// line. Blank lines and lines starting with '#' are ignored. Fields are
// expected to be strictly increasing; loading does not enforce this, see
// Table.Ascending.
package calibration
