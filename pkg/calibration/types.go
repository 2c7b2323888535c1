package calibration

// Point is a single calibration measurement: driving Voltage and the
// resulting Field.
type Point struct {
	Voltage float64 `json:"voltage"`
	Field   float64 `json:"field"`
}

// Table is a calibration curve ordered by field.
type Table struct {
	Points []Point `json:"points"`
}

// NewTable copies points into a new Table.
func NewTable(points []Point) Table {
	p := make([]Point, len(points))
	copy(p, points)
	return Table{Points: p}
}

// Len returns the number of calibration points.
func (t Table) Len() int {
	return len(t.Points)
}

// Fields returns a copy of the field column.
func (t Table) Fields() []float64 {
	f := make([]float64, len(t.Points))
	for i, p := range t.Points {
		f[i] = p.Field
	}
	return f
}

// Voltages returns a copy of the voltage column.
func (t Table) Voltages() []float64 {
	v := make([]float64, len(t.Points))
	for i, p := range t.Points {
		v[i] = p.Voltage
	}
	return v
}

// Ascending reports whether the table holds at least two points with
// strictly increasing fields, which the interpolation code assumes.
func (t Table) Ascending() bool {
	if len(t.Points) < 2 {
		return false
	}
	for i := 1; i < len(t.Points); i++ {
		if !(t.Points[i].Field > t.Points[i-1].Field) {
			return false
		}
	}
	return true
}

// FieldRange returns the lowest and highest calibrated field. It panics on
// an empty table.
func (t Table) FieldRange() (lo, hi float64) {
	if len(t.Points) == 0 {
		panic("calibration table is empty")
	}
	return t.Points[0].Field, t.Points[len(t.Points)-1].Field
}
