package config

import "github.com/sirupsen/logrus"

// Config holds the defaults used to compute a step table. Command-line flags
// override them.
type Config interface {
	Technique() string
	Steps() int
	MinField() float64
	MaxField() float64
	Distribution() string
	FieldScale() float64
	CalibrationFile() string
	CalibrationLiteral() string
	Graph() string

	SetTechnique(string)
	SetSteps(int)
	SetMinField(float64)
	SetMaxField(float64)
	SetDistribution(string)
	SetFieldScale(float64)
	SetCalibrationFile(string)
	SetCalibrationLiteral(string)
	SetGraph(string)

	LogrusFields() logrus.Fields

	// Load reads the configuration from the source.
	Load() error
	// Save saves the configuration to the source.
	Save() error
}
