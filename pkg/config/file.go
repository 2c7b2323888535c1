package config

import (
	"encoding/json"
	"io"
	"os"
	"strings"
	"sync"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/talvi/pulsemagstep/pkg/utils/ptr"
)

var (
	defaultFileConfig = &RawFileConfig{
		Technique:    ptr.To("spl"),
		Steps:        ptr.To(35),
		MinField:     ptr.To(3.3),
		MaxField:     ptr.To(1000.0),
		Distribution: ptr.To("exp"),
		// Calibration files disagree on units, so there is no implicit
		// conversion. Set this to convert the field column explicitly.
		FieldScale:         ptr.To(1.0),
		CalibrationFile:    ptr.To(""),
		CalibrationLiteral: ptr.To(""),
		Graph:              ptr.To(""),
	}
)

var _ Config = &File{}

type File struct {
	c        *RawFileConfig
	mu       *sync.RWMutex
	filepath string
}

// NewFile loads the config at configPath. A missing file yields defaults.
func NewFile(configPath string) (*File, error) {
	f := &File{
		filepath: configPath,
		mu:       &sync.RWMutex{},
	}
	err := f.Load()
	if err != nil {
		return nil, err
	}

	return f, nil
}

func NewFileFromConfig(c *RawFileConfig, configPath string) *File {
	if c == nil {
		c = &RawFileConfig{}
	}

	f := &File{
		c:        c,
		mu:       &sync.RWMutex{},
		filepath: configPath,
	}

	return f
}

// DefaultRawFileConfig returns a copy of the built-in defaults.
func DefaultRawFileConfig() *RawFileConfig {
	c := *defaultFileConfig
	return &c
}

type RawFileConfig struct {
	Technique          *string  `json:"technique,omitempty"`
	Steps              *int     `json:"steps,omitempty"`
	MinField           *float64 `json:"minField,omitempty"`
	MaxField           *float64 `json:"maxField,omitempty"`
	Distribution       *string  `json:"distribution,omitempty"`
	FieldScale         *float64 `json:"fieldScale,omitempty"`
	CalibrationFile    *string  `json:"calibrationFile,omitempty"`
	CalibrationLiteral *string  `json:"calibrationLiteral,omitempty"`
	Graph              *string  `json:"graph,omitempty"`
}

func NewRawFileConfigFromConfig(c Config) (*RawFileConfig, error) {
	if c == nil {
		return nil, pkgerrors.New("config is nil")
	}

	rawConfig := &RawFileConfig{
		Technique:          ptr.To(c.Technique()),
		Steps:              ptr.To(c.Steps()),
		MinField:           ptr.To(c.MinField()),
		MaxField:           ptr.To(c.MaxField()),
		Distribution:       ptr.To(c.Distribution()),
		FieldScale:         ptr.To(c.FieldScale()),
		CalibrationFile:    ptr.To(c.CalibrationFile()),
		CalibrationLiteral: ptr.To(c.CalibrationLiteral()),
		Graph:              ptr.To(c.Graph()),
	}

	return rawConfig, nil
}

// get reads one field under the read lock, falling back to its default.
func get[T any](f *File, field func(*RawFileConfig) *T) T {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c == nil {
		panic("config is nil")
	}

	if v := field(f.c); v != nil {
		return *v
	}
	return *field(defaultFileConfig)
}

func set[T any](f *File, field func(*RawFileConfig) **T, v T) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.c == nil {
		panic("config is nil")
	}
	*field(f.c) = &v
}

func (f *File) Technique() string {
	return get(f, func(c *RawFileConfig) *string { return c.Technique })
}

func (f *File) Steps() int {
	return get(f, func(c *RawFileConfig) *int { return c.Steps })
}

func (f *File) MinField() float64 {
	return get(f, func(c *RawFileConfig) *float64 { return c.MinField })
}

func (f *File) MaxField() float64 {
	return get(f, func(c *RawFileConfig) *float64 { return c.MaxField })
}

func (f *File) Distribution() string {
	return get(f, func(c *RawFileConfig) *string { return c.Distribution })
}

func (f *File) FieldScale() float64 {
	return get(f, func(c *RawFileConfig) *float64 { return c.FieldScale })
}

func (f *File) CalibrationFile() string {
	return get(f, func(c *RawFileConfig) *string { return c.CalibrationFile })
}

func (f *File) CalibrationLiteral() string {
	return get(f, func(c *RawFileConfig) *string { return c.CalibrationLiteral })
}

func (f *File) Graph() string {
	return get(f, func(c *RawFileConfig) *string { return c.Graph })
}

func (f *File) SetTechnique(s string) {
	set(f, func(c *RawFileConfig) **string { return &c.Technique }, s)
}

func (f *File) SetSteps(i int) {
	if i < 2 {
		panic("steps must be at least 2")
	}
	set(f, func(c *RawFileConfig) **int { return &c.Steps }, i)
}

func (f *File) SetMinField(v float64) {
	set(f, func(c *RawFileConfig) **float64 { return &c.MinField }, v)
}

func (f *File) SetMaxField(v float64) {
	set(f, func(c *RawFileConfig) **float64 { return &c.MaxField }, v)
}

func (f *File) SetDistribution(s string) {
	set(f, func(c *RawFileConfig) **string { return &c.Distribution }, s)
}

func (f *File) SetFieldScale(v float64) {
	if v <= 0 {
		panic("field scale must be positive")
	}
	set(f, func(c *RawFileConfig) **float64 { return &c.FieldScale }, v)
}

func (f *File) SetCalibrationFile(s string) {
	set(f, func(c *RawFileConfig) **string { return &c.CalibrationFile }, s)
}

func (f *File) SetCalibrationLiteral(s string) {
	set(f, func(c *RawFileConfig) **string { return &c.CalibrationLiteral }, s)
}

func (f *File) SetGraph(s string) {
	set(f, func(c *RawFileConfig) **string { return &c.Graph }, s)
}

func (f *File) Load() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.filepath == "" {
		f.c = &RawFileConfig{}
		return nil
	}

	fp, err := os.Open(f.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			// If the file does not exist, return the empty config.
			// Do not make f.c a nil.
			f.c = &RawFileConfig{}
			return nil
		}
		return pkgerrors.Wrapf(err, "failed to open file %s", f.filepath)
	}
	defer func(fp *os.File) {
		err := fp.Close()
		if err != nil {
			logrus.Warnf("failed to close file %s", f.filepath)
		}
	}(fp)

	// Since we want to tell if the file is empty, using json.Decoder will
	// not work.
	b, err := io.ReadAll(fp)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to read file %s", f.filepath)
	}

	if strings.TrimSpace(string(b)) == "" {
		f.c = &RawFileConfig{}
		return nil
	}

	conf := RawFileConfig{}
	err = json.Unmarshal(b, &conf)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to unmarshal config from file %s", f.filepath)
	}
	f.c = &conf

	return nil
}

func (f *File) Save() error {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c == nil {
		return pkgerrors.New("config is nil")
	}
	if f.filepath == "" {
		return pkgerrors.New("config file path is empty")
	}

	fp, err := os.OpenFile(f.filepath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to open file %s", f.filepath)
	}
	defer func(fp *os.File) {
		err := fp.Close()
		if err != nil {
			logrus.Warnf("failed to close file %s", f.filepath)
		}
	}(fp)

	enc := json.NewEncoder(fp)
	enc.SetIndent("", "  ")
	err = enc.Encode(f.c)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to encode config to file %s", f.filepath)
	}

	return nil
}

func (f *File) LogrusFields() logrus.Fields {
	return logrus.Fields{
		"technique":       f.Technique(),
		"steps":           f.Steps(),
		"minField":        f.MinField(),
		"maxField":        f.MaxField(),
		"distribution":    f.Distribution(),
		"fieldScale":      f.FieldScale(),
		"calibrationFile": f.CalibrationFile(),
		"graph":           f.Graph(),
	}
}
