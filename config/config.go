// Package config is the option registry shared by every tabkit dataset.
//
// Options are addressed by name, carry a default and a description, and are
// validated on every Set. A YAML file can override any subset of them.
package config

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Option names.
const (
	MissingValues       = "missing_values"
	CSVChunkSize        = "csv_chunksize"
	TestSplitPercentage = "test_split_percentage"
	RandomSeed          = "random_seed"
	JournalDir          = "journal_dir"
	Progress            = "progress"
	LogLevel            = "log_level"
)

var (
	// ErrUnknownOption is returned for option names that are not registered.
	ErrUnknownOption = errors.New("unknown option")
	// ErrInvalidValue is returned when a value fails an option's validation.
	ErrInvalidValue = errors.New("invalid option value")
)

// Option describes a single registered setting.
type Option struct {
	Name        string
	Default     interface{}
	Description string
	// Validate converts a raw value into the option's type or fails.
	Validate func(v interface{}) (interface{}, error)
}

// Registry holds the current value of every option.
type Registry struct {
	mu      sync.RWMutex
	options map[string]Option
	values  map[string]interface{}
}

// Default is the process-wide registry.
var Default = NewRegistry()

// NewRegistry returns a registry populated with the built-in options.
func NewRegistry() *Registry {
	r := &Registry{
		options: make(map[string]Option),
		values:  make(map[string]interface{}),
	}
	for _, o := range builtin() {
		r.Register(o)
	}
	return r
}

func builtin() []Option {
	return []Option{
		{
			Name:        MissingValues,
			Default:     []string{"", "NA", "NaN", "<nil>", "null"},
			Description: "Cell values read as missing when loading CSV data.",
			Validate:    toStrings,
		},
		{
			Name:        CSVChunkSize,
			Default:     10000,
			Description: "Rows written per chunk by ToCSV.",
			Validate:    positiveInt,
		},
		{
			Name:        TestSplitPercentage,
			Default:     0.2,
			Description: "Fraction of rows moved to the test set when splitting.",
			Validate:    fraction,
		},
		{
			Name:        RandomSeed,
			Default:     42,
			Description: "Seed for the train/test shuffle.",
			Validate:    toInt,
		},
		{
			Name:        JournalDir,
			Default:     "journals",
			Description: "Directory that holds transformation journals.",
			Validate:    toString,
		},
		{
			Name:        Progress,
			Default:     false,
			Description: "Show a progress bar while writing CSV files.",
			Validate:    toBool,
		},
		{
			Name:        LogLevel,
			Default:     "info",
			Description: "Logger level: debug, info, warn or error.",
			Validate:    logLevel,
		},
	}
}

// Register adds or replaces an option and resets it to its default.
func (r *Registry) Register(o Option) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.options[o.Name] = o
	r.values[o.Name] = o.Default
}

// Set validates v and stores it as the value of name.
func (r *Registry) Set(name string, v interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.options[name]
	if !ok {
		return errors.Wrap(ErrUnknownOption, name)
	}
	if o.Validate != nil {
		conv, err := o.Validate(v)
		if err != nil {
			return errors.Wrapf(err, "option %s", name)
		}
		v = conv
	}
	r.values[name] = v
	return nil
}

// Get returns the current value of name.
func (r *Registry) Get(name string) (interface{}, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.values[name]
	if !ok {
		return nil, errors.Wrap(ErrUnknownOption, name)
	}
	return v, nil
}

// Reset restores name to its default. The name "all" resets every option.
func (r *Registry) Reset(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if name == "all" {
		for n, o := range r.options {
			r.values[n] = o.Default
		}
		return nil
	}
	o, ok := r.options[name]
	if !ok {
		return errors.Wrap(ErrUnknownOption, name)
	}
	r.values[name] = o.Default
	return nil
}

// Describe returns a human readable description of name, including its
// default and current value.
func (r *Registry) Describe(name string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.options[name]
	if !ok {
		return "", errors.Wrap(ErrUnknownOption, name)
	}
	return fmt.Sprintf("%s: %s [default: %v] [currently: %v]",
		o.Name, o.Description, o.Default, r.values[name]), nil
}

// Names returns the registered option names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.options))
	for n := range r.options {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Typed getters. They fall back to the option default when the stored value
// has an unexpected type, which can only happen for options registered
// without a validator.

func (r *Registry) Int(name string) int {
	v, _ := r.Get(name)
	i, err := toInt(v)
	if err != nil {
		return 0
	}
	return i.(int)
}

func (r *Registry) Float(name string) float64 {
	v, _ := r.Get(name)
	f, err := toFloat(v)
	if err != nil {
		return 0
	}
	return f.(float64)
}

func (r *Registry) Bool(name string) bool {
	v, _ := r.Get(name)
	b, _ := v.(bool)
	return b
}

func (r *Registry) String(name string) string {
	v, _ := r.Get(name)
	s, _ := v.(string)
	return s
}

func (r *Registry) Strings(name string) []string {
	v, _ := r.Get(name)
	s, _ := v.([]string)
	return append([]string(nil), s...)
}

// Load reads a YAML mapping of option names to values and applies it.
func (r *Registry) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read config")
	}
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(err, "parse config")
	}
	names := make([]string, 0, len(raw))
	for n := range raw {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		if err := r.Set(n, raw[n]); err != nil {
			return err
		}
	}
	return nil
}

// Save writes every option whose value differs from its default.
func (r *Registry) Save(path string) error {
	r.mu.RLock()
	out := make(map[string]interface{})
	for n, o := range r.options {
		if fmt.Sprint(r.values[n]) != fmt.Sprint(o.Default) {
			out[n] = r.values[n]
		}
	}
	r.mu.RUnlock()

	data, err := yaml.Marshal(out)
	if err != nil {
		return errors.Wrap(err, "encode config")
	}
	return errors.Wrap(os.WriteFile(path, data, 0o644), "write config")
}
