package dataset

import "tabkit/config"

// SetOption sets a process-wide option.
func (d *Dataset) SetOption(name string, value interface{}) error {
	return config.Default.Set(name, value)
}

// GetOption returns the value of a process-wide option.
func (d *Dataset) GetOption(name string) (interface{}, error) {
	return config.Default.Get(name)
}

// ResetOption restores an option, or every option for "all", to its default.
func (d *Dataset) ResetOption(name string) error {
	return config.Default.Reset(name)
}

// DescribeOption explains an option.
func (d *Dataset) DescribeOption(name string) (string, error) {
	return config.Default.Describe(name)
}
