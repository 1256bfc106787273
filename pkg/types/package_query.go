package types

// DefaultStatusFormat is the dpkg-query format used for the final status check
const DefaultStatusFormat = "${Status}"

// PackageQuery describes one installable unit
type PackageQuery struct {
	Name         string `yaml:"name"`
	StatusFormat string `yaml:"statusFormat"`
}

// NewPackageQuery returns a query for name using the default status format
func NewPackageQuery(name string) PackageQuery {
	return PackageQuery{Name: name, StatusFormat: DefaultStatusFormat}
}

// Format returns the status format, falling back to DefaultStatusFormat
func (q PackageQuery) Format() string {
	if q.StatusFormat == "" {
		return DefaultStatusFormat
	}
	return q.StatusFormat
}
