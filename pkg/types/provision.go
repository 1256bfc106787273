package types

// ProvisionTarget is an external repository fetched once into the shared runtime
type ProvisionTarget struct {
	Label       string `yaml:"label"`
	Source      string `yaml:"source"`
	Ref         string `yaml:"ref,omitempty"`
	Destination string `yaml:"destination"`

	// Depth limits fetched history; 0 fetches everything
	Depth      int  `yaml:"depth,omitempty"`
	Submodules bool `yaml:"submodules,omitempty"`
}
