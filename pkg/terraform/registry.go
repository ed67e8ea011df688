package terraform

import "strings"

// defaultRegistryHost is assumed when a registry identifier carries no
// explicit hostname.
const defaultRegistryHost = "registry.terraform.io"

// parseRegistrySource splits a registry-style identifier. Three segments
// ("namespace/name/provider") imply the default public registry; four mean
// the first segment is an explicit registry hostname. Anything else is
// invalid.
func parseRegistrySource(raw string) (*Source, error) {
	base, _ := splitSubPath(raw)
	parts := strings.Split(base, "/")
	switch len(parts) {
	case 3:
		return &Source{
			Type:         TypeRegistry,
			RegistryHost: defaultRegistryHost,
			Module:       base,
		}, nil
	case 4:
		return &Source{
			Type:         TypeRegistry,
			RegistryHost: parts[0],
			Module:       strings.Join(parts[1:], "/"),
		}, nil
	default:
		return nil, &InvalidRegistrySourceError{Source: raw}
	}
}
