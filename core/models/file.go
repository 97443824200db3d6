package models

type SourceKind int

const (
	JavaSource SourceKind = iota
	ManifestSource
)

func (k SourceKind) String() string {
	if k == ManifestSource {
		return "manifest"
	}
	return "java"
}

type DiscoveredFile struct {
	Path    string
	RelPath string
	Kind    SourceKind
}
