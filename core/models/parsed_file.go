package models

// ParsedFile is the outcome of scanning one source file.
type ParsedFile struct {
	Path       string
	RelPath    string
	Package    string
	Imports    []string
	Interfaces []ApiInterface

	// Types are the qualified names of the top-level types the file
	// declares.
	Types []string

	// Problems are annotation misuses found while scanning, such as an
	// endpoint annotation inside an interface that lacks @ApiInterface.
	Problems []string
}

func (pf *ParsedFile) EndpointCount() int {
	n := 0
	for _, iface := range pf.Interfaces {
		n += len(iface.Endpoints)
	}
	return n
}

// Clone copies the file deeply enough that endpoints can be rewritten
// without touching the original.
func (pf *ParsedFile) Clone() *ParsedFile {
	c := *pf
	c.Imports = append([]string(nil), pf.Imports...)
	c.Types = append([]string(nil), pf.Types...)
	c.Problems = append([]string(nil), pf.Problems...)
	c.Interfaces = make([]ApiInterface, len(pf.Interfaces))
	for i, iface := range pf.Interfaces {
		iface.Endpoints = append([]EndpointDeclaration(nil), iface.Endpoints...)
		c.Interfaces[i] = iface
	}
	return &c
}
