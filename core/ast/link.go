package ast

import "github.com/tristendillon/httpskin/core/models"

// LinkPackages qualifies simple type names that refer to a type declared
// in the same package by another scanned file. Names that neither an
// import nor the package resolves stay simple, so a model package is
// synthesized for them later.
func LinkPackages(files []*models.ParsedFile) {
	byPackage := make(map[string]map[string]string)
	for _, f := range files {
		for _, t := range f.Types {
			names, ok := byPackage[f.Package]
			if !ok {
				names = make(map[string]string)
				byPackage[f.Package] = names
			}
			names[simpleName(t)] = t
		}
	}

	for _, f := range files {
		local := byPackage[f.Package]
		if len(local) == 0 {
			continue
		}
		for i := range f.Interfaces {
			for j := range f.Interfaces[i].Endpoints {
				decl := &f.Interfaces[i].Endpoints[j]
				decl.DeclaredReturnType = qualifyType(decl.DeclaredReturnType, local)
			}
		}
	}
}
