package readfiles

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/notargets/apmesh/types"
)

/*
ReadMesh parses one mesh file, dispatching on its extension, or a pair of split node/element tables
given in either order:

	.mesh  medit ASCII
	.msh   Gmsh 2.x ASCII
	.su2   SU2 native
	.neu   Gambit neutral
*/
func ReadMesh(files ...string) (*RawMesh, error) {
	switch len(files) {
	case 1:
		fileName := files[0]
		switch strings.ToLower(filepath.Ext(fileName)) {
		case ".mesh":
			return ReadMedit(fileName)
		case ".msh":
			return ReadGmsh(fileName)
		case ".su2":
			return ReadSU2(fileName)
		case ".neu":
			return ReadGambit(fileName)
		default:
			return nil, &types.ParseError{File: fileName,
				Msg: fmt.Sprintf("unknown mesh file extension %q", filepath.Ext(fileName))}
		}
	case 2:
		return ReadTables(files[0], files[1])
	default:
		return nil, &types.ParseError{Msg: fmt.Sprintf("expected one mesh file or a node/element pair, have %d files", len(files))}
	}
}
