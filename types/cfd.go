package types

import "strings"

type BCFLAG uint8

const (
	BC_None BCFLAG = iota
	BC_Dirichlet
	BC_Neuman
	BC_Robin
	BC_Periodic
	BC_Clamped
	BC_SimplySupported
)

var BCNameMap = map[string]BCFLAG{
	"none":             BC_None,
	"dirichlet":        BC_Dirichlet,
	"essential":        BC_Dirichlet,
	"neuman":           BC_Neuman,
	"neumann":          BC_Neuman,
	"natural":          BC_Neuman,
	"robin":            BC_Robin,
	"periodic":         BC_Periodic,
	"clamped":          BC_Clamped,
	"simplysupported":  BC_SimplySupported,
	"simply_supported": BC_SimplySupported,
}

// NewBCFLAG maps a boundary condition name to its flag, case-insensitive. Unknown names map to BC_None.
func NewBCFLAG(name string) (flag BCFLAG, ok bool) {
	flag, ok = BCNameMap[strings.ToLower(strings.TrimSpace(name))]
	return
}

func (bc BCFLAG) String() string {
	switch bc {
	case BC_Dirichlet:
		return "Dirichlet"
	case BC_Neuman:
		return "Neuman"
	case BC_Robin:
		return "Robin"
	case BC_Periodic:
		return "Periodic"
	case BC_Clamped:
		return "Clamped"
	case BC_SimplySupported:
		return "SimplySupported"
	}
	return "None"
}
