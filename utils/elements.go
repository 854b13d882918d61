package utils

// ElementType represents the triangle element families and their boundary segments
type ElementType int

const (
	Unknown ElementType = iota
	// 0D elements
	Point
	// 1D elements
	Line
	Line3 // 3-node line (quadratic)
	// 2D elements
	Triangle
	Triangle6 // 6-node triangle (quadratic)
	Argyris21 // 21-dof Argyris triangle
)

// String representation of element types
func (e ElementType) String() string {
	names := []string{
		"Unknown",
		"Point",
		"Line", "Line3",
		"Triangle", "Triangle6", "Argyris21",
	}
	if int(e) >= 0 && int(e) < len(names) {
		return names[e]
	}
	return "Invalid"
}

// GetNumNodes returns the number of node indices stored per element
func (e ElementType) GetNumNodes() int {
	switch e {
	case Point:
		return 1
	case Line:
		return 2
	case Line3:
		return 3
	case Triangle:
		return 3
	case Triangle6:
		return 6
	case Argyris21:
		return 21
	default:
		return 0
	}
}

// GetCornerNodes returns the indices of corner nodes for higher-order elements
func (e ElementType) GetCornerNodes() []int {
	switch e {
	case Line, Line3:
		return []int{0, 1}
	case Triangle, Triangle6, Argyris21:
		return []int{0, 1, 2}
	case Point:
		return []int{0}
	default:
		return []int{}
	}
}

// ElementTypeFromColumns identifies a triangle family from the width of its connectivity row
func ElementTypeFromColumns(nc int) ElementType {
	switch nc {
	case 3:
		return Triangle
	case 6:
		return Triangle6
	case 21:
		return Argyris21
	default:
		return Unknown
	}
}
