package glsl

import (
	"strconv"
	"strings"
)

// GL uniform types reported by glGetActiveUniform.
const (
	TypeFloat       = 0x1406
	TypeFloatVec2   = 0x8B50
	TypeFloatVec3   = 0x8B51
	TypeFloatVec4   = 0x8B52
	TypeInt         = 0x1404
	TypeIntVec2     = 0x8B53
	TypeIntVec3     = 0x8B54
	TypeIntVec4     = 0x8B55
	TypeBool        = 0x8B56
	TypeFloatMat3   = 0x8B5B
	TypeFloatMat4   = 0x8B5C
	TypeSampler2D   = 0x8B5E
	TypeSamplerCube = 0x8B60
)

// Slot is a uniform of a linked program.
type Slot struct {
	Location int32
	Type     uint32
	// Size is the array length, 1 for non-arrays.
	Size int32
}

// Components returns the number of scalars per element of a uniform type
// and whether it is integer-valued. Unknown types report 0.
func Components(typ uint32) (n int, integer bool) {
	switch typ {
	case TypeFloat:
		return 1, false
	case TypeFloatVec2:
		return 2, false
	case TypeFloatVec3:
		return 3, false
	case TypeFloatVec4:
		return 4, false
	case TypeFloatMat3:
		return 9, false
	case TypeFloatMat4:
		return 16, false
	case TypeInt, TypeBool, TypeSampler2D, TypeSamplerCube:
		return 1, true
	case TypeIntVec2:
		return 2, true
	case TypeIntVec3:
		return 3, true
	case TypeIntVec4:
		return 4, true
	}
	return 0, false
}

// Count returns how many elements of slot values fills, clamped to the
// array size. It returns 0 when values cannot fill one element.
func (s Slot) Count(values int) int32 {
	n, _ := Components(s.Type)
	if n == 0 || values < n {
		return 0
	}
	return min(int32(values/n), s.Size)
}

// SplitIndex splits an array element name such as "uStage[1]" into its
// base name and index. Names without a subscript have index 0.
func SplitIndex(name string) (base string, index int) {
	open := strings.LastIndexByte(name, '[')
	if open < 0 || !strings.HasSuffix(name, "]") {
		return name, 0
	}
	i, err := strconv.Atoi(name[open+1 : len(name)-1])
	if err != nil || i < 0 {
		return name, 0
	}
	return name[:open], i
}

// Element returns the slot of element index of an array slot.
func (s Slot) Element(index int) Slot {
	if index <= 0 {
		return s
	}
	s.Size = max(s.Size-int32(index), 0)
	return s
}
