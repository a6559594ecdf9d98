package anim

// AxisOrder is one of the six Euler rotation orders. The stored channel
// index ("first", "second", "third") maps to an actual X/Y/Z axis through
// AxisIndices, so values can be remapped between differently-ordered
// controllers.
type AxisOrder int

const (
	OrderXYZ AxisOrder = 1 + iota
	OrderXZY
	OrderYZX
	OrderYXZ
	OrderZXY
	OrderZYX
)

var axisIndexTable = map[AxisOrder][3]int{
	OrderXYZ: {0, 1, 2},
	OrderXZY: {0, 2, 1},
	OrderYZX: {1, 2, 0},
	OrderYXZ: {1, 0, 2},
	OrderZXY: {2, 0, 1},
	OrderZYX: {2, 1, 0},
}

// AxisIndices returns which actual axis (X=0, Y=1, Z=2) each channel slot
// of the order holds. Unknown orders fall back to XYZ.
func (o AxisOrder) AxisIndices() [3]int {
	if idx, ok := axisIndexTable[o]; ok {
		return idx
	}
	return [3]int{0, 1, 2}
}

func (o AxisOrder) String() string {
	names := map[AxisOrder]string{
		OrderXYZ: "XYZ", OrderXZY: "XZY", OrderYZX: "YZX",
		OrderYXZ: "YXZ", OrderZXY: "ZXY", OrderZYX: "ZYX",
	}
	if s, ok := names[o]; ok {
		return s
	}
	return "XYZ"
}

// ParseAxisOrder maps a name like "zxy" to its order. Unknown names
// default to XYZ.
func ParseAxisOrder(s string) AxisOrder {
	switch s {
	case "XZY", "xzy":
		return OrderXZY
	case "YZX", "yzx":
		return OrderYZX
	case "YXZ", "yxz":
		return OrderYXZ
	case "ZXY", "zxy":
		return OrderZXY
	case "ZYX", "zyx":
		return OrderZYX
	default:
		return OrderXYZ
	}
}
