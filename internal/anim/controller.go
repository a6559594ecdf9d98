package anim

// Controller is one rig control as the mirror engine sees it: a named
// transform whose local pose can be probed and rewritten. The flip
// detectors zero a controller, read its world-space basis, apply test
// displacements and restore it, so every accessor here must be cheap and
// side-effect free apart from the explicit setters.
type Controller interface {
	Name() string

	// WorldPosition is the controller's pivot in world space.
	WorldPosition() [3]float64

	// WorldAxes returns the local X, Y, Z basis vectors expressed in world
	// space, in that order.
	WorldAxes() [3][3]float64

	// LocalRotation reads the Euler channel values in channel order
	// (degrees). Returns ok=false when the rotation is not Euler-typed.
	LocalRotation() (vals [3]float64, ok bool)
	SetLocalRotation(vals [3]float64) error

	LocalPosition() (vals [3]float64, ok bool)
	SetLocalPosition(vals [3]float64) error

	RotationOrder() AxisOrder

	// CustomAttrNames lists the controller's scalar custom attributes.
	CustomAttrNames() []string
	CustomAttr(name string) (float64, bool)
	SetCustomAttr(name string, v float64) error
}
