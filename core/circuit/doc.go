// Package circuit models a battery, a parallel-plate capacitor, an optional
// light bulb and the switch pair that selects how they are wired together.
//
// ParallelCircuit owns every component and keeps the derived quantities
// (plate voltage, charge, current amplitude) consistent with the connection
// state. A host loop advances it with Step once per frame; user edits arrive
// through the setters on Battery, Capacitor and ParallelCircuit. All state is
// observable through observable.Property values so views can redraw
// reactively without mutating the model.
//
// Geometry lives in the drawing plane (z = 0) with the capacitor centred on
// the origin. The bottom half of the circuit is the mirror image of the top
// half about y = 0.
package circuit
