// Package transform turns a plain [dag.DAG] into a proper layered graph
// ready for ordering and coordinate assignment.
//
// [AssignLayers] ranks nodes by longest path from a source and rejects
// cyclic input with a [CycleError]. [Subdivide] then threads waypoints
// through edges that skip rows. Both run once per layout:
//
//	if err := transform.AssignLayers(g); err != nil {
//	    return err
//	}
//	if err := transform.Subdivide(g); err != nil {
//	    return err
//	}
package transform
