// Package regulator implements the rule engine core: the topology object
// graph built from a configuration file (rules, chassis, devices, rails),
// the id registry over it, the per-operation execution environment, and the
// closed set of actions that rules and configurations run against regulator
// hardware.
package regulator

// Action is one step of a rule or configuration.  The boolean result means
// different things per kind: comparison actions return the comparison
// outcome, side effecting actions return true on success.
type Action interface {
	// Execute performs the action against the environment.
	Execute(env *Environment) (bool, error)

	// String returns the descriptive text of the action, used in error
	// reporting.
	String() string
}

// ExecuteActions runs actions sequentially against one environment and
// returns the result of the last action.  The first failing action aborts
// the remainder of the list.
func ExecuteActions(env *Environment, actions []Action) (bool, error) {
	result := true
	for _, action := range actions {
		var err error
		if result, err = action.Execute(env); err != nil {
			return false, err
		}
	}
	return result, nil
}
