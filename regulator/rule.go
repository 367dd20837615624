package regulator

// Rule is a named, reusable sequence of actions.  Rules are owned by the
// system and referenced elsewhere by id.
type Rule struct {
	// ID uniquely identifies the rule within the configuration.
	ID string

	// Actions run in order when the rule executes.
	Actions []Action
}

// NewRule returns a rule with the specified id and actions.
func NewRule(id string, actions []Action) *Rule {
	return &Rule{ID: id, Actions: actions}
}

// Execute runs the rule's actions against the environment and returns the
// result of the last action.
func (r *Rule) Execute(env *Environment) (bool, error) {
	return ExecuteActions(env, r.Actions)
}
