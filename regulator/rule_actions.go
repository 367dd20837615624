package regulator

// RunRuleAction executes another rule by id.  The environment's depth
// counter bounds the recursion, so cyclic rule graphs fail instead of
// overflowing the stack.
type RunRuleAction struct {
	// RuleID identifies the rule to run.
	RuleID string
}

func (a *RunRuleAction) Execute(env *Environment) (bool, error) {
	rule, err := env.Rule(a.RuleID)
	if err != nil {
		return false, err
	}
	if err := env.IncrementRuleDepth(a.RuleID); err != nil {
		return false, err
	}
	defer env.DecrementRuleDepth()
	return rule.Execute(env)
}

func (a *RunRuleAction) String() string {
	return "run_rule: " + a.RuleID
}

// SetDeviceAction changes the environment's current device, redirecting
// subsequent hardware actions to it.
type SetDeviceAction struct {
	// DeviceID identifies the device to make current.
	DeviceID string
}

func (a *SetDeviceAction) Execute(env *Environment) (bool, error) {
	env.SetDeviceID(a.DeviceID)
	return true, nil
}

func (a *SetDeviceAction) String() string {
	return "set_device: " + a.DeviceID
}
