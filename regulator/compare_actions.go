package regulator

import "fmt"

// CompareVPDAction compares a VPD keyword of a field replaceable unit to an
// expected value.  It returns the comparison result, so rules can branch on
// hardware identity, such as configuring by regulator part number.
type CompareVPDAction struct {
	// FRU is the inventory path of the field replaceable unit.
	FRU string

	// Keyword is the VPD keyword to read, such as CCIN or PartNumber.
	Keyword string

	// Value is the expected keyword value.  May be empty; the comparison
	// is an exact string match.
	Value string
}

func (a *CompareVPDAction) Execute(env *Environment) (bool, error) {
	actual, err := env.Services().VPD().GetValue(a.FRU, a.Keyword)
	if err != nil {
		return false, NewActionError(a, "", err)
	}
	return actual == a.Value, nil
}

func (a *CompareVPDAction) String() string {
	return fmt.Sprintf("compare_vpd: { fru: %s, keyword: %s, value: %s }", a.FRU, a.Keyword, a.Value)
}

// ComparePresenceAction compares the presence of a field replaceable unit
// to an expected state.
type ComparePresenceAction struct {
	// FRU is the inventory path of the field replaceable unit.
	FRU string

	// Value is the expected presence state.
	Value bool
}

func (a *ComparePresenceAction) Execute(env *Environment) (bool, error) {
	present, err := env.Services().Presence().Detected(a.FRU)
	if err != nil {
		return false, NewActionError(a, "", err)
	}
	return present == a.Value, nil
}

func (a *ComparePresenceAction) String() string {
	return fmt.Sprintf("compare_presence: { fru: %s, value: %t }", a.FRU, a.Value)
}
