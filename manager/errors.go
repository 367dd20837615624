package manager

import (
	"errors"

	"github.com/powerctl/regulators/config"
	"github.com/powerctl/regulators/i2c"
	"github.com/powerctl/regulators/pmbus"
	"github.com/powerctl/regulators/regulator"
	"github.com/powerctl/regulators/service"
)

// ErrorType classifies an error for logging purposes.
type ErrorType int

const (
	ErrorTypeConfigFile ErrorType = iota
	ErrorTypeDBus
	ErrorTypeI2C
	ErrorTypeInternal
	ErrorTypePMBus
	ErrorTypeWriteVerification

	// NumErrorTypes is the number of classification values.
	NumErrorTypes
)

// Classify determines the error type of err by inspecting its nested chain.
// More specific classifications win over more general ones.
func Classify(err error) ErrorType {
	var fileErr *config.FileError
	if errors.As(err, &fileErr) {
		return ErrorTypeConfigFile
	}
	var verificationErr *regulator.WriteVerificationError
	if errors.As(err, &verificationErr) {
		return ErrorTypeWriteVerification
	}
	var pmbusErr *pmbus.Error
	if errors.As(err, &pmbusErr) {
		return ErrorTypePMBus
	}
	var i2cErr *i2c.Error
	if errors.As(err, &i2cErr) {
		return ErrorTypeI2C
	}
	var dbusErr *service.DBusError
	if errors.As(err, &dbusErr) {
		return ErrorTypeDBus
	}
	return ErrorTypeInternal
}

// severity maps an error type to the severity of its log entry.  A failed
// write verification leaves the previous voltage in effect, so it is only a
// warning; everything else means an operation did not happen.
func severity(errorType ErrorType) service.Severity {
	if errorType == ErrorTypeWriteVerification {
		return service.SeverityWarning
	}
	return service.SeverityError
}

// ErrorHistory tracks which error types were already logged, so repeating
// failures in a periodic operation produce one entry instead of one per
// cycle.
type ErrorHistory struct {
	logged [NumErrorTypes]bool
}

// WasLogged returns whether an error of the specified type was already
// logged.
func (h *ErrorHistory) WasLogged(errorType ErrorType) bool {
	return h.logged[errorType]
}

// SetWasLogged records whether an error of the specified type was logged.
func (h *ErrorHistory) SetWasLogged(errorType ErrorType, logged bool) {
	h.logged[errorType] = logged
}

// Clear forgets all previously logged error types.
func (h *ErrorHistory) Clear() {
	h.logged = [NumErrorTypes]bool{}
}
