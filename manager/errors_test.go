package manager

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/powerctl/regulators/config"
	"github.com/powerctl/regulators/i2c"
	"github.com/powerctl/regulators/pmbus"
	"github.com/powerctl/regulators/regulator"
	"github.com/powerctl/regulators/service"
)

func TestErrorTypeValues(t *testing.T) {
	assert.Equal(t, 0, int(ErrorTypeConfigFile))
	assert.Equal(t, 1, int(ErrorTypeDBus))
	assert.Equal(t, 2, int(ErrorTypeI2C))
	assert.Equal(t, 3, int(ErrorTypeInternal))
	assert.Equal(t, 4, int(ErrorTypePMBus))
	assert.Equal(t, 5, int(ErrorTypeWriteVerification))
	assert.Equal(t, 6, int(NumErrorTypes))
}

func TestClassify(t *testing.T) {
	assert.Equal(t, ErrorTypeConfigFile,
		Classify(&config.FileError{URL: "/etc/regulators.json", Err: errors.New("bad")}))
	assert.Equal(t, ErrorTypeDBus,
		Classify(&service.DBusError{Call: "GetPresence"}))
	assert.Equal(t, ErrorTypeI2C,
		Classify(&i2c.Error{Message: "read failed", Bus: 1, Address: 0x70}))
	assert.Equal(t, ErrorTypePMBus,
		Classify(&pmbus.Error{Message: "VOUT_MODE contains unsupported data format"}))
	assert.Equal(t, ErrorTypeWriteVerification,
		Classify(&regulator.WriteVerificationError{Message: "mismatch"}))
	assert.Equal(t, ErrorTypeInternal, Classify(errors.New("something else")))

	// classification looks through the nested chain
	action := &regulator.SetDeviceAction{DeviceID: "vdd1"}
	wrapped := regulator.NewActionError(action, "", &i2c.Error{Message: "read failed"})
	assert.Equal(t, ErrorTypeI2C, Classify(wrapped))
}

func TestErrorHistory(t *testing.T) {
	history := &ErrorHistory{}

	for errorType := ErrorType(0); errorType < NumErrorTypes; errorType++ {
		assert.False(t, history.WasLogged(errorType))
	}

	history.SetWasLogged(ErrorTypeI2C, true)
	assert.True(t, history.WasLogged(ErrorTypeI2C))
	assert.False(t, history.WasLogged(ErrorTypePMBus))

	history.SetWasLogged(ErrorTypeI2C, false)
	assert.False(t, history.WasLogged(ErrorTypeI2C))

	history.SetWasLogged(ErrorTypeI2C, true)
	history.SetWasLogged(ErrorTypeDBus, true)
	history.Clear()
	for errorType := ErrorType(0); errorType < NumErrorTypes; errorType++ {
		assert.False(t, history.WasLogged(errorType))
	}
}

func TestSeverity(t *testing.T) {
	assert.Equal(t, service.SeverityWarning, severity(ErrorTypeWriteVerification))
	assert.Equal(t, service.SeverityError, severity(ErrorTypeI2C))
	assert.Equal(t, service.SeverityError, severity(ErrorTypeInternal))
}
