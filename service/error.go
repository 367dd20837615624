package service

import "fmt"

// DBusError reports a failed call to a platform service reached over D-Bus,
// such as the VPD or presence proxies.  Implementations wrap their transport
// failures in this type so error log entries can classify them.
type DBusError struct {
	// Call names the failed method or property access.
	Call string

	// Err is the underlying failure.
	Err error
}

func (e *DBusError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("DBusError: %s: %s", e.Call, e.Err)
	}
	return "DBusError: " + e.Call
}

func (e *DBusError) Unwrap() error { return e.Err }
