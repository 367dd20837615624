// Package regulators configures and monitors voltage regulators through
// declarative rule programs loaded from a JSON configuration file.
//
// The engine parses the configuration into a topology of rules, chassis,
// devices and rails, then drives it through two top-level operations:
// configuring output voltages and monitoring rail sensors.  Hardware access
// and platform services (I2C transport, VPD, presence, error logging) are
// supplied by the surrounding application.
//
// End-users typically interact with the engine via the high-level Service
// façade exposed by the root package:
//
//	srv := regulators.New(regulators.WithServices(platformServices))
//	if err := srv.LoadConfig(ctx, "/etc/regulators/config.json"); err != nil {
//		...
//	}
//	srv.Configure(ctx)
//	srv.MonitorSensors(ctx)
//
// For more details see the README and individual sub-packages.
package regulators
