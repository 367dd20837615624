package regulator

import (
	"github.com/powerctl/regulators/i2c"
	"github.com/powerctl/regulators/service/memory"
)

func newTestDevice(id string, transport i2c.Transport) *Device {
	return &Device{
		ID:          id,
		IsRegulator: true,
		FRU:         "system/chassis/motherboard/" + id,
		I2C:         i2c.New(1, 0x70, i2c.WithTransport(transport)),
	}
}

func newTestEnv(devices ...*Device) (*Environment, *memory.Services) {
	idMap := NewIDMap()
	deviceID := ""
	for _, device := range devices {
		device.AddToIDMap(idMap)
		if deviceID == "" {
			deviceID = device.ID
		}
	}
	services := memory.New()
	return NewEnvironment(idMap, deviceID, services), services
}
