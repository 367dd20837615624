package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/viant/afs"

	"github.com/powerctl/regulators/i2c"
	"github.com/powerctl/regulators/internal/jsonel"
	"github.com/powerctl/regulators/regulator"
)

// Config is the result of parsing one configuration document.
type Config struct {
	Rules   []*regulator.Rule
	Chassis []*regulator.Chassis
}

// FileError reports a failed configuration file load.  IO failures, JSON
// syntax failures and schema validation failures are all normalized into
// this one kind at the file boundary; the specific cause stays reachable
// through Unwrap.
type FileError struct {
	URL string
	Err error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("ConfigFileParserError: %s: %s", e.URL, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// Parser turns configuration documents into Config object graphs.
type Parser struct {
	registry   *Registry
	i2cFactory i2c.Factory
	fs         afs.Service
}

// Option customizes a Parser.
type Option func(*Parser)

// WithRegistry replaces the action parser registry.
func WithRegistry(registry *Registry) Option {
	return func(p *Parser) { p.registry = registry }
}

// WithI2CFactory replaces the factory creating the I2C handle of each
// parsed device.
func WithI2CFactory(factory i2c.Factory) Option {
	return func(p *Parser) { p.i2cFactory = factory }
}

// WithFS replaces the file system service used to load documents.
func WithFS(fs afs.Service) Option {
	return func(p *Parser) { p.fs = fs }
}

// New returns a parser with the built-in action set.  Without options,
// documents are loaded from the local file system and devices get transport
// free I2C handles.
func New(options ...Option) *Parser {
	ret := &Parser{
		registry: NewRegistry(),
		i2cFactory: func(bus uint, address uint8) i2c.Interface {
			return i2c.New(bus, address)
		},
		fs: afs.New(),
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// Parse loads and parses the configuration document at URL.  Any failure
// is reported as a *FileError.
func (p *Parser) Parse(ctx context.Context, URL string) (*Config, error) {
	data, err := p.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, &FileError{URL: URL, Err: err}
	}
	config, err := p.ParseData(data)
	if err != nil {
		return nil, &FileError{URL: URL, Err: err}
	}
	return config, nil
}

// ParseData parses a configuration document held in memory.  Schema
// validation failures are returned with their specific messages.
func (p *Parser) ParseData(data []byte) (*Config, error) {
	root, err := jsonel.Parse(data)
	if err != nil {
		return nil, err
	}
	return p.parseRoot(root)
}

func (p *Parser) parseRoot(element *jsonel.Node) (*Config, error) {
	if err := element.VerifyObject(); err != nil {
		return nil, err
	}
	consumed := 0
	config := &Config{}

	if element.Lookup("comments") != nil {
		consumed++
	}

	if rulesElement := element.Lookup("rules"); rulesElement != nil {
		rules, err := p.parseRuleArray(rulesElement)
		if err != nil {
			return nil, err
		}
		config.Rules = rules
		consumed++
	}

	chassisElement, err := element.Required("chassis")
	if err != nil {
		return nil, err
	}
	if config.Chassis, err = p.parseChassisArray(chassisElement); err != nil {
		return nil, err
	}
	consumed++

	if err := element.VerifyPropertyCount(consumed); err != nil {
		return nil, err
	}
	return config, nil
}

func (p *Parser) parseRuleArray(element *jsonel.Node) ([]*regulator.Rule, error) {
	if err := element.VerifyArray(); err != nil {
		return nil, err
	}
	var rules []*regulator.Rule
	err := element.Items(func(index int, item *jsonel.Node) error {
		rule, err := p.parseRule(item)
		if err != nil {
			return err
		}
		rules = append(rules, rule)
		return nil
	})
	return rules, err
}

func (p *Parser) parseRule(element *jsonel.Node) (*regulator.Rule, error) {
	if err := element.VerifyObject(); err != nil {
		return nil, err
	}
	consumed := 0

	if element.Lookup("comments") != nil {
		consumed++
	}

	idElement, err := element.Required("id")
	if err != nil {
		return nil, err
	}
	id, err := idElement.String(false)
	if err != nil {
		return nil, err
	}
	consumed++

	actionsElement, err := element.Required("actions")
	if err != nil {
		return nil, err
	}
	actions, err := p.parseActionArray(actionsElement)
	if err != nil {
		return nil, err
	}
	if len(actions) < 1 {
		return nil, errors.New("Invalid actions property: Must contain at least one action")
	}
	consumed++

	if err := element.VerifyPropertyCount(consumed); err != nil {
		return nil, err
	}
	return regulator.NewRule(id, actions), nil
}

func (p *Parser) parseActionArray(element *jsonel.Node) ([]regulator.Action, error) {
	if err := element.VerifyArray(); err != nil {
		return nil, err
	}
	var actions []regulator.Action
	err := element.Items(func(index int, item *jsonel.Node) error {
		action, err := p.parseAction(item)
		if err != nil {
			return err
		}
		actions = append(actions, action)
		return nil
	})
	return actions, err
}

func (p *Parser) parseAction(element *jsonel.Node) (regulator.Action, error) {
	if err := element.VerifyObject(); err != nil {
		return nil, err
	}
	consumed := 0

	if element.Lookup("comments") != nil {
		consumed++
	}

	// dispatch on the first recognized action type property
	var action regulator.Action
	err := element.Pairs(func(key string, value *jsonel.Node) error {
		if action != nil || key == "comments" {
			return nil
		}
		parse, ok := p.registry.Lookup(key)
		if !ok {
			return nil
		}
		parsed, err := parse(value)
		if err != nil {
			return err
		}
		action = parsed
		return nil
	})
	if err != nil {
		return nil, err
	}
	if action == nil {
		return nil, errors.New("Required action type property missing")
	}
	consumed++

	if err := element.VerifyPropertyCount(consumed); err != nil {
		return nil, err
	}
	return action, nil
}

func (p *Parser) parseChassisArray(element *jsonel.Node) ([]*regulator.Chassis, error) {
	if err := element.VerifyArray(); err != nil {
		return nil, err
	}
	var chassis []*regulator.Chassis
	err := element.Items(func(index int, item *jsonel.Node) error {
		parsed, err := p.parseChassis(item)
		if err != nil {
			return err
		}
		chassis = append(chassis, parsed)
		return nil
	})
	return chassis, err
}

func (p *Parser) parseChassis(element *jsonel.Node) (*regulator.Chassis, error) {
	if err := element.VerifyObject(); err != nil {
		return nil, err
	}
	consumed := 0
	chassis := &regulator.Chassis{}

	if element.Lookup("comments") != nil {
		consumed++
	}

	numberElement, err := element.Required("number")
	if err != nil {
		return nil, err
	}
	number, err := numberElement.Uint()
	if err != nil {
		return nil, err
	}
	if number < 1 {
		return nil, errors.New("Invalid chassis number: Must be > 0")
	}
	chassis.Number = number
	consumed++

	if devicesElement := element.Lookup("devices"); devicesElement != nil {
		if chassis.Devices, err = p.parseDeviceArray(devicesElement); err != nil {
			return nil, err
		}
		consumed++
	}

	if err := element.VerifyPropertyCount(consumed); err != nil {
		return nil, err
	}
	return chassis, nil
}

func (p *Parser) parseDeviceArray(element *jsonel.Node) ([]*regulator.Device, error) {
	if err := element.VerifyArray(); err != nil {
		return nil, err
	}
	var devices []*regulator.Device
	err := element.Items(func(index int, item *jsonel.Node) error {
		device, err := p.parseDevice(item)
		if err != nil {
			return err
		}
		devices = append(devices, device)
		return nil
	})
	return devices, err
}

func (p *Parser) parseDevice(element *jsonel.Node) (*regulator.Device, error) {
	if err := element.VerifyObject(); err != nil {
		return nil, err
	}
	consumed := 0
	device := &regulator.Device{}

	if element.Lookup("comments") != nil {
		consumed++
	}

	idElement, err := element.Required("id")
	if err != nil {
		return nil, err
	}
	if device.ID, err = idElement.String(false); err != nil {
		return nil, err
	}
	consumed++

	regulatorElement, err := element.Required("is_regulator")
	if err != nil {
		return nil, err
	}
	if device.IsRegulator, err = regulatorElement.Bool(); err != nil {
		return nil, err
	}
	consumed++

	fruElement, err := element.Required("fru")
	if err != nil {
		return nil, err
	}
	if device.FRU, err = fruElement.String(false); err != nil {
		return nil, err
	}
	consumed++

	interfaceElement, err := element.Required("i2c_interface")
	if err != nil {
		return nil, err
	}
	if device.I2C, err = p.parseI2CInterface(interfaceElement); err != nil {
		return nil, err
	}
	consumed++

	if presenceElement := element.Lookup("presence_detection"); presenceElement != nil {
		if device.PresenceDetection, err = p.parsePresenceDetection(presenceElement); err != nil {
			return nil, err
		}
		consumed++
	}

	if configurationElement := element.Lookup("configuration"); configurationElement != nil {
		if device.Configuration, err = p.parseConfiguration(configurationElement); err != nil {
			return nil, err
		}
		consumed++
	}

	if railsElement := element.Lookup("rails"); railsElement != nil {
		if !device.IsRegulator {
			return nil, errors.New("Invalid rails property when is_regulator is false")
		}
		if device.Rails, err = p.parseRailArray(railsElement); err != nil {
			return nil, err
		}
		consumed++
	}

	if err := element.VerifyPropertyCount(consumed); err != nil {
		return nil, err
	}
	return device, nil
}

func (p *Parser) parseI2CInterface(element *jsonel.Node) (i2c.Interface, error) {
	if err := element.VerifyObject(); err != nil {
		return nil, err
	}

	busElement, err := element.Required("bus")
	if err != nil {
		return nil, err
	}
	bus, err := busElement.Uint()
	if err != nil {
		return nil, err
	}

	addressElement, err := element.Required("address")
	if err != nil {
		return nil, err
	}
	address, err := addressElement.HexByte()
	if err != nil {
		return nil, err
	}

	if err := element.VerifyPropertyCount(2); err != nil {
		return nil, err
	}
	return p.i2cFactory(bus, address), nil
}

func (p *Parser) parseRailArray(element *jsonel.Node) ([]*regulator.Rail, error) {
	if err := element.VerifyArray(); err != nil {
		return nil, err
	}
	var rails []*regulator.Rail
	err := element.Items(func(index int, item *jsonel.Node) error {
		rail, err := p.parseRail(item)
		if err != nil {
			return err
		}
		rails = append(rails, rail)
		return nil
	})
	return rails, err
}

func (p *Parser) parseRail(element *jsonel.Node) (*regulator.Rail, error) {
	if err := element.VerifyObject(); err != nil {
		return nil, err
	}
	consumed := 0
	rail := &regulator.Rail{}

	if element.Lookup("comments") != nil {
		consumed++
	}

	idElement, err := element.Required("id")
	if err != nil {
		return nil, err
	}
	if rail.ID, err = idElement.String(false); err != nil {
		return nil, err
	}
	consumed++

	if configurationElement := element.Lookup("configuration"); configurationElement != nil {
		if rail.Configuration, err = p.parseConfiguration(configurationElement); err != nil {
			return nil, err
		}
		consumed++
	}

	if monitoringElement := element.Lookup("sensor_monitoring"); monitoringElement != nil {
		if rail.SensorMonitoring, err = p.parseSensorMonitoring(monitoringElement); err != nil {
			return nil, err
		}
		consumed++
	}

	if err := element.VerifyPropertyCount(consumed); err != nil {
		return nil, err
	}
	return rail, nil
}

// parseRuleIDOrActions handles the exclusive rule_id/actions choice shared
// by configuration, sensor monitoring and presence detection elements.
func (p *Parser) parseRuleIDOrActions(element *jsonel.Node) ([]regulator.Action, error) {
	ruleIDElement := element.Lookup("rule_id")
	actionsElement := element.Lookup("actions")
	if (ruleIDElement != nil) == (actionsElement != nil) {
		return nil, errors.New("Invalid property combination: Must contain either rule_id or actions")
	}

	if ruleIDElement != nil {
		ruleID, err := ruleIDElement.String(false)
		if err != nil {
			return nil, err
		}
		return []regulator.Action{&regulator.RunRuleAction{RuleID: ruleID}}, nil
	}
	return p.parseActionArray(actionsElement)
}

func (p *Parser) parseConfiguration(element *jsonel.Node) (*regulator.Configuration, error) {
	if err := element.VerifyObject(); err != nil {
		return nil, err
	}
	consumed := 0
	configuration := &regulator.Configuration{}

	if element.Lookup("comments") != nil {
		consumed++
	}

	if voltsElement := element.Lookup("volts"); voltsElement != nil {
		volts, err := voltsElement.Float64()
		if err != nil {
			return nil, err
		}
		configuration.Volts = &volts
		consumed++
	}

	actions, err := p.parseRuleIDOrActions(element)
	if err != nil {
		return nil, err
	}
	configuration.Actions = actions
	consumed++

	if err := element.VerifyPropertyCount(consumed); err != nil {
		return nil, err
	}
	return configuration, nil
}

func (p *Parser) parseSensorMonitoring(element *jsonel.Node) (*regulator.SensorMonitoring, error) {
	if err := element.VerifyObject(); err != nil {
		return nil, err
	}
	consumed := 0

	if element.Lookup("comments") != nil {
		consumed++
	}

	actions, err := p.parseRuleIDOrActions(element)
	if err != nil {
		return nil, err
	}
	consumed++

	if err := element.VerifyPropertyCount(consumed); err != nil {
		return nil, err
	}
	return &regulator.SensorMonitoring{Actions: actions}, nil
}

func (p *Parser) parsePresenceDetection(element *jsonel.Node) (*regulator.PresenceDetection, error) {
	if err := element.VerifyObject(); err != nil {
		return nil, err
	}
	consumed := 0

	if element.Lookup("comments") != nil {
		consumed++
	}

	actions, err := p.parseRuleIDOrActions(element)
	if err != nil {
		return nil, err
	}
	consumed++

	if err := element.VerifyPropertyCount(consumed); err != nil {
		return nil, err
	}
	return &regulator.PresenceDetection{Actions: actions}, nil
}
