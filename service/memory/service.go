// Package memory provides deterministic in-memory implementations of the
// engine's external services.  They back the test suites and let the engine
// run standalone before real platform services are wired in.
package memory

import (
	"fmt"
	"sync"

	"github.com/powerctl/regulators/service"
)

// Services is an in-memory implementation of service.Services.
type Services struct {
	vpd      *VPD
	presence *Presence
	sensors  *Sensors
	errorLog *ErrorLog
	journal  service.Journal
}

// Option customizes the in-memory services.
type Option func(*Services)

// WithJournal overrides the journal implementation, e.g. with
// service.NewSlogJournal for daemon use.
func WithJournal(journal service.Journal) Option {
	return func(s *Services) { s.journal = journal }
}

// New returns in-memory services with empty fixtures and a recording journal.
func New(options ...Option) *Services {
	ret := &Services{
		vpd:      &VPD{values: map[string]string{}},
		presence: &Presence{present: map[string]bool{}},
		sensors:  &Sensors{},
		errorLog: &ErrorLog{},
		journal:  &Journal{},
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}

func (s *Services) VPD() service.VPD                   { return s.vpd }
func (s *Services) Presence() service.Presence         { return s.presence }
func (s *Services) Sensors() service.Sensors           { return s.sensors }
func (s *Services) ErrorLogging() service.ErrorLogging { return s.errorLog }
func (s *Services) Journal() service.Journal           { return s.journal }

// MemVPD returns the VPD fixture for seeding values in tests.
func (s *Services) MemVPD() *VPD { return s.vpd }

// MemPresence returns the presence fixture.
func (s *Services) MemPresence() *Presence { return s.presence }

// MemSensors returns the recorded sensor readings.
func (s *Services) MemSensors() *Sensors { return s.sensors }

// MemErrorLog returns the recorded error log entries.
func (s *Services) MemErrorLog() *ErrorLog { return s.errorLog }

// VPD is a map-backed VPD service.
type VPD struct {
	mu     sync.Mutex
	values map[string]string
}

// SetValue seeds the value returned for (fru, keyword).
func (v *VPD) SetValue(fru, keyword, value string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.values[fru+"\x00"+keyword] = value
}

func (v *VPD) GetValue(fru, keyword string) (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	value, ok := v.values[fru+"\x00"+keyword]
	if !ok {
		return "", fmt.Errorf("VPD keyword %s not found for %s", keyword, fru)
	}
	return value, nil
}

func (v *VPD) ClearCache() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.values = map[string]string{}
}

// Presence is a map-backed presence service.  FRUs default to present.
type Presence struct {
	mu      sync.Mutex
	present map[string]bool
}

// SetPresent seeds the presence state for a FRU.
func (p *Presence) SetPresent(fru string, present bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.present[fru] = present
}

func (p *Presence) Detected(fru string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	present, ok := p.present[fru]
	if !ok {
		return true, nil
	}
	return present, nil
}

// Reading is one recorded sensor value.
type Reading struct {
	Rail  string
	Type  service.SensorType
	Value float64
}

// Sensors records published readings.
type Sensors struct {
	mu       sync.Mutex
	rail     string
	readings []Reading
	ended    []bool
}

func (s *Sensors) StartRail(rail string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rail = rail
}

func (s *Sensors) SetValue(sensorType service.SensorType, value float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readings = append(s.readings, Reading{Rail: s.rail, Type: sensorType, Value: value})
	return nil
}

func (s *Sensors) EndRail(errorOccurred bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ended = append(s.ended, errorOccurred)
	s.rail = ""
}

// Readings returns all recorded readings in publish order.
func (s *Sensors) Readings() []Reading {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Reading(nil), s.readings...)
}

// ErrorLog records emitted error log entries.
type ErrorLog struct {
	mu      sync.Mutex
	entries []service.Entry
}

func (l *ErrorLog) Log(entry service.Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry)
}

// Entries returns all recorded entries in log order.
func (l *ErrorLog) Entries() []service.Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]service.Entry(nil), l.entries...)
}

// Journal records messages per level, preserving order within a level.
type Journal struct {
	mu            sync.Mutex
	DebugMessages []string
	InfoMessages  []string
	ErrorMessages []string
}

func (j *Journal) Debug(message string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.DebugMessages = append(j.DebugMessages, message)
}

func (j *Journal) Info(message string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.InfoMessages = append(j.InfoMessages, message)
}

func (j *Journal) Error(message string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.ErrorMessages = append(j.ErrorMessages, message)
}

func (j *Journal) Errors(messages []string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.ErrorMessages = append(j.ErrorMessages, messages...)
}
