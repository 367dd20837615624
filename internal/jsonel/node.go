// Package jsonel wraps JSON configuration elements and converts them into
// strictly typed primitives.  Every conversion validates the element and
// fails with a short, stable message; the config parser relies on those
// messages being exact.
//
// Documents are decoded with yaml.v3, which accepts JSON as a proper subset
// and preserves the lexical distinction between integers and floats that the
// range checks below depend on.
package jsonel

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Node is one JSON element of a configuration document.
type Node yaml.Node

// Parse decodes a JSON document and returns its root element.
func Parse(data []byte) (*Node, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	root := &node
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil, errors.New("Element is not an object")
		}
		root = root.Content[0]
	}
	return (*Node)(root), nil
}

// VerifyObject fails unless the element is a JSON object.
func (n *Node) VerifyObject() error {
	if n == nil || n.Kind != yaml.MappingNode {
		return errors.New("Element is not an object")
	}
	return nil
}

// VerifyArray fails unless the element is a JSON array.
func (n *Node) VerifyArray() error {
	if n == nil || n.Kind != yaml.SequenceNode {
		return errors.New("Element is not an array")
	}
	return nil
}

// Size returns the number of properties of an object element.
func (n *Node) Size() int {
	if n == nil || n.Kind != yaml.MappingNode {
		return 0
	}
	return len(n.Content) / 2
}

// VerifyPropertyCount fails when the object holds properties beyond the ones
// the caller consumed.  This is the general guard against unrecognized keys.
func (n *Node) VerifyPropertyCount(consumed int) error {
	if n.Size() != consumed {
		return errors.New("Element contains an invalid property")
	}
	return nil
}

// Lookup returns the value of the named property, or nil when absent.
func (n *Node) Lookup(name string) *Node {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == name {
			return (*Node)(n.Content[i+1])
		}
	}
	return nil
}

// Required returns the value of the named property and fails when absent.
func (n *Node) Required(name string) (*Node, error) {
	if value := n.Lookup(name); value != nil {
		return value, nil
	}
	return nil, fmt.Errorf("Required property missing: %s", name)
}

// Pairs invokes callback for each property of an object element in document
// order.
func (n *Node) Pairs(callback func(key string, value *Node) error) error {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if err := callback(n.Content[i].Value, (*Node)(n.Content[i+1])); err != nil {
			return err
		}
	}
	return nil
}

// Items invokes callback for each element of an array in document order.
func (n *Node) Items(callback func(index int, value *Node) error) error {
	if n == nil || n.Kind != yaml.SequenceNode {
		return nil
	}
	for i, value := range n.Content {
		if err := callback(i, (*Node)(value)); err != nil {
			return err
		}
	}
	return nil
}

func (n *Node) isScalar(tag string) bool {
	return n != nil && n.Kind == yaml.ScalarNode && n.Tag == tag
}

// Bool converts a boolean element.
func (n *Node) Bool() (bool, error) {
	if !n.isScalar("!!bool") {
		return false, errors.New("Element is not a boolean")
	}
	return n.Value == "true", nil
}

// Float64 converts a numeric element, integral or floating point.
func (n *Node) Float64() (float64, error) {
	if n == nil || n.Kind != yaml.ScalarNode || (n.Tag != "!!int" && n.Tag != "!!float") {
		return 0, errors.New("Element is not a number")
	}
	value, err := strconv.ParseFloat(n.Value, 64)
	if err != nil {
		return 0, errors.New("Element is not a number")
	}
	return value, nil
}

func (n *Node) integer() (int64, error) {
	if !n.isScalar("!!int") {
		return 0, errors.New("Element is not an integer")
	}
	value, err := strconv.ParseInt(n.Value, 10, 64)
	if err != nil {
		return 0, errors.New("Element is not an integer")
	}
	return value, nil
}

// Int8 converts an 8-bit signed integer element.
func (n *Node) Int8() (int8, error) {
	value, err := n.integer()
	if err != nil {
		return 0, err
	}
	if value < math.MinInt8 || value > math.MaxInt8 {
		return 0, errors.New("Element is not an 8-bit signed integer")
	}
	return int8(value), nil
}

// Uint8 converts an 8-bit unsigned integer element.
func (n *Node) Uint8() (uint8, error) {
	value, err := n.integer()
	if err != nil {
		return 0, err
	}
	if value < 0 || value > math.MaxUint8 {
		return 0, errors.New("Element is not an 8-bit unsigned integer")
	}
	return uint8(value), nil
}

// Uint converts a non-negative integer element.
func (n *Node) Uint() (uint, error) {
	if !n.isScalar("!!int") {
		return 0, errors.New("Element is not an unsigned integer")
	}
	value, err := strconv.ParseUint(n.Value, 10, 64)
	if err != nil {
		return 0, errors.New("Element is not an unsigned integer")
	}
	return uint(value), nil
}

// BitPosition converts a bit position element, 0 through 7.
func (n *Node) BitPosition() (uint8, error) {
	value, err := n.integer()
	if err != nil {
		return 0, err
	}
	if value < 0 || value > 7 {
		return 0, errors.New("Element is not a bit position")
	}
	return uint8(value), nil
}

// BitValue converts a bit value element, 0 or 1.
func (n *Node) BitValue() (uint8, error) {
	value, err := n.integer()
	if err != nil {
		return 0, err
	}
	if value < 0 || value > 1 {
		return 0, errors.New("Element is not a bit value")
	}
	return uint8(value), nil
}

// String converts a string element.  Empty strings are rejected unless
// allowEmpty is set.
func (n *Node) String(allowEmpty bool) (string, error) {
	if !n.isScalar("!!str") {
		return "", errors.New("Element is not a string")
	}
	if n.Value == "" && !allowEmpty {
		return "", errors.New("Element contains an empty string")
	}
	return n.Value, nil
}

// HexByte converts a hexadecimal string element of the form "0x" followed by
// one or two hex digits.  The prefix must be lowercase.
func (n *Node) HexByte() (uint8, error) {
	if !n.isScalar("!!str") {
		return 0, errors.New("Element is not a string")
	}
	value := n.Value
	if len(value) < 3 || len(value) > 4 || value[0] != '0' || value[1] != 'x' {
		return 0, errors.New("Element is not hexadecimal string")
	}
	parsed, err := strconv.ParseUint(value[2:], 16, 8)
	if err != nil {
		return 0, errors.New("Element is not hexadecimal string")
	}
	return uint8(parsed), nil
}

// HexByteArray converts an array of hexadecimal string elements.
func (n *Node) HexByteArray() ([]uint8, error) {
	if err := n.VerifyArray(); err != nil {
		return nil, err
	}
	values := make([]uint8, 0, len(n.Content))
	for _, element := range n.Content {
		value, err := (*Node)(element).HexByte()
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	return values, nil
}
