package abi

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// jsonParameter is an entry of the inputs/outputs arrays of a JSON ABI.
type jsonParameter struct {
	Name       string          `json:"name"`
	Type       string          `json:"type"`
	Components []jsonParameter `json:"components,omitempty"`
}

// jsonEntry is a single element of a JSON ABI document.
type jsonEntry struct {
	Type            string          `json:"type"`
	Name            string          `json:"name"`
	Inputs          []jsonParameter `json:"inputs"`
	Outputs         []jsonParameter `json:"outputs"`
	StateMutability string          `json:"stateMutability,omitempty"`
	Constant        bool            `json:"constant,omitempty"`
}

// Contract is the set of functions found in a JSON ABI document, keyed by name. Overloaded
// functions keep the first definition.
type Contract map[string]Function

// ParseJSON reads a JSON ABI document. Entries other than functions (events, errors,
// constructors) are ignored.
func ParseJSON(r io.Reader) (Contract, error) {
	var entries []jsonEntry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("unable to decode abi json: %w", err)
	}
	contract := make(Contract)
	for _, e := range entries {
		// a missing type defaults to function.
		if e.Type != "" && e.Type != "function" {
			continue
		}
		fn, err := e.function()
		if err != nil {
			return nil, err
		}
		if _, ok := contract[fn.Name()]; !ok {
			contract[fn.Name()] = fn
		}
	}
	return contract, nil
}

// Function returns the named function.
func (c Contract) Function(name string) (Function, error) {
	fn, ok := c[name]
	if !ok {
		return Function{}, fmt.Errorf("function %q not found in abi", name)
	}
	return fn, nil
}

func (e jsonEntry) function() (Function, error) {
	inputs := make([]Argument, len(e.Inputs))
	for i, p := range e.Inputs {
		t, err := p.abiType()
		if err != nil {
			return Function{}, fmt.Errorf("%s input %d: %w", e.Name, i, err)
		}
		inputs[i] = Argument{Name: p.Name, Type: t}
	}
	outputs := make([]Type, len(e.Outputs))
	for i, p := range e.Outputs {
		t, err := p.abiType()
		if err != nil {
			return Function{}, fmt.Errorf("%s output %d: %w", e.Name, i, err)
		}
		outputs[i] = t
	}
	return NewFunction(e.Name, inputs, outputs)
}

// abiType resolves "tuple", "tuple[]" and "tuple[k][]" through the components list.
func (p jsonParameter) abiType() (Type, error) {
	if !strings.HasPrefix(p.Type, "tuple") {
		return TypeOf(p.Type)
	}
	fields := make([]string, len(p.Components))
	for i, c := range p.Components {
		t, err := c.abiType()
		if err != nil {
			return Type{}, err
		}
		fields[i] = t.String()
	}
	return TypeOf("(" + strings.Join(fields, ",") + ")" + strings.TrimPrefix(p.Type, "tuple"))
}
