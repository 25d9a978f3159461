package hidpp

import (
	"context"
	"encoding/binary"
	"slices"
	"sync"
)

const (
	protocolMajor = 4
	protocolMinor = 2

	DeviceTypeMouse byte = 3
)

type Sensor struct {
	DPI       uint16
	Default   uint16
	Supported []uint16
}

// Faults make a simulated device misbehave.
type Faults struct {
	// Every request fails with ErrDisconnected.
	Disconnected bool

	// DPI writes are acknowledged but not applied.
	IgnoreDPIWrites bool

	// Responses carry no parameters.
	ShortResponses bool
}

type DeviceOption func(*Device)

func WithName(name string) DeviceOption {
	return func(d *Device) {
		d.name = name
	}
}

func WithSensors(sensors ...Sensor) DeviceOption {
	return func(d *Device) {
		d.sensors = slices.Clone(sensors)
	}
}

func WithFaults(f Faults) DeviceOption {
	return func(d *Device) {
		d.faults = f
	}
}

// Device simulates a HID++ 2.0 mouse implementing the Root, DeviceName and
// AdjustableDPI features.
type Device struct {
	mu       sync.Mutex
	name     string
	sensors  []Sensor
	features []uint16
	faults   Faults
}

var _ Transport = (*Device)(nil)

func NewDevice(opts ...DeviceOption) *Device {
	d := &Device{
		name: "Simulated Mouse",
		sensors: []Sensor{{
			DPI:       800,
			Default:   800,
			Supported: []uint16{400, 800, 1600, 3200},
		}},
		features: []uint16{FeatureRoot, FeatureDeviceName, FeatureAdjustableDPI},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// SetFaults replaces the faults of a running device.
func (d *Device) SetFaults(f Faults) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.faults = f
}

func (d *Device) Request(ctx context.Context, req Request) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.faults.Disconnected {
		return Response{}, ErrDisconnected
	}

	if int(req.FeatureIndex) >= len(d.features) {
		return Response{}, d.fail(req, ErrInvalidFeatureIndex)
	}

	var (
		params []byte
		code   ErrorCode
	)
	switch d.features[req.FeatureIndex] {
	case FeatureRoot:
		params, code = d.root(req)
	case FeatureDeviceName:
		params, code = d.deviceName(req)
	case FeatureAdjustableDPI:
		params, code = d.adjustableDPI(req)
	}
	if code != ErrNoError {
		return Response{}, d.fail(req, code)
	}

	res := Response{
		FeatureIndex: req.FeatureIndex,
		Function:     req.Function,
		SoftwareID:   req.SoftwareID,
	}
	if !d.faults.ShortResponses {
		res.Params = make([]byte, paramsLen)
		copy(res.Params, params)
	}
	return res, nil
}

func (d *Device) fail(req Request, code ErrorCode) error {
	return &DeviceError{FeatureIndex: req.FeatureIndex, Function: req.Function, Code: code}
}

func (d *Device) root(req Request) ([]byte, ErrorCode) {
	switch req.Function {
	case rootGetFeature:
		feature := binary.BigEndian.Uint16(param(req, 0, 2))
		index := slices.Index(d.features, feature)
		if index < 0 {
			// Unknown features report index 0.
			return []byte{0, 0, 0}, ErrNoError
		}
		return []byte{byte(index), 0, 0}, ErrNoError
	case rootGetProtocolVersion:
		return []byte{protocolMajor, protocolMinor, param(req, 2, 1)[0]}, ErrNoError
	}
	return nil, ErrInvalidFunctionID
}

func (d *Device) deviceName(req Request) ([]byte, ErrorCode) {
	switch req.Function {
	case nameGetCount:
		return []byte{byte(len(d.name))}, ErrNoError
	case nameGetName:
		start := int(param(req, 0, 1)[0])
		if start >= len(d.name) {
			return nil, ErrInvalidArgument
		}
		return []byte(d.name[start:min(start+paramsLen, len(d.name))]), ErrNoError
	case nameGetType:
		return []byte{DeviceTypeMouse}, ErrNoError
	}
	return nil, ErrInvalidFunctionID
}

func (d *Device) adjustableDPI(req Request) ([]byte, ErrorCode) {
	if req.Function == dpiGetSensorCount {
		return []byte{byte(len(d.sensors))}, ErrNoError
	}

	index := int(param(req, 0, 1)[0])
	if index >= len(d.sensors) {
		return nil, ErrInvalidArgument
	}
	sensor := &d.sensors[index]

	switch req.Function {
	case dpiGetSensorDPIList:
		// Zero terminated, as many values as fit in one report.
		out := []byte{byte(index)}
		for _, dpi := range sensor.Supported {
			if len(out)+2 > paramsLen-2 {
				break
			}
			out = binary.BigEndian.AppendUint16(out, dpi)
		}
		return binary.BigEndian.AppendUint16(out, 0), ErrNoError
	case dpiGetSensorDPI:
		out := []byte{byte(index)}
		out = binary.BigEndian.AppendUint16(out, sensor.DPI)
		return binary.BigEndian.AppendUint16(out, sensor.Default), ErrNoError
	case dpiSetSensorDPI:
		dpi := binary.BigEndian.Uint16(param(req, 1, 2))
		if dpi == 0 {
			dpi = sensor.Default
		}
		if !slices.Contains(sensor.Supported, dpi) {
			return nil, ErrInvalidArgument
		}
		if !d.faults.IgnoreDPIWrites {
			sensor.DPI = dpi
		}
		return binary.BigEndian.AppendUint16([]byte{byte(index)}, dpi), ErrNoError
	}
	return nil, ErrInvalidFunctionID
}

// param returns n bytes of the request parameters at offset, zero padded.
func param(req Request, offset, n int) []byte {
	out := make([]byte, n)
	if offset < len(req.Params) {
		copy(out, req.Params[offset:])
	}
	return out
}
