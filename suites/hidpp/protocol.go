// Package hidpp holds example suites run against a simulated HID++ 2.0
// device.
package hidpp

import (
	"context"
	"errors"
	"fmt"
)

const (
	FeatureRoot          uint16 = 0x0000
	FeatureDeviceName    uint16 = 0x0005
	FeatureAdjustableDPI uint16 = 0x2201
)

// Function indexes of each feature.
const (
	rootGetFeature         byte = 0
	rootGetProtocolVersion byte = 1

	nameGetCount byte = 0
	nameGetName  byte = 1
	nameGetType  byte = 2

	dpiGetSensorCount   byte = 0
	dpiGetSensorDPIList byte = 1
	dpiGetSensorDPI     byte = 2
	dpiSetSensorDPI     byte = 3
)

// Long reports carry 16 parameter bytes.
const paramsLen = 16

type ErrorCode byte

const (
	ErrNoError ErrorCode = iota
	ErrUnknown
	ErrInvalidArgument
	ErrOutOfRange
	ErrHardware
	ErrInternal
	ErrInvalidFeatureIndex
	ErrInvalidFunctionID
	ErrBusy
	ErrUnsupported
)

var errorCodeNames = map[ErrorCode]string{
	ErrNoError:             "NO_ERROR",
	ErrUnknown:             "UNKNOWN",
	ErrInvalidArgument:     "INVALID_ARGUMENT",
	ErrOutOfRange:          "OUT_OF_RANGE",
	ErrHardware:            "HW_ERROR",
	ErrInternal:            "INTERNAL",
	ErrInvalidFeatureIndex: "INVALID_FEATURE_INDEX",
	ErrInvalidFunctionID:   "INVALID_FUNCTION_ID",
	ErrBusy:                "BUSY",
	ErrUnsupported:         "UNSUPPORTED",
}

func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("0x%02X", byte(c))
}

// DeviceError is an error report sent back by the device.
type DeviceError struct {
	FeatureIndex byte
	Function     byte
	Code         ErrorCode
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("device error %s on feature index %d function %d", e.Code, e.FeatureIndex, e.Function)
}

var (
	ErrDisconnected       = errors.New("device disconnected")
	ErrUnsupportedFeature = errors.New("feature not supported by the device")
)

type Request struct {
	FeatureIndex byte
	Function     byte
	SoftwareID   byte
	Params       []byte
}

type Response struct {
	FeatureIndex byte
	Function     byte
	SoftwareID   byte
	Params       []byte
}

// Transport sends one request to a device and waits for its response.
type Transport interface {
	Request(ctx context.Context, req Request) (Response, error)
}
