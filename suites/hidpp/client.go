package hidpp

import (
	"context"
	"encoding/binary"
	"fmt"
	"strings"
	"sync"
)

const softwareID = 0x0A

// Client issues typed feature calls over a Transport. Feature indexes are
// looked up through the Root feature once and cached.
type Client struct {
	t Transport

	mu      sync.Mutex
	indexes map[uint16]byte
}

func NewClient(t Transport) *Client {
	return &Client{
		t:       t,
		indexes: map[uint16]byte{FeatureRoot: 0},
	}
}

func (c *Client) send(ctx context.Context, index, function byte, params ...byte) ([]byte, error) {
	res, err := c.t.Request(ctx, Request{
		FeatureIndex: index,
		Function:     function,
		SoftwareID:   softwareID,
		Params:       params,
	})
	if err != nil {
		return nil, err
	}
	if res.FeatureIndex != index || res.Function != function || res.SoftwareID != softwareID {
		return nil, fmt.Errorf("unexpected response to feature index %d function %d", index, function)
	}
	return res.Params, nil
}

func (c *Client) call(ctx context.Context, feature uint16, function byte, params ...byte) ([]byte, error) {
	index, err := c.FeatureIndex(ctx, feature)
	if err != nil {
		return nil, err
	}
	return c.send(ctx, index, function, params...)
}

// FeatureIndex returns the index of feature in the device feature table.
// Features the device lacks give ErrUnsupportedFeature.
func (c *Client) FeatureIndex(ctx context.Context, feature uint16) (byte, error) {
	c.mu.Lock()
	index, ok := c.indexes[feature]
	c.mu.Unlock()
	if ok {
		return index, nil
	}

	p, err := c.send(ctx, 0, rootGetFeature, byte(feature>>8), byte(feature))
	if err != nil {
		return 0, err
	}
	if p[0] == 0 {
		return 0, fmt.Errorf("feature 0x%04X: %w", feature, ErrUnsupportedFeature)
	}

	c.mu.Lock()
	c.indexes[feature] = p[0]
	c.mu.Unlock()
	return p[0], nil
}

type ProtocolVersion struct {
	Major byte
	Minor byte
}

// Ping returns the protocol version along with the echoed data byte.
func (c *Client) Ping(ctx context.Context, data byte) (ProtocolVersion, byte, error) {
	p, err := c.call(ctx, FeatureRoot, rootGetProtocolVersion, 0, 0, data)
	if err != nil {
		return ProtocolVersion{}, 0, err
	}
	return ProtocolVersion{Major: p[0], Minor: p[1]}, p[2], nil
}

func (c *Client) SensorCount(ctx context.Context) (int, error) {
	p, err := c.call(ctx, FeatureAdjustableDPI, dpiGetSensorCount)
	if err != nil {
		return 0, err
	}
	return int(p[0]), nil
}

func (c *Client) SupportedDPI(ctx context.Context, sensor byte) ([]uint16, error) {
	p, err := c.call(ctx, FeatureAdjustableDPI, dpiGetSensorDPIList, sensor)
	if err != nil {
		return nil, err
	}

	var list []uint16
	for i := 1; i+1 < len(p); i += 2 {
		dpi := binary.BigEndian.Uint16(p[i:])
		if dpi == 0 {
			break
		}
		list = append(list, dpi)
	}
	return list, nil
}

// DPI returns the current and default DPI of sensor.
func (c *Client) DPI(ctx context.Context, sensor byte) (current, def uint16, err error) {
	p, err := c.call(ctx, FeatureAdjustableDPI, dpiGetSensorDPI, sensor)
	if err != nil {
		return 0, 0, err
	}
	return binary.BigEndian.Uint16(p[1:3]), binary.BigEndian.Uint16(p[3:5]), nil
}

// SetDPI sets the DPI of sensor. Zero restores the default. The device echoes
// the value it applied.
func (c *Client) SetDPI(ctx context.Context, sensor byte, dpi uint16) (uint16, error) {
	p, err := c.call(ctx, FeatureAdjustableDPI, dpiSetSensorDPI, sensor, byte(dpi>>8), byte(dpi))
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(p[1:3]), nil
}

func (c *Client) Name(ctx context.Context) (string, error) {
	p, err := c.call(ctx, FeatureDeviceName, nameGetCount)
	if err != nil {
		return "", err
	}
	length := int(p[0])

	var name strings.Builder
	for name.Len() < length {
		chunk, err := c.call(ctx, FeatureDeviceName, nameGetName, byte(name.Len()))
		if err != nil {
			return "", err
		}
		if len(chunk) == 0 {
			return "", fmt.Errorf("device name truncated at %d of %d characters", name.Len(), length)
		}
		name.Write(chunk[:min(len(chunk), length-name.Len())])
	}
	return name.String(), nil
}

func (c *Client) DeviceType(ctx context.Context) (byte, error) {
	p, err := c.call(ctx, FeatureDeviceName, nameGetType)
	if err != nil {
		return 0, err
	}
	return p[0], nil
}
