package adsmux

import (
	"context"
	"time"

	"github.com/mrpasztoradam/adsmux/ams"
)

// encodeRequest assigns req its invoke id and returns its wire bytes. It's
// the shared last step of every command method below.
func (c *Client) encodeRequest(pkt ams.Packet, invokeID uint32) ([]byte, error) {
	pkt.Header().InvokeID = invokeID
	b := ams.NewBuffer(nil)
	if err := pkt.Encode(b); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func (c *Client) do(ctx context.Context, command string, pkt ams.Packet) (*pendingResult, error) {
	invokeID := c.nextInvokeID()
	frame, err := c.encodeRequest(pkt, invokeID)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	result, err := c.sendAndWait(ctx, invokeID, frame)
	if err == nil && result.err != nil {
		err = result.err
	}
	c.metrics.observeRequest(command, time.Since(start).Seconds(), err)
	if err != nil {
		return nil, err
	}
	if result.amsErr != 0 {
		return nil, NewAdsError(result.amsErr)
	}
	return result, nil
}

// Read issues an ADS Read command and returns the raw bytes at
// indexGroup/indexOffset.
func (c *Client) Read(ctx context.Context, indexGroup, indexOffset, length uint32) ([]byte, error) {
	req := ams.NewReadRequest(c.target, c.sender, indexGroup, indexOffset, length)
	result, err := c.do(ctx, "Read", req)
	if err != nil {
		return nil, err
	}
	var resp ams.ReadResponse
	if err := resp.Decode(ams.NewBuffer(result.payload)); err != nil {
		return nil, err
	}
	if resp.Result != 0 {
		return nil, NewAdsError(resp.Result)
	}
	return resp.Data, nil
}

// Write issues an ADS Write command at indexGroup/indexOffset.
func (c *Client) Write(ctx context.Context, indexGroup, indexOffset uint32, data []byte) error {
	req := ams.NewWriteRequest(c.target, c.sender, indexGroup, indexOffset, data)
	result, err := c.do(ctx, "Write", req)
	if err != nil {
		return err
	}
	var resp ams.WriteResponse
	if err := resp.Decode(ams.NewBuffer(result.payload)); err != nil {
		return err
	}
	if resp.Result != 0 {
		return NewAdsError(resp.Result)
	}
	return nil
}

// ReadWrite issues an ADS ReadWrite command: it writes writeData and reads
// back readLength bytes in the same round trip.
func (c *Client) ReadWrite(ctx context.Context, indexGroup, indexOffset, readLength uint32, writeData []byte) ([]byte, error) {
	req := ams.NewReadWriteRequest(c.target, c.sender, indexGroup, indexOffset, readLength, writeData)
	result, err := c.do(ctx, "ReadWrite", req)
	if err != nil {
		return nil, err
	}
	var resp ams.ReadWriteResponse
	if err := resp.Decode(ams.NewBuffer(result.payload)); err != nil {
		return nil, err
	}
	if resp.Result != 0 {
		return nil, NewAdsError(resp.Result)
	}
	return resp.Data, nil
}

// ReadState issues an ADS ReadState command and returns the target's ADS
// run state and device state.
func (c *Client) ReadState(ctx context.Context) (ams.StateInfo, error) {
	req := ams.NewReadStateRequest(c.target, c.sender)
	result, err := c.do(ctx, "ReadState", req)
	if err != nil {
		return ams.StateInfo{}, err
	}
	var resp ams.ReadStateResponse
	if err := resp.Decode(ams.NewBuffer(result.payload)); err != nil {
		return ams.StateInfo{}, err
	}
	if resp.Result != 0 {
		return ams.StateInfo{}, NewAdsError(resp.Result)
	}
	return resp.StateInfo()
}

// ReadDeviceInfo issues an ADS Read Device Info command and returns the
// target's version and name.
func (c *Client) ReadDeviceInfo(ctx context.Context) (ams.DeviceInfo, error) {
	req := ams.NewReadDeviceInfoRequest(c.target, c.sender)
	result, err := c.do(ctx, "ReadDeviceInfo", req)
	if err != nil {
		return ams.DeviceInfo{}, err
	}
	var resp ams.ReadDeviceInfoResponse
	if err := resp.Decode(ams.NewBuffer(result.payload)); err != nil {
		return ams.DeviceInfo{}, err
	}
	if resp.Result != 0 {
		return ams.DeviceInfo{}, NewAdsError(resp.Result)
	}
	return resp.DeviceInfo(), nil
}

// WriteControl issues an ADS WriteControl command, requesting the target
// switch to adsState/deviceState. Use StateReconfig to request
// config mode and StateReset to request run mode, per the protocol's own
// convention.
func (c *Client) WriteControl(ctx context.Context, adsState ams.AdsState, deviceState uint16, data []byte) error {
	req := ams.NewWriteControlRequest(c.target, c.sender, adsState, deviceState, data)
	result, err := c.do(ctx, "WriteControl", req)
	if err != nil {
		return err
	}
	var resp ams.WriteControlResponse
	if err := resp.Decode(ams.NewBuffer(result.payload)); err != nil {
		return err
	}
	if resp.Result != 0 {
		return NewAdsError(resp.Result)
	}
	return nil
}

// AddDeviceNotification subscribes cb to changes on the variable at
// indexGroup/indexOffset and returns the server-assigned handle needed to
// later call DeleteDeviceNotification.
func (c *Client) AddDeviceNotification(ctx context.Context, indexGroup, indexOffset uint32, attrib ams.NotificationAttrib, cb NotificationCallback, userData any) (uint32, error) {
	req := ams.NewAddDeviceNotificationRequest(c.target, c.sender, indexGroup, indexOffset, attrib)
	result, err := c.do(ctx, "AddDeviceNotification", req)
	if err != nil {
		return 0, err
	}
	var resp ams.AddDeviceNotificationResponse
	if err := resp.Decode(ams.NewBuffer(result.payload)); err != nil {
		return 0, err
	}
	if resp.Result != 0 {
		return 0, NewAdsError(resp.Result)
	}
	c.notifications.register(resp.Handle, cb, userData)
	return resp.Handle, nil
}

// DeleteDeviceNotification cancels a subscription previously returned by
// AddDeviceNotification.
func (c *Client) DeleteDeviceNotification(ctx context.Context, handle uint32) error {
	req := ams.NewDeleteDeviceNotificationRequest(c.target, c.sender, handle)
	result, err := c.do(ctx, "DeleteDeviceNotification", req)
	if err != nil {
		return err
	}
	var resp ams.DeleteDeviceNotificationResponse
	if err := resp.Decode(ams.NewBuffer(result.payload)); err != nil {
		return err
	}
	c.notifications.unregister(handle)
	if resp.Result != 0 {
		return NewAdsError(resp.Result)
	}
	return nil
}
