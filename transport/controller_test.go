package transport_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ystepanoff/gowmbus/driver/stub"
	"github.com/ystepanoff/gowmbus/protocol"
	"github.com/ystepanoff/gowmbus/transport"
)

var ffbFrame = []byte{
	0x13, 0x44, 0x2D, 0x2C, 0x78, 0x56, 0x34, 0x12, 0x01, 0x32,
	0xA0, 0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0xC3, 0xC0,
}

func TestController_Receive_YieldsDecodedFrame(t *testing.T) {
	driver := stub.New(-42)
	driver.InjectRx(ffbFrame)

	ctrl := transport.NewController(driver)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	ch := ctrl.Receive(ctx)

	select {
	case result := <-ch:
		require.NoError(t, result.Err)
		require.NotNil(t, result.Frame.Packet.DLL)
		assert.Equal(t, protocol.KAM, result.Frame.Packet.DLL.Address.Manufacturer)
		assert.Equal(t, uint32(12345678), result.Frame.Packet.DLL.Address.SerialNumber)
		assert.EqualValues(t, -42, result.Frame.RSSI)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for frame")
	}

	cancel()
}

func TestController_Receive_ChunkedDelivery(t *testing.T) {
	driver := stub.New(0)
	driver.InjectRx(ffbFrame[:3])
	driver.InjectRx(ffbFrame[3:])

	ctrl := transport.NewController(driver)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	ch := ctrl.Receive(ctx)

	select {
	case result := <-ch:
		require.NoError(t, result.Err)
		require.Len(t, result.Frame.Packet.APL, 8)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for frame")
	}

	cancel()
}

func TestController_Transmit_RecordsTxLog(t *testing.T) {
	driver := stub.New(0)
	ctrl := transport.NewController(driver)
	ctx := context.Background()

	require.NoError(t, ctrl.Write(ctx, []byte{0x01, 0x02, 0x03}))
	require.NoError(t, ctrl.Transmit(ctx))

	log := driver.GetTxLog()
	require.Len(t, log, 1)
	assert.Equal(t, []byte{0x01, 0x02, 0x03}, log[0])
}

func TestController_Release(t *testing.T) {
	driver := stub.New(0)
	ctrl := transport.NewController(driver)
	released := ctrl.Release()
	assert.Same(t, driver, released)
}
