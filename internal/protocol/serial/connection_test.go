package serial_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial"
	"go.uber.org/zap/zaptest"

	protoserial "bee-counter/internal/protocol/serial"
	"bee-counter/internal/protocol/serial/serialtest"
)

func newConnection(t *testing.T, opener *serialtest.Opener) *protoserial.Connection {
	t.Helper()
	conn, err := protoserial.NewConnection(&protoserial.Config{
		Port:     "/dev/ttyUSB0",
		BaudRate: 115200,
	}, opener.Open, zaptest.NewLogger(t))
	require.NoError(t, err)
	return conn
}

func TestNewConnectionValidation(t *testing.T) {
	_, err := protoserial.NewConnection(&protoserial.Config{BaudRate: 9600}, nil, zaptest.NewLogger(t))
	assert.Error(t, err)

	_, err = protoserial.NewConnection(&protoserial.Config{Port: "COM3"}, nil, zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestConnectionOpensWithFixedFraming(t *testing.T) {
	port := serialtest.NewPort()
	opener := serialtest.NewOpener(port)
	conn := newConnection(t, opener)

	require.NoError(t, conn.Open(context.Background()))
	assert.True(t, conn.IsOpen())

	mode := opener.LastMode()
	assert.Equal(t, "/dev/ttyUSB0", opener.LastName())
	assert.Equal(t, 115200, mode.BaudRate)
	assert.Equal(t, 8, mode.DataBits)
	assert.Equal(t, serial.NoParity, mode.Parity)
	assert.Equal(t, serial.OneStopBit, mode.StopBits)
	assert.Zero(t, port.ReadTimeout())

	// opening twice is a no-op
	require.NoError(t, conn.Open(context.Background()))
	assert.Equal(t, 1, opener.Calls())

	require.NoError(t, conn.Close())
	assert.False(t, conn.IsOpen())
	assert.True(t, port.Closed())
	require.NoError(t, conn.Close())
	assert.Equal(t, 1, port.CloseCount())
}

func TestConnectionReadRecords(t *testing.T) {
	port := serialtest.NewPort()
	conn := newConnection(t, serialtest.NewOpener(port))
	require.NoError(t, conn.Open(context.Background()))

	records, err := conn.ReadRecords()
	require.NoError(t, err)
	assert.Empty(t, records)

	port.Emit("5\n1")
	records, err = conn.ReadRecords()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "5", string(records[0]))

	port.Emit("2\n")
	records, err = conn.ReadRecords()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "12", string(records[0]))

	stats := conn.GetStats()
	assert.EqualValues(t, 5, stats.BytesRead)
	assert.EqualValues(t, 2, stats.Records)
}

func TestConnectionReadError(t *testing.T) {
	port := serialtest.NewPort()
	conn := newConnection(t, serialtest.NewOpener(port))
	require.NoError(t, conn.Open(context.Background()))

	unplugged := errors.New("input/output error")
	port.Fail(unplugged)

	_, err := conn.ReadRecords()
	require.Error(t, err)
	assert.ErrorIs(t, err, unplugged)
}

func TestConnectionReadWhenClosed(t *testing.T) {
	conn := newConnection(t, serialtest.NewOpener())
	_, err := conn.ReadRecords()
	assert.Error(t, err)
}

func TestConnectionOpenFailure(t *testing.T) {
	opener := serialtest.NewOpener()
	opener.FailWith(os.ErrPermission)
	conn := newConnection(t, opener)

	err := conn.Open(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrPermission)
	assert.False(t, conn.IsOpen())
}

func TestClassifyOpenError(t *testing.T) {
	assert.Equal(t, "", protoserial.ClassifyOpenError(nil))
	assert.Equal(t, protoserial.KindNotFound, protoserial.ClassifyOpenError(os.ErrNotExist))
	assert.Equal(t, protoserial.KindPermission, protoserial.ClassifyOpenError(os.ErrPermission))
	assert.Equal(t, protoserial.KindOther, protoserial.ClassifyOpenError(errors.New("boom")))
}
