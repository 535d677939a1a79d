package kasa

import (
	"context"
	"errors"
	"io"
	"net"

	"go.uber.org/zap"

	"homelight/logging"
)

// tcpRequestHeader prefixes every TCP request. Bulbs accept this constant
// regardless of payload length, so it is sent as-is rather than computed.
var tcpRequestHeader = [4]byte{0x00, 0x00, 0x00, 0x8c}

// SendTCP opens a connection, writes the header and encrypted command, and
// decodes the first chunk of data the bulb sends back before closing.
func SendTCP(ctx context.Context, cmd Command, address string, opts Options) (Response, error) {
	request, err := MarshalCommand(cmd)
	if err != nil {
		return nil, err
	}
	addr := opts.target(address)
	log := opts.logger().With(zap.String("transport", "tcp"), zap.String("addr", addr))

	ctx, cancel := opts.bound(ctx)
	defer cancel()

	dialer := &net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, classifyNetError(ctx, "dial", addr, err)
	}
	defer func() {
		_ = conn.Close()
		log.Debug("Connection closed")
	}()
	stop, err := watchConnection(ctx, conn)
	if err != nil {
		return nil, &TransportError{Op: "dial", Addr: addr, Err: err}
	}
	defer stop()
	log.Debug("Connected", zap.Stringer("local", conn.LocalAddr()))

	frame := make([]byte, 0, len(tcpRequestHeader)+len(request))
	frame = append(frame, tcpRequestHeader[:]...)
	frame = append(frame, Encrypt(request)...)
	if _, err := conn.Write(frame); err != nil {
		return nil, classifyNetError(ctx, "write", addr, err)
	}
	log.Debug("Request sent", zap.Int("bytes", len(frame)), zap.ByteString("command", request))

	buffer := make([]byte, maxResponseSize)
	bytesRead, err := conn.Read(buffer)
	if bytesRead == 0 {
		if err == nil || errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, classifyNetError(ctx, "read", addr, err)
	}
	logging.LogRawBytes(log, "Encrypted reply", buffer[:bytesRead])

	clearText := DecryptFrame(buffer[:bytesRead], opts.responseHeaderSize())
	log.Debug("Reply received", zap.ByteString("response", clearText))
	return parseResponse(clearText)
}
