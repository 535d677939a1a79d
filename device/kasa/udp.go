package kasa

import (
	"context"
	"net"

	"go.uber.org/zap"

	"homelight/logging"
)

// SendUDP sends cmd as one datagram and waits for exactly one reply from any source.
func SendUDP(ctx context.Context, cmd Command, address string, opts Options) (Response, error) {
	request, err := MarshalCommand(cmd)
	if err != nil {
		return nil, err
	}
	addr := opts.target(address)
	log := opts.logger().With(zap.String("transport", "udp"), zap.String("addr", addr))

	remote, err := net.ResolveUDPAddr("udp4", addr)
	if err != nil {
		return nil, &TransportError{Op: "resolve", Addr: addr, Err: err}
	}

	ctx, cancel := opts.bound(ctx)
	defer cancel()

	conn, err := net.ListenUDP("udp4", nil)
	if err != nil {
		return nil, &TransportError{Op: "listen", Addr: addr, Err: err}
	}
	defer func() { _ = conn.Close() }()
	stop, err := watchConnection(ctx, conn)
	if err != nil {
		return nil, &TransportError{Op: "listen", Addr: addr, Err: err}
	}
	defer stop()
	log.Debug("Listening for reply", zap.Stringer("local", conn.LocalAddr()))

	scrambled := Encrypt(request)
	written, err := conn.WriteToUDP(scrambled, remote)
	if err != nil {
		return nil, classifyNetError(ctx, "write", addr, err)
	}
	log.Debug("Request sent", zap.Int("bytes", written), zap.ByteString("command", request))

	buffer := make([]byte, maxResponseSize)
	bytesRead, from, err := conn.ReadFromUDP(buffer)
	if err != nil {
		return nil, classifyNetError(ctx, "read", addr, err)
	}
	logging.LogRawBytes(log, "Encrypted reply", buffer[:bytesRead])

	clearText := Decrypt(buffer[:bytesRead])
	log.Debug("Reply received", zap.Stringer("from", from), zap.ByteString("response", clearText))
	return parseResponse(clearText)
}
