package kasa

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	onStateReply  = `{"smartlife.iot.smartbulb.lightingservice":{"get_light_state":{"on_off":1,"hue":0,"saturation":0,"color_temp":3000,"brightness":100,"mode":"normal","err_code":0}}}`
	offStateReply = `{"smartlife.iot.smartbulb.lightingservice":{"get_light_state":{"on_off":0,"dft_on_state":{"mode":"normal","hue":120,"saturation":100,"color_temp":0,"brightness":30},"err_code":0}}}`
	detailsReply  = `{"smartlife.iot.smartbulb.lightingservice":{"get_light_details":{"lamp_beam_angle":220,"min_voltage":220,"max_voltage":240,"wattage":10,"incandescent_equivalent":60,"max_lumens":800,"color_rendering_index":80,"err_code":0}}}`
)

// bulbHandler receives a decrypted request and returns the clear text reply,
// or nil to stay silent.
type bulbHandler func(t *testing.T, request []byte) []byte

type udpBulb struct {
	t        *testing.T
	conn     *net.UDPConn
	handler  bulbHandler
	received chan []byte
}

func startUDPBulb(t *testing.T, handler bulbHandler) (*udpBulb, string) {
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	bulb := &udpBulb{t: t, conn: conn, handler: handler, received: make(chan []byte, 64)}
	t.Cleanup(func() { _ = conn.Close() })
	go bulb.serve()
	return bulb, conn.LocalAddr().String()
}

func (b *udpBulb) serve() {
	buffer := make([]byte, 4096)
	for {
		bytesRead, from, err := b.conn.ReadFromUDP(buffer)
		if err != nil {
			return
		}
		request := Decrypt(buffer[:bytesRead])
		b.received <- request
		if reply := b.handler(b.t, request); reply != nil {
			_, _ = b.conn.WriteToUDP(Encrypt(reply), from)
		}
	}
}

type tcpBulb struct {
	t              *testing.T
	listener       net.Listener
	handler        bulbHandler
	prefixResponse bool
	headers        chan []byte
	received       chan []byte
}

func startTCPBulb(t *testing.T, prefixResponse bool, handler bulbHandler) (*tcpBulb, string) {
	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	require.NoError(t, err)
	bulb := &tcpBulb{
		t:              t,
		listener:       listener,
		handler:        handler,
		prefixResponse: prefixResponse,
		headers:        make(chan []byte, 64),
		received:       make(chan []byte, 64),
	}
	t.Cleanup(func() { _ = listener.Close() })
	go bulb.serve()
	return bulb, listener.Addr().String()
}

func (b *tcpBulb) serve() {
	for {
		conn, err := b.listener.Accept()
		if err != nil {
			return
		}
		go b.handle(conn)
	}
}

func (b *tcpBulb) handle(conn net.Conn) {
	defer func() { _ = conn.Close() }()
	_ = conn.SetDeadline(time.Now().Add(5 * time.Second))

	var frame []byte
	buffer := make([]byte, 4096)
	for len(frame) < 4 || !json.Valid(Decrypt(frame[4:])) {
		bytesRead, err := conn.Read(buffer)
		if err != nil {
			return
		}
		frame = append(frame, buffer[:bytesRead]...)
	}
	b.headers <- frame[:4]
	request := Decrypt(frame[4:])
	b.received <- request

	reply := b.handler(b.t, request)
	if reply == nil {
		return
	}
	scrambled := Encrypt(reply)
	if b.prefixResponse {
		scrambled = append(binary.BigEndian.AppendUint32(nil, uint32(len(scrambled))), scrambled...)
	}
	_, _ = conn.Write(scrambled)
}

func replyWith(reply string) bulbHandler {
	return func(t *testing.T, request []byte) []byte { return []byte(reply) }
}

func silent(t *testing.T, request []byte) []byte { return nil }

// replyByMethod answers each lighting service method with a canned reply.
func replyByMethod(replies map[string]string) bulbHandler {
	return func(t *testing.T, request []byte) []byte {
		method, err := requestMethod(request)
		if err != nil {
			t.Errorf("could not read request %q: %v", request, err)
			return nil
		}
		reply, ok := replies[method]
		if !ok {
			t.Errorf("unexpected method %s", method)
			return nil
		}
		return []byte(reply)
	}
}

func requestMethod(request []byte) (string, error) {
	var body map[string]map[string]json.RawMessage
	if err := json.Unmarshal(request, &body); err != nil {
		return "", err
	}
	for method := range body[LightingService] {
		return method, nil
	}
	return "", errors.New("request has no lighting service method")
}

// unusedAddress returns a loopback address nothing is listening on.
func unusedAddress(t *testing.T) string {
	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())
	return addr
}

func mustParse(t *testing.T, document string) Response {
	var response Response
	require.NoError(t, json.Unmarshal([]byte(document), &response))
	return response
}
