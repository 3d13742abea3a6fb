//go:build linux

package transport

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"net"

	"go.einride.tech/can"
	"go.einride.tech/can/pkg/socketcan"
)

// CANBridge forwards command frames from a SocketCAN interface onto a Node
// topic. The frame payload is an 8-byte big-endian float64.
type CANBridge struct {
	conn  net.Conn
	recv  *socketcan.Receiver
	node  *Node
	id    uint32
	topic string
}

func NewCANBridge(ctx context.Context, iface string, id uint32, node *Node, topic string) (*CANBridge, error) {
	conn, err := socketcan.DialContext(ctx, "can", iface)
	if err != nil {
		return nil, fmt.Errorf("socketcan dial %s: %w", iface, err)
	}
	return &CANBridge{
		conn:  conn,
		recv:  socketcan.NewReceiver(conn),
		node:  node,
		id:    id,
		topic: topic,
	}, nil
}

// Run receives frames until the context is cancelled or the socket closes.
// Frames with a different arbitration ID or a short payload are ignored.
func (b *CANBridge) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		b.conn.Close()
	}()

	for b.recv.Receive() {
		frame := b.recv.Frame()
		if frame.ID != b.id {
			continue
		}
		if v, ok := decodeCommand(frame); ok {
			b.node.Publish(b.topic, v)
		}
	}
	return ctx.Err()
}

func (b *CANBridge) Close() error {
	return b.conn.Close()
}

func decodeCommand(frame can.Frame) (float64, bool) {
	if frame.Length < 8 {
		return 0, false
	}
	bits := binary.BigEndian.Uint64(frame.Data[:8])
	v := math.Float64frombits(bits)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
