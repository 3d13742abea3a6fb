//go:build !linux

package transport

import (
	"context"
	"fmt"
)

// CANBridge is only available on Linux, where SocketCAN exists.
type CANBridge struct{}

func NewCANBridge(ctx context.Context, iface string, id uint32, node *Node, topic string) (*CANBridge, error) {
	return nil, fmt.Errorf("socketcan bridge requires linux")
}

func (b *CANBridge) Run(ctx context.Context) error { return fmt.Errorf("socketcan bridge requires linux") }

func (b *CANBridge) Close() error { return nil }
