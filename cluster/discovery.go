package cluster

import (
	"context"
	"errors"
	"net"
	"strconv"
)

type (
	// Node is a worker process requests can be routed to.
	Node struct {
		ID   string `koanf:"id"`
		Host string `koanf:"host"`
		Port int    `koanf:"port"`
	}

	// Discovery watches the membership of a cluster and
	// selects an available Node to route to.
	Discovery interface {
		// Watch applies membership changes until ctx is done.
		Watch(ctx context.Context) error

		// Discover returns a currently available Node.
		Discover() (Node, error)
	}
)

// ErrNoNodes is returned by Discover when no Node is available.
var ErrNoNodes = errors.New("cluster: no available nodes")

// Address returns the host:port of the Node.
func (n Node) Address() string {
	return net.JoinHostPort(n.Host, strconv.Itoa(n.Port))
}

func (n Node) String() string {
	if n.ID == "" {
		return n.Address()
	}
	return n.ID + "@" + n.Address()
}
