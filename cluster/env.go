package cluster

import (
	"fmt"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/env"
	koanfp "github.com/miruken-go/dispatch/config/koanf"
)

// EnvNodes reads the nodes declared by environment variables
//   <prefix>__NODES__<index>__ID
//   <prefix>__NODES__<index>__HOST
//   <prefix>__NODES__<index>__PORT
func EnvNodes(prefix string) ([]Node, error) {
	k := koanf.New(".")
	if err := k.Load(env.Provider(prefix, "__", nil), nil,
		koanf.WithMergeFunc(koanfp.Merge)); err != nil {
		return nil, fmt.Errorf("cluster: env %s: %w", prefix, err)
	}
	var nodes []Node
	if err := k.Unmarshal(prefix+".NODES", &nodes); err != nil {
		return nil, fmt.Errorf("cluster: env %s: %w", prefix, err)
	}
	return nodes, nil
}
