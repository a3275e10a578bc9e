package agent

import (
	"context"

	"github.com/codetanks/codetanks/arenaserver/protocol"
	uuid "github.com/satori/go.uuid"
)

// Transport asks a remote agent for the intent of its tank for one tick.
// Implementations must give up when ctx is done.
type Transport interface {
	RequestIntent(ctx context.Context, req protocol.TickRequest) (protocol.Intent, error)
}

// AgentProxy is the server side handle of one agent.
type AgentProxy struct {
	proxyUUID uuid.UUID
	name      string
	container string
	transport Transport
}

func MakeAgentProxy(name string, container string, transport Transport) AgentProxy {
	return AgentProxy{
		proxyUUID: uuid.NewV4(),
		name:      name,
		container: container,
		transport: transport,
	}
}

func (agent AgentProxy) GetProxyUUID() uuid.UUID {
	return agent.proxyUUID
}

func (agent AgentProxy) GetName() string {
	return agent.name
}

func (agent AgentProxy) GetContainer() string {
	return agent.container
}

func (agent AgentProxy) GetTransport() Transport {
	return agent.transport
}

func (agent AgentProxy) String() string {
	return "<AgentProxy(" + agent.name + ", " + agent.GetProxyUUID().String() + ")>"
}
