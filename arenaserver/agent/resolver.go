package agent

import (
	"context"
	"net"
	"strconv"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/client"
	"github.com/pkg/errors"
)

// Resolver turns a container identity into the URL its agent listens on.
type Resolver interface {
	Resolve(ctx context.Context, container string) (string, error)
}

func endpointURL(host string, port int, path string) string {
	return "http://" + net.JoinHostPort(host, strconv.Itoa(port)) + path
}

// NameResolver relies on the container network DNS: containers are addressed by name.
type NameResolver struct {
	Port int
	Path string
}

func (r NameResolver) Resolve(ctx context.Context, container string) (string, error) {
	if container == "" {
		return "", errors.New("cannot resolve an empty container name")
	}

	return endpointURL(container, r.Port, r.Path), nil
}

type containerInspector interface {
	ContainerInspect(ctx context.Context, container string) (types.ContainerJSON, error)
}

// DockerResolver inspects the container and picks its address on the match network.
type DockerResolver struct {
	cli     containerInspector
	network string
	port    int
	path    string
}

func NewDockerResolver(network string, port int, path string) (*DockerResolver, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize docker client environment")
	}

	return newDockerResolver(cli, network, port, path), nil
}

func newDockerResolver(cli containerInspector, network string, port int, path string) *DockerResolver {
	return &DockerResolver{
		cli:     cli,
		network: network,
		port:    port,
		path:    path,
	}
}

func (r *DockerResolver) Resolve(ctx context.Context, container string) (string, error) {
	info, err := r.cli.ContainerInspect(ctx, container)
	if err != nil {
		return "", errors.Wrap(err, "could not inspect container "+container)
	}

	if info.ContainerJSONBase != nil && info.State != nil && !info.State.Running {
		return "", errors.Errorf("container %s is not running", container)
	}

	if info.NetworkSettings == nil {
		return "", errors.Errorf("container %s has no network settings", container)
	}

	settings, ok := info.NetworkSettings.Networks[r.network]
	if !ok || settings == nil || settings.IPAddress == "" {
		return "", errors.Errorf("container %s is not attached to network %s", container, r.network)
	}

	return endpointURL(settings.IPAddress, r.port, r.path), nil
}
