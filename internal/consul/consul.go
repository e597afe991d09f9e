// Package consul registers the storefront with a consul agent so gateways
// can discover it. Registration is optional; the caller skips it when no
// agent address is configured.
package consul

import (
	"fmt"
	"os"

	consulapi "github.com/hashicorp/consul/api"
)

type Client struct {
	client      *consulapi.Client
	serviceName string
	servicePort int
	serviceID   string
}

func NewClient(address, serviceName string, servicePort int) (*Client, error) {
	if serviceName == "" {
		return nil, fmt.Errorf("service name is required")
	}

	config := consulapi.DefaultConfig()
	if address != "" {
		config.Address = address
	}

	client, err := consulapi.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("creating consul client: %w", err)
	}

	hostname, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("getting hostname: %w", err)
	}

	return &Client{
		client:      client,
		serviceName: serviceName,
		servicePort: servicePort,
		serviceID:   fmt.Sprintf("%s-%s", serviceName, hostname),
	}, nil
}

// RegisterService registers this instance with an HTTP health check on
// /ping.
func (c *Client) RegisterService() error {
	hostname, err := os.Hostname()
	if err != nil {
		return fmt.Errorf("getting hostname: %w", err)
	}

	registration := &consulapi.AgentServiceRegistration{
		ID:      c.serviceID,
		Name:    c.serviceName,
		Port:    c.servicePort,
		Address: hostname,
		Check: &consulapi.AgentServiceCheck{
			HTTP:                           fmt.Sprintf("http://%s:%d/ping", hostname, c.servicePort),
			Interval:                       "10s",
			Timeout:                        "3s",
			DeregisterCriticalServiceAfter: "30s",
		},
	}

	if err := c.client.Agent().ServiceRegister(registration); err != nil {
		return fmt.Errorf("registering service: %w", err)
	}
	return nil
}

// DeregisterService removes this instance from the agent; called on
// shutdown.
func (c *Client) DeregisterService() error {
	if err := c.client.Agent().ServiceDeregister(c.serviceID); err != nil {
		return fmt.Errorf("deregistering service: %w", err)
	}
	return nil
}
