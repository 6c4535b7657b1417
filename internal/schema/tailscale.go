package schema

import "time"

// TailscaleDevice is a node in a tailnet, grounded on
// original_source/packages/schemas/tailscale/tailscale_device.py. Keyed
// by device_id.
type TailscaleDevice struct {
	DeviceID       string     `json:"device_id" validate:"required"`
	Hostname       string     `json:"hostname" validate:"required"`
	LongDomain     *string    `json:"long_domain,omitempty"`
	OS             string     `json:"os" validate:"required"`
	IPv4Address    *string    `json:"ipv4_address,omitempty" validate:"omitempty,ip4_addr"`
	IPv6Address    *string    `json:"ipv6_address,omitempty" validate:"omitempty,ip6_addr"`
	Endpoints      []string   `json:"endpoints,omitempty"`
	KeyExpiry      *time.Time `json:"key_expiry,omitempty"`
	IsExitNode     *bool      `json:"is_exit_node,omitempty"`
	SubnetRoutes   []string   `json:"subnet_routes,omitempty"`
	SSHEnabled     *bool      `json:"ssh_enabled,omitempty"`
	TailnetDNSName *string    `json:"tailnet_dns_name,omitempty"`

	Temporal
	Provenance
}

// TailscaleNetwork is a network segment within a tailnet, keyed by
// network_id.
type TailscaleNetwork struct {
	NetworkID          string   `json:"network_id" validate:"required"`
	Name               string   `json:"name" validate:"required"`
	CIDR               string   `json:"cidr" validate:"required,cidr"`
	GlobalNameservers  []string `json:"global_nameservers,omitempty"`
	SearchDomains      []string `json:"search_domains,omitempty"`

	Temporal
	Provenance
}

// UnifiDevice is Unifi network infrastructure (switch, AP, gateway),
// keyed by its MAC address, per §3's "Network | UnifiDevice / UnifiClient
// | mac" row.
type UnifiDevice struct {
	MAC       string  `json:"mac" validate:"required,mac_address"`
	Name      *string `json:"name,omitempty"`
	Model     *string `json:"model,omitempty"`
	IPAddress *string `json:"ip_address,omitempty"`
	Adopted   *bool   `json:"adopted,omitempty"`

	Temporal
	Provenance
}

// UnifiClient is a Unifi network client, keyed by its MAC address. Only
// the device/client pair with a MAC natural key is implemented here; the
// remaining Unifi firewall/traffic-rule types are deferred (see
// DESIGN.md).
type UnifiClient struct {
	MAC       string  `json:"mac" validate:"required,mac_address"`
	Hostname  *string `json:"hostname,omitempty"`
	IPAddress *string `json:"ip_address,omitempty"`
	Network   *string `json:"network,omitempty"`

	Temporal
	Provenance
}
