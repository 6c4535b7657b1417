package graph

import (
	"context"

	"github.com/kgraph/extractor-core/internal/schema"
)

// NetworkWriter writes the Tailscale/Unifi network-topology family:
// tailnet devices, network segments, and Unifi clients.
type NetworkWriter struct {
	open      SessionFactory
	batchSize int
}

func NewNetworkWriter(open SessionFactory, batchSize int) *NetworkWriter {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &NetworkWriter{open: open, batchSize: batchSize}
}

const writeTailscaleDevicesQuery = `
UNWIND $rows AS row
MERGE (d:TailscaleDevice {device_id: row.device_id})
SET d.hostname = row.hostname,
    d.long_domain = row.long_domain,
    d.os = row.os,
    d.ipv4_address = row.ipv4_address,
    d.ipv6_address = row.ipv6_address,
    d.endpoints = row.endpoints,
    d.key_expiry = row.key_expiry,
    d.is_exit_node = row.is_exit_node,
    d.subnet_routes = row.subnet_routes,
    d.ssh_enabled = row.ssh_enabled,
    d.tailnet_dns_name = row.tailnet_dns_name,
    d.created_at = row.created_at,
    d.updated_at = row.updated_at,
    d.source_timestamp = row.source_timestamp,
    d.extraction_tier = row.extraction_tier,
    d.extraction_method = row.extraction_method,
    d.confidence = row.confidence,
    d.extractor_version = row.extractor_version
RETURN count(d) AS written_count
`

func (w *NetworkWriter) WriteTailscaleDevices(ctx context.Context, devices []schema.TailscaleDevice) (WriteResult, error) {
	return runBatches(ctx, w.open, devices, w.batchSize, writeTailscaleDevicesQuery, func(batch []schema.TailscaleDevice) []map[string]any {
		rows := make([]map[string]any, len(batch))
		for i, d := range batch {
			var keyExpiry any
			if d.KeyExpiry != nil {
				keyExpiry = d.KeyExpiry.UTC().Format(isoLayout)
			}
			rows[i] = merge(map[string]any{
				"device_id":        d.DeviceID,
				"hostname":         d.Hostname,
				"long_domain":      d.LongDomain,
				"os":               d.OS,
				"ipv4_address":     d.IPv4Address,
				"ipv6_address":     d.IPv6Address,
				"endpoints":        d.Endpoints,
				"key_expiry":       keyExpiry,
				"is_exit_node":     d.IsExitNode,
				"subnet_routes":    d.SubnetRoutes,
				"ssh_enabled":      d.SSHEnabled,
				"tailnet_dns_name": d.TailnetDNSName,
			}, temporalParams(d.Temporal), provenanceParams(d.Provenance))
		}
		return rows
	})
}

const writeTailscaleNetworksQuery = `
UNWIND $rows AS row
MERGE (n:TailscaleNetwork {network_id: row.network_id})
SET n.name = row.name,
    n.cidr = row.cidr,
    n.global_nameservers = row.global_nameservers,
    n.search_domains = row.search_domains,
    n.created_at = row.created_at,
    n.updated_at = row.updated_at,
    n.source_timestamp = row.source_timestamp,
    n.extraction_tier = row.extraction_tier,
    n.extraction_method = row.extraction_method,
    n.confidence = row.confidence,
    n.extractor_version = row.extractor_version
RETURN count(n) AS written_count
`

func (w *NetworkWriter) WriteTailscaleNetworks(ctx context.Context, networks []schema.TailscaleNetwork) (WriteResult, error) {
	return runBatches(ctx, w.open, networks, w.batchSize, writeTailscaleNetworksQuery, func(batch []schema.TailscaleNetwork) []map[string]any {
		rows := make([]map[string]any, len(batch))
		for i, n := range batch {
			rows[i] = merge(map[string]any{
				"network_id":          n.NetworkID,
				"name":                n.Name,
				"cidr":                n.CIDR,
				"global_nameservers":  n.GlobalNameservers,
				"search_domains":      n.SearchDomains,
			}, temporalParams(n.Temporal), provenanceParams(n.Provenance))
		}
		return rows
	})
}

const writeUnifiDevicesQuery = `
UNWIND $rows AS row
MERGE (d:UnifiDevice {mac: row.mac})
SET d.name = row.name,
    d.model = row.model,
    d.ip_address = row.ip_address,
    d.adopted = row.adopted,
    d.created_at = row.created_at,
    d.updated_at = row.updated_at,
    d.source_timestamp = row.source_timestamp,
    d.extraction_tier = row.extraction_tier,
    d.extraction_method = row.extraction_method,
    d.confidence = row.confidence,
    d.extractor_version = row.extractor_version
RETURN count(d) AS written_count
`

func (w *NetworkWriter) WriteUnifiDevices(ctx context.Context, devices []schema.UnifiDevice) (WriteResult, error) {
	return runBatches(ctx, w.open, devices, w.batchSize, writeUnifiDevicesQuery, func(batch []schema.UnifiDevice) []map[string]any {
		rows := make([]map[string]any, len(batch))
		for i, d := range batch {
			rows[i] = merge(map[string]any{
				"mac":        d.MAC,
				"name":       d.Name,
				"model":      d.Model,
				"ip_address": d.IPAddress,
				"adopted":    d.Adopted,
			}, temporalParams(d.Temporal), provenanceParams(d.Provenance))
		}
		return rows
	})
}

const writeUnifiClientsQuery = `
UNWIND $rows AS row
MERGE (c:UnifiClient {mac: row.mac})
SET c.hostname = row.hostname,
    c.ip_address = row.ip_address,
    c.network = row.network,
    c.created_at = row.created_at,
    c.updated_at = row.updated_at,
    c.source_timestamp = row.source_timestamp,
    c.extraction_tier = row.extraction_tier,
    c.extraction_method = row.extraction_method,
    c.confidence = row.confidence,
    c.extractor_version = row.extractor_version
RETURN count(c) AS written_count
`

func (w *NetworkWriter) WriteUnifiClients(ctx context.Context, clients []schema.UnifiClient) (WriteResult, error) {
	return runBatches(ctx, w.open, clients, w.batchSize, writeUnifiClientsQuery, func(batch []schema.UnifiClient) []map[string]any {
		rows := make([]map[string]any, len(batch))
		for i, c := range batch {
			rows[i] = merge(map[string]any{
				"mac":        c.MAC,
				"hostname":   c.Hostname,
				"ip_address": c.IPAddress,
				"network":    c.Network,
			}, temporalParams(c.Temporal), provenanceParams(c.Provenance))
		}
		return rows
	})
}

// ClientOnNetwork is the edge between a UnifiClient and the
// TailscaleNetwork segment it was observed on.
type ClientOnNetwork struct {
	MAC       string
	NetworkID string
	schema.Temporal
	schema.Provenance
}

const writeClientOnNetworkQuery = `
UNWIND $rows AS row
OPTIONAL MATCH (c:UnifiClient {mac: row.mac})
OPTIONAL MATCH (n:TailscaleNetwork {network_id: row.network_id})
WITH row, c, n
WHERE c IS NOT NULL AND n IS NOT NULL
MERGE (c)-[r:ON_NETWORK]->(n)
SET r.created_at = row.created_at,
    r.updated_at = row.updated_at,
    r.source_timestamp = row.source_timestamp,
    r.extraction_tier = row.extraction_tier,
    r.extraction_method = row.extraction_method,
    r.confidence = row.confidence,
    r.extractor_version = row.extractor_version
RETURN count(r) AS written_count
`

func (w *NetworkWriter) WriteClientOnNetworkRelationships(ctx context.Context, edges []ClientOnNetwork) (WriteResult, error) {
	return runBatches(ctx, w.open, edges, w.batchSize, writeClientOnNetworkQuery, func(batch []ClientOnNetwork) []map[string]any {
		rows := make([]map[string]any, len(batch))
		for i, e := range batch {
			rows[i] = merge(map[string]any{
				"mac":        e.MAC,
				"network_id": e.NetworkID,
			}, temporalParams(e.Temporal), provenanceParams(e.Provenance))
		}
		return rows
	})
}
