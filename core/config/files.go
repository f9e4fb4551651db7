package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Router describes one access router to pull live subscriber state from.
type Router struct {
	// Name keys the router in the hierarchy; node names derive from it.
	Name     string `json:"name"`
	Address  string `json:"address"`
	Username string `json:"username"`
	Password string `json:"password"`
	// Port of the REST endpoint. Defaults to 443 with SSL, 80 without.
	Port   int  `json:"port"`
	UseSSL bool `json:"use_ssl"`

	// TimeoutSeconds bounds each REST call. Default 10.
	TimeoutSeconds int `json:"timeout_seconds"`
	// Retries is the number of attempts per REST call. Default 3.
	Retries int `json:"retries"`
	// RetryDelaySeconds is the fixed delay between retries. Default 5.
	RetryDelaySeconds int `json:"retry_delay_seconds"`

	// ManualParents is the ordered pool dynamic circuits rotate across when
	// manual parent assignment is enabled.
	ManualParents []string `json:"manual_parents"`

	PPPoE   PPPoEAccess   `json:"pppoe"`
	Hotspot HotspotAccess `json:"hotspot"`
	DHCP    DHCPAccess    `json:"dhcp"`
}

// PPPoEAccess configures PPP session collection for one router.
type PPPoEAccess struct {
	Enabled bool `json:"enabled"`
	// PerPlanNode parents each circuit under PLAN-<profile>-<router>
	// instead of the shared PPP node.
	PerPlanNode bool `json:"per_plan_node"`
	// UseProfileComment reads bandwidth from the PPP profile's comment
	// field (an operator override convention) instead of its rate-limit.
	UseProfileComment bool `json:"use_profile_comment"`
}

// HotspotAccess configures hotspot session collection for one router.
type HotspotAccess struct {
	Enabled bool `json:"enabled"`
	// IncludeMAC keys hotspot circuits by MAC instead of username.
	// Defaults to true when omitted.
	IncludeMAC        *bool   `json:"include_mac"`
	DownloadLimitMbps float64 `json:"download_limit_mbps"`
	UploadLimitMbps   float64 `json:"upload_limit_mbps"`
}

// MACKeyed reports whether hotspot circuits are keyed by MAC address.
func (h HotspotAccess) MACKeyed() bool {
	return h.IncludeMAC == nil || *h.IncludeMAC
}

// DHCPAccess configures DHCP lease collection for one router.
type DHCPAccess struct {
	Enabled bool `json:"enabled"`
	// Servers filters leases by DHCP server name. Empty or "*" means all.
	Servers           []string `json:"dhcp_server"`
	DownloadLimitMbps float64  `json:"download_limit_mbps"`
	UploadLimitMbps   float64  `json:"upload_limit_mbps"`
}

// StaticDevice is one manually curated circuit. Explicit rates are optional;
// absent values fall back to the engine defaults with the usual 2 Mbps floor.
type StaticDevice struct {
	CircuitName     string  `json:"circuit_name"`
	DeviceName      string  `json:"device_name"`
	ParentNode      string  `json:"parent_node"`
	MAC             string  `json:"mac"`
	IPv4            string  `json:"ipv4"`
	IPv6            string  `json:"ipv6"`
	DownloadMaxMbps float64 `json:"download_max_mbps"`
	UploadMaxMbps   float64 `json:"upload_max_mbps"`
	DownloadMinMbps float64 `json:"download_min_mbps"`
	UploadMinMbps   float64 `json:"upload_min_mbps"`
}

type routerList struct {
	Routers []Router `json:"routers"`
}

type staticList struct {
	StaticDevices []StaticDevice `json:"static_devices"`
}

// LoadRouters reads the declarative router list. A missing or malformed file
// is a hard error: without it the cycle has nothing meaningful to do.
func LoadRouters(path string) ([]Router, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read router list: %w", err)
	}

	var list routerList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse router list: %w", err)
	}

	for i := range list.Routers {
		r := &list.Routers[i]
		if r.Name == "" || r.Address == "" {
			return nil, fmt.Errorf("router %d: name and address are required", i)
		}
		if r.Port == 0 {
			if r.UseSSL {
				r.Port = 443
			} else {
				r.Port = 80
			}
		}
		if r.TimeoutSeconds <= 0 {
			r.TimeoutSeconds = 10
		}
		if r.Retries <= 0 {
			r.Retries = 3
		}
		if r.RetryDelaySeconds <= 0 {
			r.RetryDelaySeconds = 5
		}
	}

	return list.Routers, nil
}

// LoadStaticDevices reads the static device list. A missing file simply
// means no static devices.
func LoadStaticDevices(path string) ([]StaticDevice, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read static device list: %w", err)
	}

	var list staticList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse static device list: %w", err)
	}

	for i, d := range list.StaticDevices {
		if d.CircuitName == "" {
			return nil, fmt.Errorf("static device %d: circuit_name is required", i)
		}
	}

	return list.StaticDevices, nil
}
