// SPDX-License-Identifier: Apache-2.0

package host

import (
	"github.com/zcalusic/sysinfo"
)

// Profile is a point-in-time snapshot of the host, rendered by the doctor
// command to give support enough context to reason about a failed install.
type Profile struct {
	Hostname      string `yaml:"hostname" json:"hostname"`
	OSVendor      string `yaml:"osVendor" json:"osVendor"`
	OSVersion     string `yaml:"osVersion" json:"osVersion"`
	OSName        string `yaml:"osName" json:"osName"`
	KernelRelease string `yaml:"kernelRelease" json:"kernelRelease"`
	Architecture  string `yaml:"architecture" json:"architecture"`
	CPUCores      uint   `yaml:"cpuCores" json:"cpuCores"`
	MemoryMB      uint   `yaml:"memoryMB" json:"memoryMB"`
}

// CollectProfile gathers the host snapshot. It requires no privileges and
// never fails; absent fields are left zero.
func CollectProfile() Profile {
	var si sysinfo.SysInfo
	si.GetSysInfo()

	return Profile{
		Hostname:      si.Node.Hostname,
		OSVendor:      si.OS.Vendor,
		OSVersion:     si.OS.Version,
		OSName:        si.OS.Name,
		KernelRelease: si.Kernel.Release,
		Architecture:  si.OS.Architecture,
		CPUCores:      si.CPU.Cores,
		MemoryMB:      si.Memory.Size,
	}
}
